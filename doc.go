// Package pqcbench measures the combined cost of post-quantum key
// encapsulation (ML-KEM / Kyber, NIST FIPS 203) and payload compression for
// bandwidth-constrained IoT links.
//
// A benchmark run executes a matrix of scenarios. Each scenario pairs one
// dataset with one compression codec and one KEM parameter set, then drives
// the full sender/receiver pipeline: compress the payload, encapsulate a
// shared secret against a pre-generated key pair, assemble the transmitted
// frame, decapsulate, decompress, and verify the round trip. The headline
// metric charges the sender's cost only (compression plus encapsulation);
// the reverse path exists to prove correctness.
//
// # Quick Start
//
// Run the full matrix and write JSON and LaTeX reports:
//
//	pqcbench run --out results/
//
// Run the reduced smoke-test matrix with simulated cryptography:
//
//	pqcbench run --mode quick --simulate
//
// # Package Structure
//
//   - pkg/dataset: Deterministic benchmark payload generation
//   - pkg/codec: Compression codecs (zlib, lz4, zstd)
//   - pkg/kem: ML-KEM parameter-set profiles with a simulation fallback
//   - pkg/matrix: Scenario cross-product and canonical ordering
//   - pkg/engine: Scenario execution with failure isolation and timeouts
//   - pkg/report: Result aggregation, JSON/LaTeX/console output
//   - pkg/metrics: Structured logging, tracing and run counters
//   - internal/constants: Parameter-set sizes and run defaults
//   - internal/errors: Sentinel errors and stage-tagged wrappers
//   - internal/appconfig: Configuration loading and validation
//   - internal/cli: Command tree for the pqcbench binary
//
// Real cryptography uses Cloudflare's CIRCL implementation of ML-KEM. When a
// parameter set's backend is unavailable, or simulation is forced, the
// harness fabricates deterministic byte strings at the nominal FIPS 203
// sizes so size accounting stays exact while timings are explicitly marked
// non-representative.
package pqcbench
