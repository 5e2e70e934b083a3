// Package constants defines parameter-set sizes and benchmark defaults for the
// pqcbench measurement harness.
//
// The KEM sizes below are the ML-KEM (Kyber) values from NIST FIPS 203. The
// simulation-mode backend fabricates byte strings of exactly these nominal
// sizes so that size metrics stay comparable when the real backend is not
// selected.
package constants

import "time"

// ML-KEM-512 parameters (NIST Category 1, ~AES-128 against quantum adversaries)
const (
	Kyber512PublicKeySize  = 800
	Kyber512SecretKeySize  = 1632
	Kyber512CiphertextSize = 768
)

// ML-KEM-768 parameters (NIST Category 3, ~AES-192 against quantum adversaries)
const (
	Kyber768PublicKeySize  = 1184
	Kyber768SecretKeySize  = 2400
	Kyber768CiphertextSize = 1088
)

// ML-KEM-1024 parameters (NIST Category 5, ~AES-256 against quantum adversaries)
const (
	Kyber1024PublicKeySize  = 1568
	Kyber1024SecretKeySize  = 3168
	Kyber1024CiphertextSize = 1568
)

// SharedSecretSize is the size of the KEM shared secret in bytes, identical
// across all ML-KEM parameter sets.
const SharedSecretSize = 32

// Dataset size classes in bytes.
const (
	DatasetSmallSize  = 1 * 1024
	DatasetMediumSize = 10 * 1024
	DatasetLargeSize  = 100 * 1024
)

// Compression levels matching the reference benchmark configuration.
const (
	// ZlibLevel is the DEFLATE effort level used by the zlib codec.
	ZlibLevel = 9

	// ZstdLevel is the Zstandard effort level used by the zstd codec.
	ZstdLevel = 3
)

// Benchmark execution defaults.
const (
	// DefaultScenarioTimeout bounds a single scenario end-to-end. A backend
	// call that hangs past this marks the scenario failed; the matrix
	// continues.
	DefaultScenarioTimeout = 30 * time.Second

	// DefaultSeed is the dataset-generation seed used when none is supplied,
	// keeping repeated runs diffable.
	DefaultSeed = 42

	// DefaultWorkers is the number of concurrent scenario workers. Scenarios
	// are independent, so sequential execution is the conservative default.
	DefaultWorkers = 1
)

// Output file names written by the reporter.
const (
	JSONOutputName  = "benchmark_results.json"
	LaTeXOutputName = "benchmark_results.tex"
)

// SecurityLevel is the NIST security category of a KEM parameter set.
type SecurityLevel int

const (
	// SecurityLevel1 corresponds to ML-KEM-512.
	SecurityLevel1 SecurityLevel = 1

	// SecurityLevel3 corresponds to ML-KEM-768.
	SecurityLevel3 SecurityLevel = 3

	// SecurityLevel5 corresponds to ML-KEM-1024.
	SecurityLevel5 SecurityLevel = 5
)

// String returns a human-readable name for the security level.
func (l SecurityLevel) String() string {
	switch l {
	case SecurityLevel1:
		return "NIST-1"
	case SecurityLevel3:
		return "NIST-3"
	case SecurityLevel5:
		return "NIST-5"
	default:
		return "Unknown"
	}
}

// IsSupported returns true if the security level maps to a registered
// ML-KEM parameter set.
func (l SecurityLevel) IsSupported() bool {
	return l == SecurityLevel1 || l == SecurityLevel3 || l == SecurityLevel5
}
