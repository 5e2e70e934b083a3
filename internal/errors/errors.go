// Package errors defines the error taxonomy for the pqcbench harness.
//
// The harness distinguishes errors that are fatal to a single scenario from
// errors that change how a backend is resolved. No error in this package ever
// aborts the benchmark matrix: the measurement engine converts every failure
// into a failed-with-reason result record.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for KEM adapter operations
var (
	// ErrUnsupportedParameterSet indicates the requested KEM security level
	// is not registered. The scenario is skipped and recorded as failed.
	ErrUnsupportedParameterSet = errors.New("kem: unsupported parameter set")

	// ErrBackendUnavailable indicates the real KEM backend could not be
	// loaded. The adapter falls back to simulation mode and records it.
	ErrBackendUnavailable = errors.New("kem: backend unavailable")

	// ErrDecapsulationMismatch indicates decapsulation produced a shared
	// secret that does not match encapsulation. ML-KEM has a negligible but
	// nonzero failure bound, so this is recorded, never treated as a crash.
	ErrDecapsulationMismatch = errors.New("kem: decapsulated secret mismatch")

	// ErrInvalidPublicKey indicates a public key is nil or malformed.
	ErrInvalidPublicKey = errors.New("kem: invalid public key")

	// ErrInvalidCiphertext indicates ciphertext has an unexpected size.
	ErrInvalidCiphertext = errors.New("kem: invalid ciphertext")
)

// Sentinel errors for scenario execution
var (
	// ErrIntegrity indicates the round-trip output did not match the
	// original dataset bytes. This flags a correctness bug, not a
	// performance data point, and is surfaced prominently in the report.
	ErrIntegrity = errors.New("engine: round-trip integrity check failed")

	// ErrTimeout indicates a scenario exceeded its per-scenario deadline.
	ErrTimeout = errors.New("engine: scenario timed out")
)

// Sentinel errors for reporting
var (
	// ErrNoOutput indicates no output file could be produced at all. This is
	// the only condition that makes the benchmark command exit non-zero.
	ErrNoOutput = errors.New("report: no output file produced")
)

// CodecError wraps a compression backend failure with the codec name and the
// operation that failed. Fatal to the scenario, not the run.
type CodecError struct {
	Codec string // Codec identifier (e.g. "zlib")
	Op    string // "compress" or "decompress"
	Err   error  // Underlying backend error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("codec %s: %s: %v", e.Codec, e.Op, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// NewCodecError creates a new CodecError.
func NewCodecError(codec, op string, err error) *CodecError {
	return &CodecError{Codec: codec, Op: op, Err: err}
}

// ScenarioError records which pipeline stage a scenario failed in.
type ScenarioError struct {
	Stage string // Stage name (e.g. "Compressing")
	Err   error  // Underlying error
}

func (e *ScenarioError) Error() string {
	return fmt.Sprintf("scenario failed in %s: %v", e.Stage, e.Err)
}

func (e *ScenarioError) Unwrap() error {
	return e.Err
}

// NewScenarioError creates a new ScenarioError.
func NewScenarioError(stage string, err error) *ScenarioError {
	return &ScenarioError{Stage: stage, Err: err}
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
