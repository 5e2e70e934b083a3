// Package kem provides a uniform adapter over ML-KEM (Kyber) parameter sets.
//
// Each profile is either backed by the real ML-KEM implementation from
// CIRCL (NIST FIPS 203) or by a simulation mode that fabricates byte strings
// of the nominal public-key and ciphertext sizes. Simulation mode measures
// only overhead injection, not real security; the mode tag travels with every
// result record so real and simulated numbers are never silently mixed.
//
// The variant is resolved once when the profile is built, never re-checked
// per call.
package kem

import (
	circlkem "github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/mlkem/mlkem1024"
	"github.com/cloudflare/circl/kem/mlkem/mlkem512"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
	"golang.org/x/crypto/sha3"

	"github.com/iotsec-lab/pqcbench/internal/constants"
	qerrors "github.com/iotsec-lab/pqcbench/internal/errors"
)

// Mode identifies how a profile's operations are backed.
type Mode int

const (
	// ModeReal uses the CIRCL ML-KEM implementation.
	ModeReal Mode = iota

	// ModeSimulated fabricates deterministic byte strings of the nominal
	// sizes. Timing and size shape only; no cryptographic guarantees.
	ModeSimulated
)

// String returns the mode name as recorded on result records.
func (m Mode) String() string {
	if m == ModeSimulated {
		return "simulated"
	}
	return "real"
}

// Profile is a KEM parameter set resolved to a concrete backend.
type Profile struct {
	name   string
	level  constants.SecurityLevel
	mode   Mode
	scheme circlkem.Scheme // nil when simulated

	pkSize int
	skSize int
	ctSize int
}

// Name returns the profile identifier (e.g. "Kyber768").
func (p *Profile) Name() string { return p.name }

// Level returns the NIST security category.
func (p *Profile) Level() constants.SecurityLevel { return p.level }

// Mode returns the backend mode.
func (p *Profile) Mode() Mode { return p.mode }

// Simulated reports whether the profile runs in simulation mode.
func (p *Profile) Simulated() bool { return p.mode == ModeSimulated }

// PublicKeySize returns the nominal encapsulation-key size in bytes.
func (p *Profile) PublicKeySize() int { return p.pkSize }

// CiphertextSize returns the nominal ciphertext size in bytes. This is the
// per-message overhead the benchmark charges to the KEM.
func (p *Profile) CiphertextSize() int { return p.ctSize }

// SecretKeySize returns the nominal decapsulation-key size in bytes.
func (p *Profile) SecretKeySize() int { return p.skSize }

// PublicKey wraps an encapsulation key for either backend.
type PublicKey struct {
	key   circlkem.PublicKey // nil when simulated
	bytes []byte
}

// Bytes returns the encoded key bytes.
func (pk *PublicKey) Bytes() []byte { return pk.bytes }

// SecretKey wraps a decapsulation key for either backend.
type SecretKey struct {
	key circlkem.PrivateKey // nil when simulated
}

// KeyPair holds the keys for one profile. Generated once per profile and
// shared read-only across all scenarios using that profile.
type KeyPair struct {
	Public *PublicKey
	Secret *SecretKey
}

// GenerateKeyPair generates a key pair for the profile.
//
// In simulation mode the key material is derived deterministically from the
// profile name, so repeated simulated runs produce identical sizes and
// ciphertext bytes.
func (p *Profile) GenerateKeyPair() (*KeyPair, error) {
	if p.mode == ModeSimulated {
		return &KeyPair{
			Public: &PublicKey{bytes: shakeBytes(p.pkSize, p.name, "public-key")},
			Secret: &SecretKey{},
		}, nil
	}

	pk, sk, err := p.scheme.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	pkBytes, err := pk.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return &KeyPair{
		Public: &PublicKey{key: pk, bytes: pkBytes},
		Secret: &SecretKey{key: sk},
	}, nil
}

// Encapsulate produces a ciphertext and shared secret against the given
// public key.
//
// Simulation mode derives the ciphertext from the public key and the shared
// secret from the ciphertext, so Decapsulate can reproduce the secret from
// the ciphertext alone.
func (p *Profile) Encapsulate(pk *PublicKey) (ciphertext, sharedSecret []byte, err error) {
	if pk == nil || pk.bytes == nil {
		return nil, nil, qerrors.ErrInvalidPublicKey
	}

	if p.mode == ModeSimulated {
		ct := shakeBytes(p.ctSize, p.name, "ciphertext", string(pk.bytes))
		ss := shakeBytes(constants.SharedSecretSize, p.name, "shared-secret", string(ct))
		return ct, ss, nil
	}

	if pk.key == nil {
		return nil, nil, qerrors.ErrInvalidPublicKey
	}
	return p.scheme.Encapsulate(pk.key)
}

// Decapsulate recovers the shared secret from a ciphertext.
func (p *Profile) Decapsulate(sk *SecretKey, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) != p.ctSize {
		return nil, qerrors.ErrInvalidCiphertext
	}

	if p.mode == ModeSimulated {
		return shakeBytes(constants.SharedSecretSize, p.name, "shared-secret", string(ciphertext)), nil
	}

	if sk == nil || sk.key == nil {
		return nil, qerrors.ErrBackendUnavailable
	}
	return p.scheme.Decapsulate(sk.key, ciphertext)
}

// shakeBytes expands the domain-separated inputs to n bytes with SHAKE-256.
func shakeBytes(n int, domains ...string) []byte {
	h := sha3.NewShake256()
	for _, d := range domains {
		h.Write([]byte(d))
		h.Write([]byte{0})
	}
	out := make([]byte, n)
	h.Read(out)
	return out
}

// schemeFor resolves a security level to the CIRCL scheme. Declared as a
// variable so tests can force the backend-unavailable fallback path.
var schemeFor = func(level constants.SecurityLevel) (circlkem.Scheme, error) {
	switch level {
	case constants.SecurityLevel1:
		return mlkem512.Scheme(), nil
	case constants.SecurityLevel3:
		return mlkem768.Scheme(), nil
	case constants.SecurityLevel5:
		return mlkem1024.Scheme(), nil
	default:
		return nil, qerrors.ErrUnsupportedParameterSet
	}
}

// nominalSizes returns the FIPS 203 sizes for a level.
func nominalSizes(level constants.SecurityLevel) (name string, pk, sk, ct int, err error) {
	switch level {
	case constants.SecurityLevel1:
		return "Kyber512", constants.Kyber512PublicKeySize, constants.Kyber512SecretKeySize, constants.Kyber512CiphertextSize, nil
	case constants.SecurityLevel3:
		return "Kyber768", constants.Kyber768PublicKeySize, constants.Kyber768SecretKeySize, constants.Kyber768CiphertextSize, nil
	case constants.SecurityLevel5:
		return "Kyber1024", constants.Kyber1024PublicKeySize, constants.Kyber1024SecretKeySize, constants.Kyber1024CiphertextSize, nil
	default:
		return "", 0, 0, 0, qerrors.ErrUnsupportedParameterSet
	}
}

// Resolve builds the profile for a security level.
//
// When forceSimulation is true, or the real backend cannot be loaded, the
// profile runs in simulation mode. The backend-unavailable fallback is
// reported to the caller through the returned fallback flag so it can be
// logged once per profile and recorded in the report.
func Resolve(level constants.SecurityLevel, forceSimulation bool) (profile *Profile, fellBack bool, err error) {
	name, pkSize, skSize, ctSize, err := nominalSizes(level)
	if err != nil {
		return nil, false, err
	}

	p := &Profile{
		name:   name,
		level:  level,
		pkSize: pkSize,
		skSize: skSize,
		ctSize: ctSize,
	}

	if forceSimulation {
		p.mode = ModeSimulated
		return p, false, nil
	}

	scheme, err := schemeFor(level)
	if err != nil {
		p.mode = ModeSimulated
		return p, true, nil
	}

	p.mode = ModeReal
	p.scheme = scheme
	return p, false, nil
}

// DefaultLevels is the canonical ordered set of benchmarked security levels.
var DefaultLevels = []constants.SecurityLevel{
	constants.SecurityLevel1,
	constants.SecurityLevel3,
	constants.SecurityLevel5,
}

// DefaultProfiles resolves all default levels in order.
func DefaultProfiles(forceSimulation bool) (profiles []*Profile, fallbacks []string, err error) {
	for _, level := range DefaultLevels {
		p, fellBack, err := Resolve(level, forceSimulation)
		if err != nil {
			return nil, nil, err
		}
		if fellBack {
			fallbacks = append(fallbacks, p.Name())
		}
		profiles = append(profiles, p)
	}
	return profiles, fallbacks, nil
}

// ProfileByName resolves a profile by its identifier.
func ProfileByName(name string, forceSimulation bool) (*Profile, error) {
	var level constants.SecurityLevel
	switch name {
	case "Kyber512":
		level = constants.SecurityLevel1
	case "Kyber768":
		level = constants.SecurityLevel3
	case "Kyber1024":
		level = constants.SecurityLevel5
	default:
		return nil, qerrors.ErrUnsupportedParameterSet
	}
	p, _, err := Resolve(level, forceSimulation)
	return p, err
}
