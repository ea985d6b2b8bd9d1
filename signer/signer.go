// Package signer abstracts secp256k1 ECDSA signing behind a small interface
// so that the fixed-width engine and the btcec reference can be swapped.
//
// Public keys are 32-byte x coordinates. Secret keys are negated on load where
// needed so the public point always has even Y, which lets ECDH and
// verification work from the x coordinate alone. Signatures are 64-byte
// r || s over a 32-byte digest, deterministic (RFC 6979) and low-S.
package signer

import (
	"github.com/pkg/errors"
)

// I is a signing key, or a verification-only key after InitPub.
type I interface {
	// Generate creates a fresh key pair from system entropy.
	Generate() error
	// InitSec loads a 32-byte secret and derives the public key.
	InitSec(sec []byte) error
	// InitPub loads a 32-byte x-only public key.
	InitPub(pub []byte) error
	// Sec returns the secret key, nil without one.
	Sec() []byte
	// Pub returns the x-only public key.
	Pub() []byte
	// Sign signs a 32-byte digest.
	Sign(msg []byte) (sig []byte, err error)
	// Verify checks a signature over a 32-byte digest.
	Verify(msg, sig []byte) (valid bool, err error)
	// Zero wipes the secret.
	Zero()
	// ECDH returns the x coordinate of sec*pub.
	ECDH(pub []byte) (secret []byte, err error)
}

// Gen grinds key pairs, e.g. for vanity prefixes.
type Gen interface {
	// Generate returns the 33-byte compressed public key of a fresh pair.
	Generate() (pubBytes []byte, err error)
	// Negate flips the parity of the public key.
	Negate()
	// KeyPairBytes returns the secret and the x-only public key.
	KeyPairBytes() (secBytes, cmprPubBytes []byte)
}

var (
	ErrNoSecret    = errors.New("signer: no secret key available")
	ErrNoPublic    = errors.New("signer: no public key available")
	ErrSecretSize  = errors.New("signer: secret key must be 32 bytes")
	ErrPublicSize  = errors.New("signer: public key must be 32 bytes")
	ErrMessageSize = errors.New("signer: message must be 32 bytes")
	ErrSigSize     = errors.New("signer: signature must be 64 bytes")
)
