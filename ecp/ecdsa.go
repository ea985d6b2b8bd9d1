package ecp

import (
	"crypto/rand"
	"io"

	"github.com/pkg/errors"

	"bignum.mleku.dev"
	"bignum.mleku.dev/internal/ecsig"
)

var (
	// ErrInvalidPublicKey is returned for points that are off the curve or
	// at infinity.
	ErrInvalidPublicKey = errors.New("ecp: invalid public key")
	// ErrInvalidSignature is returned when a signature does not verify.
	ErrInvalidSignature = ecsig.ErrInvalidSignature
	// ErrInvalidScalar is returned for private scalars outside [1, N-1].
	ErrInvalidScalar = errors.New("ecp: private scalar out of range")
)

// PublicKey is Q = d*G on Curve.
type PublicKey struct {
	Curve *Curve
	Point
}

// PrivateKey holds the scalar D.
type PrivateKey struct {
	PublicKey
	D bignum.Int
}

// Engine carries the arithmetic strategy, randomness and hash selection.
// The zero value uses the default strategy, crypto/rand and SHA-256.
type Engine struct {
	Arith bignum.Arith
	Rand  io.Reader
	// Deterministic selects RFC 6979 nonces for signing.
	Deterministic bool
	Hash          bignum.HashAlgorithm
}

func (e Engine) rand() io.Reader {
	if e.Rand == nil {
		return rand.Reader
	}
	return e.Rand
}

func (e Engine) signer() ecsig.Signer {
	return ecsig.Signer{Arith: e.Arith, Rand: e.rand(), Deterministic: e.Deterministic}
}

// GenerateKey picks D uniformly in [1, N-1].
func (e Engine) GenerateKey(c *Curve) (*PrivateKey, error) {
	d, err := bignum.RandomBelow(e.rand(), &c.N)
	if err != nil {
		return nil, err
	}
	return e.NewPrivateKey(c, &d)
}

// NewPrivateKey derives the public point for d.
func (e Engine) NewPrivateKey(c *Curve, d *bignum.Int) (*PrivateKey, error) {
	if d.IsZero() || d.Cmp(&c.N) >= 0 {
		return nil, ErrInvalidScalar
	}
	g, err := c.Bind(e.Arith)
	if err != nil {
		return nil, err
	}
	q, err := g.ScalarBaseMult(d)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{PublicKey: PublicKey{Curve: c, Point: q}, D: *d}, nil
}

// Validate checks that the public point is finite and on the curve. With
// cofactor 1 every such point has order N.
func (pub *PublicKey) Validate() error {
	if pub.Curve == nil || pub.Inf || !pub.Curve.IsOnCurve(&pub.Point) {
		return ErrInvalidPublicKey
	}
	return nil
}

// ECDH returns the x coordinate of d*peer at the field byte length.
func (e Engine) ECDH(priv *PrivateKey, peer *PublicKey) ([]byte, error) {
	if peer.Curve != priv.Curve {
		return nil, errors.New("ecp: curve mismatch")
	}
	if err := peer.Validate(); err != nil {
		return nil, err
	}
	g, err := priv.Curve.Bind(e.Arith)
	if err != nil {
		return nil, err
	}
	s, err := g.ScalarMult(&peer.Point, &priv.D)
	if err != nil {
		return nil, err
	}
	if s.Inf {
		return nil, ecsig.ErrInfinity
	}
	out := make([]byte, priv.Curve.ByteLen())
	if err = s.X.FillBytes(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Sign hashes msg and signs the digest.
func (e Engine) Sign(priv *PrivateKey, msg []byte) (r, s bignum.Int, err error) {
	return e.SignDigest(priv, bignum.Digest(e.Hash, msg))
}

// SignDigest signs a precomputed digest.
func (e Engine) SignDigest(priv *PrivateKey, digest []byte) (r, s bignum.Int, err error) {
	g, err := priv.Curve.Bind(e.Arith)
	if err != nil {
		return
	}
	return ecsig.Sign[Point](g, e.signer(), &priv.D, digest)
}

// Verify checks a signature over msg.
func (e Engine) Verify(pub *PublicKey, msg []byte, r, s *bignum.Int) error {
	return e.VerifyDigest(pub, bignum.Digest(e.Hash, msg), r, s)
}

// VerifyDigest checks a signature over a precomputed digest.
func (e Engine) VerifyDigest(pub *PublicKey, digest []byte, r, s *bignum.Int) error {
	if err := pub.Validate(); err != nil {
		return err
	}
	g, err := pub.Curve.Bind(e.Arith)
	if err != nil {
		return err
	}
	return ecsig.Verify[Point](g, e.Arith, &pub.Point, digest, r, s)
}

// NormalizeS replaces s by N - s when s > N/2, giving the low-S form.
// It reports whether s changed.
func (c *Curve) NormalizeS(s *bignum.Int) bool {
	var half bignum.Int
	half.Rsh(&c.N, 1)
	if s.Cmp(&half) <= 0 {
		return false
	}
	s.Sub(&c.N, s)
	return true
}
