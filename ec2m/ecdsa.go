package ec2m

import (
	"crypto/rand"
	"io"

	"github.com/pkg/errors"

	"bignum.mleku.dev"
	"bignum.mleku.dev/internal/ecsig"
)

var (
	// ErrInvalidPublicKey is returned for points off the curve, the point at
	// infinity, or points outside the order-N subgroup.
	ErrInvalidPublicKey = errors.New("ec2m: invalid public key")
	// ErrInvalidSignature is returned when a signature does not verify.
	ErrInvalidSignature = ecsig.ErrInvalidSignature
)

// PublicKey is Q = d*G on Curve.
type PublicKey struct {
	Curve *Curve
	Point
}

// PrivateKey holds the scalar D in [1, N-1].
type PrivateKey struct {
	PublicKey
	D bignum.Int
}

// Engine carries the scalar arithmetic, randomness and hash selection for
// key generation, ECDH and ECDSA.
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
	return NewPrivateKey(c, &d)
}

// NewPrivateKey derives the public point for d, which must be in [1, N-1].
func NewPrivateKey(c *Curve, d *bignum.Int) (*PrivateKey, error) {
	if d.IsZero() || d.Cmp(&c.N) >= 0 {
		return nil, errors.New("ec2m: private scalar out of range")
	}
	q, err := c.ScalarBaseMult(d)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{PublicKey: PublicKey{Curve: c, Point: q}, D: *d}, nil
}

// Validate checks that the public point is finite, on the curve and of
// order N.
func (pub *PublicKey) Validate() error {
	c := pub.Curve
	if pub.Inf || !c.IsOnCurve(&pub.Point) {
		return ErrInvalidPublicKey
	}
	nq, err := c.ScalarMult(&pub.Point, &c.N)
	if err != nil {
		return err
	}
	if !nq.Inf {
		return ErrInvalidPublicKey
	}
	return nil
}

// ECDH returns the x coordinate of d*peer, encoded to the field byte length.
func (e Engine) ECDH(priv *PrivateKey, peer *PublicKey) ([]byte, error) {
	if peer.Curve != priv.Curve {
		return nil, errors.New("ec2m: curve mismatch")
	}
	if err := peer.Validate(); err != nil {
		return nil, err
	}
	s, err := priv.Curve.ScalarMult(&peer.Point, &priv.D)
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

// Sign hashes msg with the engine's hash and signs the digest.
func (e Engine) Sign(priv *PrivateKey, msg []byte) (r, s bignum.Int, err error) {
	return e.SignDigest(priv, bignum.Digest(e.Hash, msg))
}

// SignDigest signs a precomputed digest.
func (e Engine) SignDigest(priv *PrivateKey, digest []byte) (r, s bignum.Int, err error) {
	return ecsig.Sign[Point](priv.Curve, e.signer(), &priv.D, digest)
}

// Verify checks a signature over msg.
func (e Engine) Verify(pub *PublicKey, msg []byte, r, s *bignum.Int) error {
	return e.VerifyDigest(pub, bignum.Digest(e.Hash, msg), r, s)
}

// VerifyDigest checks a signature over a precomputed digest.
func (e Engine) VerifyDigest(pub *PublicKey, digest []byte, r, s *bignum.Int) error {
	if pub.Inf || !pub.Curve.IsOnCurve(&pub.Point) {
		return ErrInvalidPublicKey
	}
	return ecsig.Verify[Point](pub.Curve, e.Arith, &pub.Point, digest, r, s)
}

// Marshal encodes p in SEC 1 uncompressed form 04 || X || Y.
func (c *Curve) Marshal(p *Point) ([]byte, error) {
	if p.Inf {
		return nil, ecsig.ErrInfinity
	}
	n := c.ByteLen()
	out := make([]byte, 1+2*n)
	out[0] = 4
	if err := p.X.FillBytes(out[1 : 1+n]); err != nil {
		return nil, err
	}
	if err := p.Y.FillBytes(out[1+n:]); err != nil {
		return nil, err
	}
	return out, nil
}

// Unmarshal decodes an uncompressed point and checks it lies on the curve.
func (c *Curve) Unmarshal(b []byte) (Point, error) {
	var p Point
	n := c.ByteLen()
	if len(b) != 1+2*n || b[0] != 4 {
		return p, errors.Wrap(bignum.ErrInvalidEncoding, "ec2m: point encoding")
	}
	_ = p.X.SetBytes(b[1 : 1+n])
	_ = p.Y.SetBytes(b[1+n:])
	if !c.IsOnCurve(&p) {
		return p, ErrInvalidPublicKey
	}
	return p, nil
}
