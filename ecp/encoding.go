package ecp

import (
	"github.com/pkg/errors"

	"bignum.mleku.dev"
	"bignum.mleku.dev/internal/ecsig"
)

// ErrUnsupportedCompression is returned when decompressing on a curve whose
// prime is not 3 mod 4.
var ErrUnsupportedCompression = errors.New("ecp: point decompression needs p = 3 mod 4")

// Marshal encodes p as 04 || X || Y.
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

// MarshalCompressed encodes p as 02|03 || X, the prefix carrying the parity
// of Y.
func (c *Curve) MarshalCompressed(p *Point) ([]byte, error) {
	if p.Inf {
		return nil, ecsig.ErrInfinity
	}
	n := c.ByteLen()
	out := make([]byte, 1+n)
	out[0] = 2
	if p.Y.IsOdd() {
		out[0] = 3
	}
	if err := p.X.FillBytes(out[1:]); err != nil {
		return nil, err
	}
	return out, nil
}

// Unmarshal decodes an uncompressed or compressed point and checks that it
// is on the curve.
func (c *Curve) Unmarshal(b []byte) (Point, error) {
	var p Point
	n := c.ByteLen()
	switch {
	case len(b) == 1+2*n && b[0] == 4:
		_ = p.X.SetBytes(b[1 : 1+n])
		_ = p.Y.SetBytes(b[1+n:])
	case len(b) == 1+n && (b[0] == 2 || b[0] == 3):
		_ = p.X.SetBytes(b[1:])
		if p.X.Cmp(&c.P) >= 0 {
			return p, ErrInvalidPublicKey
		}
		y, err := c.recoverY(&p.X, b[0] == 3)
		if err != nil {
			return p, err
		}
		p.Y = y
	default:
		return p, errors.Wrap(bignum.ErrInvalidEncoding, "ecp: point encoding")
	}
	if !c.IsOnCurve(&p) {
		return p, ErrInvalidPublicKey
	}
	return p, nil
}

// recoverY solves y^2 = x^3 + ax + b with y = rhs^((p+1)/4), valid for
// p = 3 mod 4.
func (c *Curve) recoverY(x *bignum.Int, odd bool) (bignum.Int, error) {
	var y bignum.Int
	if c.P.Word(0)&3 != 3 {
		return y, ErrUnsupportedCompression
	}
	a := bignum.DefaultArith
	var rhs, e bignum.Int
	if err := a.MulMod(&rhs, x, x, &c.P); err != nil {
		return y, err
	}
	rhs.AddMod(&rhs, &c.A, &c.P)
	if err := a.MulMod(&rhs, &rhs, x, &c.P); err != nil {
		return y, err
	}
	rhs.AddMod(&rhs, &c.B, &c.P)
	e.AddWord(&c.P, 1)
	e.Rsh(&e, 2)
	if err := a.ExpMod(&y, &rhs, &e, &c.P); err != nil {
		return y, err
	}
	if y.IsOdd() != odd {
		if y.IsZero() {
			return y, ErrInvalidPublicKey
		}
		y.Sub(&c.P, &y)
	}
	return y, nil
}
