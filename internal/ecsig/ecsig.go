// Package ecsig holds the ECDSA signing equations shared by the prime and
// binary curve packages. The curve supplies point arithmetic; everything
// modulo the group order runs on the fixed-width engine.
package ecsig

import (
	"crypto/rand"
	"io"

	"github.com/pkg/errors"

	"bignum.mleku.dev"
)

var (
	// ErrInvalidSignature is returned when r or s is out of range or the
	// equation does not hold.
	ErrInvalidSignature = errors.New("ecdsa: invalid signature")
	// ErrInfinity is returned when a computation lands on the point at
	// infinity where a finite point is required.
	ErrInfinity = errors.New("ec: point at infinity")
)

// Group is the curve arithmetic ECDSA needs.
type Group[P any] interface {
	// Order returns the prime order n of the base point.
	Order() *bignum.Int
	// ScalarBaseMult returns k*G.
	ScalarBaseMult(k *bignum.Int) (P, error)
	// CombinedMult returns u1*G + u2*q.
	CombinedMult(q *P, u1, u2 *bignum.Int) (P, error)
	// AffineX returns the affine x coordinate as an integer, or ErrInfinity.
	AffineX(p *P) (bignum.Int, error)
}

// Signer carries the scalar arithmetic and nonce source.
type Signer struct {
	Arith bignum.Arith
	Rand  io.Reader
	// Deterministic selects RFC 6979 nonces.
	Deterministic bool
}

func (s Signer) nonce(d, n *bignum.Int, digest []byte) (bignum.Int, error) {
	if s.Deterministic {
		return bignum.NonceRFC6979(d, n, digest)
	}
	rnd := s.Rand
	if rnd == nil {
		rnd = rand.Reader
	}
	return bignum.RandomBelow(rnd, n)
}

// Sign computes r = x(kG) mod n and s = k^-1 (z + r d) mod n where z is the
// digest truncated to the bit length of n.
func Sign[P any](g Group[P], s Signer, d *bignum.Int, digest []byte) (r, sig bignum.Int, err error) {
	a := s.Arith
	n := g.Order()
	z, err := bignum.HashToInt(digest, n)
	if err != nil {
		return
	}
	if err = a.Mod(&z, &z, n); err != nil {
		return
	}
	for {
		var k bignum.Int
		if k, err = s.nonce(d, n, digest); err != nil {
			return
		}
		var kG P
		if kG, err = g.ScalarBaseMult(&k); err != nil {
			return
		}
		var x bignum.Int
		if x, err = g.AffineX(&kG); err != nil {
			return
		}
		if err = a.Mod(&r, &x, n); err != nil {
			return
		}
		if r.IsZero() {
			if s.Deterministic {
				err = errors.New("ecdsa: deterministic nonce produced r = 0")
				return
			}
			continue
		}
		var kinv, rd bignum.Int
		if err = a.InvMod(&kinv, &k, n); err != nil {
			return
		}
		k.Clear()
		if err = a.MulMod(&rd, &r, d, n); err != nil {
			return
		}
		rd.AddMod(&rd, &z, n)
		if err = a.MulMod(&sig, &kinv, &rd, n); err != nil {
			return
		}
		kinv.Clear()
		if sig.IsZero() {
			if s.Deterministic {
				err = errors.New("ecdsa: deterministic nonce produced s = 0")
				return
			}
			continue
		}
		return
	}
}

// Verify checks that x(u1 G + u2 Q) = r mod n with w = s^-1, u1 = z w and
// u2 = r w.
func Verify[P any](g Group[P], a bignum.Arith, pub *P, digest []byte, r, s *bignum.Int) error {
	n := g.Order()
	if r.IsZero() || s.IsZero() || r.Cmp(n) >= 0 || s.Cmp(n) >= 0 {
		return ErrInvalidSignature
	}
	z, err := bignum.HashToInt(digest, n)
	if err != nil {
		return err
	}
	if err = a.Mod(&z, &z, n); err != nil {
		return err
	}
	var w, u1, u2 bignum.Int
	if err = a.InvMod(&w, s, n); err != nil {
		return ErrInvalidSignature
	}
	if err = a.MulMod(&u1, &z, &w, n); err != nil {
		return err
	}
	if err = a.MulMod(&u2, r, &w, n); err != nil {
		return err
	}
	pt, err := g.CombinedMult(pub, &u1, &u2)
	if err != nil {
		return err
	}
	x, err := g.AffineX(&pt)
	if err != nil {
		return ErrInvalidSignature
	}
	if err = a.Mod(&x, &x, n); err != nil {
		return err
	}
	if !x.Equal(r) {
		return ErrInvalidSignature
	}
	return nil
}
