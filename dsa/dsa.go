// Package dsa implements the Digital Signature Algorithm over the
// fixed-width engine.
package dsa

import (
	"crypto/dsa"
	"crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"bignum.mleku.dev"
	"bignum.mleku.dev/prime"
)

var (
	// ErrInvalidParameters is returned when P, Q and G do not form a valid
	// DSA group.
	ErrInvalidParameters = errors.New("dsa: invalid domain parameters")
	// ErrInvalidSignature is returned when r or s is out of range or the
	// signature does not verify.
	ErrInvalidSignature = errors.New("dsa: invalid signature")
)

// Parameters are the DSA domain parameters: primes P and Q with Q | P-1 and a
// generator G of the order-Q subgroup.
type Parameters struct {
	P, Q, G bignum.Int
}

// PublicKey is Y = G^X mod P.
type PublicKey struct {
	Parameters
	Y bignum.Int
}

// PrivateKey holds the secret exponent X in [1, Q-1].
type PrivateKey struct {
	PublicKey
	X bignum.Int
}

// Signature is the pair (R, S).
type Signature struct {
	R, S bignum.Int
}

// Engine carries the arithmetic strategy and randomness for DSA operations.
type Engine struct {
	Arith bignum.Arith
	Rand  io.Reader
	// Deterministic derives nonces with RFC 6979 instead of reading Rand.
	Deterministic bool
	// Hash selects the message digest, SHA-256 by default.
	Hash bignum.HashAlgorithm
}

func (e Engine) rand() io.Reader {
	if e.Rand == nil {
		return rand.Reader
	}
	return e.Rand
}

// GenerateParameters searches for an L-bit P and N-bit Q, then derives G as
// h^((P-1)/Q) mod P for the smallest h >= 2 giving G != 1.
func (e Engine) GenerateParameters(L, N int) (*Parameters, error) {
	if N < 16 || L <= N || L > bignum.MaxBits {
		return nil, ErrInvalidParameters
	}
	tester := prime.Tester{Arith: e.Arith, Rand: e.rand()}
	params := &Parameters{}
	for {
		q, err := tester.Generate(N)
		if err != nil {
			return nil, errors.Wrap(err, "dsa: generating q")
		}
		var q2 bignum.Int
		q2.Lsh(&q, 1)
		// p = 2qk + 1 with a random (L-N)-bit k
		for i := 0; i < 4*L; i++ {
			k, err := bignum.RandomBits(e.rand(), L-N)
			if err != nil {
				return nil, err
			}
			var p bignum.Int
			p.Mul(&q2, &k)
			p.AddWord(&p, 1)
			if p.BitLen() != L {
				continue
			}
			ok, err := tester.IsProbablePrime(&p)
			if err != nil {
				return nil, err
			}
			if ok {
				params.P, params.Q = p, q
				if err = e.generator(params); err != nil {
					return nil, err
				}
				return params, nil
			}
		}
	}
}

func (e Engine) generator(params *Parameters) error {
	var p1, exp, rem bignum.Int
	p1.SubWord(&params.P, 1)
	if err := e.Arith.DivMod(&exp, &rem, &p1, &params.Q); err != nil {
		return err
	}
	if !rem.IsZero() {
		return ErrInvalidParameters
	}
	h := bignum.NewInt(2)
	for h.Cmp(&p1) < 0 {
		if err := e.Arith.ExpMod(&params.G, h, &exp, &params.P); err != nil {
			return err
		}
		if !params.G.IsOne() {
			return nil
		}
		h.AddWord(h, 1)
	}
	return ErrInvalidParameters
}

// Validate checks primality of P and Q, Q | P-1, and that G has order Q.
func (e Engine) Validate(params *Parameters) error {
	tester := prime.Tester{Arith: e.Arith, Rand: e.rand()}
	for _, v := range []*bignum.Int{&params.P, &params.Q} {
		ok, err := tester.IsProbablePrime(v)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrapf(ErrInvalidParameters, "%s is composite", v)
		}
	}
	var p1, quo, rem bignum.Int
	p1.SubWord(&params.P, 1)
	if err := e.Arith.DivMod(&quo, &rem, &p1, &params.Q); err != nil {
		return err
	}
	if !rem.IsZero() {
		return errors.Wrap(ErrInvalidParameters, "q does not divide p-1")
	}
	if params.G.Cmp(bignum.NewInt(2)) < 0 || params.G.Cmp(&params.P) >= 0 {
		return errors.Wrap(ErrInvalidParameters, "g out of range")
	}
	var t bignum.Int
	if err := e.Arith.ExpMod(&t, &params.G, &params.Q, &params.P); err != nil {
		return err
	}
	if !t.IsOne() {
		return errors.Wrap(ErrInvalidParameters, "g^q != 1 mod p")
	}
	return nil
}

// GenerateKey picks X uniformly in [1, Q-1] and sets Y = G^X mod P.
func (e Engine) GenerateKey(params *Parameters) (*PrivateKey, error) {
	x, err := bignum.RandomBelow(e.rand(), &params.Q)
	if err != nil {
		return nil, err
	}
	priv := &PrivateKey{PublicKey: PublicKey{Parameters: *params}, X: x}
	if err = e.Arith.ExpMod(&priv.Y, &params.G, &x, &params.P); err != nil {
		return nil, errors.Wrap(err, "dsa: y = g^x mod p")
	}
	return priv, nil
}

func (e Engine) nonce(priv *PrivateKey, digest []byte) (bignum.Int, error) {
	if e.Deterministic {
		return bignum.NonceRFC6979(&priv.X, &priv.Q, digest)
	}
	return bignum.RandomBelow(e.rand(), &priv.Q)
}

// Sign hashes msg and produces (r, s) with r = (g^k mod p) mod q and
// s = k^-1 (H(m) + x r) mod q.
func (e Engine) Sign(priv *PrivateKey, msg []byte) (*Signature, error) {
	return e.SignDigest(priv, bignum.Digest(e.Hash, msg))
}

// SignDigest signs a precomputed digest, truncated to the bit length of Q.
func (e Engine) SignDigest(priv *PrivateKey, digest []byte) (*Signature, error) {
	a := e.Arith
	z, err := bignum.HashToInt(digest, &priv.Q)
	if err != nil {
		return nil, err
	}
	if err = a.Mod(&z, &z, &priv.Q); err != nil {
		return nil, err
	}
	sig := &Signature{}
	for {
		k, err := e.nonce(priv, digest)
		if err != nil {
			return nil, err
		}
		var gk, kinv, xr bignum.Int
		if err = a.ExpMod(&gk, &priv.G, &k, &priv.P); err != nil {
			return nil, err
		}
		if err = a.Mod(&sig.R, &gk, &priv.Q); err != nil {
			return nil, err
		}
		if sig.R.IsZero() {
			if e.Deterministic {
				return nil, errors.New("dsa: deterministic nonce produced r = 0")
			}
			continue
		}
		if err = a.InvMod(&kinv, &k, &priv.Q); err != nil {
			return nil, err
		}
		k.Clear()
		if err = a.MulMod(&xr, &priv.X, &sig.R, &priv.Q); err != nil {
			return nil, err
		}
		xr.AddMod(&xr, &z, &priv.Q)
		if err = a.MulMod(&sig.S, &kinv, &xr, &priv.Q); err != nil {
			return nil, err
		}
		if sig.S.IsZero() {
			if e.Deterministic {
				return nil, errors.New("dsa: deterministic nonce produced s = 0")
			}
			continue
		}
		return sig, nil
	}
}

// Verify checks a signature over msg.
func (e Engine) Verify(pub *PublicKey, msg []byte, sig *Signature) error {
	return e.VerifyDigest(pub, bignum.Digest(e.Hash, msg), sig)
}

// VerifyDigest checks a signature over a precomputed digest.
func (e Engine) VerifyDigest(pub *PublicKey, digest []byte, sig *Signature) error {
	a := e.Arith
	q := &pub.Q
	if sig.R.IsZero() || sig.S.IsZero() || sig.R.Cmp(q) >= 0 || sig.S.Cmp(q) >= 0 {
		return ErrInvalidSignature
	}
	z, err := bignum.HashToInt(digest, q)
	if err != nil {
		return err
	}
	if err = a.Mod(&z, &z, q); err != nil {
		return err
	}
	var w, u1, u2, v1, v2, v bignum.Int
	if err = a.InvMod(&w, &sig.S, q); err != nil {
		return ErrInvalidSignature
	}
	if err = a.MulMod(&u1, &z, &w, q); err != nil {
		return err
	}
	if err = a.MulMod(&u2, &sig.R, &w, q); err != nil {
		return err
	}
	if err = a.ExpMod(&v1, &pub.G, &u1, &pub.P); err != nil {
		return err
	}
	if err = a.ExpMod(&v2, &pub.Y, &u2, &pub.P); err != nil {
		return err
	}
	if err = a.MulMod(&v, &v1, &v2, &pub.P); err != nil {
		return err
	}
	if err = a.Mod(&v, &v, q); err != nil {
		return err
	}
	if !v.Equal(&sig.R) {
		return ErrInvalidSignature
	}
	return nil
}

// FromStd converts a crypto/dsa key.
func FromStd(k *dsa.PrivateKey) (*PrivateKey, error) {
	priv := &PrivateKey{}
	for _, p := range []struct {
		dst *bignum.Int
		src *big.Int
	}{
		{&priv.P, k.P}, {&priv.Q, k.Q}, {&priv.G, k.G}, {&priv.Y, k.Y}, {&priv.X, k.X},
	} {
		if err := p.dst.SetBig(p.src); err != nil {
			return nil, errors.Wrap(err, "dsa: key value exceeds engine capacity")
		}
	}
	return priv, nil
}

// Std returns the public key in crypto/dsa form.
func (pub *PublicKey) Std() *dsa.PublicKey {
	return &dsa.PublicKey{
		Parameters: dsa.Parameters{P: pub.P.Big(), Q: pub.Q.Big(), G: pub.G.Big()},
		Y:          pub.Y.Big(),
	}
}
