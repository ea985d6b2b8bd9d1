// Package rsa implements RSA key generation, the raw RSA primitives with and
// without the Chinese remainder theorem, and EMSA-PKCS1-v1_5 signatures.
package rsa

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"bignum.mleku.dev"
	"bignum.mleku.dev/prime"
)

// DefaultExponent is the public exponent used by GenerateKey.
const DefaultExponent = 65537

var (
	// ErrMessageTooLarge is returned when a message representative is not
	// below the modulus.
	ErrMessageTooLarge = errors.New("rsa: message representative out of range")
	// ErrVerification is returned when a signature does not verify.
	ErrVerification = errors.New("rsa: verification error")
	// ErrKeySize is returned for key sizes outside the engine capacity.
	ErrKeySize = errors.New("rsa: unsupported key size")
)

// PublicKey is an RSA public key.
type PublicKey struct {
	N bignum.Int
	E bignum.Int
}

// Size returns the modulus length in bytes.
func (pub *PublicKey) Size() int { return (pub.N.BitLen() + 7) / 8 }

// PrivateKey is an RSA private key with the CRT values precomputed.
type PrivateKey struct {
	PublicKey
	D    bignum.Int
	P, Q bignum.Int
	Dp   bignum.Int // d mod (p-1)
	Dq   bignum.Int // d mod (q-1)
	Qinv bignum.Int // q^-1 mod p
}

// Clear wipes the secret values.
func (priv *PrivateKey) Clear() {
	priv.D.Clear()
	priv.P.Clear()
	priv.Q.Clear()
	priv.Dp.Clear()
	priv.Dq.Clear()
	priv.Qinv.Clear()
}

// Engine carries the arithmetic strategy and randomness for RSA operations.
// The zero value uses bignum.DefaultArith and crypto/rand.
type Engine struct {
	Arith bignum.Arith
	Rand  io.Reader
	// NoCRT makes private operations use d directly instead of Garner's
	// recombination.
	NoCRT bool
}

func (e Engine) rand() io.Reader {
	if e.Rand == nil {
		return rand.Reader
	}
	return e.Rand
}

// GenerateKey creates a key with a modulus of exactly bits bits and public
// exponent 65537.
func (e Engine) GenerateKey(bits int) (*PrivateKey, error) {
	if bits < 16 || bits > bignum.MaxBits {
		return nil, ErrKeySize
	}
	tester := prime.Tester{Arith: e.Arith, Rand: e.rand()}
	exp := bignum.NewInt(DefaultExponent)
	one := bignum.NewInt(1)
	for {
		p, err := tester.Generate(bits - bits/2)
		if err != nil {
			return nil, errors.Wrap(err, "rsa: generating p")
		}
		q, err := tester.Generate(bits / 2)
		if err != nil {
			return nil, errors.Wrap(err, "rsa: generating q")
		}
		if p.Equal(&q) {
			continue
		}
		var n bignum.Int
		n.Mul(&p, &q)
		if n.BitLen() != bits {
			continue
		}
		var p1, q1 bignum.Int
		p1.SubWord(&p, 1)
		q1.SubWord(&q, 1)
		if g := bignum.BinaryGCD(exp, &p1); !g.Equal(one) {
			continue
		}
		if g := bignum.BinaryGCD(exp, &q1); !g.Equal(one) {
			continue
		}
		priv := &PrivateKey{PublicKey: PublicKey{N: n, E: *exp}, P: p, Q: q}
		if err = e.precompute(priv); err != nil {
			return nil, err
		}
		return priv, nil
	}
}

// precompute fills d and the CRT values from p, q and e.
func (e Engine) precompute(priv *PrivateKey) error {
	a := e.Arith
	var p1, q1, phi bignum.Int
	p1.SubWord(&priv.P, 1)
	q1.SubWord(&priv.Q, 1)
	if phi.Mul(&p1, &q1) {
		return ErrKeySize
	}
	if err := a.InvMod(&priv.D, &priv.E, &phi); err != nil {
		return errors.Wrap(err, "rsa: d = e^-1 mod phi")
	}
	if err := a.Mod(&priv.Dp, &priv.D, &p1); err != nil {
		return err
	}
	if err := a.Mod(&priv.Dq, &priv.D, &q1); err != nil {
		return err
	}
	if err := a.InvMod(&priv.Qinv, &priv.Q, &priv.P); err != nil {
		return errors.Wrap(err, "rsa: q^-1 mod p")
	}
	return nil
}

// Validate checks that the key values are consistent.
func (e Engine) Validate(priv *PrivateKey) error {
	var n bignum.Int
	if n.Mul(&priv.P, &priv.Q) || !n.Equal(&priv.N) {
		return errors.New("rsa: n != p*q")
	}
	// e*d = 1 mod (p-1) and mod (q-1)
	for _, pr := range []*bignum.Int{&priv.P, &priv.Q} {
		var pm1, ed bignum.Int
		pm1.SubWord(pr, 1)
		if err := e.Arith.MulMod(&ed, &priv.E, &priv.D, &pm1); err != nil {
			return err
		}
		if !ed.IsOne() {
			return errors.New("rsa: e*d != 1 mod (p-1)")
		}
	}
	return nil
}

// Encrypt applies the public operation c = m^e mod n.
func (e Engine) Encrypt(pub *PublicKey, m *bignum.Int) (bignum.Int, error) {
	var c bignum.Int
	if m.Cmp(&pub.N) >= 0 {
		return c, ErrMessageTooLarge
	}
	if err := e.Arith.ExpMod(&c, m, &pub.E, &pub.N); err != nil {
		return c, errors.Wrap(err, "rsa: public operation")
	}
	return c, nil
}

// Decrypt applies the private operation m = c^d mod n.
func (e Engine) Decrypt(priv *PrivateKey, c *bignum.Int) (bignum.Int, error) {
	var m bignum.Int
	if c.Cmp(&priv.N) >= 0 {
		return m, ErrMessageTooLarge
	}
	if e.NoCRT || priv.P.IsZero() {
		if err := e.Arith.ExpMod(&m, c, &priv.D, &priv.N); err != nil {
			return m, errors.Wrap(err, "rsa: private operation")
		}
		return m, nil
	}
	return e.crt(priv, c)
}

// crt is Garner's recombination (HAC 14.71): m1 = c^dp mod p,
// m2 = c^dq mod q, h = qinv*(m1 - m2) mod p, m = m2 + h*q.
func (e Engine) crt(priv *PrivateKey, c *bignum.Int) (bignum.Int, error) {
	a := e.Arith
	var m, m1, m2, h bignum.Int
	if err := a.ExpMod(&m1, c, &priv.Dp, &priv.P); err != nil {
		return m, errors.Wrap(err, "rsa: c^dp mod p")
	}
	if err := a.ExpMod(&m2, c, &priv.Dq, &priv.Q); err != nil {
		return m, errors.Wrap(err, "rsa: c^dq mod q")
	}
	// m2 may exceed p when q > p
	var m2p bignum.Int
	if err := a.Mod(&m2p, &m2, &priv.P); err != nil {
		return m, err
	}
	h.SubMod(&m1, &m2p, &priv.P)
	if err := a.MulMod(&h, &h, &priv.Qinv, &priv.P); err != nil {
		return m, err
	}
	m.Mul(&h, &priv.Q)
	m.Add(&m, &m2)
	m1.Clear()
	m2.Clear()
	h.Clear()
	return m, nil
}

// digestInfoPrefix is the DER DigestInfo header for each supported hash.
var digestInfoPrefix = map[bignum.HashAlgorithm][]byte{
	bignum.HashSHA256:   {0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20},
	bignum.HashSHA3_256: {0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x08, 0x05, 0x00, 0x04, 0x20},
}

// encodePKCS1v15 builds EM = 0x00 || 0x01 || PS || 0x00 || DigestInfo.
func encodePKCS1v15(alg bignum.HashAlgorithm, digest []byte, k int) ([]byte, error) {
	prefix, ok := digestInfoPrefix[alg]
	if !ok {
		return nil, errors.Errorf("rsa: unsupported hash %s", alg)
	}
	tLen := len(prefix) + len(digest)
	if k < tLen+11 {
		return nil, errors.New("rsa: key too short for digest")
	}
	em := make([]byte, k)
	em[1] = 0x01
	for i := 2; i < k-tLen-1; i++ {
		em[i] = 0xff
	}
	copy(em[k-tLen:], prefix)
	copy(em[k-len(digest):], digest)
	return em, nil
}

// SignPKCS1v15 hashes msg and signs it with EMSA-PKCS1-v1_5.
func (e Engine) SignPKCS1v15(priv *PrivateKey, alg bignum.HashAlgorithm, msg []byte) ([]byte, error) {
	k := priv.Size()
	em, err := encodePKCS1v15(alg, bignum.Digest(alg, msg), k)
	if err != nil {
		return nil, err
	}
	var m bignum.Int
	if err = m.SetBytes(em); err != nil {
		return nil, err
	}
	s, err := e.Decrypt(priv, &m)
	if err != nil {
		return nil, err
	}
	sig := make([]byte, k)
	if err = s.FillBytes(sig); err != nil {
		return nil, err
	}
	return sig, nil
}

// VerifyPKCS1v15 checks an EMSA-PKCS1-v1_5 signature over msg.
func (e Engine) VerifyPKCS1v15(pub *PublicKey, alg bignum.HashAlgorithm, msg, sig []byte) error {
	k := pub.Size()
	if len(sig) != k {
		return ErrVerification
	}
	var s bignum.Int
	if err := s.SetBytes(sig); err != nil {
		return ErrVerification
	}
	m, err := e.Encrypt(pub, &s)
	if err != nil {
		return ErrVerification
	}
	em := make([]byte, k)
	if err = m.FillBytes(em); err != nil {
		return ErrVerification
	}
	want, err := encodePKCS1v15(alg, bignum.Digest(alg, msg), k)
	if err != nil {
		return err
	}
	if !bytes.Equal(em, want) {
		return ErrVerification
	}
	return nil
}

// FromStd converts a crypto/rsa key with two primes.
func FromStd(k *rsa.PrivateKey) (*PrivateKey, error) {
	if len(k.Primes) != 2 {
		return nil, errors.New("rsa: only two-prime keys are supported")
	}
	k.Precompute()
	priv := &PrivateKey{}
	pairs := []struct {
		dst *bignum.Int
		src *big.Int
	}{
		{&priv.N, k.N},
		{&priv.E, big.NewInt(int64(k.E))},
		{&priv.D, k.D},
		{&priv.P, k.Primes[0]},
		{&priv.Q, k.Primes[1]},
		{&priv.Dp, k.Precomputed.Dp},
		{&priv.Dq, k.Precomputed.Dq},
		{&priv.Qinv, k.Precomputed.Qinv},
	}
	for _, p := range pairs {
		if err := p.dst.SetBig(p.src); err != nil {
			return nil, errors.Wrap(err, "rsa: key value exceeds engine capacity")
		}
	}
	return priv, nil
}

// Std returns the public key in crypto/rsa form.
func (pub *PublicKey) Std() *rsa.PublicKey {
	return &rsa.PublicKey{N: pub.N.Big(), E: int(pub.E.Uint64())}
}
