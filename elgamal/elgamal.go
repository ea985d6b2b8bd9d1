// Package elgamal implements ElGamal encryption and Diffie-Hellman key
// agreement in a prime-order subgroup of Z_p*, with p a safe prime.
package elgamal

import (
	"crypto/rand"
	"io"

	"github.com/pkg/errors"

	"bignum.mleku.dev"
	"bignum.mleku.dev/prime"
)

var (
	// ErrMessageRange is returned for plaintexts outside [1, p-1].
	ErrMessageRange = errors.New("elgamal: message out of range")
	// ErrInvalidGroup is returned when p is not a safe prime or g does not
	// generate the order-q subgroup.
	ErrInvalidGroup = errors.New("elgamal: invalid group")
	// ErrInvalidPublic is returned for peer values outside the subgroup.
	ErrInvalidPublic = errors.New("elgamal: invalid public value")
)

// Group is a safe prime P = 2Q+1 with G generating the subgroup of order Q.
type Group struct {
	P, Q, G bignum.Int
}

// PublicKey is Y = G^X mod P.
type PublicKey struct {
	Group
	Y bignum.Int
}

// PrivateKey holds X in [1, Q-1].
type PrivateKey struct {
	PublicKey
	X bignum.Int
}

// Ciphertext is the pair (C1, C2) = (g^k, m*y^k) mod p.
type Ciphertext struct {
	C1, C2 bignum.Int
}

// Engine carries the arithmetic strategy and randomness.
type Engine struct {
	Arith bignum.Arith
	Rand  io.Reader
}

func (e Engine) rand() io.Reader {
	if e.Rand == nil {
		return rand.Reader
	}
	return e.Rand
}

// GenerateGroup finds a safe prime of bits bits and a generator of its
// order-q subgroup. A square h^2 mod p other than 1 always has order q.
func (e Engine) GenerateGroup(bits int) (*Group, error) {
	tester := prime.Tester{Arith: e.Arith, Rand: e.rand()}
	p, q, err := tester.GenerateSafe(bits)
	if err != nil {
		return nil, errors.Wrap(err, "elgamal: generating safe prime")
	}
	g := &Group{P: p, Q: q}
	var pm1 bignum.Int
	pm1.SubWord(&p, 1)
	for {
		h, err := bignum.RandomBelow(e.rand(), &pm1)
		if err != nil {
			return nil, err
		}
		if err = e.Arith.MulMod(&g.G, &h, &h, &p); err != nil {
			return nil, err
		}
		if !g.G.IsOne() {
			return g, nil
		}
	}
}

// inSubgroup reports whether 1 < v < p and v^q = 1 mod p.
func (e Engine) inSubgroup(grp *Group, v *bignum.Int) (bool, error) {
	if v.Cmp(bignum.NewInt(1)) <= 0 || v.Cmp(&grp.P) >= 0 {
		return false, nil
	}
	var t bignum.Int
	if err := e.Arith.ExpMod(&t, v, &grp.Q, &grp.P); err != nil {
		return false, err
	}
	return t.IsOne(), nil
}

// Validate checks the group structure.
func (e Engine) Validate(grp *Group) error {
	var want bignum.Int
	want.Lsh(&grp.Q, 1)
	want.AddWord(&want, 1)
	if !want.Equal(&grp.P) {
		return errors.Wrap(ErrInvalidGroup, "p != 2q+1")
	}
	tester := prime.Tester{Arith: e.Arith, Rand: e.rand()}
	for _, v := range []*bignum.Int{&grp.P, &grp.Q} {
		ok, err := tester.IsProbablePrime(v)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrapf(ErrInvalidGroup, "%s is composite", v)
		}
	}
	ok, err := e.inSubgroup(grp, &grp.G)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrap(ErrInvalidGroup, "g is not of order q")
	}
	return nil
}

// GenerateKey picks X in [1, Q-1] and sets Y = G^X mod P.
func (e Engine) GenerateKey(grp *Group) (*PrivateKey, error) {
	x, err := bignum.RandomBelow(e.rand(), &grp.Q)
	if err != nil {
		return nil, err
	}
	priv := &PrivateKey{PublicKey: PublicKey{Group: *grp}, X: x}
	if err = e.Arith.ExpMod(&priv.Y, &grp.G, &x, &grp.P); err != nil {
		return nil, err
	}
	return priv, nil
}

// Encrypt encrypts m in [1, p-1] under pub with a fresh ephemeral k.
func (e Engine) Encrypt(pub *PublicKey, m *bignum.Int) (*Ciphertext, error) {
	if m.IsZero() || m.Cmp(&pub.P) >= 0 {
		return nil, ErrMessageRange
	}
	k, err := bignum.RandomBelow(e.rand(), &pub.Q)
	if err != nil {
		return nil, err
	}
	defer k.Clear()
	ct := &Ciphertext{}
	var s bignum.Int
	if err = e.Arith.ExpMod(&ct.C1, &pub.G, &k, &pub.P); err != nil {
		return nil, err
	}
	if err = e.Arith.ExpMod(&s, &pub.Y, &k, &pub.P); err != nil {
		return nil, err
	}
	if err = e.Arith.MulMod(&ct.C2, m, &s, &pub.P); err != nil {
		return nil, err
	}
	return ct, nil
}

// Decrypt recovers m = c2 * (c1^x)^-1 mod p.
func (e Engine) Decrypt(priv *PrivateKey, ct *Ciphertext) (bignum.Int, error) {
	var m, s, sinv bignum.Int
	if ct.C1.IsZero() || ct.C1.Cmp(&priv.P) >= 0 || ct.C2.Cmp(&priv.P) >= 0 {
		return m, ErrMessageRange
	}
	if err := e.Arith.ExpMod(&s, &ct.C1, &priv.X, &priv.P); err != nil {
		return m, err
	}
	if err := e.Arith.InvMod(&sinv, &s, &priv.P); err != nil {
		return m, errors.Wrap(err, "elgamal: inverting shared value")
	}
	if err := e.Arith.MulMod(&m, &ct.C2, &sinv, &priv.P); err != nil {
		return m, err
	}
	s.Clear()
	sinv.Clear()
	return m, nil
}

// SharedSecret computes the Diffie-Hellman value peer^x mod p after checking
// that peer lies in the subgroup.
func (e Engine) SharedSecret(priv *PrivateKey, peer *bignum.Int) (bignum.Int, error) {
	var z bignum.Int
	ok, err := e.inSubgroup(&priv.Group, peer)
	if err != nil {
		return z, err
	}
	if !ok {
		return z, ErrInvalidPublic
	}
	if err = e.Arith.ExpMod(&z, peer, &priv.X, &priv.P); err != nil {
		return z, err
	}
	return z, nil
}
