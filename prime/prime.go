// Package prime implements probabilistic primality testing and random prime
// search on top of the fixed-width engine.
package prime

import (
	"crypto/rand"
	"io"

	"github.com/pkg/errors"

	"bignum.mleku.dev"
)

// DefaultRounds is the Miller-Rabin iteration count used when a Tester does
// not set one.
const DefaultRounds = 20

// smallPrimes are the primes below 720 used for trial division.
var smallPrimes = [...]uint32{
	2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53,
	59, 61, 67, 71, 73, 79, 83, 89, 97, 101, 103, 107, 109, 113, 127, 131,
	137, 139, 149, 151, 157, 163, 167, 173, 179, 181, 191, 193, 197, 199, 211, 223,
	227, 229, 233, 239, 241, 251, 257, 263, 269, 271, 277, 281, 283, 293, 307, 311,
	313, 317, 331, 337, 347, 349, 353, 359, 367, 373, 379, 383, 389, 397, 401, 409,
	419, 421, 431, 433, 439, 443, 449, 457, 461, 463, 467, 479, 487, 491, 499, 503,
	509, 521, 523, 541, 547, 557, 563, 569, 571, 577, 587, 593, 599, 601, 607, 613,
	617, 619, 631, 641, 643, 647, 653, 659, 661, 673, 677, 683, 691, 701, 709, 719,
}

// ErrBitLength is returned for prime sizes the generator cannot produce.
var ErrBitLength = errors.New("prime: unsupported bit length")

// Tester runs primality tests and prime searches with a fixed arithmetic
// strategy and randomness source. The zero value uses bignum.DefaultArith,
// crypto/rand and DefaultRounds.
type Tester struct {
	Arith  bignum.Arith
	Rand   io.Reader
	Rounds int
}

func (t Tester) rand() io.Reader {
	if t.Rand == nil {
		return rand.Reader
	}
	return t.Rand
}

func (t Tester) rounds() int {
	if t.Rounds <= 0 {
		return DefaultRounds
	}
	return t.Rounds
}

// smallPrimeCheck trial divides n by the table. It returns decided when the
// answer is already known.
func smallPrimeCheck(n *bignum.Int) (isPrime, decided bool) {
	if n.Len() <= 1 && n.Uint64() <= uint64(smallPrimes[len(smallPrimes)-1]) {
		v := uint32(n.Uint64())
		for _, p := range smallPrimes {
			if p == v {
				return true, true
			}
		}
		return false, true
	}
	var q bignum.Int
	for _, p := range smallPrimes {
		r, _ := q.DivWord(n, p)
		if r == 0 {
			return false, true
		}
	}
	return false, false
}

// HasSmallFactor reports whether n is divisible by a prime below 720 other
// than itself.
func HasSmallFactor(n *bignum.Int) bool {
	isPrime, decided := smallPrimeCheck(n)
	return decided && !isPrime
}

// MillerRabin runs rounds iterations of HAC 4.24 on an odd n > 3.
func (t Tester) MillerRabin(n *bignum.Int, rounds int) (bool, error) {
	if n.IsEven() || n.Cmp(bignum.NewInt(3)) <= 0 {
		return false, errors.Errorf("prime: Miller-Rabin needs an odd n > 3, got %s", n)
	}
	var n1, r bignum.Int
	n1.SubWord(n, 1)
	s := 0
	r = n1
	for r.IsEven() {
		r.Rsh(&r, 1)
		s++
	}
	one := bignum.NewInt(1)
	for ; rounds > 0; rounds-- {
		// a in [2, n-2]
		a, err := bignum.RandomBelow(t.rand(), &n1)
		if err != nil {
			return false, err
		}
		if a.IsOne() {
			a.SetUint64(2)
		}
		var y bignum.Int
		if err = t.Arith.ExpMod(&y, &a, &r, n); err != nil {
			return false, errors.Wrap(err, "prime: a^r mod n")
		}
		if y.Equal(one) || y.Equal(&n1) {
			continue
		}
		for j := 1; j < s && !y.Equal(&n1); j++ {
			if err = t.Arith.MulMod(&y, &y, &y, n); err != nil {
				return false, errors.Wrap(err, "prime: y^2 mod n")
			}
			if y.Equal(one) {
				return false, nil
			}
		}
		if !y.Equal(&n1) {
			return false, nil
		}
	}
	return true, nil
}

// IsProbablePrime combines trial division with Miller-Rabin.
func (t Tester) IsProbablePrime(n *bignum.Int) (bool, error) {
	if isPrime, decided := smallPrimeCheck(n); decided {
		return isPrime, nil
	}
	return t.MillerRabin(n, t.rounds())
}

// Generate returns a random prime of exactly bits bits by incremental
// search from a random odd start (HAC 4.44).
func (t Tester) Generate(bits int) (bignum.Int, error) {
	if bits < 2 || bits > bignum.MaxBits {
		return bignum.Int{}, ErrBitLength
	}
	for {
		p, err := bignum.RandomBits(t.rand(), bits)
		if err != nil {
			return p, err
		}
		if bits == 2 {
			// 2 bits with the low bit forced is always 3
			return p, nil
		}
		for p.BitLen() == bits {
			ok, err := t.IsProbablePrime(&p)
			if err != nil {
				return p, err
			}
			if ok {
				return p, nil
			}
			p.AddWord(&p, 2)
		}
	}
}

// GenerateSafe returns a safe prime p = 2q+1 of bits bits together with the
// Sophie Germain prime q.
func (t Tester) GenerateSafe(bits int) (p, q bignum.Int, err error) {
	if bits < 3 || bits > bignum.MaxBits {
		return p, q, ErrBitLength
	}
	for {
		if q, err = t.Generate(bits - 1); err != nil {
			return
		}
		p.Lsh(&q, 1)
		p.AddWord(&p, 1)
		if p.BitLen() != bits {
			continue
		}
		var ok bool
		if ok, err = t.IsProbablePrime(&p); err != nil {
			return
		}
		if ok {
			return
		}
	}
}
