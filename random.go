package bignum

import (
	"io"

	"github.com/pkg/errors"
)

// RandomBits reads a k-bit value from rnd with the top and bottom bits
// forced to 1, so the result has exactly k significant bits and is odd.
func RandomBits(rnd io.Reader, k int) (Int, error) {
	var z Int
	if k <= 0 || k > MaxBits {
		return z, ErrInvalidLength
	}
	buf := make([]byte, (k+7)/8)
	if _, err := io.ReadFull(rnd, buf); err != nil {
		return z, errors.Wrap(err, "reading random bits")
	}
	buf[0] &= 0xff >> uint((8-k%8)%8)
	buf[0] |= 1 << uint((k-1)%8)
	buf[len(buf)-1] |= 1
	_ = z.SetBytes(buf)
	clear(buf)
	return z, nil
}

// RandomBelow returns a uniform value in [1, n-1] by rejection sampling.
// n must be at least 2.
func RandomBelow(rnd io.Reader, n *Int) (Int, error) {
	var z Int
	if n.Cmp(NewInt(2)) < 0 {
		return z, ErrInvalidLength
	}
	k := n.BitLen()
	buf := make([]byte, (k+7)/8)
	for {
		if _, err := io.ReadFull(rnd, buf); err != nil {
			return z, errors.Wrap(err, "reading random bits")
		}
		buf[0] &= 0xff >> uint((8-k%8)%8)
		_ = z.SetBytes(buf)
		if !z.IsZero() && z.Cmp(n) < 0 {
			return z, nil
		}
	}
}
