package bignum

import "math/bits"

// mulVV writes the full product x*y into z, which must hold len(x)+len(y)
// words and be zero on entry.
func mulVV(z, x, y []uint32) {
	for i, xi := range x {
		if xi == 0 {
			continue
		}
		var c uint64
		for j, yj := range y {
			p := uint64(xi)*uint64(yj) + uint64(z[i+j]) + c
			z[i+j] = uint32(p)
			c = p >> 32
		}
		z[i+len(y)] = uint32(c)
	}
}

// Mul sets z to the low Words words of x*y and reports whether non-zero
// product words were dropped.
func (z *Int) Mul(x, y *Int) (overflow bool) {
	var t [2 * Words]uint32
	lx, ly := x.Len(), y.Len()
	mulVV(t[:lx+ly], x.w[:lx], y.w[:ly])
	copy(z.w[:], t[:Words])
	return wordsLen(t[Words:]) != 0
}

// Sqr sets z = x*x using the half-product squaring of HAC 14.16. x must use
// at most Words/2 words.
func (z *Int) Sqr(x *Int) error {
	t := x.Len()
	if t > Words/2 {
		return ErrInvalidLength
	}
	var w [2*Words + 1]uint32
	for i := 0; i < t; i++ {
		xi := uint64(x.w[i])
		uv := uint64(w[2*i]) + xi*xi
		w[2*i] = uint32(uv)
		c := uv >> 32
		for j := i + 1; j < t; j++ {
			// w[i+j] + 2*x[j]*x[i] + c needs up to 66 bits
			p := uint64(x.w[j]) * xi
			lo, k := bits.Add64(p<<1, uint64(w[i+j])+c, 0)
			hi := p>>63 + k
			w[i+j] = uint32(lo)
			c = lo>>32 | hi<<32
		}
		s := uint64(w[i+t]) + c
		w[i+t] = uint32(s)
		w[i+t+1] += uint32(s >> 32)
	}
	copy(z.w[:], w[:Words])
	return nil
}
