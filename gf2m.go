package bignum

import "math/bits"

// Binary polynomial arithmetic. An Int is read as a polynomial over GF(2):
// bit i is the coefficient of t^i.

// Degree returns the polynomial degree of x, or -1 for the zero polynomial.
func (x *Int) Degree() int { return x.BitLen() - 1 }

// AddGF2m sets z = x + y, which over GF(2) is XOR. Subtraction is the same
// operation.
func (z *Int) AddGF2m(x, y *Int) {
	for i := range z.w {
		z.w[i] = x.w[i] ^ y.w[i]
	}
}

// MulGF2m sets z to the carry-less product x*y and reports whether terms
// beyond the capacity were dropped.
func (z *Int) MulGF2m(x, y *Int) (overflow bool) {
	var t [2*Words + 1]uint32
	lx, ly := x.Len(), y.Len()
	var xs [Words + 1]uint32
	for b := uint(0); b < wordBits; b++ {
		xs[lx] = shlVU(xs[:lx], x.w[:lx], b)
		for j := 0; j < ly; j++ {
			if (y.w[j]>>b)&1 == 0 {
				continue
			}
			for k := 0; k <= lx; k++ {
				t[j+k] ^= xs[k]
			}
		}
	}
	copy(z.w[:], t[:Words])
	return wordsLen(t[Words:]) != 0
}

// DivGF2m sets q and r to the polynomial quotient and remainder of x / y.
// Either output may be nil but they must not alias.
func DivGF2m(q, r, x, y *Int) error {
	if q != nil && q == r {
		return ErrAliasedOutputs
	}
	dy := y.Degree()
	if dy < 0 {
		return ErrDivisionByZero
	}
	var qq Int
	rr := *x
	ly := y.Len()
	for top := rr.Len(); top > 0; {
		dr := (top-1)*wordBits + bits.Len32(rr.w[top-1]) - 1
		if dr < dy {
			break
		}
		s := uint(dr - dy)
		xorShifted(rr.w[:], y.w[:ly], s)
		qq.w[s/wordBits] |= 1 << (s % wordBits)
		for top > 0 && rr.w[top-1] == 0 {
			top--
		}
	}
	if q != nil {
		*q = qq
	}
	if r != nil {
		*r = rr
	}
	return nil
}

// xorShifted adds y*t^s into z in place, touching only the words y covers.
func xorShifted(z, y []uint32, s uint) {
	ws, bs := int(s/wordBits), s%wordBits
	for j, v := range y {
		z[ws+j] ^= v << bs
		if bs != 0 && ws+j+1 < len(z) {
			z[ws+j+1] ^= v >> (wordBits - bs)
		}
	}
}

// ModGF2m sets z = x mod p.
func (z *Int) ModGF2m(x, p *Int) error {
	return DivGF2m(nil, z, x, p)
}

// AddModGF2m sets z = (x + y) mod p.
func (z *Int) AddModGF2m(x, y, p *Int) error {
	var s Int
	s.AddGF2m(x, y)
	return z.ModGF2m(&s, p)
}

// SubModGF2m is AddModGF2m; addition and subtraction coincide in
// characteristic 2.
func (z *Int) SubModGF2m(x, y, p *Int) error {
	return z.AddModGF2m(x, y, p)
}

// MulModGF2m sets z = x*y mod p.
func (z *Int) MulModGF2m(x, y, p *Int) error {
	var t Int
	if t.MulGF2m(x, y) {
		return ErrInvalidLength
	}
	return z.ModGF2m(&t, p)
}

// SqrModGF2m sets z = x^2 mod p.
func (z *Int) SqrModGF2m(x, p *Int) error {
	return z.MulModGF2m(x, x, p)
}

// InvModGF2m sets z = x^-1 mod p with the polynomial extended Euclidean
// algorithm of FIPS 186-5 appendix B.1.
func (z *Int) InvModGF2m(x, p *Int) error {
	if p.Degree() < 0 {
		return ErrDivisionByZero
	}
	var j Int
	if err := j.ModGF2m(x, p); err != nil {
		return err
	}
	i := *p
	var y2 Int
	y1 := *NewInt(1)
	for !j.IsZero() {
		var q, r, y Int
		if err := DivGF2m(&q, &r, &i, &j); err != nil {
			return err
		}
		if err := y.MulModGF2m(&y1, &q, p); err != nil {
			return err
		}
		y.AddGF2m(&y2, &y)
		i, j = j, r
		y2, y1 = y1, y
	}
	if !i.IsOne() {
		return ErrNotInvertible
	}
	return z.ModGF2m(&y2, p)
}

// InvModGF2mShift sets z = x^-1 mod p by shift-and-add degree reduction
// (Kobayashi et al., algorithm 2). It keeps u*x = r and v*x = s mod p and
// cancels the leading term of the higher-degree remainder each step. The
// result matches InvModGF2m; no polynomial division is needed.
func (z *Int) InvModGF2mShift(x, p *Int) error {
	if p.Degree() < 0 {
		return ErrDivisionByZero
	}
	var r Int
	if err := r.ModGF2m(x, p); err != nil {
		return err
	}
	s := *p
	var v Int
	u := *NewInt(1)
	for r.Degree() > 0 {
		delta := s.Degree() - r.Degree()
		if delta < 0 {
			delta = -delta
			r, s = s, r
			u, v = v, u
		}
		var h Int
		h.Lsh(&r, uint(delta))
		s.AddGF2m(&s, &h)
		h.Lsh(&u, uint(delta))
		if err := v.AddModGF2m(&v, &h, p); err != nil {
			return err
		}
	}
	if !r.IsOne() {
		return ErrNotInvertible
	}
	*z = u
	return nil
}

// Field2m is GF(2^m) bound to an irreducible reduction polynomial p of
// degree m. It is immutable and safe for concurrent use.
type Field2m struct {
	p Int
	m int
}

// NewField2m binds the reduction polynomial p. p must have degree >= 1.
func NewField2m(p *Int) (*Field2m, error) {
	m := p.Degree()
	if m < 1 {
		return nil, ErrInvalidLength
	}
	if 2*m >= Words*wordBits {
		return nil, ErrInvalidLength
	}
	return &Field2m{p: *p, m: m}, nil
}

// Degree returns m.
func (f *Field2m) Degree() int { return f.m }

// Poly returns the reduction polynomial.
func (f *Field2m) Poly() Int { return f.p }

// Reduce sets z = x mod p.
func (f *Field2m) Reduce(z, x *Int) error { return z.ModGF2m(x, &f.p) }

// Add sets z = x + y. Reduced inputs give a reduced sum.
func (f *Field2m) Add(z, x, y *Int) { z.AddGF2m(x, y) }

// Mul sets z = x*y mod p.
func (f *Field2m) Mul(z, x, y *Int) error { return z.MulModGF2m(x, y, &f.p) }

// Sqr sets z = x^2 mod p.
func (f *Field2m) Sqr(z, x *Int) error { return z.SqrModGF2m(x, &f.p) }

// Inv sets z = x^-1 mod p.
func (f *Field2m) Inv(z, x *Int) error { return z.InvModGF2m(x, &f.p) }

// Div sets z = x / y mod p.
func (f *Field2m) Div(z, x, y *Int) error {
	var yi Int
	if err := f.Inv(&yi, y); err != nil {
		return err
	}
	return f.Mul(z, x, &yi)
}
