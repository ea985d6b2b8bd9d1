package bignum

// MontContext holds the precomputed values for Montgomery arithmetic modulo
// an odd n with R = 2^(32*l), l the word length of n. It is built once per
// modulus by the caller and never modified afterwards, so it may be shared
// between goroutines.
type MontContext struct {
	arith Arith
	n     Int
	l     int
	np0   uint32 // -n^-1 mod 2^32
	rr    Int    // R mod n
	r2    Int    // R^2 mod n
}

// NewMontContext precomputes n' mod 2^32, R mod n and R^2 mod n for an odd
// modulus.
func (a Arith) NewMontContext(n *Int) (*MontContext, error) {
	if n.IsZero() {
		return nil, ErrDivisionByZero
	}
	if n.IsEven() {
		return nil, ErrNotInvertible
	}
	l := n.Len()
	if 2*l+2 > Words {
		return nil, ErrInvalidLength
	}
	c := &MontContext{arith: a, n: *n, l: l}
	np0, err := a.ModulusPrime(n, MontPerStep)
	if err != nil {
		return nil, err
	}
	c.np0 = np0.w[0]

	var r Int
	r.w[l] = 1
	if err = a.Mod(&c.rr, &r, n); err != nil {
		return nil, err
	}
	if err = c.MulMod(&c.r2, &c.rr, &c.rr, MontWordwise); err != nil {
		return nil, err
	}
	return c, nil
}

// Modulus returns n.
func (c *MontContext) Modulus() Int { return c.n }

// NPrime returns -n^-1 mod R. The products only need its low word, so the
// full value is computed on each call.
func (c *MontContext) NPrime() Int {
	np, err := c.arith.ModulusPrime(&c.n, MontWordwise)
	if err != nil {
		// n was validated by NewMontContext
		panic(err)
	}
	return np
}

// RModN returns R mod n, the Montgomery form of 1.
func (c *MontContext) RModN() Int { return c.rr }

// ModulusPrime computes the Montgomery constant for the given product
// variant: -n^-1 mod R for the word-wise product, -n^-1 mod 2^32 for the
// per-step product, and zero for the bitwise product which needs none.
func (a Arith) ModulusPrime(n *Int, p MontgomeryProduct) (Int, error) {
	var z Int
	if n.IsZero() {
		return z, ErrDivisionByZero
	}
	if n.IsEven() {
		return z, ErrNotInvertible
	}
	var m, r Int
	switch p {
	case MontBitwise:
		return z, nil
	case MontPerStep:
		m.w[0] = n.w[0]
		r.w[1] = 1
	default:
		l := n.Len()
		if l+1 > Words {
			return z, ErrInvalidLength
		}
		m = *n
		r.w[l] = 1
	}
	var inv Int
	if err := a.InvMod(&inv, &m, &r); err != nil {
		return z, err
	}
	z.Sub(&r, &inv)
	return z, nil
}

// Reduce is Montgomery reduction (HAC 14.32): z = t*R^-1 mod n for t < n*R.
func (c *MontContext) Reduce(z, t *Int) error {
	l := c.l
	if t.Len() > 2*l {
		return ErrInvalidLength
	}
	var a [Words + 1]uint32
	copy(a[:2*l], t.w[:2*l])
	n := c.n.w[:l]
	for i := 0; i < l; i++ {
		u := a[i] * c.np0
		cy := addMulVVW(a[i:i+l], n, u)
		addVW(a[i+l:2*l+1], cy)
	}
	c.finish(z, a[l:2*l+1])
	return nil
}

// finish subtracts n once if needed and stores the l-word result in z.
func (c *MontContext) finish(z *Int, a []uint32) {
	if cmpWords(a, c.n.w[:c.l]) >= 0 {
		subVV(a, a, c.n.w[:len(a)])
	}
	var t Int
	copy(t.w[:c.l], a[:c.l])
	z.w = t.w
}

// Product sets z = x*y*R^-1 mod n with the selected kernel. It requires
// x < R and y < n; all three kernels return the same value.
func (c *MontContext) Product(z, x, y *Int, p MontgomeryProduct) {
	switch p {
	case MontBitwise:
		c.productBitwise(z, x, y)
	case MontPerStep:
		c.productPerStep(z, x, y)
	default:
		c.productWordwise(z, x, y)
	}
}

// productWordwise is HAC 14.36 with the x_i*y and u*n passes fused into one
// inner loop carrying two running carries.
func (c *MontContext) productWordwise(z, x, y *Int) {
	l := c.l
	var a [Words]uint32
	n, yw := c.n.w[:l], y.w[:l]
	for i := 0; i < l; i++ {
		xi := uint64(x.w[i])
		u := uint64((a[0] + x.w[i]*y.w[0]) * c.np0)
		var c1, c2 uint64
		for j := 0; j < l; j++ {
			s := uint64(a[j]) + xi*uint64(yw[j]) + c1
			c1 = s >> 32
			s2 := s&wordMask + u*uint64(n[j]) + c2
			c2 = s2 >> 32
			if j > 0 {
				a[j-1] = uint32(s2)
			}
		}
		s := uint64(a[l]) + c1 + c2
		a[l-1] = uint32(s)
		a[l] = uint32(s >> 32)
	}
	c.finish(z, a[:l+1])
}

// productBitwise consumes x one bit at a time over 32*l bits: add y when the
// bit is set, add n when the accumulator is odd, halve. The accumulator stays
// below 2n.
func (c *MontContext) productBitwise(z, x, y *Int) {
	l := c.l
	var a [Words]uint32
	acc := a[:l+1]
	n, yw := c.n.w[:l+1], y.w[:l+1]
	for i := 0; i < wordBits*l; i++ {
		if x.bit(i) == 1 {
			addVV(acc, acc, yw)
		}
		if acc[0]&1 == 1 {
			addVV(acc, acc, n)
		}
		shrVU(acc, acc, 1)
	}
	c.finish(z, acc)
}

// productPerStep runs the word iteration as separate whole-number steps:
// A += x_i*y, u = A_0*n'0, A += u*n, A /= b.
func (c *MontContext) productPerStep(z, x, y *Int) {
	var a, t Int
	for i := 0; i < c.l; i++ {
		t.MulWord(y, x.w[i])
		a.Add(&a, &t)
		u := a.w[0] * c.np0
		t.MulWord(&c.n, u)
		a.Add(&a, &t)
		a.Rsh(&a, wordBits)
	}
	c.finish(z, a.w[:c.l+1])
}

// ToMont sets z = x*R mod n, the Montgomery form of x < n.
func (c *MontContext) ToMont(z, x *Int, p MontgomeryProduct) {
	c.Product(z, x, &c.r2, p)
}

// FromMont sets z = x*R^-1 mod n, leaving Montgomery form.
func (c *MontContext) FromMont(z, x *Int, p MontgomeryProduct) {
	c.Product(z, x, NewInt(1), p)
}

// MulMod sets z = x*y mod n for x, y < n. x is brought into Montgomery form
// by repeated doubling with conditional subtraction, then one product
// cancels the extra factor.
func (c *MontContext) MulMod(z, x, y *Int, p MontgomeryProduct) error {
	if x.Cmp(&c.n) >= 0 || y.Cmp(&c.n) >= 0 {
		return ErrInvalidLength
	}
	l := c.l
	var xa Int
	xa = *x
	acc, n := xa.w[:l+1], c.n.w[:l+1]
	for i := 0; i < wordBits*l; i++ {
		shlVU(acc, acc, 1)
		if cmpWords(acc, n) >= 0 {
			subVV(acc, acc, n)
		}
	}
	c.Product(z, &xa, y, p)
	return nil
}

// ExpMod sets z = x^e mod n by HAC 14.94.
func (c *MontContext) ExpMod(z, x, e *Int, p MontgomeryProduct) error {
	if c.n.IsOne() {
		z.SetZero()
		return nil
	}
	var xr Int
	if err := c.arith.Mod(&xr, x, &c.n); err != nil {
		return err
	}
	var xt Int
	c.ToMont(&xt, &xr, p)
	a := c.rr
	for i := e.BitLen() - 1; i >= 0; i-- {
		c.Product(&a, &a, &a, p)
		if e.bit(i) == 1 {
			c.Product(&a, &a, &xt, p)
		}
	}
	c.FromMont(z, &a, p)
	return nil
}
