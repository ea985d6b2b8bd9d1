package bignum

// MulModClassic sets z = x*y mod n by a full product followed by division.
// It is the reference every other modular multiplication is checked against.
func (a Arith) MulModClassic(z, x, y, n *Int) error {
	if n.IsZero() {
		return ErrDivisionByZero
	}
	var p Int
	if p.Mul(x, y) {
		return ErrInvalidLength
	}
	return a.Mod(z, &p, n)
}

// SqrMod sets z = x*x mod n.
func (a Arith) SqrMod(z, x, n *Int) error {
	return a.MulMod(z, x, x, n)
}

// modMulFunc is a modular multiplication bound to one modulus.
type modMulFunc func(z, x, y *Int) error

// boundMulMod returns the configured modular multiplication for n. A
// Montgomery context is built once here rather than per product.
func (a Arith) boundMulMod(n *Int) (modMulFunc, error) {
	if n.IsZero() {
		return nil, ErrDivisionByZero
	}
	if a.Mult == MulModMontgomery && n.IsOdd() && !n.IsOne() {
		ctx, err := a.NewMontContext(n)
		if err != nil {
			return nil, err
		}
		p := a.Product
		return func(z, x, y *Int) error { return ctx.MulMod(z, x, y, p) }, nil
	}
	return func(z, x, y *Int) error { return a.MulModClassic(z, x, y, n) }, nil
}
