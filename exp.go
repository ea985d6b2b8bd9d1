package bignum

// expPrologue handles the cases shared by every exponentiation: a zero
// modulus, n == 1 and e == 0. It returns done when z already holds the
// result, and otherwise the base reduced mod n with the bound modular
// multiplication.
func (a Arith) expPrologue(z, x, e, n *Int) (base Int, mul modMulFunc, done bool, err error) {
	if n.IsZero() {
		return base, nil, true, ErrDivisionByZero
	}
	if n.IsOne() {
		z.SetZero()
		return base, nil, true, nil
	}
	if e.IsZero() {
		z.SetUint64(1)
		return base, nil, true, nil
	}
	if err = a.Mod(&base, x, n); err != nil {
		return base, nil, true, err
	}
	mul, err = a.boundMulMod(n)
	return base, mul, err != nil, err
}

// BitwiseExpMod sets z = x^e mod n by left-to-right square and multiply
// (HAC 14.79).
func (a Arith) BitwiseExpMod(z, x, e, n *Int) error {
	base, mul, done, err := a.expPrologue(z, x, e, n)
	if done {
		return err
	}
	acc := *NewInt(1)
	for i := e.BitLen() - 1; i >= 0; i-- {
		if err = mul(&acc, &acc, &acc); err != nil {
			return err
		}
		if e.bit(i) == 1 {
			if err = mul(&acc, &acc, &base); err != nil {
				return err
			}
		}
	}
	*z = acc
	return nil
}

const karyBits = 4

// KaryExpMod sets z = x^e mod n with a 4-bit fixed window (HAC 14.83) over
// a 16-entry table of x^0..x^15.
func (a Arith) KaryExpMod(z, x, e, n *Int) error {
	base, mul, done, err := a.expPrologue(z, x, e, n)
	if done {
		return err
	}
	var table [1 << karyBits]Int
	table[0].SetUint64(1)
	for i := 1; i < len(table); i++ {
		if err = mul(&table[i], &table[i-1], &base); err != nil {
			return err
		}
	}
	acc := *NewInt(1)
	digits := (e.BitLen() + karyBits - 1) / karyBits
	for d := digits - 1; d >= 0; d-- {
		for k := 0; k < karyBits; k++ {
			if err = mul(&acc, &acc, &acc); err != nil {
				return err
			}
		}
		var w uint32
		for k := karyBits - 1; k >= 0; k-- {
			w = w<<1 | e.bit(d*karyBits+k)
		}
		if w != 0 {
			if err = mul(&acc, &acc, &table[w]); err != nil {
				return err
			}
		}
	}
	*z = acc
	return nil
}
