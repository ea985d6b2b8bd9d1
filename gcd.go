package bignum

// Signed is a sign-magnitude integer used for Bezout coefficients.
type Signed struct {
	mag Int
	neg bool
}

// NewSigned returns the Signed value with magnitude m and the given sign.
func NewSigned(m *Int, negative bool) Signed {
	s := Signed{mag: *m, neg: negative}
	if s.mag.IsZero() {
		s.neg = false
	}
	return s
}

// Abs returns the magnitude.
func (s *Signed) Abs() Int { return s.mag }

// Negative reports whether s < 0.
func (s *Signed) Negative() bool { return s.neg }

// String renders s as signed hex.
func (s *Signed) String() string {
	if s.neg {
		return "-" + s.mag.Hex()
	}
	return s.mag.Hex()
}

// add sets s = x + y.
func (s *Signed) add(x, y *Signed) {
	if x.neg == y.neg {
		s.mag.Add(&x.mag, &y.mag)
		s.neg = x.neg
	} else if x.mag.Cmp(&y.mag) >= 0 {
		s.mag.Sub(&x.mag, &y.mag)
		s.neg = x.neg
	} else {
		s.mag.Sub(&y.mag, &x.mag)
		s.neg = y.neg
	}
	if s.mag.IsZero() {
		s.neg = false
	}
}

// sub sets s = x - y.
func (s *Signed) sub(x, y *Signed) {
	ny := *y
	if !ny.mag.IsZero() {
		ny.neg = !ny.neg
	}
	s.add(x, &ny)
}

// half sets s = s/2 for even s.
func (s *Signed) half() {
	s.mag.rsh1()
}

// Mod returns s reduced into [0, n).
func (s *Signed) Mod(a Arith, n *Int) (Int, error) {
	var r Int
	if err := a.Mod(&r, &s.mag, n); err != nil {
		return r, err
	}
	if s.neg && !r.IsZero() {
		r.Sub(n, &r)
	}
	return r, nil
}

// BinaryGCD returns gcd(x, y) by HAC 14.54. gcd(0, y) = y.
func BinaryGCD(x, y *Int) Int {
	if x.IsZero() {
		return *y
	}
	if y.IsZero() {
		return *x
	}
	u, v := *x, *y
	shift := uint(0)
	for u.IsEven() && v.IsEven() {
		u.rsh1()
		v.rsh1()
		shift++
	}
	for !u.IsZero() {
		for u.IsEven() {
			u.rsh1()
		}
		for v.IsEven() {
			v.rsh1()
		}
		var t Int
		if u.Cmp(&v) >= 0 {
			t.Sub(&u, &v)
			t.rsh1()
			u = t
		} else {
			t.Sub(&v, &u)
			t.rsh1()
			v = t
		}
	}
	var g Int
	g.Lsh(&v, shift)
	return g
}

// BinaryExtendedGCD returns g = gcd(x, y) and a, b with a*x + b*y = g using
// the binary extended algorithm of HAC 14.61. x and y must be positive.
// Inversion uses ExtendedGCD instead; this variant is kept as a cross-check.
func BinaryExtendedGCD(x, y *Int) (g Int, a, b Signed, err error) {
	if x.IsZero() || y.IsZero() {
		return g, a, b, ErrDivisionByZero
	}
	xs, ys := *x, *y
	shift := uint(0)
	for xs.IsEven() && ys.IsEven() {
		xs.rsh1()
		ys.rsh1()
		shift++
	}
	sx, sy := Signed{mag: xs}, Signed{mag: ys}
	u, v := xs, ys
	A, B := Signed{mag: *NewInt(1)}, Signed{}
	C, D := Signed{}, Signed{mag: *NewInt(1)}
	for {
		for u.IsEven() {
			u.rsh1()
			if A.mag.IsEven() && B.mag.IsEven() {
				A.half()
				B.half()
			} else {
				A.add(&A, &sy)
				A.half()
				B.sub(&B, &sx)
				B.half()
			}
		}
		for v.IsEven() {
			v.rsh1()
			if C.mag.IsEven() && D.mag.IsEven() {
				C.half()
				D.half()
			} else {
				C.add(&C, &sy)
				C.half()
				D.sub(&D, &sx)
				D.half()
			}
		}
		if u.Cmp(&v) >= 0 {
			u.Sub(&u, &v)
			A.sub(&A, &C)
			B.sub(&B, &D)
		} else {
			v.Sub(&v, &u)
			C.sub(&C, &A)
			D.sub(&D, &B)
		}
		if u.IsZero() {
			g.Lsh(&v, shift)
			return g, C, D, nil
		}
	}
}

// ExtendedGCD returns g = gcd(x, y) and s, t with s*x + t*y = g by the
// extended Euclidean algorithm.
func (a Arith) ExtendedGCD(x, y *Int) (g Int, s, t Signed, err error) {
	r0, r1 := *x, *y
	s0, s1 := Signed{mag: *NewInt(1)}, Signed{}
	t0, t1 := Signed{}, Signed{mag: *NewInt(1)}
	for !r1.IsZero() {
		var q, r Int
		if err = a.DivMod(&q, &r, &r0, &r1); err != nil {
			return
		}
		r0, r1 = r1, r
		var qs, qt Signed
		if qs.mag.Mul(&q, &s1.mag) || qt.mag.Mul(&q, &t1.mag) {
			err = ErrInvalidLength
			return
		}
		qs.neg, qt.neg = s1.neg, t1.neg
		var ns, nt Signed
		ns.sub(&s0, &qs)
		nt.sub(&t0, &qt)
		s0, s1 = s1, ns
		t0, t1 = t1, nt
	}
	return r0, s0, t0, nil
}

// InvMod sets z = x^-1 mod n, normalized into [0, n).
func (a Arith) InvMod(z, x, n *Int) error {
	if n.IsZero() {
		return ErrDivisionByZero
	}
	var xr Int
	if err := a.Mod(&xr, x, n); err != nil {
		return err
	}
	g, s, _, err := a.ExtendedGCD(&xr, n)
	if err != nil {
		return err
	}
	if n.IsOne() {
		z.SetZero()
		return nil
	}
	if !g.IsOne() {
		return ErrNotInvertible
	}
	r, err := s.Mod(a, n)
	if err != nil {
		return err
	}
	*z = r
	return nil
}
