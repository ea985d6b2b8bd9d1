package bignum

import "math/bits"

// divMod divides x by y with the chosen algorithm. Both algorithms share the
// normalization step and produce identical results.
func divMod(alg DivisionAlgorithm, x, y *Int) (q, r Int, err error) {
	ly := y.Len()
	if ly == 0 {
		return q, r, ErrDivisionByZero
	}
	if x.Cmp(y) < 0 {
		r = *x
		return
	}
	if ly == 1 {
		var rem uint32
		rem, err = q.DivWord(x, y.w[0])
		r.w[0] = rem
		return
	}

	// Normalize so the divisor's top word has its high bit set. The dividend
	// gets one extra word so the shift never loses bits.
	s := uint(bits.LeadingZeros32(y.w[ly-1]))
	var yn [Words]uint32
	shlVU(yn[:ly], y.w[:ly], s)
	var xn [Words + 1]uint32
	lx := x.Len()
	xn[lx] = shlVU(xn[:lx], x.w[:lx], s)
	n := wordsLen(xn[:lx+1]) - 1
	t := ly - 1

	var qw [Words]uint32
	switch alg {
	case DivisionClassic:
		divClassic(qw[:n-t+1], xn[:n+1], yn[:ly])
	default:
		divHAC(qw[:n-t+1], xn[:n+1], yn[:ly])
	}
	q.w = qw
	shrVU(r.w[:ly], xn[:ly], s)
	return
}

// shlVU sets z = x << s for s < 32 and returns the bits shifted out.
func shlVU(z, x []uint32, s uint) (c uint32) {
	if s == 0 {
		copy(z, x)
		return 0
	}
	for i := len(x) - 1; i >= 0; i-- {
		v := x[i]
		z[i] = v << s
		if i > 0 {
			z[i] |= x[i-1] >> (wordBits - s)
		}
		if i == len(x)-1 {
			c = v >> (wordBits - s)
		}
	}
	return
}

// shrVU sets z = x >> s for s < 32.
func shrVU(z, x []uint32, s uint) {
	if s == 0 {
		copy(z, x)
		return
	}
	for i := 0; i < len(x); i++ {
		z[i] = x[i] >> s
		if i+1 < len(x) {
			z[i] |= x[i+1] << (wordBits - s)
		}
	}
}

// topStep handles the leading quotient digit: while x >= y*b^(n-t),
// subtract. With a normalized divisor it runs at most once.
func topStep(q, x, y []uint32) {
	n, t := len(x)-1, len(y)-1
	hi := x[n-t:]
	for cmpWords(hi, y) >= 0 {
		subVV(hi[:len(y)], hi[:len(y)], y)
		if len(hi) > len(y) {
			hi[len(y)] = 0
		}
		q[n-t]++
	}
}

// divHAC is HAC 14.20. x (n+1 words) is replaced by the remainder, y (t+1
// words) must be normalized, q receives n-t+1 digits.
func divHAC(q, x, y []uint32) {
	n, t := len(x)-1, len(y)-1
	topStep(q, x, y)
	yt := uint64(y[t])
	var yt1 uint64
	if t >= 1 {
		yt1 = uint64(y[t-1])
	}
	for i := n; i >= t+1; i-- {
		var qh uint64
		if x[i] == y[t] {
			qh = wordMask
		} else {
			qh = (uint64(x[i])<<32 | uint64(x[i-1])) / yt
		}
		var x2 uint32
		if i >= 2 {
			x2 = x[i-2]
		}
		// while qh*(yt*b + yt1) > x[i]*b^2 + x[i-1]*b + x[i-2]
		for gt3(qh, yt, yt1, x[i], x[i-1], x2) {
			qh--
		}
		win := x[i-t-1 : i+1]
		if subMulVW(win, y, uint32(qh)) != 0 {
			addVV(win[:len(y)], win[:len(y)], y)
			win[len(y)] = 0
			qh--
		}
		q[i-t-1] = uint32(qh)
	}
}

// gt3 reports whether q*(a*b + c) exceeds the three-word value (x2 x1 x0).
func gt3(q, a, c uint64, x2, x1, x0 uint32) bool {
	p0 := q * c
	p1 := q * a
	l0 := uint32(p0)
	mid := p0>>32 + uint64(uint32(p1))
	l1 := uint32(mid)
	l2 := p1>>32 + mid>>32
	switch {
	case l2 != uint64(x2):
		return l2 > uint64(x2)
	case l1 != x1:
		return l1 > x1
	}
	return l0 > x0
}

// divClassic finds each quotient digit by binary search between
// floor(top/(y_t+1)) and floor((top+1)/y_t), where top is the leading two
// words of the current remainder window.
func divClassic(q, x, y []uint32) {
	n, t := len(x)-1, len(y)-1
	topStep(q, x, y)
	yt := uint64(y[t])
	var prod [Words + 1]uint32
	for i := n; i >= t+1; i-- {
		top := uint64(x[i])<<32 | uint64(x[i-1])
		lo := top / (yt + 1)
		var hi uint64
		if top == 1<<64-1 {
			hi = wordMask
		} else {
			hi = (top + 1) / yt
		}
		if hi > wordMask {
			hi = wordMask
		}
		win := x[i-t-1 : i+1]
		p := prod[:len(win)]
		for lo < hi {
			mid := (lo + hi + 1) / 2
			p[len(y)] = mulAddVWW(p[:len(y)], y, uint32(mid), 0)
			if cmpWords(p, win) <= 0 {
				lo = mid
			} else {
				hi = mid - 1
			}
		}
		p[len(y)] = mulAddVWW(p[:len(y)], y, uint32(lo), 0)
		subVV(win, win, p)
		q[i-t-1] = uint32(lo)
	}
}

// CheckDivision verifies x == q*y + r and r < y.
func CheckDivision(q, r, x, y *Int) error {
	if r.Cmp(y) >= 0 {
		return ErrInvariantViolation
	}
	var p Int
	if p.Mul(q, y) {
		return ErrInvariantViolation
	}
	if p.Add(&p, r) != 0 || !p.Equal(x) {
		return ErrInvariantViolation
	}
	return nil
}
