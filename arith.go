package bignum

import "math/bits"

// Word-slice kernels. All slices are least significant word first.

// addVV sets z = x + y over len(z) words and returns the carry. x and y must
// be at least len(z) long.
func addVV(z, x, y []uint32) (c uint32) {
	for i := range z {
		z[i], c = bits.Add32(x[i], y[i], c)
	}
	return
}

// subVV sets z = x - y over len(z) words and returns the borrow.
func subVV(z, x, y []uint32) (b uint32) {
	for i := range z {
		z[i], b = bits.Sub32(x[i], y[i], b)
	}
	return
}

// addVW adds the single word y into z, propagating the carry.
func addVW(z []uint32, y uint32) (c uint32) {
	c = y
	for i := 0; i < len(z) && c != 0; i++ {
		z[i], c = bits.Add32(z[i], c, 0)
	}
	return
}

// mulAddVWW sets z = x*y + r and returns the carry word.
func mulAddVWW(z, x []uint32, y, r uint32) (c uint32) {
	c = r
	for i := range z {
		p := uint64(x[i])*uint64(y) + uint64(c)
		z[i] = uint32(p)
		c = uint32(p >> 32)
	}
	return
}

// subMulVW sets x = x - q*y where len(x) == len(y)+1, returning the borrow.
func subMulVW(x, y []uint32, q uint32) (b uint32) {
	var mc uint64
	for j := range y {
		p := uint64(q)*uint64(y[j]) + mc
		mc = p >> 32
		x[j], b = bits.Sub32(x[j], uint32(p), b)
	}
	x[len(y)], b = bits.Sub32(x[len(y)], uint32(mc), b)
	return
}

// Add sets z = x + y and returns the carry out of the top word.
func (z *Int) Add(x, y *Int) (carry uint32) {
	n := max(x.Len(), y.Len())
	carry = addVV(z.w[:n], x.w[:n], y.w[:n])
	if n < Words {
		z.w[n] = carry
		carry = 0
		clear(z.w[n+1:])
	}
	return
}

// Sub sets z = x - y and returns the borrow. On borrow z wraps to
// 2^(32*Words) + x - y.
func (z *Int) Sub(x, y *Int) (borrow uint32) {
	n := max(x.Len(), y.Len())
	borrow = subVV(z.w[:n], x.w[:n], y.w[:n])
	fill := uint32(0)
	if borrow != 0 {
		fill = wordMask
	}
	for i := n; i < Words; i++ {
		z.w[i] = fill
	}
	return
}

// AddWord sets z = x + w.
func (z *Int) AddWord(x *Int, w uint32) (carry uint32) {
	z.w = x.w
	return addVW(z.w[:], w)
}

// SubWord sets z = x - w, wrapping on borrow.
func (z *Int) SubWord(x *Int, w uint32) (borrow uint32) {
	z.w = x.w
	borrow = w
	for i := 0; i < Words && borrow != 0; i++ {
		z.w[i], borrow = bits.Sub32(z.w[i], borrow, 0)
	}
	return
}

// MulWord sets z = x * w and returns the word carried out of the top.
func (z *Int) MulWord(x *Int, w uint32) (carry uint32) {
	n := x.Len()
	carry = mulAddVWW(z.w[:n], x.w[:n], w, 0)
	if n < Words {
		z.w[n] = carry
		carry = 0
		clear(z.w[n+1:])
	}
	return
}

// DivWord sets z = x / w and returns x mod w.
func (z *Int) DivWord(x *Int, w uint32) (rem uint32, err error) {
	if w == 0 {
		return 0, ErrDivisionByZero
	}
	var t Int
	var r uint64
	for i := x.Len() - 1; i >= 0; i-- {
		cur := r<<32 | uint64(x.w[i])
		t.w[i] = uint32(cur / uint64(w))
		r = cur % uint64(w)
	}
	z.w = t.w
	return uint32(r), nil
}

// AddMod sets z = (x + y) mod n for 0 <= x, y < n.
func (z *Int) AddMod(x, y, n *Int) {
	m := *n
	c := z.Add(x, y)
	if c != 0 || z.Cmp(&m) >= 0 {
		z.Sub(z, &m)
	}
}

// SubMod sets z = (x - y) mod n for 0 <= x, y < n.
func (z *Int) SubMod(x, y, n *Int) {
	m := *n
	if z.Sub(x, y) != 0 {
		// full-width add drops the carry and undoes the wrap
		z.Add(z, &m)
	}
}

// addMulVVW sets z = z + x*y and returns the carry word.
func addMulVVW(z, x []uint32, y uint32) (c uint32) {
	for i := range z {
		p := uint64(x[i])*uint64(y) + uint64(z[i]) + uint64(c)
		z[i] = uint32(p)
		c = uint32(p >> 32)
	}
	return
}
