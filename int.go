// Package bignum is a fixed-width multi-precision arithmetic engine for
// public-key cryptography: long division, Montgomery reduction, modular
// exponentiation, GCD and inversion, and GF(2^m) polynomial arithmetic over a
// single word-array integer type. Algorithm choices are carried by an Arith
// value rather than global state.
package bignum

import (
	"math/big"
	"math/bits"
	"strings"
	"unsafe"
)

const (
	// MaxBits is the largest modulus size, in bits, the engine is built for.
	MaxBits = 2048

	// Words is the capacity of an Int in 32-bit words. It holds the full
	// product of two MaxBits operands plus two guard words.
	Words = (MaxBits+31)/32*2 + 2

	wordBits = 32
	wordMask = 0xffffffff
)

// Int is a non-negative integer of fixed capacity Words*32 bits, stored least
// significant word first. Words above the used length are always zero.
//
// Methods follow the receiver-as-result convention: z.Add(x, y) stores x+y in
// z. Unless noted otherwise the receiver may alias any operand.
type Int struct {
	w [Words]uint32
}

// NewInt returns an Int holding v.
func NewInt(v uint64) *Int {
	z := new(Int)
	z.SetUint64(v)
	return z
}

// MustParseHex parses a hex constant and panics on failure. It is meant for
// package-level tables such as curve parameters.
func MustParseHex(s string) Int {
	var z Int
	if err := z.SetHex(s); err != nil {
		panic("bignum: bad constant " + s + ": " + err.Error())
	}
	return z
}

// SetUint64 sets z to v.
func (z *Int) SetUint64(v uint64) *Int {
	z.w = [Words]uint32{}
	z.w[0] = uint32(v)
	z.w[1] = uint32(v >> 32)
	return z
}

// Set copies x into z.
func (z *Int) Set(x *Int) *Int {
	z.w = x.w
	return z
}

// SetZero sets z to 0.
func (z *Int) SetZero() *Int {
	z.w = [Words]uint32{}
	return z
}

// Clear wipes z so secret values do not linger in memory.
func (z *Int) Clear() {
	memclear(unsafe.Pointer(z), unsafe.Sizeof(*z))
}

// Uint64 returns the low 64 bits of x.
func (x *Int) Uint64() uint64 {
	return uint64(x.w[1])<<32 | uint64(x.w[0])
}

// Word returns word i of x, or 0 when i is out of range.
func (x *Int) Word(i int) uint32 {
	if i < 0 || i >= Words {
		return 0
	}
	return x.w[i]
}

// Len returns the index of the highest non-zero word plus one; 0 for zero.
func (x *Int) Len() int {
	return wordsLen(x.w[:])
}

// BitLen returns the 1-based position of the highest set bit; 0 for zero.
func (x *Int) BitLen() int {
	l := x.Len()
	if l == 0 {
		return 0
	}
	return (l-1)*wordBits + bits.Len32(x.w[l-1])
}

// Bit returns bit i of x.
func (x *Int) Bit(i int) (uint32, error) {
	if i < 0 || i >= Words*wordBits {
		return 0, ErrInvalidLength
	}
	return x.bit(i), nil
}

func (x *Int) bit(i int) uint32 {
	return (x.w[i/wordBits] >> (uint(i) % wordBits)) & 1
}

// SetBit sets bit i of z.
func (z *Int) SetBit(i int) error {
	if i < 0 || i >= Words*wordBits {
		return ErrInvalidLength
	}
	z.w[i/wordBits] |= 1 << (uint(i) % wordBits)
	return nil
}

// ClearBit clears bit i of z.
func (z *Int) ClearBit(i int) error {
	if i < 0 || i >= Words*wordBits {
		return ErrInvalidLength
	}
	z.w[i/wordBits] &^= 1 << (uint(i) % wordBits)
	return nil
}

// IsZero reports whether x == 0.
func (x *Int) IsZero() bool {
	for _, v := range x.w {
		if v != 0 {
			return false
		}
	}
	return true
}

// IsOne reports whether x == 1.
func (x *Int) IsOne() bool {
	return x.w[0] == 1 && wordsLen(x.w[1:]) == 0
}

// IsOdd reports whether x is odd.
func (x *Int) IsOdd() bool { return x.w[0]&1 == 1 }

// IsEven reports whether x is even.
func (x *Int) IsEven() bool { return x.w[0]&1 == 0 }

// Cmp returns -1, 0 or +1 as x is less than, equal to or greater than y.
func (x *Int) Cmp(y *Int) int {
	return cmpWords(x.w[:], y.w[:])
}

// Equal reports whether x == y.
func (x *Int) Equal(y *Int) bool { return x.w == y.w }

// Lsh sets z = x << n, dropping bits shifted past the capacity.
func (z *Int) Lsh(x *Int, n uint) {
	if n >= Words*wordBits {
		z.SetZero()
		return
	}
	var t [Words]uint32
	ws, bs := int(n/wordBits), n%wordBits
	for i := Words - 1; i >= ws; i-- {
		v := x.w[i-ws] << bs
		if bs != 0 && i-ws-1 >= 0 {
			v |= x.w[i-ws-1] >> (wordBits - bs)
		}
		t[i] = v
	}
	z.w = t
}

// Rsh sets z = x >> n.
func (z *Int) Rsh(x *Int, n uint) {
	if n >= Words*wordBits {
		z.SetZero()
		return
	}
	var t [Words]uint32
	ws, bs := int(n/wordBits), n%wordBits
	for i := 0; i+ws < Words; i++ {
		v := x.w[i+ws] >> bs
		if bs != 0 && i+ws+1 < Words {
			v |= x.w[i+ws+1] << (wordBits - bs)
		}
		t[i] = v
	}
	z.w = t
}

// lsh1 doubles z in place and returns the bit shifted out of the top.
func (z *Int) lsh1() uint32 {
	var c uint32
	for i := 0; i < Words; i++ {
		v := z.w[i]
		z.w[i] = v<<1 | c
		c = v >> 31
	}
	return c
}

// rsh1 halves z in place.
func (z *Int) rsh1() {
	for i := 0; i < Words-1; i++ {
		z.w[i] = z.w[i]>>1 | z.w[i+1]<<31
	}
	z.w[Words-1] >>= 1
}

// lsh32Append shifts z left by one word and sets the low word to v. The top
// word is discarded.
func (z *Int) lsh32Append(v uint32) {
	copy(z.w[1:], z.w[:Words-1])
	z.w[0] = v
}

// SetHex parses big-endian hexadecimal text with an optional 0x prefix.
func (z *Int) SetHex(s string) error {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) == 0 {
		return ErrInvalidEncoding
	}
	var t Int
	digits := 0
	for i := len(s); i > 0; i -= 8 {
		lo := i - 8
		if lo < 0 {
			lo = 0
		}
		var v uint32
		for _, c := range s[lo:i] {
			d, ok := hexDigit(c)
			if !ok {
				return ErrInvalidEncoding
			}
			v = v<<4 | d
		}
		if digits >= Words {
			if v != 0 {
				return ErrInvalidLength
			}
			continue
		}
		t.w[digits] = v
		digits++
	}
	z.w = t.w
	return nil
}

func hexDigit(c rune) (uint32, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint32(c - '0'), true
	case c >= 'a' && c <= 'f':
		return uint32(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return uint32(c-'A') + 10, true
	}
	return 0, false
}

const hexChars = "0123456789abcdef"

// Hex returns x as minimal-width lowercase hex with a 0x prefix.
func (x *Int) Hex() string {
	l := x.Len()
	if l == 0 {
		return "0x0"
	}
	buf := make([]byte, 0, 2+l*8)
	buf = append(buf, '0', 'x')
	started := false
	for i := l - 1; i >= 0; i-- {
		for s := 28; s >= 0; s -= 4 {
			d := (x.w[i] >> uint(s)) & 0xf
			if d == 0 && !started {
				continue
			}
			started = true
			buf = append(buf, hexChars[d])
		}
	}
	return string(buf)
}

// String implements fmt.Stringer.
func (x *Int) String() string { return x.Hex() }

// SetBytes interprets b as a big-endian unsigned integer.
func (z *Int) SetBytes(b []byte) error {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	if len(b) > Words*4 {
		return ErrInvalidLength
	}
	var t Int
	for i := 0; i < len(b); i++ {
		t.w[i/4] |= uint32(b[len(b)-1-i]) << (8 * uint(i%4))
	}
	z.w = t.w
	return nil
}

// FillBytes writes x big-endian into buf, zero padded on the left.
func (x *Int) FillBytes(buf []byte) error {
	if (x.BitLen()+7)/8 > len(buf) {
		return ErrInvalidLength
	}
	for i := range buf {
		buf[i] = 0
	}
	for i := 0; i < len(buf) && i < Words*4; i++ {
		buf[len(buf)-1-i] = byte(x.w[i/4] >> (8 * uint(i%4)))
	}
	return nil
}

// Bytes returns the minimal big-endian encoding of x; empty for zero.
func (x *Int) Bytes() []byte {
	buf := make([]byte, (x.BitLen()+7)/8)
	_ = x.FillBytes(buf)
	return buf
}

// SetBig sets z from a non-negative big.Int.
func (z *Int) SetBig(b *big.Int) error {
	if b.Sign() < 0 {
		return ErrInvalidEncoding
	}
	return z.SetBytes(b.Bytes())
}

// Big returns x as a big.Int.
func (x *Int) Big() *big.Int {
	return new(big.Int).SetBytes(x.Bytes())
}

func wordsLen(w []uint32) int {
	l := len(w)
	for l > 0 && w[l-1] == 0 {
		l--
	}
	return l
}

// cmpWords compares two word slices of possibly different lengths.
func cmpWords(x, y []uint32) int {
	lx, ly := wordsLen(x), wordsLen(y)
	if lx != ly {
		if lx < ly {
			return -1
		}
		return 1
	}
	for i := lx - 1; i >= 0; i-- {
		if x[i] != y[i] {
			if x[i] < y[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func memclear(ptr unsafe.Pointer, n uintptr) {
	for i := uintptr(0); i < n; i++ {
		*(*byte)(unsafe.Pointer(uintptr(ptr) + i)) = 0
	}
}
