package bignum

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// DivisionAlgorithm selects the long division used by every operation that
// reduces modulo n.
type DivisionAlgorithm uint8

const (
	// DivisionHAC is HAC 14.20 with the three-word trial digit refinement.
	DivisionHAC DivisionAlgorithm = iota
	// DivisionClassic brackets each trial digit and binary searches it.
	DivisionClassic
)

// MulModAlgorithm selects how a*b mod n is computed.
type MulModAlgorithm uint8

const (
	// MulModClassic multiplies then divides.
	MulModClassic MulModAlgorithm = iota
	// MulModMontgomery enters Montgomery form and runs one product.
	MulModMontgomery
)

// MontgomeryProduct selects one of the three Montgomery product kernels.
type MontgomeryProduct uint8

const (
	// MontWordwise is HAC 14.36, one word of x per iteration.
	MontWordwise MontgomeryProduct = iota
	// MontBitwise processes one bit of x per iteration and needs no n'.
	MontBitwise
	// MontPerStep adds x_i*y, then u*n, then shifts, as separate steps.
	MontPerStep
)

// ExpAlgorithm selects the modular exponentiation.
type ExpAlgorithm uint8

const (
	// ExpKary is the 4-bit windowed method of HAC 14.83.
	ExpKary ExpAlgorithm = iota
	// ExpBitwise is left-to-right square and multiply, HAC 14.79.
	ExpBitwise
	// ExpMontgomery is HAC 14.94.
	ExpMontgomery
)

var (
	divisionNames = []string{"hac", "classic"}
	mulModNames   = []string{"classic", "montgomery"}
	productNames  = []string{"wordwise", "bitwise", "perstep"}
	expNames      = []string{"kary", "bitwise", "montgomery"}
)

func (d DivisionAlgorithm) String() string { return enumName(divisionNames, int(d)) }
func (m MulModAlgorithm) String() string   { return enumName(mulModNames, int(m)) }
func (p MontgomeryProduct) String() string { return enumName(productNames, int(p)) }
func (e ExpAlgorithm) String() string      { return enumName(expNames, int(e)) }

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("unknown(%d)", i)
	}
	return names[i]
}

func enumParse(kind string, names []string, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, errors.Errorf("unknown %s algorithm %q (want one of %s)", kind, s, strings.Join(names, ", "))
}

// ParseDivisionAlgorithm parses "hac" or "classic".
func ParseDivisionAlgorithm(s string) (DivisionAlgorithm, error) {
	i, err := enumParse("division", divisionNames, s)
	return DivisionAlgorithm(i), err
}

// ParseMulModAlgorithm parses "classic" or "montgomery".
func ParseMulModAlgorithm(s string) (MulModAlgorithm, error) {
	i, err := enumParse("mulmod", mulModNames, s)
	return MulModAlgorithm(i), err
}

// ParseMontgomeryProduct parses "wordwise", "bitwise" or "perstep".
func ParseMontgomeryProduct(s string) (MontgomeryProduct, error) {
	i, err := enumParse("montgomery product", productNames, s)
	return MontgomeryProduct(i), err
}

// ParseExpAlgorithm parses "kary", "bitwise" or "montgomery".
func ParseExpAlgorithm(s string) (ExpAlgorithm, error) {
	i, err := enumParse("exponentiation", expNames, s)
	return ExpAlgorithm(i), err
}

// Arith bundles the algorithm choices for the strategy-dependent operations.
// The zero value is DefaultArith. Arith values are immutable and safe for
// concurrent use.
type Arith struct {
	Division DivisionAlgorithm
	Mult     MulModAlgorithm
	Product  MontgomeryProduct
	Exp      ExpAlgorithm
}

// DefaultArith uses HAC division, classic modular multiplication, the
// word-wise Montgomery product and k-ary exponentiation.
var DefaultArith = Arith{}

// ParseArith builds an Arith from algorithm names; empty names keep the
// default.
func ParseArith(division, mulmod, product, exp string) (a Arith, err error) {
	if division != "" {
		if a.Division, err = ParseDivisionAlgorithm(division); err != nil {
			return
		}
	}
	if mulmod != "" {
		if a.Mult, err = ParseMulModAlgorithm(mulmod); err != nil {
			return
		}
	}
	if product != "" {
		if a.Product, err = ParseMontgomeryProduct(product); err != nil {
			return
		}
	}
	if exp != "" {
		if a.Exp, err = ParseExpAlgorithm(exp); err != nil {
			return
		}
	}
	return
}

func (a Arith) String() string {
	return fmt.Sprintf("division=%s mulmod=%s product=%s exp=%s", a.Division, a.Mult, a.Product, a.Exp)
}

// DivMod sets q = x / y and r = x mod y. Either output may be nil; q and r
// must not be the same Int.
func (a Arith) DivMod(q, r, x, y *Int) error {
	if q != nil && q == r {
		return ErrAliasedOutputs
	}
	qq, rr, err := divMod(a.Division, x, y)
	if err != nil {
		return err
	}
	if q != nil {
		*q = qq
	}
	if r != nil {
		*r = rr
	}
	return nil
}

// Mod sets z = x mod n.
func (a Arith) Mod(z, x, n *Int) error {
	return a.DivMod(nil, z, x, n)
}

// MulMod sets z = x*y mod n using the selected modular multiplication. The
// Montgomery path needs an odd n and x, y < n; for even n it falls back to
// the classic path.
func (a Arith) MulMod(z, x, y, n *Int) error {
	if a.Mult == MulModMontgomery && n.IsOdd() && !n.IsOne() {
		var xr, yr Int
		if err := a.Mod(&xr, x, n); err != nil {
			return err
		}
		if err := a.Mod(&yr, y, n); err != nil {
			return err
		}
		ctx, err := a.NewMontContext(n)
		if err != nil {
			return err
		}
		return ctx.MulMod(z, &xr, &yr, a.Product)
	}
	return a.MulModClassic(z, x, y, n)
}

// ExpMod sets z = x^e mod n using the selected exponentiation. Montgomery
// exponentiation falls back to k-ary for even moduli.
func (a Arith) ExpMod(z, x, e, n *Int) error {
	switch a.Exp {
	case ExpBitwise:
		return a.BitwiseExpMod(z, x, e, n)
	case ExpMontgomery:
		if n.IsOdd() && !n.IsOne() {
			ctx, err := a.NewMontContext(n)
			if err != nil {
				return err
			}
			return ctx.ExpMod(z, x, e, a.Product)
		}
	}
	return a.KaryExpMod(z, x, e, n)
}
