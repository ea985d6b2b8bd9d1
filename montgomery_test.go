package bignum

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// 128-bit Montgomery vectors with R = 2^128: modulus, n' = -n^-1 mod R,
// R^-1 mod n, operands and A*B*R^-1 mod n.
var montVectors = []struct {
	n, np, rinv, a, b, pro string
}{
	{
		"0xeee74404d129949520704c5bf5814703", "0xa5e0296c5b1d29d6b905ba8ad65d2455",
		"0x9acc3fdac783b519dd82e86481aa4f41", "0x223520375bd184b2bac64c9d1a6c55fa",
		"0xd857ed0720d590d61f05c150e1e40917", "0xe3bd635debc8021ea0208d75df078ea6",
	},
	{
		"0xf0fe9f3c608d779379bb3676fdb85071", "0xcaa42ecf90315ae71b89b6193d868f6f",
		"0xbec378d4cd1ac607faef5b46eb7928cd", "0xadfdb6089758064a69aad900ad18274b",
		"0x828994fe60ddcab48671399fd349b0ff", "0xd848da961b4c3092def8bdaca7a73bee",
	},
	{
		"0xdd54fd6aa41a0dbcb7550b284862b7a5", "0x19fac77336272731ae87fe0e59ea7d3",
		"0x16761e2f9128508ad135cc6b6d6218d", "0xc9d5398bf1cec1342f3c7cca33ea04a6",
		"0x2f5bf07df1f473c46318eea49d7f1de3", "0x7dccdc7deb3d1a1b3afb2b7c0ca5c53a",
	},
	{
		"0x9848765c71a41c12921ca63ca42a203d", "0x77ed2ff5fed15b1c611423518c4488eb",
		"0x4756c6a22f112c1b804bb540fb47b820", "0xc52c1e570e620174fcbb51063ecbfcb1",
		"0x4b1a9caa8e183aabd89e8f3ab7561273", "0x55352eb5475ce94fefcce0a8b687044f",
	},
	{
		"0xc71a6ffca861df3a175c6eb226581289", "0xe3d08525994d7aa7d1556631cbb4fc47",
		"0xb12e9e5600d31abbdf15fd645ec00471", "0xb253687d5f73bacf1fbd542d5d604272",
		"0xaf9764ea40aa14153e8af13177851ab1", "0x8b89addf457e084b752d716c73d29821",
	},
}

var products = []MontgomeryProduct{MontWordwise, MontBitwise, MontPerStep}

func TestMontgomeryVectors(t *testing.T) {
	for i, v := range montVectors {
		n, a, b := hexInt(t, v.n), hexInt(t, v.a), hexInt(t, v.b)
		for _, ar := range []Arith{{Division: DivisionHAC}, {Division: DivisionClassic}} {
			ctx, err := ar.NewMontContext(&n)
			require.NoError(t, err)
			np := ctx.NPrime()
			require.Equal(t, v.np, np.Hex(), "vector %d n'", i)

			// R^-1 mod n
			rinv := hexInt(t, v.rinv)
			var chk Int
			rr := ctx.RModN()
			require.NoError(t, ar.MulModClassic(&chk, &rr, &rinv, &n))
			require.True(t, chk.IsOne(), "vector %d R*R^-1", i)

			for _, p := range products {
				var got Int
				ctx.Product(&got, &a, &b, p)
				require.Equal(t, v.pro, got.Hex(), "vector %d product %s", i, p)
			}

			// REDC of the full product gives the same value
			var t2, red Int
			t2.Mul(&a, &b)
			require.NoError(t, ctx.Reduce(&red, &t2))
			require.Equal(t, v.pro, red.Hex(), "vector %d reduce", i)
		}
	}
}

func TestModulusPrime(t *testing.T) {
	f := newFuzzer(30)
	a := DefaultArith
	for i := 0; i < 50; i++ {
		n := randOdd(f, 1+i%12)
		np, err := a.ModulusPrime(&n, MontWordwise)
		require.NoError(t, err)
		np0, err := a.ModulusPrime(&n, MontPerStep)
		require.NoError(t, err)
		require.Equal(t, np.w[0], np0.w[0])
		require.Equal(t, 1, np0.Len())

		// n*n' = -1 mod R
		var r, prod Int
		r.w[n.Len()] = 1
		prod.Mul(&n, &np)
		require.NoError(t, a.Mod(&prod, &prod, &r))
		prod.AddWord(&prod, 1)
		require.True(t, prod.Equal(&r))

		none, err := a.ModulusPrime(&n, MontBitwise)
		require.NoError(t, err)
		require.True(t, none.IsZero())
	}
	_, err := a.ModulusPrime(NewInt(10), MontWordwise)
	require.ErrorIs(t, err, ErrNotInvertible)
	_, err = a.ModulusPrime(NewInt(0), MontWordwise)
	require.ErrorIs(t, err, ErrDivisionByZero)
}

func TestMontContextErrors(t *testing.T) {
	_, err := DefaultArith.NewMontContext(NewInt(0))
	require.ErrorIs(t, err, ErrDivisionByZero)
	_, err = DefaultArith.NewMontContext(NewInt(1 << 33))
	require.ErrorIs(t, err, ErrNotInvertible)

	var wide Int
	wide.w[Words/2] = 1
	wide.w[0] = 1
	_, err = DefaultArith.NewMontContext(&wide)
	require.ErrorIs(t, err, ErrInvalidLength)
}

func TestMontgomeryProductsAgree(t *testing.T) {
	f := newFuzzer(31)
	for i := 0; i < 60; i++ {
		l := 1 + i%64
		n := randOdd(f, l)
		ctx, err := DefaultArith.NewMontContext(&n)
		require.NoError(t, err)
		var x, y Int
		require.NoError(t, DefaultArith.Mod(&x, ptr(randWords(f, l)), &n))
		require.NoError(t, DefaultArith.Mod(&y, ptr(randWords(f, l)), &n))

		// x*y*R^-1 mod n via math/big
		bn := n.Big()
		R := new(big.Int).Lsh(big.NewInt(1), uint(32*l))
		rinv := new(big.Int).ModInverse(R, bn)
		want := new(big.Int).Mul(x.Big(), y.Big())
		want.Mul(want, rinv).Mod(want, bn)

		for _, p := range products {
			var got Int
			ctx.Product(&got, &x, &y, p)
			requireBig(t, want, &got, "product", p, "words", l)
		}
	}
}

func TestMontMulModMatchesClassic(t *testing.T) {
	f := newFuzzer(32)
	for i := 0; i < 60; i++ {
		l := 1 + i%32
		n := randOdd(f, l)
		var x, y Int
		require.NoError(t, DefaultArith.Mod(&x, ptr(randWords(f, l)), &n))
		require.NoError(t, DefaultArith.Mod(&y, ptr(randWords(f, l)), &n))

		var want Int
		require.NoError(t, DefaultArith.MulModClassic(&want, &x, &y, &n))
		ctx, err := DefaultArith.NewMontContext(&n)
		require.NoError(t, err)
		for _, p := range products {
			var got Int
			require.NoError(t, ctx.MulMod(&got, &x, &y, p))
			require.True(t, want.Equal(&got), "product %s", p)

			got.SetZero()
			require.NoError(t, Arith{Mult: MulModMontgomery, Product: p}.MulMod(&got, &x, &y, &n))
			require.True(t, want.Equal(&got), "arith product %s", p)
		}
	}
	ctx, err := DefaultArith.NewMontContext(NewInt(97))
	require.NoError(t, err)
	require.ErrorIs(t, ctx.MulMod(new(Int), NewInt(98), NewInt(2), MontWordwise), ErrInvalidLength)
}

func TestMontFormRoundTrip(t *testing.T) {
	f := newFuzzer(33)
	for i := 0; i < 30; i++ {
		l := 1 + i%16
		n := randOdd(f, l)
		ctx, err := DefaultArith.NewMontContext(&n)
		require.NoError(t, err)
		var x Int
		require.NoError(t, DefaultArith.Mod(&x, ptr(randWords(f, l)), &n))
		R := new(big.Int).Lsh(big.NewInt(1), uint(32*l))
		want := new(big.Int).Mul(x.Big(), R)
		want.Mod(want, n.Big())
		for _, p := range products {
			var xm, back Int
			ctx.ToMont(&xm, &x, p)
			requireBig(t, want, &xm, p)
			ctx.FromMont(&back, &xm, p)
			require.True(t, x.Equal(&back), "product %s", p)
		}
	}
}

func TestMontExpModVectors(t *testing.T) {
	// exponentiation with the vector operands as base and exponent must
	// agree with the bitwise method and math/big
	for _, v := range montVectors {
		n, a, b := hexInt(t, v.n), hexInt(t, v.a), hexInt(t, v.b)
		want := new(big.Int).Exp(a.Big(), b.Big(), n.Big())
		ctx, err := DefaultArith.NewMontContext(&n)
		require.NoError(t, err)
		for _, p := range products {
			var got Int
			require.NoError(t, ctx.ExpMod(&got, &a, &b, p))
			requireBig(t, want, &got, p)
		}
		var bw Int
		require.NoError(t, DefaultArith.BitwiseExpMod(&bw, &a, &b, &n))
		requireBig(t, want, &bw)
	}
}

func BenchmarkMontgomeryProduct(b *testing.B) {
	f := newFuzzer(33)
	n := randOdd(f, 64)
	ctx, err := DefaultArith.NewMontContext(&n)
	if err != nil {
		b.Fatal(err)
	}
	var x, y Int
	_ = DefaultArith.Mod(&x, ptr(randWords(f, 64)), &n)
	_ = DefaultArith.Mod(&y, ptr(randWords(f, 64)), &n)
	for _, p := range products {
		b.Run(p.String(), func(b *testing.B) {
			var z Int
			for i := 0; i < b.N; i++ {
				ctx.Product(&z, &x, &y, p)
			}
		})
	}
}

func TestNPrimeMatchesCachedWord(t *testing.T) {
	f := newFuzzer(31)
	for i := 0; i < 50; i++ {
		n := randWords(f, 1+i%32)
		_ = n.SetBit(0)
		ctx, err := DefaultArith.NewMontContext(&n)
		require.NoError(t, err)
		np := ctx.NPrime()
		require.Equal(t, ctx.np0, np.Word(0))

		// n*n' = -1 mod R
		var p Int
		require.False(t, p.Mul(&n, &np))
		for j := 0; j < ctx.l; j++ {
			require.Equal(t, ^uint32(0), p.Word(j), "word %d", j)
		}
	}
}
