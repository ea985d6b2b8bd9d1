package bignum

import (
	"math/big"
	"testing"

	"github.com/davecgh/go-spew/spew"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"
)

// newFuzzer returns a deterministic operand source so failures reproduce.
func newFuzzer(seed int64) *fuzz.Fuzzer {
	return fuzz.NewWithSeed(seed).NilChance(0)
}

// randWords returns a random Int using exactly the given number of words,
// with the top word forced non-zero.
func randWords(f *fuzz.Fuzzer, words int) Int {
	var z Int
	for i := 0; i < words; i++ {
		f.Fuzz(&z.w[i])
	}
	if words > 0 && z.w[words-1] == 0 {
		z.w[words-1] = 1
	}
	return z
}

// randOdd returns a random odd Int of the given word length.
func randOdd(f *fuzz.Fuzzer, words int) Int {
	z := randWords(f, words)
	z.w[0] |= 1
	return z
}

func hexInt(t testing.TB, s string) Int {
	t.Helper()
	var z Int
	require.NoError(t, z.SetHex(s))
	return z
}

func fromBig(t testing.TB, b *big.Int) Int {
	t.Helper()
	var z Int
	require.NoError(t, z.SetBig(b))
	return z
}

// requireBig compares an Int against a math/big oracle and dumps the words
// on mismatch.
func requireBig(t testing.TB, want *big.Int, got *Int, msgAndArgs ...interface{}) {
	t.Helper()
	if want.Cmp(got.Big()) != 0 {
		t.Fatalf("%v\nwant %x\ngot  %s\n%s", msgAndArgs, want, got.Hex(), spew.Sdump(got.w[:got.Len()]))
	}
}

var allArith = func() (out []Arith) {
	for _, d := range []DivisionAlgorithm{DivisionHAC, DivisionClassic} {
		for _, m := range []MulModAlgorithm{MulModClassic, MulModMontgomery} {
			for _, p := range []MontgomeryProduct{MontWordwise, MontBitwise, MontPerStep} {
				for _, e := range []ExpAlgorithm{ExpKary, ExpBitwise, ExpMontgomery} {
					out = append(out, Arith{Division: d, Mult: m, Product: p, Exp: e})
				}
			}
		}
	}
	return
}()
