package bignum

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseArith(t *testing.T) {
	a, err := ParseArith("", "", "", "")
	require.NoError(t, err)
	require.Equal(t, DefaultArith, a)

	a, err = ParseArith("Classic", "montgomery", "perstep", "bitwise")
	require.NoError(t, err)
	require.Equal(t, Arith{Division: DivisionClassic, Mult: MulModMontgomery, Product: MontPerStep, Exp: ExpBitwise}, a)
	require.Equal(t, "division=classic mulmod=montgomery product=perstep exp=bitwise", a.String())

	_, err = ParseArith("knuth", "", "", "")
	require.Error(t, err)
	_, err = ParseArith("", "barrett", "", "")
	require.Error(t, err)
	_, err = ParseArith("", "", "fios", "")
	require.Error(t, err)
	_, err = ParseArith("", "", "", "sliding")
	require.Error(t, err)

	require.Equal(t, "unknown(9)", ExpAlgorithm(9).String())
}

func TestRandomBits(t *testing.T) {
	for _, k := range []int{1, 7, 8, 9, 31, 32, 33, 160, 1024, MaxBits} {
		x, err := RandomBits(rand.Reader, k)
		require.NoError(t, err)
		require.Equal(t, k, x.BitLen(), "k=%d", k)
		require.True(t, x.IsOdd())
	}
	_, err := RandomBits(rand.Reader, 0)
	require.ErrorIs(t, err, ErrInvalidLength)
	_, err = RandomBits(rand.Reader, MaxBits+1)
	require.ErrorIs(t, err, ErrInvalidLength)
}

func TestRandomBelow(t *testing.T) {
	n := *NewInt(10)
	seen := map[uint64]bool{}
	for i := 0; i < 500; i++ {
		x, err := RandomBelow(rand.Reader, &n)
		require.NoError(t, err)
		require.False(t, x.IsZero())
		require.True(t, x.Cmp(&n) < 0)
		seen[x.Uint64()] = true
	}
	require.Len(t, seen, 9)
	_, err := RandomBelow(rand.Reader, NewInt(1))
	require.ErrorIs(t, err, ErrInvalidLength)
}
