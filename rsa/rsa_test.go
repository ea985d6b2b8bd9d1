package rsa

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"

	"bignum.mleku.dev"
)

var engines = []Engine{
	{},
	{NoCRT: true},
	{Arith: bignum.Arith{Division: bignum.DivisionClassic, Exp: bignum.ExpBitwise}},
	{Arith: bignum.Arith{Mult: bignum.MulModMontgomery, Exp: bignum.ExpMontgomery}},
	{Arith: bignum.Arith{Mult: bignum.MulModMontgomery, Exp: bignum.ExpMontgomery, Product: bignum.MontBitwise}},
}

func stdKey(t *testing.T, bits int) *rsa.PrivateKey {
	t.Helper()
	k, err := rsa.GenerateKey(rand.Reader, bits)
	require.NoError(t, err)
	return k
}

func TestGenerateKey(t *testing.T) {
	for _, bits := range []int{64, 256, 512} {
		priv, err := Engine{}.GenerateKey(bits)
		require.NoError(t, err)
		require.Equal(t, bits, priv.N.BitLen())
		require.NoError(t, Engine{}.Validate(priv))
		require.True(t, priv.P.Big().ProbablyPrime(20))
		require.True(t, priv.Q.Big().ProbablyPrime(20))
	}
	_, err := Engine{}.GenerateKey(8)
	require.ErrorIs(t, err, ErrKeySize)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	priv, err := Engine{}.GenerateKey(384)
	require.NoError(t, err)
	for _, e := range engines {
		t.Run(e.Arith.String(), func(t *testing.T) {
			for i := 0; i < 8; i++ {
				m, err := bignum.RandomBelow(rand.Reader, &priv.N)
				require.NoError(t, err)
				c, err := e.Encrypt(&priv.PublicKey, &m)
				require.NoError(t, err)
				got, err := e.Decrypt(priv, &c)
				require.NoError(t, err)
				require.Equal(t, m.Hex(), got.Hex())
			}
		})
	}
}

func TestCRTMatchesPlain(t *testing.T) {
	k := stdKey(t, 1024)
	priv, err := FromStd(k)
	require.NoError(t, err)
	// crypto/rsa may order the primes either way; force q > p too
	swapped := *priv
	swapped.P, swapped.Q = priv.Q, priv.P
	require.NoError(t, Engine{}.precompute(&swapped))

	for i := 0; i < 4; i++ {
		c, err := bignum.RandomBelow(rand.Reader, &priv.N)
		require.NoError(t, err)
		plain, err := Engine{NoCRT: true}.Decrypt(priv, &c)
		require.NoError(t, err)
		crt, err := Engine{}.Decrypt(priv, &c)
		require.NoError(t, err)
		require.Equal(t, plain.Hex(), crt.Hex())
		crt2, err := Engine{}.Decrypt(&swapped, &c)
		require.NoError(t, err)
		require.Equal(t, plain.Hex(), crt2.Hex())
	}
}

func TestMessageOutOfRange(t *testing.T) {
	priv, err := Engine{}.GenerateKey(128)
	require.NoError(t, err)
	_, err = Engine{}.Encrypt(&priv.PublicKey, &priv.N)
	require.ErrorIs(t, err, ErrMessageTooLarge)
	_, err = Engine{}.Decrypt(priv, &priv.N)
	require.ErrorIs(t, err, ErrMessageTooLarge)
}

func TestSignInteropWithStdlib(t *testing.T) {
	if testing.Short() {
		t.Skip("1024-bit interop skipped in short mode")
	}
	k := stdKey(t, 1024)
	priv, err := FromStd(k)
	require.NoError(t, err)
	msg := []byte("fixed width arithmetic")
	digest := sha256.Sum256(msg)

	for _, e := range engines {
		t.Run(e.Arith.String(), func(t *testing.T) {
			sig, err := e.SignPKCS1v15(priv, bignum.HashSHA256, msg)
			require.NoError(t, err)
			require.NoError(t, rsa.VerifyPKCS1v15(&k.PublicKey, crypto.SHA256, digest[:], sig))

			want, err := rsa.SignPKCS1v15(nil, k, crypto.SHA256, digest[:])
			require.NoError(t, err)
			require.Equal(t, want, sig)
			require.NoError(t, e.VerifyPKCS1v15(&priv.PublicKey, bignum.HashSHA256, msg, want))
		})
	}
	require.Equal(t, 0, priv.PublicKey.Std().N.Cmp(k.N))
}

func TestVerifyRejects(t *testing.T) {
	priv, err := Engine{}.GenerateKey(512)
	require.NoError(t, err)
	msg := []byte("message")
	for _, alg := range []bignum.HashAlgorithm{bignum.HashSHA256, bignum.HashSHA3_256} {
		sig, err := Engine{}.SignPKCS1v15(priv, alg, msg)
		require.NoError(t, err)
		require.NoError(t, Engine{}.VerifyPKCS1v15(&priv.PublicKey, alg, msg, sig))

		require.ErrorIs(t, Engine{}.VerifyPKCS1v15(&priv.PublicKey, alg, []byte("other"), sig), ErrVerification)
		bad := append([]byte(nil), sig...)
		bad[len(bad)-1] ^= 1
		require.ErrorIs(t, Engine{}.VerifyPKCS1v15(&priv.PublicKey, alg, msg, bad), ErrVerification)
		require.ErrorIs(t, Engine{}.VerifyPKCS1v15(&priv.PublicKey, alg, msg, sig[1:]), ErrVerification)
	}
}

func TestKeyTooShortForDigest(t *testing.T) {
	priv, err := Engine{}.GenerateKey(256)
	require.NoError(t, err)
	_, err = Engine{}.SignPKCS1v15(priv, bignum.HashSHA256, []byte("x"))
	require.Error(t, err)
}

func TestClear(t *testing.T) {
	priv, err := Engine{}.GenerateKey(64)
	require.NoError(t, err)
	priv.Clear()
	require.True(t, priv.D.IsZero())
	require.True(t, priv.Qinv.IsZero())
	require.False(t, priv.N.IsZero())
}

func BenchmarkDecrypt1024(b *testing.B) {
	k, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		b.Fatal(err)
	}
	priv, err := FromStd(k)
	if err != nil {
		b.Fatal(err)
	}
	c, _ := bignum.RandomBelow(rand.Reader, &priv.N)
	for _, e := range engines {
		b.Run(e.Arith.String()+map[bool]string{true: "/nocrt", false: ""}[e.NoCRT], func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := e.Decrypt(priv, &c); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
