package dsa

import (
	"crypto/dsa"
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"

	"bignum.mleku.dev"
)

func smallParams(t *testing.T) *Parameters {
	t.Helper()
	params, err := Engine{}.GenerateParameters(512, 160)
	require.NoError(t, err)
	return params
}

func TestGenerateParameters(t *testing.T) {
	params := smallParams(t)
	require.Equal(t, 512, params.P.BitLen())
	require.Equal(t, 160, params.Q.BitLen())
	require.NoError(t, Engine{}.Validate(params))

	_, err := Engine{}.GenerateParameters(160, 160)
	require.ErrorIs(t, err, ErrInvalidParameters)
}

func TestValidateRejects(t *testing.T) {
	params := smallParams(t)

	bad := *params
	bad.G.SetUint64(1)
	require.ErrorIs(t, Engine{}.Validate(&bad), ErrInvalidParameters)

	bad = *params
	bad.Q.AddWord(&bad.Q, 2)
	require.ErrorIs(t, Engine{}.Validate(&bad), ErrInvalidParameters)
}

func TestSignVerify(t *testing.T) {
	params := smallParams(t)
	for _, e := range []Engine{
		{},
		{Deterministic: true},
		{Hash: bignum.HashSHA3_256},
		{Arith: bignum.Arith{Mult: bignum.MulModMontgomery, Exp: bignum.ExpMontgomery}},
		{Arith: bignum.Arith{Division: bignum.DivisionClassic, Exp: bignum.ExpBitwise}},
	} {
		t.Run(e.Arith.String(), func(t *testing.T) {
			priv, err := e.GenerateKey(params)
			require.NoError(t, err)
			msg := []byte("sample")
			sig, err := e.Sign(priv, msg)
			require.NoError(t, err)
			require.NoError(t, e.Verify(&priv.PublicKey, msg, sig))
			require.ErrorIs(t, e.Verify(&priv.PublicKey, []byte("test"), sig), ErrInvalidSignature)

			tampered := *sig
			tampered.S.AddWord(&tampered.S, 1)
			require.ErrorIs(t, e.Verify(&priv.PublicKey, msg, &tampered), ErrInvalidSignature)

			tampered = *sig
			tampered.R = priv.Q
			require.ErrorIs(t, e.Verify(&priv.PublicKey, msg, &tampered), ErrInvalidSignature)
		})
	}
}

func TestDeterministicSignature(t *testing.T) {
	params := smallParams(t)
	e := Engine{Deterministic: true}
	priv, err := e.GenerateKey(params)
	require.NoError(t, err)
	a, err := e.Sign(priv, []byte("sample"))
	require.NoError(t, err)
	b, err := e.Sign(priv, []byte("sample"))
	require.NoError(t, err)
	require.Equal(t, a.R.Hex(), b.R.Hex())
	require.Equal(t, a.S.Hex(), b.S.Hex())

	// the r value is g^k mod p mod q with the RFC 6979 nonce
	k, err := bignum.NonceRFC6979(&priv.X, &priv.Q, bignum.Digest(bignum.HashSHA256, []byte("sample")))
	require.NoError(t, err)
	var r bignum.Int
	require.NoError(t, bignum.DefaultArith.ExpMod(&r, &priv.G, &k, &priv.P))
	require.NoError(t, bignum.DefaultArith.Mod(&r, &r, &priv.Q))
	require.Equal(t, r.Hex(), a.R.Hex())
}

func TestInteropWithStdlib(t *testing.T) {
	if testing.Short() {
		t.Skip("parameter generation skipped in short mode")
	}
	var k dsa.PrivateKey
	require.NoError(t, dsa.GenerateParameters(&k.Parameters, rand.Reader, dsa.L1024N160))
	require.NoError(t, dsa.GenerateKey(&k, rand.Reader))
	priv, err := FromStd(&k)
	require.NoError(t, err)
	require.NoError(t, Engine{}.Validate(&priv.Parameters))

	// crypto/dsa leaves truncation to the leftmost N bits to the caller
	digest := sha256.Sum256([]byte("interop"))
	truncated := digest[:k.Q.BitLen()/8]
	sig, err := Engine{}.SignDigest(priv, digest[:])
	require.NoError(t, err)
	require.True(t, dsa.Verify(priv.PublicKey.Std(), truncated, sig.R.Big(), sig.S.Big()))

	r, s, err := dsa.Sign(rand.Reader, &k, truncated)
	require.NoError(t, err)
	var theirs Signature
	require.NoError(t, theirs.R.SetBig(r))
	require.NoError(t, theirs.S.SetBig(s))
	require.NoError(t, Engine{}.VerifyDigest(&priv.PublicKey, digest[:], &theirs))
}
