package elgamal

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"bignum.mleku.dev"
)

// oakley1 is the 768-bit safe prime of RFC 2409 group 1.
const oakley1 = "0xFFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F14374FE1356D6D51C245E485B576625E7EC6F44C42E9A63A3620FFFFFFFFFFFFFFFF"

func oakleyGroup(t *testing.T) *Group {
	t.Helper()
	g := &Group{}
	require.NoError(t, g.P.SetHex(oakley1))
	g.Q.Rsh(&g.P, 1)
	// squares lie in the order-q subgroup
	g.G.SetUint64(4)
	return g
}

func TestOakleyGroupValid(t *testing.T) {
	require.NoError(t, Engine{}.Validate(oakleyGroup(t)))
}

func TestGenerateGroup(t *testing.T) {
	grp, err := Engine{}.GenerateGroup(96)
	require.NoError(t, err)
	require.Equal(t, 96, grp.P.BitLen())
	require.NoError(t, Engine{}.Validate(grp))

	bad := *grp
	bad.G.SetUint64(1)
	require.ErrorIs(t, Engine{}.Validate(&bad), ErrInvalidGroup)
}

func TestEncryptDecrypt(t *testing.T) {
	grp := oakleyGroup(t)
	for _, e := range []Engine{
		{},
		{Arith: bignum.Arith{Mult: bignum.MulModMontgomery, Exp: bignum.ExpMontgomery, Product: bignum.MontPerStep}},
		{Arith: bignum.Arith{Division: bignum.DivisionClassic, Exp: bignum.ExpBitwise}},
	} {
		t.Run(e.Arith.String(), func(t *testing.T) {
			priv, err := e.GenerateKey(grp)
			require.NoError(t, err)
			for i := 0; i < 4; i++ {
				m, err := bignum.RandomBelow(rand.Reader, &grp.P)
				require.NoError(t, err)
				ct, err := e.Encrypt(&priv.PublicKey, &m)
				require.NoError(t, err)
				got, err := e.Decrypt(priv, ct)
				require.NoError(t, err)
				require.Equal(t, m.Hex(), got.Hex())
			}
		})
	}
}

func TestMessageRange(t *testing.T) {
	grp := oakleyGroup(t)
	priv, err := Engine{}.GenerateKey(grp)
	require.NoError(t, err)
	_, err = Engine{}.Encrypt(&priv.PublicKey, &bignum.Int{})
	require.ErrorIs(t, err, ErrMessageRange)
	_, err = Engine{}.Encrypt(&priv.PublicKey, &grp.P)
	require.ErrorIs(t, err, ErrMessageRange)
}

func TestSharedSecret(t *testing.T) {
	grp := oakleyGroup(t)
	alice, err := Engine{}.GenerateKey(grp)
	require.NoError(t, err)
	bob, err := Engine{}.GenerateKey(grp)
	require.NoError(t, err)

	ab, err := Engine{}.SharedSecret(alice, &bob.Y)
	require.NoError(t, err)
	ba, err := Engine{Arith: bignum.Arith{Exp: bignum.ExpMontgomery}}.SharedSecret(bob, &alice.Y)
	require.NoError(t, err)
	require.Equal(t, ab.Hex(), ba.Hex())

	var pm1 bignum.Int
	pm1.SubWord(&grp.P, 1)
	_, err = Engine{}.SharedSecret(alice, &pm1)
	require.ErrorIs(t, err, ErrInvalidPublic)
	_, err = Engine{}.SharedSecret(alice, bignum.NewInt(1))
	require.ErrorIs(t, err, ErrInvalidPublic)
}
