package ecp

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	becdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/stretchr/testify/require"

	"bignum.mleku.dev"
)

var ariths = []bignum.Arith{
	{},
	{Mult: bignum.MulModMontgomery, Product: bignum.MontWordwise, Exp: bignum.ExpMontgomery},
	{Mult: bignum.MulModMontgomery, Product: bignum.MontPerStep, Division: bignum.DivisionClassic},
	{Mult: bignum.MulModMontgomery, Product: bignum.MontBitwise},
}

func hexInt(t *testing.T, s string) bignum.Int {
	t.Helper()
	var z bignum.Int
	require.NoError(t, z.SetHex(s))
	return z
}

func curve(t *testing.T, name string) *Curve {
	t.Helper()
	c, err := ByName(name)
	require.NoError(t, err)
	return c
}

func bind(t *testing.T, c *Curve, a bignum.Arith) *Group {
	t.Helper()
	g, err := c.Bind(a)
	require.NoError(t, err)
	return g
}

func TestRegistry(t *testing.T) {
	names := Names()
	require.Len(t, names, 9)
	for _, n := range names {
		c := curve(t, n)
		require.True(t, c.IsOnCurve(&c.G), n)
		require.Equal(t, n, c.Name)
	}
	require.Same(t, curve(t, "secp256r1"), curve(t, "prime256v1"))
	require.Same(t, curve(t, "secp192r1"), curve(t, "prime192v1"))
	_, err := ByName("secp112r1")
	require.ErrorIs(t, err, ErrUnknownCurve)
}

func TestBaseOrder(t *testing.T) {
	for _, n := range Names() {
		c := curve(t, n)
		if testing.Short() && c.P.BitLen() > 256 {
			continue
		}
		t.Run(n, func(t *testing.T) {
			g := bind(t, c, bignum.Arith{Mult: bignum.MulModMontgomery})
			p, err := g.ScalarBaseMult(&c.N)
			require.NoError(t, err)
			require.True(t, p.Inf)

			var n1 bignum.Int
			n1.SubWord(&c.N, 1)
			p, err = g.ScalarBaseMult(&n1)
			require.NoError(t, err)
			neg := g.Neg(&c.G)
			require.True(t, neg.Equal(&p))
		})
	}
}

func TestStrategiesAgree(t *testing.T) {
	for _, n := range []string{"secp192k1", "secp224r1", "secp256k1", "secp256r1"} {
		c := curve(t, n)
		t.Run(n, func(t *testing.T) {
			k, err := bignum.RandomBelow(rand.Reader, &c.N)
			require.NoError(t, err)
			want, err := bind(t, c, ariths[0]).ScalarBaseMult(&k)
			require.NoError(t, err)
			require.True(t, c.IsOnCurve(&want))
			for _, a := range ariths[1:] {
				got, err := bind(t, c, a).ScalarBaseMult(&k)
				require.NoError(t, err)
				require.True(t, want.Equal(&got), "%+v", a)
			}
		})
	}
}

func TestMatchesStdlib(t *testing.T) {
	std := map[string]elliptic.Curve{
		"secp224r1": elliptic.P224(),
		"secp256r1": elliptic.P256(),
		"secp384r1": elliptic.P384(),
	}
	for n, sc := range std {
		c := curve(t, n)
		t.Run(n, func(t *testing.T) {
			k, err := bignum.RandomBelow(rand.Reader, &c.N)
			require.NoError(t, err)
			x, y := sc.ScalarBaseMult(k.Bytes())
			got, err := bind(t, c, ariths[1]).ScalarBaseMult(&k)
			require.NoError(t, err)
			require.Zero(t, x.Cmp(got.X.Big()))
			require.Zero(t, y.Cmp(got.Y.Big()))
		})
	}
}

func TestGroupLaw(t *testing.T) {
	c := curve(t, "secp224k1")
	for _, a := range ariths {
		g := bind(t, c, a)
		g2, err := g.Double(&c.G)
		require.NoError(t, err)
		g3, err := g.Add(&g2, &c.G)
		require.NoError(t, err)
		want, err := g.ScalarBaseMult(bignum.NewInt(3))
		require.NoError(t, err)
		require.True(t, want.Equal(&g3))

		// adding a point to itself goes through doubling
		same, err := g.Add(&c.G, &c.G)
		require.NoError(t, err)
		require.True(t, same.Equal(&g2))

		neg := g.Neg(&c.G)
		require.True(t, c.IsOnCurve(&neg))
		sum, err := g.Add(&c.G, &neg)
		require.NoError(t, err)
		require.True(t, sum.Inf)

		inf := Point{Inf: true}
		sum, err = g.Add(&inf, &c.G)
		require.NoError(t, err)
		require.True(t, sum.Equal(&c.G))

		var u1, u2 bignum.Int
		u1.SetUint64(5)
		u2.SetUint64(7)
		comb, err := g.CombinedMult(&g2, &u1, &u2)
		require.NoError(t, err)
		want, err = g.ScalarBaseMult(bignum.NewInt(19))
		require.NoError(t, err)
		require.True(t, want.Equal(&comb))
	}
}

// RFC 6979 appendix A.2.5, curve P-256, SHA-256, message "sample".
func TestRFC6979P256(t *testing.T) {
	c := curve(t, "secp256r1")
	d := hexInt(t, "0xC9AFA9D845BA75166B5C215767B1D6934E50C3DB36E89B127B8A622B120F6721")
	for _, a := range ariths {
		e := Engine{Arith: a, Deterministic: true}
		priv, err := e.NewPrivateKey(c, &d)
		require.NoError(t, err)
		require.Equal(t, "0x60fed4ba255a9d31c961eb74c6356d68c049b8923b61fa6ce669622e60f29fb6", priv.X.Hex())
		require.Equal(t, "0x7903fe1008b8bc99a41ae9e95628bc64f2f1b20c2d7e9f5177a3c294d4462299", priv.Y.Hex())

		r, s, err := e.Sign(priv, []byte("sample"))
		require.NoError(t, err)
		require.Equal(t, "0xefd48b2aacb6a8fd1140dd9cd45e81d69d2c877b56aaf991c34d0ea84eaf3716", r.Hex())
		require.Equal(t, "0xf7cb1c942d657c41d436c7a1b6e29f65f3e900dbb9aff4064dc4ab2f843acda8", s.Hex())
		require.NoError(t, e.Verify(&priv.PublicKey, []byte("sample"), &r, &s))
	}
}

func TestSignVerify(t *testing.T) {
	for _, n := range []string{"secp192r1", "secp256k1", "brainpoolP512r1"} {
		c := curve(t, n)
		if testing.Short() && c.P.BitLen() > 256 {
			continue
		}
		t.Run(n, func(t *testing.T) {
			e := Engine{Arith: ariths[1], Hash: bignum.HashSHA3_256}
			priv, err := e.GenerateKey(c)
			require.NoError(t, err)
			require.NoError(t, priv.PublicKey.Validate())
			r, s, err := e.Sign(priv, []byte("prime field"))
			require.NoError(t, err)
			require.NoError(t, e.Verify(&priv.PublicKey, []byte("prime field"), &r, &s))
			require.ErrorIs(t, e.Verify(&priv.PublicKey, []byte("other"), &r, &s), ErrInvalidSignature)
			require.ErrorIs(t, Engine{}.Verify(&priv.PublicKey, []byte("prime field"), &r, &s), ErrInvalidSignature)

			// N - s verifies as well
			var neg bignum.Int
			neg.Sub(&c.N, &s)
			require.NoError(t, e.Verify(&priv.PublicKey, []byte("prime field"), &r, &neg))
			require.NotEqual(t, c.NormalizeS(&s), c.NormalizeS(&neg))
		})
	}
}

func TestVerifyStdlibSignatures(t *testing.T) {
	c := curve(t, "secp256r1")
	sk, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	msg := []byte("from crypto/ecdsa")
	digest := sha256.Sum256(msg)
	sr, ss, err := ecdsa.Sign(rand.Reader, sk, digest[:])
	require.NoError(t, err)

	var pub PublicKey
	pub.Curve = c
	require.NoError(t, pub.X.SetBig(sk.X))
	require.NoError(t, pub.Y.SetBig(sk.Y))
	var r, s bignum.Int
	require.NoError(t, r.SetBig(sr))
	require.NoError(t, s.SetBig(ss))
	for _, a := range ariths {
		require.NoError(t, Engine{Arith: a}.Verify(&pub, msg, &r, &s))
	}

	// and the other direction
	var d bignum.Int
	require.NoError(t, d.SetBig(sk.D))
	priv, err := Engine{}.NewPrivateKey(c, &d)
	require.NoError(t, err)
	r, s, err = Engine{Arith: ariths[2]}.Sign(priv, msg)
	require.NoError(t, err)
	require.True(t, ecdsa.Verify(&sk.PublicKey, digest[:], r.Big(), s.Big()))
}

func TestBtcecInterop(t *testing.T) {
	c := curve(t, "secp256k1")
	bk, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	var d bignum.Int
	require.NoError(t, d.SetBytes(bk.Serialize()))
	e := Engine{Arith: ariths[1], Deterministic: true}
	priv, err := e.NewPrivateKey(c, &d)
	require.NoError(t, err)

	enc, err := c.MarshalCompressed(&priv.Point)
	require.NoError(t, err)
	require.Equal(t, bk.PubKey().SerializeCompressed(), enc)

	// RFC 6979 nonces agree once btcec's low-S rule is applied
	msg := []byte("interop")
	digest := sha256.Sum256(msg)
	r, s, err := e.Sign(priv, msg)
	require.NoError(t, err)
	c.NormalizeS(&s)
	var br, bs btcec.ModNScalar
	br.SetByteSlice(r.Bytes())
	bs.SetByteSlice(s.Bytes())
	sig := becdsa.NewSignature(&br, &bs)
	require.True(t, sig.Verify(digest[:], bk.PubKey()))
	require.Equal(t, becdsa.Sign(bk, digest[:]).Serialize(), sig.Serialize())

	// shared secrets
	peer, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	pp, err := c.Unmarshal(peer.PubKey().SerializeUncompressed())
	require.NoError(t, err)
	secret, err := e.ECDH(priv, &PublicKey{Curve: c, Point: pp})
	require.NoError(t, err)
	require.Equal(t, btcec.GenerateSharedSecret(bk, peer.PubKey()), secret)
}

func TestECDH(t *testing.T) {
	c := curve(t, "secp384r1")
	e := Engine{Arith: ariths[1]}
	a, err := e.GenerateKey(c)
	require.NoError(t, err)
	sk, err := ecdh.P384().GenerateKey(rand.Reader)
	require.NoError(t, err)
	peer, err := c.Unmarshal(sk.PublicKey().Bytes())
	require.NoError(t, err)
	ours, err := e.ECDH(a, &PublicKey{Curve: c, Point: peer})
	require.NoError(t, err)

	enc, err := c.Marshal(&a.Point)
	require.NoError(t, err)
	pk, err := ecdh.P384().NewPublicKey(enc)
	require.NoError(t, err)
	theirs, err := sk.ECDH(pk)
	require.NoError(t, err)
	require.Equal(t, theirs, ours)

	off := PublicKey{Curve: c, Point: peer}
	off.Y.AddWord(&off.Y, 1)
	_, err = e.ECDH(a, &off)
	require.ErrorIs(t, err, ErrInvalidPublicKey)
	_, err = e.ECDH(a, &PublicKey{Curve: curve(t, "secp256r1"), Point: peer})
	require.Error(t, err)
}

func TestEncoding(t *testing.T) {
	for _, n := range []string{"secp192k1", "secp256k1", "secp256r1", "secp384r1", "secp521r1"} {
		c := curve(t, n)
		t.Run(n, func(t *testing.T) {
			priv, err := Engine{}.GenerateKey(c)
			require.NoError(t, err)
			b, err := c.Marshal(&priv.Point)
			require.NoError(t, err)
			require.Len(t, b, 1+2*c.ByteLen())
			p, err := c.Unmarshal(b)
			require.NoError(t, err)
			require.True(t, p.Equal(&priv.Point))

			cb, err := c.MarshalCompressed(&priv.Point)
			require.NoError(t, err)
			p, err = c.Unmarshal(cb)
			require.NoError(t, err)
			require.True(t, p.Equal(&priv.Point))

			b[len(b)-1] ^= 1
			_, err = c.Unmarshal(b)
			require.ErrorIs(t, err, ErrInvalidPublicKey)
			_, err = c.Unmarshal(b[1:])
			require.ErrorIs(t, err, bignum.ErrInvalidEncoding)
		})
	}
	// secp224r1 has p = 1 mod 4
	c := curve(t, "secp224r1")
	cb, err := c.MarshalCompressed(&c.G)
	require.NoError(t, err)
	_, err = c.Unmarshal(cb)
	require.ErrorIs(t, err, ErrUnsupportedCompression)
	_, err = c.Marshal(&Point{Inf: true})
	require.Error(t, err)
}

func TestStdlibCompressedMatches(t *testing.T) {
	c := curve(t, "secp256r1")
	sk, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	var p Point
	require.NoError(t, p.X.SetBig(sk.X))
	require.NoError(t, p.Y.SetBig(sk.Y))
	cb, err := c.MarshalCompressed(&p)
	require.NoError(t, err)
	require.Equal(t, elliptic.MarshalCompressed(elliptic.P256(), sk.X, sk.Y), cb)
	x, y := elliptic.UnmarshalCompressed(elliptic.P256(), cb)
	require.Zero(t, x.Cmp(p.X.Big()))
	require.Zero(t, y.Cmp(p.Y.Big()))
}

func BenchmarkScalarBaseMult(b *testing.B) {
	c, _ := ByName("secp256k1")
	k, _ := bignum.RandomBelow(rand.Reader, &c.N)
	for _, a := range ariths {
		g, err := c.Bind(a)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(a.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := g.ScalarBaseMult(&k); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
