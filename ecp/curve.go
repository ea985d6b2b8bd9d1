// Package ecp implements short Weierstrass curves y^2 = x^3 + ax + b over
// prime fields, with point arithmetic in Jacobian coordinates on the
// fixed-width engine.
package ecp

import (
	"sort"

	"github.com/pkg/errors"

	"bignum.mleku.dev"
)

// ErrUnknownCurve is returned by ByName for unregistered names.
var ErrUnknownCurve = errors.New("ecp: unknown curve")

// Params are hex-encoded domain parameters. All registered curves have
// cofactor 1.
type Params struct {
	Name   string
	Alias  string
	P      string
	A, B   string
	Gx, Gy string
	N      string
}

// SEC 2 and Brainpool curves.
var standard = []Params{
	{
		Name: "secp192k1",
		P:    "0xfffffffffffffffffffffffffffffffffffffffeffffee37",
		A:    "0x0",
		B:    "0x3",
		Gx:   "0xdb4ff10ec057e9ae26b07d0280b7f4341da5d1b1eae06c7d",
		Gy:   "0x9b2f2f6d9c5628a7844163d015be86344082aa88d95e2f9d",
		N:    "0xfffffffffffffffffffffffe26f2fc170f69466a74defd8d",
	},
	{
		Name:  "secp192r1",
		Alias: "prime192v1",
		P:     "0xfffffffffffffffffffffffffffffffeffffffffffffffff",
		A:     "0xfffffffffffffffffffffffffffffffefffffffffffffffc",
		B:     "0x64210519e59c80e70fa7e9ab72243049feb8deecc146b9b1",
		Gx:    "0x188da80eb03090f67cbf20eb43a18800f4ff0afd82ff1012",
		Gy:    "0x7192b95ffc8da78631011ed6b24cdd573f977a11e794811",
		N:     "0xffffffffffffffffffffffff99def836146bc9b1b4d22831",
	},
	{
		Name: "secp224k1",
		P:    "0xfffffffffffffffffffffffffffffffffffffffffffffffeffffe56d",
		A:    "0x0",
		B:    "0x5",
		Gx:   "0xa1455b334df099df30fc28a169a467e9e47075a90f7e650eb6b7a45c",
		Gy:   "0x7e089fed7fba344282cafbd6f7e319f7c0b0bd59e2ca4bdb556d61a5",
		N:    "0x10000000000000000000000000001dce8d2ec6184caf0a971769fb1f7",
	},
	{
		Name: "secp224r1",
		P:    "0xffffffffffffffffffffffffffffffff000000000000000000000001",
		A:    "0xfffffffffffffffffffffffffffffffefffffffffffffffffffffffe",
		B:    "0xb4050a850c04b3abf54132565044b0b7d7bfd8ba270b39432355ffb4",
		Gx:   "0xb70e0cbd6bb4bf7f321390b94a03c1d356c21122343280d6115c1d21",
		Gy:   "0xbd376388b5f723fb4c22dfe6cd4375a05a07476444d5819985007e34",
		N:    "0xffffffffffffffffffffffffffff16a2e0b8f03e13dd29455c5c2a3d",
	},
	{
		Name: "secp256k1",
		P:    "0xfffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f",
		A:    "0x0",
		B:    "0x7",
		Gx:   "0x79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		Gy:   "0x483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8",
		N:    "0xfffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141",
	},
	{
		Name:  "secp256r1",
		Alias: "prime256v1",
		P:     "0xffffffff00000001000000000000000000000000ffffffffffffffffffffffff",
		A:     "0xffffffff00000001000000000000000000000000fffffffffffffffffffffffc",
		B:     "0x5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b",
		Gx:    "0x6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296",
		Gy:    "0x4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5",
		N:     "0xffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551",
	},
	{
		Name: "secp384r1",
		P:    "0xfffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffeffffffff0000000000000000ffffffff",
		A:    "0xfffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffeffffffff0000000000000000fffffffc",
		B:    "0xb3312fa7e23ee7e4988e056be3f82d19181d9c6efe8141120314088f5013875ac656398d8a2ed19d2a85c8edd3ec2aef",
		Gx:   "0xaa87ca22be8b05378eb1c71ef320ad746e1d3b628ba79b9859f741e082542a385502f25dbf55296c3a545e3872760ab7",
		Gy:   "0x3617de4a96262c6f5d9e98bf9292dc29f8f41dbd289a147ce9da3113b5f0b8c00a60b1ce1d7e819d7a431d7c90ea0e5f",
		N:    "0xffffffffffffffffffffffffffffffffffffffffffffffffc7634d81f4372ddf581a0db248b0a77aecec196accc52973",
	},
	{
		Name: "secp521r1",
		P:    "0x1ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
		A:    "0x1fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffc",
		B:    "0x51953eb9618e1c9a1f929a21a0b68540eea2da725b99b315f3b8b489918ef109e156193951ec7e937b1652c0bd3bb1bf073573df883d2c34f1ef451fd46b503f00",
		Gx:   "0xc6858e06b70404e9cd9e3ecb662395b4429c648139053fb521f828af606b4d3dbaa14b5e77efe75928fe1dc127a2ffa8de3348b3c1856a429bf97e7e31c2e5bd66",
		Gy:   "0x11839296a789a3bc0045c8a5fb42c7d1bd998f54449579b446817afbd17273e662c97ee72995ef42640c550b9013fad0761353c7086a272c24088be94769fd16650",
		N:    "0x1fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffa51868783bf2f966b7fcc0148f709a5d03bb5c9b8899c47aebb6fb71e91386409",
	},
	{
		Name: "brainpoolP512r1",
		P:    "0xaadd9db8dbe9c48b3fd4e6ae33c9fc07cb308db3b3c9d20ed6639cca703308717d4d9b009bc66842aecda12ae6a380e62881ff2f2d82c68528aa6056583a48f3",
		A:    "0x7830a3318b603b89e2327145ac234cc594cbdd8d3df91610a83441caea9863bc2ded5d5aa8253aa10a2ef1c98b9ac8b57f1117a72bf2c7b9e7c1ac4d77fc94ca",
		B:    "0x3df91610a83441caea9863bc2ded5d5aa8253aa10a2ef1c98b9ac8b57f1117a72bf2c7b9e7c1ac4d77fc94cadc083e67984050b75ebae5dd2809bd638016f723",
		Gx:   "0x81aee4bdd82ed9645a21322e9c4c6a9385ed9f70b5d916c1b43b62eef4d0098eff3b1f78e2d0d48d50d1687b93b97d5f7c6d5047406a5e688b352209bcb9f822",
		Gy:   "0x7dde385d566332ecc0eabfa9cf7822fdf209f70024a57b1aa000c55b881f8111b2dcde494a5f485e5bca4bd88a2763aed1ca2b2fa8f0540678cd1e0f3ad80892",
		N:    "0xaadd9db8dbe9c48b3fd4e6ae33c9fc07cb308db3b3c9d20ed6639cca70330870553e5c414ca92619418661197fac10471db1d381085ddaddb58796829ca90069",
	},
}

var registry = func() map[string]*Curve {
	m := make(map[string]*Curve, 2*len(standard))
	for _, p := range standard {
		c, err := NewCurve(p)
		if err != nil {
			panic(errors.Wrap(err, p.Name))
		}
		m[p.Name] = c
		if p.Alias != "" {
			m[p.Alias] = c
		}
	}
	return m
}()

// ByName returns a registered curve by SEC 2 name or alias.
func ByName(name string) (*Curve, error) {
	c, ok := registry[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownCurve, name)
	}
	return c, nil
}

// Names lists the canonical curve names in lexical order.
func Names() []string {
	names := make([]string, 0, len(standard))
	for _, p := range standard {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// Curve holds the domain parameters. It is immutable; Bind attaches an
// arithmetic strategy for point operations.
type Curve struct {
	Name string
	P    bignum.Int
	A, B bignum.Int
	G    Point
	N    bignum.Int
}

// NewCurve parses a parameter set and checks that G is on the curve.
func NewCurve(p Params) (*Curve, error) {
	c := &Curve{Name: p.Name}
	for _, v := range []struct {
		dst *bignum.Int
		src string
	}{
		{&c.P, p.P}, {&c.A, p.A}, {&c.B, p.B},
		{&c.G.X, p.Gx}, {&c.G.Y, p.Gy}, {&c.N, p.N},
	} {
		if err := v.dst.SetHex(v.src); err != nil {
			return nil, err
		}
	}
	if c.P.IsEven() || c.N.IsEven() {
		return nil, errors.New("ecp: field prime and order must be odd")
	}
	if !c.IsOnCurve(&c.G) {
		return nil, errors.New("ecp: base point not on curve")
	}
	return c, nil
}

// Order returns N.
func (c *Curve) Order() *bignum.Int { return &c.N }

// ByteLen is the length of one encoded field element.
func (c *Curve) ByteLen() int { return (c.P.BitLen() + 7) / 8 }

// IsOnCurve reports whether p has coordinates below P and satisfies the
// curve equation. The point at infinity is on every curve.
func (c *Curve) IsOnCurve(p *Point) bool {
	if p.Inf {
		return true
	}
	if p.X.Cmp(&c.P) >= 0 || p.Y.Cmp(&c.P) >= 0 {
		return false
	}
	a := bignum.DefaultArith
	var lhs, rhs bignum.Int
	if a.MulMod(&lhs, &p.Y, &p.Y, &c.P) != nil {
		return false
	}
	if a.MulMod(&rhs, &p.X, &p.X, &c.P) != nil {
		return false
	}
	rhs.AddMod(&rhs, &c.A, &c.P)
	if a.MulMod(&rhs, &rhs, &p.X, &c.P) != nil {
		return false
	}
	rhs.AddMod(&rhs, &c.B, &c.P)
	return lhs.Equal(&rhs)
}
