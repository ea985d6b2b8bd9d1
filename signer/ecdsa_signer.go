package signer

import (
	"github.com/pkg/errors"

	"bignum.mleku.dev"
	"bignum.mleku.dev/ecp"
)

func secp256k1() *ecp.Curve {
	c, err := ecp.ByName("secp256k1")
	if err != nil {
		panic(err)
	}
	return c
}

// ECDSASigner implements I on the fixed-width engine.
type ECDSASigner struct {
	engine    ecp.Engine
	curve     *ecp.Curve
	priv      *ecp.PrivateKey
	pub       *ecp.PublicKey
	hasSecret bool
}

// NewECDSASigner returns a signer using strategy a for all arithmetic.
func NewECDSASigner(a bignum.Arith) *ECDSASigner {
	return &ECDSASigner{
		engine: ecp.Engine{Arith: a, Deterministic: true},
		curve:  secp256k1(),
	}
}

// evenY negates priv if its public point has odd Y.
func evenY(c *ecp.Curve, priv *ecp.PrivateKey) {
	if !priv.Y.IsOdd() {
		return
	}
	priv.D.Sub(&c.N, &priv.D)
	priv.Y.Sub(&c.P, &priv.Y)
}

// Generate creates a fresh key pair with even Y.
func (s *ECDSASigner) Generate() error {
	priv, err := s.engine.GenerateKey(s.curve)
	if err != nil {
		return err
	}
	s.setPriv(priv)
	return nil
}

func (s *ECDSASigner) setPriv(priv *ecp.PrivateKey) {
	evenY(s.curve, priv)
	s.priv = priv
	s.pub = &priv.PublicKey
	s.hasSecret = true
}

// InitSec loads a secret key, negating it if the public point has odd Y.
func (s *ECDSASigner) InitSec(sec []byte) error {
	if len(sec) != 32 {
		return ErrSecretSize
	}
	var d bignum.Int
	if err := d.SetBytes(sec); err != nil {
		return err
	}
	priv, err := s.engine.NewPrivateKey(s.curve, &d)
	d.Clear()
	if err != nil {
		return err
	}
	s.setPriv(priv)
	return nil
}

func (s *ECDSASigner) parsePub(pub []byte) (*ecp.PublicKey, error) {
	if len(pub) != 32 {
		return nil, ErrPublicSize
	}
	var enc [33]byte
	enc[0] = 2
	copy(enc[1:], pub)
	p, err := s.curve.Unmarshal(enc[:])
	if err != nil {
		return nil, err
	}
	return &ecp.PublicKey{Curve: s.curve, Point: p}, nil
}

// InitPub loads an x-only public key.
func (s *ECDSASigner) InitPub(pub []byte) error {
	p, err := s.parsePub(pub)
	if err != nil {
		return err
	}
	s.Zero()
	s.pub = p
	return nil
}

// Sec returns the secret key bytes.
func (s *ECDSASigner) Sec() []byte {
	if !s.hasSecret || s.priv == nil {
		return nil
	}
	out := make([]byte, 32)
	_ = s.priv.D.FillBytes(out)
	return out
}

// Pub returns the x-only public key.
func (s *ECDSASigner) Pub() []byte {
	if s.pub == nil {
		return nil
	}
	out := make([]byte, 32)
	_ = s.pub.X.FillBytes(out)
	return out
}

// Sign signs a 32-byte digest.
func (s *ECDSASigner) Sign(msg []byte) (sig []byte, err error) {
	if !s.hasSecret || s.priv == nil {
		return nil, ErrNoSecret
	}
	if len(msg) != 32 {
		return nil, ErrMessageSize
	}
	r, ss, err := s.engine.SignDigest(s.priv, msg)
	if err != nil {
		return nil, err
	}
	s.curve.NormalizeS(&ss)
	sig = make([]byte, 64)
	if err = r.FillBytes(sig[:32]); err != nil {
		return nil, err
	}
	if err = ss.FillBytes(sig[32:]); err != nil {
		return nil, err
	}
	return sig, nil
}

// Verify checks a signature. High-S signatures are rejected.
func (s *ECDSASigner) Verify(msg, sig []byte) (valid bool, err error) {
	if s.pub == nil {
		return false, ErrNoPublic
	}
	if len(msg) != 32 {
		return false, ErrMessageSize
	}
	if len(sig) != 64 {
		return false, ErrSigSize
	}
	var r, ss bignum.Int
	_ = r.SetBytes(sig[:32])
	_ = ss.SetBytes(sig[32:])
	if s.curve.NormalizeS(new(bignum.Int).Set(&ss)) {
		return false, nil
	}
	if err = s.engine.VerifyDigest(s.pub, msg, &r, &ss); err != nil {
		if errors.Is(err, ecp.ErrInvalidSignature) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Zero wipes the secret key.
func (s *ECDSASigner) Zero() {
	if s.priv != nil {
		s.priv.D.Clear()
		s.priv = nil
	}
	s.hasSecret = false
	s.pub = nil
}

// ECDH returns the 32-byte x coordinate of the shared point.
func (s *ECDSASigner) ECDH(pub []byte) (secret []byte, err error) {
	if !s.hasSecret || s.priv == nil {
		return nil, ErrNoSecret
	}
	p, err := s.parsePub(pub)
	if err != nil {
		return nil, err
	}
	return s.engine.ECDH(s.priv, p)
}

// ECDSAGen implements Gen on the fixed-width engine.
type ECDSAGen struct {
	engine ecp.Engine
	curve  *ecp.Curve
	priv   *ecp.PrivateKey
}

// NewECDSAGen returns a key generator using strategy a.
func NewECDSAGen(a bignum.Arith) *ECDSAGen {
	return &ECDSAGen{engine: ecp.Engine{Arith: a}, curve: secp256k1()}
}

// Generate returns the compressed public key of a fresh pair.
func (g *ECDSAGen) Generate() (pubBytes []byte, err error) {
	if g.priv, err = g.engine.GenerateKey(g.curve); err != nil {
		return nil, err
	}
	return g.curve.MarshalCompressed(&g.priv.Point)
}

// Negate flips the public key between odd and even Y.
func (g *ECDSAGen) Negate() {
	if g.priv == nil {
		return
	}
	g.priv.D.Sub(&g.curve.N, &g.priv.D)
	g.priv.Y.Sub(&g.curve.P, &g.priv.Y)
}

// KeyPairBytes returns the secret and the x-only public key.
func (g *ECDSAGen) KeyPairBytes() (secBytes, cmprPubBytes []byte) {
	if g.priv == nil {
		return nil, nil
	}
	secBytes = make([]byte, 32)
	_ = g.priv.D.FillBytes(secBytes)
	cmprPubBytes = make([]byte, 32)
	_ = g.priv.X.FillBytes(cmprPubBytes)
	return
}
