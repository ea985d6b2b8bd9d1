package signer

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// BtcecSigner implements I using btcec. It is the reference the engine is
// checked against.
type BtcecSigner struct {
	privKey   *btcec.PrivateKey
	pubKey    *btcec.PublicKey
	hasSecret bool
}

// NewBtcecSigner creates a new BtcecSigner instance
func NewBtcecSigner() *BtcecSigner {
	return &BtcecSigner{}
}

// setPriv negates the key if the public point has odd Y.
func (s *BtcecSigner) setPriv(privKey *btcec.PrivateKey) {
	pubKey := privKey.PubKey()
	if pubKey.SerializeCompressed()[0] == 0x03 {
		scalar := privKey.Key
		scalar.Negate()
		privKey = &btcec.PrivateKey{Key: scalar}
		pubKey = privKey.PubKey()
	}
	s.privKey = privKey
	s.pubKey = pubKey
	s.hasSecret = true
}

// Generate creates a fresh key pair with even Y.
func (s *BtcecSigner) Generate() error {
	privKey, err := btcec.NewPrivateKey()
	if err != nil {
		return err
	}
	s.setPriv(privKey)
	return nil
}

// InitSec loads a secret key.
func (s *BtcecSigner) InitSec(sec []byte) error {
	if len(sec) != 32 {
		return ErrSecretSize
	}
	privKey, _ := btcec.PrivKeyFromBytes(sec)
	s.setPriv(privKey)
	return nil
}

func parseXOnly(pub []byte) (*btcec.PublicKey, error) {
	if len(pub) != 32 {
		return nil, ErrPublicSize
	}
	return btcec.ParsePubKey(append([]byte{0x02}, pub...))
}

// InitPub loads an x-only public key.
func (s *BtcecSigner) InitPub(pub []byte) error {
	pubKey, err := parseXOnly(pub)
	if err != nil {
		return err
	}
	s.Zero()
	s.pubKey = pubKey
	return nil
}

// Sec returns the secret key bytes
func (s *BtcecSigner) Sec() []byte {
	if !s.hasSecret || s.privKey == nil {
		return nil
	}
	return s.privKey.Serialize()
}

// Pub returns the x-only public key.
func (s *BtcecSigner) Pub() []byte {
	if s.pubKey == nil {
		return nil
	}
	return s.pubKey.SerializeCompressed()[1:]
}

// Sign signs a 32-byte digest.
func (s *BtcecSigner) Sign(msg []byte) (sig []byte, err error) {
	if !s.hasSecret || s.privKey == nil {
		return nil, ErrNoSecret
	}
	if len(msg) != 32 {
		return nil, ErrMessageSize
	}
	// compact form is recovery byte || r || s
	compact := ecdsa.SignCompact(s.privKey, msg, true)
	return compact[1:], nil
}

// Verify checks a signature. High-S signatures are rejected.
func (s *BtcecSigner) Verify(msg, sig []byte) (valid bool, err error) {
	if s.pubKey == nil {
		return false, ErrNoPublic
	}
	if len(msg) != 32 {
		return false, ErrMessageSize
	}
	if len(sig) != 64 {
		return false, ErrSigSize
	}
	var r, ss btcec.ModNScalar
	if overflow := r.SetByteSlice(sig[:32]); overflow {
		return false, nil
	}
	if overflow := ss.SetByteSlice(sig[32:]); overflow {
		return false, nil
	}
	if ss.IsOverHalfOrder() {
		return false, nil
	}
	return ecdsa.NewSignature(&r, &ss).Verify(msg, s.pubKey), nil
}

// Zero wipes the secret key.
func (s *BtcecSigner) Zero() {
	if s.privKey != nil {
		s.privKey.Zero()
		s.privKey = nil
	}
	s.hasSecret = false
	s.pubKey = nil
}

// ECDH returns the x coordinate of the shared point.
func (s *BtcecSigner) ECDH(pub []byte) (secret []byte, err error) {
	if !s.hasSecret || s.privKey == nil {
		return nil, ErrNoSecret
	}
	pubKey, err := parseXOnly(pub)
	if err != nil {
		return nil, err
	}
	return btcec.GenerateSharedSecret(s.privKey, pubKey), nil
}
