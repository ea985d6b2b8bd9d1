package bignum

import (
	"hash"
	"unsafe"

	sha256simd "github.com/minio/sha256-simd"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// HashAlgorithm names the message digest used by the signature schemes.
type HashAlgorithm uint8

const (
	HashSHA256 HashAlgorithm = iota
	HashSHA3_256
)

func (h HashAlgorithm) String() string {
	switch h {
	case HashSHA256:
		return "sha256"
	case HashSHA3_256:
		return "sha3-256"
	}
	return "unknown"
}

// ParseHashAlgorithm parses "sha256" or "sha3-256".
func ParseHashAlgorithm(s string) (HashAlgorithm, error) {
	switch s {
	case "sha256", "":
		return HashSHA256, nil
	case "sha3-256", "sha3":
		return HashSHA3_256, nil
	}
	return 0, errors.Errorf("unknown hash algorithm %q", s)
}

// New returns a fresh hash.Hash for the algorithm.
func (h HashAlgorithm) New() hash.Hash {
	if h == HashSHA3_256 {
		return sha3.New256()
	}
	return sha256simd.New()
}

// Digest hashes msg with the algorithm. Both supported digests are 32 bytes.
func Digest(alg HashAlgorithm, msg []byte) []byte {
	h := alg.New()
	h.Write(msg)
	return h.Sum(nil)
}

// SHA256 represents a SHA-256 hash context
type SHA256 struct {
	hasher hash.Hash
}

// NewSHA256 creates a new SHA-256 hash context
func NewSHA256() *SHA256 {
	return &SHA256{hasher: sha256simd.New()}
}

// Write writes data to the hash
func (h *SHA256) Write(data []byte) {
	h.hasher.Write(data)
}

// Finalize writes the digest to out32 (must be 32 bytes)
func (h *SHA256) Finalize(out32 []byte) {
	if len(out32) != 32 {
		panic("output buffer must be 32 bytes")
	}
	copy(out32, h.hasher.Sum(nil))
}

// Clear clears the hash context
func (h *SHA256) Clear() {
	memclear(unsafe.Pointer(h), unsafe.Sizeof(*h))
}

// HMACSHA256 represents an HMAC-SHA256 context
type HMACSHA256 struct {
	inner, outer SHA256
}

// NewHMACSHA256 creates a new HMAC-SHA256 context with the given key
func NewHMACSHA256(key []byte) *HMACSHA256 {
	h := &HMACSHA256{}

	var rkey [64]byte
	if len(key) <= 64 {
		copy(rkey[:], key)
	} else {
		// long keys are hashed first
		k := sha256simd.Sum256(key)
		copy(rkey[:32], k[:])
	}

	h.outer = SHA256{hasher: sha256simd.New()}
	for i := range rkey {
		rkey[i] ^= 0x5c
	}
	h.outer.hasher.Write(rkey[:])

	h.inner = SHA256{hasher: sha256simd.New()}
	for i := range rkey {
		rkey[i] ^= 0x5c ^ 0x36
	}
	h.inner.hasher.Write(rkey[:])

	memclear(unsafe.Pointer(&rkey), unsafe.Sizeof(rkey))
	return h
}

// Write writes data to the inner hash
func (h *HMACSHA256) Write(data []byte) {
	h.inner.Write(data)
}

// Finalize writes the MAC to out32 (must be 32 bytes)
func (h *HMACSHA256) Finalize(out32 []byte) {
	if len(out32) != 32 {
		panic("output buffer must be 32 bytes")
	}
	var temp [32]byte
	h.inner.Finalize(temp[:])
	h.outer.Write(temp[:])
	h.outer.Finalize(out32)
	memclear(unsafe.Pointer(&temp), unsafe.Sizeof(temp))
}

// Clear clears the HMAC context
func (h *HMACSHA256) Clear() {
	h.inner.Clear()
	h.outer.Clear()
}

// RFC6979HMACSHA256 is the HMAC_DRBG of RFC 6979 section 3.2 keyed with
// int2octets(x) || bits2octets(h1).
type RFC6979HMACSHA256 struct {
	v     [32]byte
	k     [32]byte
	retry bool
}

func (rng *RFC6979HMACSHA256) mac(parts ...[]byte) [32]byte {
	var out [32]byte
	h := NewHMACSHA256(rng.k[:])
	for _, p := range parts {
		h.Write(p)
	}
	h.Finalize(out[:])
	h.Clear()
	return out
}

// NewRFC6979HMACSHA256 initializes the generator (steps 3.2.b to 3.2.g).
func NewRFC6979HMACSHA256(key []byte) *RFC6979HMACSHA256 {
	rng := &RFC6979HMACSHA256{}
	for i := range rng.v {
		rng.v[i] = 0x01
	}
	rng.k = rng.mac(rng.v[:], []byte{0x00}, key)
	rng.v = rng.mac(rng.v[:])
	rng.k = rng.mac(rng.v[:], []byte{0x01}, key)
	rng.v = rng.mac(rng.v[:])
	return rng
}

// Generate fills out with the next candidate (step 3.2.h). Calls after the
// first re-key the generator as the retry branch requires.
func (rng *RFC6979HMACSHA256) Generate(out []byte) {
	if rng.retry {
		rng.k = rng.mac(rng.v[:], []byte{0x00})
		rng.v = rng.mac(rng.v[:])
	}
	for len(out) > 0 {
		rng.v = rng.mac(rng.v[:])
		n := copy(out, rng.v[:])
		out = out[n:]
	}
	rng.retry = true
}

// Clear clears the generator state
func (rng *RFC6979HMACSHA256) Clear() {
	memclear(unsafe.Pointer(rng), unsafe.Sizeof(*rng))
}

// bits2int keeps the leftmost qlen bits of b.
func bits2int(b []byte, qlen int) (Int, error) {
	var z Int
	if err := z.SetBytes(b); err != nil {
		return z, err
	}
	if blen := len(b) * 8; blen > qlen {
		z.Rsh(&z, uint(blen-qlen))
	}
	return z, nil
}

// HashToInt converts a digest into an integer modulo-q candidate by keeping
// its leftmost BitLen(q) bits, as ECDSA and DSA do.
func HashToInt(digest []byte, q *Int) (Int, error) {
	return bits2int(digest, q.BitLen())
}

// NonceRFC6979 derives the deterministic nonce k in [1, q-1] for private key
// x and message digest h1 (RFC 6979 section 3.2, HMAC-SHA256).
func NonceRFC6979(x, q *Int, h1 []byte) (Int, error) {
	var k Int
	qlen := q.BitLen()
	if qlen < 2 {
		return k, ErrInvalidLength
	}
	rlen := (qlen + 7) / 8

	// bits2octets: bits2int(h1) reduced once modulo q
	z1, err := bits2int(h1, qlen)
	if err != nil {
		return k, err
	}
	if z1.Cmp(q) >= 0 {
		z1.Sub(&z1, q)
	}
	key := make([]byte, 2*rlen)
	if err = x.FillBytes(key[:rlen]); err != nil {
		return k, errors.Wrap(err, "private key wider than q")
	}
	_ = z1.FillBytes(key[rlen:])

	rng := NewRFC6979HMACSHA256(key)
	defer rng.Clear()
	clear(key)

	t := make([]byte, rlen)
	defer clear(t)
	for {
		rng.Generate(t)
		if k, err = bits2int(t, qlen); err != nil {
			return k, err
		}
		if !k.IsZero() && k.Cmp(q) < 0 {
			return k, nil
		}
	}
}
