package sigv4

import (
	"crypto/hmac"
	"crypto/sha256"
)

// Hasher provides the two primitives the signer needs. Both functions are
// total over byte inputs. The default implementation delegates to the
// platform crypto packages; Fallback is a pure in-repo implementation for
// builds where those are unavailable. The two must be bit-identical.
type Hasher interface {
	// Sum256 returns the SHA-256 digest of data.
	Sum256(data []byte) [32]byte

	// HMAC returns the HMAC-SHA256 of msg under key.
	HMAC(key, msg []byte) [32]byte
}

// NewHasher returns the platform-accelerated hasher.
func NewHasher() Hasher {
	return stdHasher{}
}

// NewFallbackHasher returns the dependency-free hasher.
func NewFallbackHasher() Hasher {
	return fallbackHasher{}
}

type stdHasher struct{}

func (stdHasher) Sum256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

func (stdHasher) HMAC(key, msg []byte) [32]byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	var out [32]byte
	copy(out[:], mac.Sum(nil))
	return out
}

type fallbackHasher struct{}

func (fallbackHasher) Sum256(data []byte) [32]byte {
	return fallbackSum256(data)
}

// HMAC is the standard inner/outer pad construction over the fallback
// SHA-256: block size 64, over-length keys hashed first.
func (h fallbackHasher) HMAC(key, msg []byte) [32]byte {
	const blockSize = 64

	if len(key) > blockSize {
		sum := h.Sum256(key)
		key = sum[:]
	}

	var ipad, opad [blockSize]byte
	copy(ipad[:], key)
	copy(opad[:], key)
	for i := 0; i < blockSize; i++ {
		ipad[i] ^= 0x36
		opad[i] ^= 0x5c
	}

	inner := h.Sum256(append(ipad[:], msg...))
	return h.Sum256(append(opad[:], inner[:]...))
}
