package algo

import (
	"hash"

	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// ErrOutputLength is returned when an extendable-output primitive is asked
// for a non-positive number of bytes.
var ErrOutputLength = errors.New("algo: output length must be positive")

// blake3Hash exposes the BLAKE3 extendable output through SumN.
type blake3Hash struct {
	*blake3.Hasher
}

func newBLAKE3() (hash.Hash, error) {
	return blake3Hash{blake3.New()}, nil
}

func (h blake3Hash) SumN(b []byte, n int) ([]byte, error) {
	if n <= 0 {
		return nil, errors.Wrapf(ErrOutputLength, "blake3: %d", n)
	}
	out := make([]byte, n)
	if _, err := h.Digest().Read(out); err != nil {
		return nil, errors.Wrap(err, "blake3: read output")
	}
	return append(b, out...), nil
}

// shakeHash adapts a SHAKE256 sponge to hash.Hash. Sum and SumN read from a
// clone so the sponge keeps absorbing.
type shakeHash struct {
	sha3.ShakeHash
	size int
}

func newSHAKE256() (hash.Hash, error) {
	return &shakeHash{ShakeHash: sha3.NewShake256(), size: 64}, nil
}

func (h *shakeHash) Size() int      { return h.size }
func (h *shakeHash) BlockSize() int { return 136 }

func (h *shakeHash) Sum(b []byte) []byte {
	out, _ := h.SumN(b, h.size)
	return out
}

func (h *shakeHash) SumN(b []byte, n int) ([]byte, error) {
	if n <= 0 {
		return nil, errors.Wrapf(ErrOutputLength, "shake256: %d", n)
	}
	out := make([]byte, n)
	if _, err := h.Clone().Read(out); err != nil {
		return nil, errors.Wrap(err, "shake256: read output")
	}
	return append(b, out...), nil
}
