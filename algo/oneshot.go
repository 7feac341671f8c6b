package algo

import (
	"encoding/binary"
	"hash"

	t1ha "github.com/dgryski/go-t1ha"
	"github.com/zeebo/wyhash"
	"github.com/zeebo/xxh3"
)

// oneShot adapts a whole-buffer 64-bit hash function to hash.Hash by
// buffering input until Sum.
type oneShot struct {
	sum func([]byte) uint64
	buf []byte
}

func newOneShot(sum func([]byte) uint64) func() (hash.Hash, error) {
	return func() (hash.Hash, error) {
		return &oneShot{sum: sum}, nil
	}
}

func (h *oneShot) Write(p []byte) (int, error) {
	h.buf = append(h.buf, p...)
	return len(p), nil
}

func (h *oneShot) Sum(b []byte) []byte {
	return binary.BigEndian.AppendUint64(b, h.sum(h.buf))
}

func (h *oneShot) Reset()         { h.buf = h.buf[:0] }
func (h *oneShot) Size() int      { return 8 }
func (h *oneShot) BlockSize() int { return 8 }

func wyhashSum(b []byte) uint64 { return wyhash.Hash(b, 0) }

func t1haSum(b []byte) uint64 { return t1ha.Sum64(b, 0) }

// xxh3Wide reports the 128-bit XXH3 digest through hash.Hash.
type xxh3Wide struct {
	*xxh3.Hasher
}

func newXXH3128() (hash.Hash, error) {
	return xxh3Wide{xxh3.New()}, nil
}

func (h xxh3Wide) Sum(b []byte) []byte {
	sum := h.Sum128().Bytes()
	return append(b, sum[:]...)
}

func (h xxh3Wide) Size() int { return 16 }
