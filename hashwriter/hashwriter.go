// Package hashwriter accumulates bytes into an incremental hash context.
package hashwriter

import (
	"hash"

	"github.com/pkg/errors"
)

// ErrUnsupportedLength is returned by DigestN when the underlying primitive
// has a fixed output size and a different length was requested.
var ErrUnsupportedLength = errors.New("hashwriter: digest length not supported by primitive")

// Factory constructs a fresh hash context.
type Factory func() (hash.Hash, error)

// Extendable is implemented by primitives with variable-length output
// (BLAKE3, SHAKE). SumN appends n bytes of output to b.
type Extendable interface {
	hash.Hash
	SumN(b []byte, n int) ([]byte, error)
}

// HashWriter owns a hash context and folds bytes into it in call order.
type HashWriter struct {
	ctx hash.Hash
	buf [1]byte // used by Append
	n   uint64
}

// New builds a HashWriter around a context produced by factory. Factory
// errors are returned as is.
func New(factory Factory) (*HashWriter, error) {
	h, err := factory()
	if err != nil {
		return nil, err
	}
	return Wrap(h), nil
}

// Wrap adopts h. The caller must not use h afterwards.
func Wrap(h hash.Hash) *HashWriter {
	return &HashWriter{ctx: h}
}

// Extend folds p into the hash context.
func (w *HashWriter) Extend(p []byte) {
	// hash.Hash.Write never returns an error
	_, _ = w.ctx.Write(p)
	w.n += uint64(len(p))
}

// Append folds a single byte into the hash context.
func (w *HashWriter) Append(b byte) {
	w.buf[0] = b
	_, _ = w.ctx.Write(w.buf[:])
	w.n++
}

// Write implements io.Writer.
func (w *HashWriter) Write(p []byte) (int, error) {
	w.Extend(p)
	return len(p), nil
}

// WriteByte implements io.ByteWriter.
func (w *HashWriter) WriteByte(b byte) error {
	w.Append(b)
	return nil
}

// Digest returns the digest of everything folded so far. The context is left
// untouched, so Digest may be called again after more input.
func (w *HashWriter) Digest() []byte {
	return w.ctx.Sum(nil)
}

// DigestN returns an n-byte digest. Extendable primitives produce any length
// they support and report their own errors; fixed-size primitives only
// accept their natural size.
func (w *HashWriter) DigestN(n int) ([]byte, error) {
	if x, ok := w.ctx.(Extendable); ok {
		return x.SumN(nil, n)
	}
	if n != w.ctx.Size() {
		return nil, ErrUnsupportedLength
	}
	return w.ctx.Sum(nil), nil
}

// Len reports how many bytes have been folded.
func (w *HashWriter) Len() uint64 { return w.n }

// Size returns the natural digest size of the primitive.
func (w *HashWriter) Size() int { return w.ctx.Size() }
