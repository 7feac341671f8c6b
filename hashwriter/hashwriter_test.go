package hashwriter_test

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"hash"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hashwrap/algo"
	"hashwrap/hashwriter"
)

func newSHA256() (hash.Hash, error) { return sha256.New(), nil }

func TestKnownVector(t *testing.T) {
	w, err := hashwriter.New(newSHA256)
	require.NoError(t, err)
	w.Extend([]byte("abc"))
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	assert.Equal(t, want, hex.EncodeToString(w.Digest()))
	assert.Equal(t, uint64(3), w.Len())
}

func TestAppendMatchesExtend(t *testing.T) {
	a, err := hashwriter.New(newSHA256)
	require.NoError(t, err)
	a.Extend([]byte("abc"))

	b, err := hashwriter.New(newSHA256)
	require.NoError(t, err)
	b.Append('a')
	b.Append('b')
	b.Append('c')

	assert.Equal(t, a.Digest(), b.Digest())
	assert.Equal(t, a.Len(), b.Len())
}

func TestStreamingEqualsSingleExtend(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	for _, name := range algo.Default.Names() {
		t.Run(name, func(t *testing.T) {
			alg, err := algo.Default.Lookup(name)
			require.NoError(t, err)

			whole, err := hashwriter.New(alg.New)
			require.NoError(t, err)
			whole.Extend(data)

			parts, err := hashwriter.New(alg.New)
			require.NoError(t, err)
			parts.Extend(data[:4])
			for _, c := range data[4:10] {
				parts.Append(c)
			}
			parts.Extend(nil)
			_, _ = parts.Write(data[10:30])
			for _, c := range data[30:] {
				require.NoError(t, parts.WriteByte(c))
			}

			assert.Equal(t, whole.Digest(), parts.Digest())
			assert.Len(t, whole.Digest(), alg.Size)
		})
	}
}

func TestDigestIsRepeatable(t *testing.T) {
	w, err := hashwriter.New(newSHA256)
	require.NoError(t, err)
	w.Extend([]byte("a"))
	first := w.Digest()
	assert.Equal(t, first, w.Digest())

	w.Extend([]byte("bc"))
	want := sha256.Sum256([]byte("abc"))
	assert.Equal(t, want[:], w.Digest())
}

func TestFactoryErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	w, err := hashwriter.New(func() (hash.Hash, error) { return nil, boom })
	assert.Nil(t, w)
	assert.Same(t, boom, err)
}

func TestDigestNFixedSize(t *testing.T) {
	w := hashwriter.Wrap(sha256.New())
	w.Extend([]byte("abc"))

	d, err := w.DigestN(sha256.Size)
	require.NoError(t, err)
	assert.Equal(t, w.Digest(), d)

	_, err = w.DigestN(16)
	assert.ErrorIs(t, err, hashwriter.ErrUnsupportedLength)
}

func TestDigestNExtendable(t *testing.T) {
	alg, err := algo.Default.Lookup("blake3")
	require.NoError(t, err)
	w, err := hashwriter.New(alg.New)
	require.NoError(t, err)
	w.Extend([]byte("abc"))

	long, err := w.DigestN(64)
	require.NoError(t, err)
	assert.Len(t, long, 64)
	assert.Equal(t, w.Digest(), long[:32])

	_, err = w.DigestN(0)
	assert.Error(t, err)
}
