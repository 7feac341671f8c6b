package algo

import (
	"encoding/hex"

	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"
	"github.com/pkg/errors"
)

// Encoding selects the textual form of a digest.
type Encoding string

const (
	Hex       Encoding = "hex"
	Multibase Encoding = "multibase"
)

var (
	// ErrNoMulticodec is returned when a multihash is requested for an
	// algorithm multiformats does not know.
	ErrNoMulticodec = errors.New("algo: algorithm has no multicodec code")
	// ErrUnknownEncoding is returned by ParseEncoding.
	ErrUnknownEncoding = errors.New("algo: unknown encoding")
)

// ParseEncoding validates an encoding name. The empty string means Hex.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(s) {
	case "", Hex:
		return Hex, nil
	case Multibase:
		return Multibase, nil
	}
	return "", errors.Wrapf(ErrUnknownEncoding, "%q", s)
}

// Format renders digest as text. Multibase wraps the digest in a multihash
// and encodes it as base32.
func (a Algorithm) Format(digest []byte, enc Encoding) (string, error) {
	switch enc {
	case "", Hex:
		return hex.EncodeToString(digest), nil
	case Multibase:
		if a.Code == 0 {
			return "", errors.Wrap(ErrNoMulticodec, a.Name)
		}
		mh, err := multihash.Encode(digest, uint64(a.Code))
		if err != nil {
			return "", errors.Wrapf(err, "multihash %s", a.Name)
		}
		return multibase.Encode(multibase.Base32, mh)
	}
	return "", errors.Wrapf(ErrUnknownEncoding, "%q", string(enc))
}
