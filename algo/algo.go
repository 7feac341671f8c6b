// Package algo names the hash primitives hashwrap can accumulate into and
// formats their digests.
package algo

import (
	"crypto/sha1"
	"hash"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/minio/blake2b-simd"
	"github.com/minio/highwayhash"
	"github.com/multiformats/go-multicodec"
	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"

	"hashwrap/hashwriter"
)

// ErrUnknownAlgorithm is returned by Lookup for unregistered names.
var ErrUnknownAlgorithm = errors.New("algo: unknown algorithm")

// Algorithm describes one hash primitive.
type Algorithm struct {
	Name string
	// Size is the natural digest size in bytes.
	Size int
	// Code is the multicodec code of the digest, zero if there is none.
	Code multicodec.Code
	New  hashwriter.Factory
}

// Registry maps algorithm names to constructors.
type Registry struct {
	highwayKey []byte
	algs       map[string]Algorithm
}

// Option configures a Registry.
type Option func(*Registry)

// WithHighwayKey sets the key used by the HighwayHash variants. HighwayHash
// requires exactly 32 bytes; other lengths surface when a hash is built.
func WithHighwayKey(key []byte) Option {
	return func(r *Registry) {
		r.highwayKey = append([]byte(nil), key...)
	}
}

// Default is a registry with a zero HighwayHash key.
var Default = NewRegistry()

// NewRegistry returns a registry holding every supported algorithm.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{highwayKey: make([]byte, highwayhash.Size)}
	for _, opt := range opts {
		opt(r)
	}

	r.algs = make(map[string]Algorithm)
	r.add(Algorithm{Name: "sha256", Size: 32, Code: multicodec.Sha2_256, New: sha256Factory})
	r.add(Algorithm{Name: "sha1", Size: sha1.Size, Code: multicodec.Sha1, New: func() (hash.Hash, error) {
		return sha1.New(), nil
	}})
	r.add(Algorithm{Name: "blake2b-256", Size: 32, Code: multicodec.Blake2b256, New: func() (hash.Hash, error) {
		return blake2b.New256(), nil
	}})
	r.add(Algorithm{Name: "blake2b-512", Size: 64, Code: multicodec.Blake2b512, New: func() (hash.Hash, error) {
		return blake2b.New512(), nil
	}})
	r.add(Algorithm{Name: "blake3", Size: 32, Code: multicodec.Blake3, New: newBLAKE3})
	r.add(Algorithm{Name: "shake256", Size: 64, Code: multicodec.Shake256, New: newSHAKE256})
	r.add(Algorithm{Name: "highwayhash-64", Size: 8, New: func() (hash.Hash, error) {
		h, err := highwayhash.New64(r.highwayKey)
		if err != nil {
			return nil, errors.Wrap(err, "highwayhash-64")
		}
		return h, nil
	}})
	r.add(Algorithm{Name: "highwayhash-256", Size: 32, New: func() (hash.Hash, error) {
		h, err := highwayhash.New(r.highwayKey)
		if err != nil {
			return nil, errors.Wrap(err, "highwayhash-256")
		}
		return h, nil
	}})
	r.add(Algorithm{Name: "xxhash64", Size: 8, Code: multicodec.Xxh64, New: func() (hash.Hash, error) {
		return xxhash.New(), nil
	}})
	r.add(Algorithm{Name: "xxh3-64", Size: 8, Code: multicodec.Xxh3_64, New: func() (hash.Hash, error) {
		return xxh3.New(), nil
	}})
	r.add(Algorithm{Name: "xxh3-128", Size: 16, Code: multicodec.Xxh3_128, New: newXXH3128})
	r.add(Algorithm{Name: "wyhash", Size: 8, New: newOneShot(wyhashSum)})
	r.add(Algorithm{Name: "t1ha", Size: 8, New: newOneShot(t1haSum)})
	return r
}

func (r *Registry) add(a Algorithm) { r.algs[a.Name] = a }

// Lookup returns the algorithm registered under name.
func (r *Registry) Lookup(name string) (Algorithm, error) {
	a, ok := r.algs[name]
	if !ok {
		return Algorithm{}, errors.Wrapf(ErrUnknownAlgorithm, "%q", name)
	}
	return a, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.algs))
	for n := range r.algs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
