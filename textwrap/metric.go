package textwrap

import (
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"
	"github.com/rivo/uniseg"
)

// Metric measures the visual width of a string. It must be non-negative and
// must not shrink when characters are added.
type Metric func(string) int

// Runes counts characters. It is the default metric.
func Runes(s string) int { return utf8.RuneCountInString(s) }

// Bytes counts bytes.
func Bytes(s string) int { return len(s) }

// Cells counts terminal cells, so wide East Asian characters count twice.
func Cells(s string) int { return runewidth.StringWidth(s) }

// Graphemes counts user-perceived characters.
func Graphemes(s string) int { return uniseg.GraphemeClusterCount(s) }

// ErrUnknownMetric is returned by MetricByName.
var ErrUnknownMetric = errors.New("textwrap: unknown metric")

// MetricByName resolves a metric from configuration. The empty name means
// Runes.
func MetricByName(name string) (Metric, error) {
	switch name {
	case "", "runes":
		return Runes, nil
	case "bytes":
		return Bytes, nil
	case "cells":
		return Cells, nil
	case "graphemes":
		return Graphemes, nil
	}
	return nil, errors.Wrapf(ErrUnknownMetric, "%q", name)
}

// Cached memoises m for the most recent size distinct strings. Wrapping
// measures the same prefixes repeatedly, which matters when m is expensive
// (font shaping, pixel widths).
func Cached(m Metric, size int) (Metric, error) {
	cache, err := lru.New[string, int](size)
	if err != nil {
		return nil, errors.Wrap(err, "textwrap: metric cache")
	}
	return func(s string) int {
		if w, ok := cache.Get(s); ok {
			return w
		}
		w := m(s)
		cache.Add(s, w)
		return w
	}, nil
}
