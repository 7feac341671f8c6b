package textwrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	assert.Equal(t, 3, Runes("kůň"))
	assert.Equal(t, 5, Bytes("kůň"))
	assert.Equal(t, 4, Cells("世界"))
	assert.Equal(t, 1, Graphemes("e\u0301"))
	assert.Equal(t, 2, Runes("e\u0301"))
}

func TestMetricByName(t *testing.T) {
	for _, name := range []string{"", "runes", "bytes", "cells", "graphemes"} {
		m, err := MetricByName(name)
		require.NoError(t, err, name)
		assert.NotNil(t, m)
	}
	_, err := MetricByName("pixels")
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestCached(t *testing.T) {
	calls := 0
	m, err := Cached(func(s string) int {
		calls++
		return len(s)
	}, 16)
	require.NoError(t, err)

	assert.Equal(t, 3, m("abc"))
	assert.Equal(t, 3, m("abc"))
	assert.Equal(t, 1, calls)

	lines, err := SplitWords("abcdef gh", 4, m)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc-", "def", "gh"}, lines)

	_, err = Cached(Runes, 0)
	assert.Error(t, err)
}
