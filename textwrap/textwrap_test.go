package textwrap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitWords(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
		width    int
		want     []string
	}{
		{"exact width breaks", "a bb ccc", 4, []string{"a", "bb", "ccc"}},
		{"packs below width", "a bb ccc", 5, []string{"a bb", "ccc"}},
		{"oversized word", "abcdef", 3, []string{"ab-", "cd-", "ef"}},
		{"oversized after text", "hi abcdef", 3, []string{"hi", "ab-", "cd-", "ef"}},
		{"word equal to width is split", "abc", 3, []string{"ab-", "c"}},
		{"consecutive spaces", "  a   b  ", 10, []string{"a b"}},
		{"empty sentence", "", 5, []string{""}},
		{"only spaces", "   ", 5, []string{""}},
		{"runes not bytes", "žluťoučký kůň", 6, []string{"žluťo-", "učký", "kůň"}},
		{"long text", "the quick brown fox jumps over the lazy dog", 12,
			[]string{"the quick", "brown fox", "jumps over", "the lazy", "dog"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitWords(tt.sentence, tt.width, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInvalidWidth(t *testing.T) {
	for _, width := range []int{0, -1} {
		_, err := New(width)
		assert.ErrorIs(t, err, ErrInvalidWidth)
		_, err = SplitWords("a", width, Runes)
		assert.ErrorIs(t, err, ErrInvalidWidth)
	}
}

func TestUnsplittableCharacter(t *testing.T) {
	_, err := SplitWords("ok abc", 1, nil)
	require.ErrorIs(t, err, ErrUnsplittableCharacter)
	assert.Contains(t, err.Error(), "1st word")

	_, err = SplitWords("a 世界", 2, Cells)
	require.ErrorIs(t, err, ErrUnsplittableCharacter)
	assert.Contains(t, err.Error(), "2nd word")
}

func TestLinesStopsAfterError(t *testing.T) {
	w, err := New(1)
	require.NoError(t, err)
	var lines []string
	var errs int
	for line, err := range w.Lines("xx") {
		if err != nil {
			errs++
			continue
		}
		lines = append(lines, line)
	}
	assert.Empty(t, lines)
	assert.Equal(t, 1, errs)
}

func TestLinesIsRestartableAndLazy(t *testing.T) {
	w, err := New(4)
	require.NoError(t, err)
	seq := w.Lines("a bb ccc")

	var first []string
	for line, err := range seq {
		require.NoError(t, err)
		first = append(first, line)
		break
	}
	assert.Equal(t, []string{"a"}, first)

	var all []string
	for line, err := range seq {
		require.NoError(t, err)
		all = append(all, line)
	}
	assert.Equal(t, []string{"a", "bb", "ccc"}, all)
}

func TestCustomMetric(t *testing.T) {
	// every character counts as two units
	double := func(s string) int { return 2 * Runes(s) }
	got, err := SplitWords("ab cd", 6, double)
	require.NoError(t, err)
	assert.Equal(t, []string{"ab", "cd"}, got)
}

// rejoin undoes wrapping: fragment lines are a single token ending in
// Hyphen and glue onto whatever follows.
func rejoin(lines []string) []string {
	var words []string
	carry := ""
	for _, line := range lines {
		if !strings.Contains(line, " ") && strings.HasSuffix(line, Hyphen) {
			carry += strings.TrimSuffix(line, Hyphen)
			continue
		}
		for _, w := range strings.Fields(line) {
			words = append(words, carry+w)
			carry = ""
		}
	}
	return words
}

func TestReconstruction(t *testing.T) {
	sentences := []string{
		"lorem ipsum dolor sit amet consectetur adipiscing elit",
		"supercalifragilisticexpialidocious is a word",
		"a  b   verylongwordindeed c",
	}
	for _, s := range sentences {
		for width := 2; width < 20; width++ {
			lines, err := SplitWords(s, width, nil)
			require.NoError(t, err)
			assert.Equal(t, strings.Fields(s), rejoin(lines), "width %d", width)

			for _, line := range lines {
				if strings.HasSuffix(line, Hyphen) {
					assert.Less(t, Runes(strings.TrimSuffix(line, Hyphen)), width)
					continue
				}
				assert.Less(t, Runes(line), width, "line %q width %d", line, width)
			}
		}
	}
}

func TestRewrapIsIdempotent(t *testing.T) {
	s := "the quick brown fox jumps over the lazy dog again and again"
	for width := 6; width < 30; width++ {
		lines, err := SplitWords(s, width, nil)
		require.NoError(t, err)
		again, err := SplitWords(strings.Join(lines, " "), width, nil)
		require.NoError(t, err)
		assert.Equal(t, lines, again, "width %d", width)
	}
}

func TestWidth(t *testing.T) {
	w, err := New(7, WithMetric(nil))
	require.NoError(t, err)
	assert.Equal(t, 7, w.Width())
	got, err := w.Wrap("abc def")
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "def"}, got)
}
