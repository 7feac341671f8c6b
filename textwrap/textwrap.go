// Package textwrap breaks sentences into width-bounded lines.
//
// Lines are packed greedily. A word that cannot fit on a line of its own is
// split, and every fragment except the last ends with Hyphen.
package textwrap

import (
	"iter"
	"strings"

	"github.com/pkg/errors"

	"hashwrap/format"
)

// Hyphen terminates the leading fragments of a split word.
const Hyphen = "-"

var (
	// ErrInvalidWidth is returned for a non-positive width.
	ErrInvalidWidth = errors.New("textwrap: width must be positive")
	// ErrUnsplittableCharacter is returned when a single character is at
	// least as wide as the limit.
	ErrUnsplittableCharacter = errors.New("textwrap: character does not fit width")
)

// Wrapper wraps sentences to a fixed width. A Wrapper holds no state between
// calls and may be shared.
type Wrapper struct {
	width  int
	metric Metric
}

// Option configures a Wrapper.
type Option func(*Wrapper)

// WithMetric replaces the default Runes metric. A nil m is ignored.
func WithMetric(m Metric) Option {
	return func(w *Wrapper) {
		if m != nil {
			w.metric = m
		}
	}
}

// New returns a Wrapper for lines narrower than width.
func New(width int, opts ...Option) (*Wrapper, error) {
	if width <= 0 {
		return nil, errors.Wrapf(ErrInvalidWidth, "got %d", width)
	}
	w := &Wrapper{width: width, metric: Runes}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Width returns the width limit.
func (w *Wrapper) Width() int { return w.width }

// Lines yields the wrapped lines of sentence one at a time. Each range over
// the result starts from scratch. On failure the sequence yields a single
// error and stops.
func (w *Wrapper) Lines(sentence string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		var line []string
		pos := 0
		for _, word := range strings.Split(sentence, " ") {
			if word == "" {
				continue
			}
			pos++
			// a joined line exactly as wide as the limit does not fit
			if len(line) > 0 && w.metric(joinWith(line, word)) >= w.width {
				if !yield(strings.Join(line, " "), nil) {
					return
				}
				line = line[:0]
			}
			for w.metric(word) >= w.width {
				head, tail, ok := w.split(word)
				if !ok {
					yield("", errors.Wrapf(ErrUnsplittableCharacter,
						"%q in %s word, width %d", firstRune(word), format.FormatOrdinal(pos), w.width))
					return
				}
				if !yield(head+Hyphen, nil) {
					return
				}
				word = tail
			}
			line = append(line, word)
		}
		yield(strings.Join(line, " "), nil)
	}
}

// Wrap returns all lines of sentence.
func (w *Wrapper) Wrap(sentence string) ([]string, error) {
	var lines []string
	for line, err := range w.Lines(sentence) {
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// split removes the shortest suffix of word whose removal leaves a prefix
// narrower than the width. The prefix is never empty, so every split makes
// progress; ok is false when even the first character alone is too wide.
func (w *Wrapper) split(word string) (head, tail string, ok bool) {
	runes := []rune(word)
	for i := 1; i < len(runes); i++ {
		cut := len(runes) - i
		if prefix := string(runes[:cut]); w.metric(prefix) < w.width {
			return prefix, string(runes[cut:]), true
		}
	}
	return "", "", false
}

// SplitWords wraps sentence to width using metric, or Runes when metric is
// nil.
func SplitWords(sentence string, width int, metric Metric) ([]string, error) {
	w, err := New(width, WithMetric(metric))
	if err != nil {
		return nil, err
	}
	return w.Wrap(sentence)
}

func joinWith(line []string, word string) string {
	var b strings.Builder
	for _, s := range line {
		b.WriteString(s)
		b.WriteByte(' ')
	}
	b.WriteString(word)
	return b.String()
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
