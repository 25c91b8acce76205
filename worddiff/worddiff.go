// Package worddiff computes word-level differences between line pairs using
// diffmatchpatch.
package worddiff

import (
	"strings"
	"unicode"

	"github.com/fwojciec/lado"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultMaxLineLength is the longest line that is diffed word by word.
// Longer pairs are reported as wholly changed.
const DefaultMaxLineLength = 500

// Compile-time interface verification.
var _ lado.WordDiffer = (*Differ)(nil)

// Differ implements lado.WordDiffer.
type Differ struct {
	// MaxLineLength bounds the work per pair. Zero means DefaultMaxLineLength.
	MaxLineLength int
}

// NewDiffer returns a Differ with default limits.
func NewDiffer() *Differ {
	return &Differ{MaxLineLength: DefaultMaxLineLength}
}

// Diff splits old and new into words, whitespace and punctuation and marks
// the tokens that differ. Adjacent segments with the same state are merged.
func (d *Differ) Diff(old, new string) (oldSegs, newSegs []lado.Segment) {
	if old == new {
		return whole(old, false), whole(new, false)
	}
	limit := d.MaxLineLength
	if limit <= 0 {
		limit = DefaultMaxLineLength
	}
	if len(old) > limit || len(new) > limit || old == "" || new == "" {
		return whole(old, true), whole(new, true)
	}

	// Each distinct token becomes one rune so the diff runs over tokens.
	index := make(map[string]rune)
	var tokens []string
	encode := func(s string) []rune {
		toks := tokenize(s)
		out := make([]rune, len(toks))
		for i, tok := range toks {
			r, ok := index[tok]
			if !ok {
				r = rune(len(tokens))
				index[tok] = r
				tokens = append(tokens, tok)
			}
			out[i] = r
		}
		return out
	}
	oldRunes, newRunes := encode(old), encode(new)

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(oldRunes, newRunes, false)

	decode := func(text string) string {
		var b strings.Builder
		for _, r := range text {
			b.WriteString(tokens[r])
		}
		return b.String()
	}

	for _, diff := range diffs {
		text := decode(diff.Text)
		switch diff.Type {
		case diffmatchpatch.DiffEqual:
			oldSegs = appendSegment(oldSegs, text, false)
			newSegs = appendSegment(newSegs, text, false)
		case diffmatchpatch.DiffDelete:
			oldSegs = appendSegment(oldSegs, text, true)
		case diffmatchpatch.DiffInsert:
			newSegs = appendSegment(newSegs, text, true)
		}
	}
	return oldSegs, newSegs
}

func whole(s string, changed bool) []lado.Segment {
	if s == "" {
		return nil
	}
	return []lado.Segment{{Text: s, Changed: changed}}
}

func appendSegment(segs []lado.Segment, text string, changed bool) []lado.Segment {
	if text == "" {
		return segs
	}
	if n := len(segs); n > 0 && segs[n-1].Changed == changed {
		segs[n-1].Text += text
		return segs
	}
	return append(segs, lado.Segment{Text: text, Changed: changed})
}

// tokenize splits a line into words, single whitespace runes and single
// punctuation runes: "foo.bar()" becomes ["foo", ".", "bar", "(", ")"].
func tokenize(line string) []string {
	var tokens []string
	start := -1
	for i, r := range line {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			if start >= 0 {
				tokens = append(tokens, line[start:i])
				start = -1
			}
			tokens = append(tokens, string(r))
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, line[start:])
	}
	return tokens
}
