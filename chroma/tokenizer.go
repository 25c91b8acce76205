// Package chroma provides syntax highlighting using the chroma library.
package chroma

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/fwojciec/lado"
)

// PaletteStyleName selects the theme palette instead of a chroma style.
const PaletteStyleName = "theme"

// Compile-time interface verification.
var (
	_ lado.Tokenizer        = (*Tokenizer)(nil)
	_ lado.LanguageDetector = (*Detector)(nil)
)

// StyleFunc maps a chroma token type to a display style.
type StyleFunc func(chroma.TokenType) lado.Style

// Tokenizer extracts syntax tokens using chroma.
type Tokenizer struct {
	style StyleFunc
}

// NewTokenizer creates a tokenizer that styles tokens with style.
func NewTokenizer(style StyleFunc) (*Tokenizer, error) {
	if style == nil {
		return nil, errors.New("chroma: nil style function")
	}
	return &Tokenizer{style: style}, nil
}

// Tokenize splits source code into syntax-highlighted tokens for the given language.
// Returns nil if the language is not supported or an error occurs.
// Returns an empty slice for empty source (valid input, no tokens).
func (t *Tokenizer) Tokenize(language, source string) []lado.Token {
	if source == "" {
		return []lado.Token{}
	}

	iterator, ok := t.iterate(language, source)
	if !ok {
		return nil
	}

	var tokens []lado.Token
	for token := iterator(); token != chroma.EOF; token = iterator() {
		tokens = append(tokens, lado.Token{Text: token.Value, Style: t.style(token.Type)})
	}
	return tokens
}

// TokenizeLines tokenizes source as a whole and splits the result at line
// breaks, so constructs spanning lines (block comments, raw strings) are
// styled correctly on every line. The result has one entry per line of
// source; newline characters are not included in any token.
func (t *Tokenizer) TokenizeLines(language, source string) [][]lado.Token {
	if source == "" {
		return [][]lado.Token{}
	}

	iterator, ok := t.iterate(language, source)
	if !ok {
		return nil
	}

	n := strings.Count(source, "\n") + 1
	lines := make([][]lado.Token, 1, n)
	for token := iterator(); token != chroma.EOF; token = iterator() {
		style := t.style(token.Type)
		parts := strings.Split(token.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part != "" {
				last := len(lines) - 1
				lines[last] = append(lines[last], lado.Token{Text: part, Style: style})
			}
		}
	}

	// Lexers may append a trailing newline to the input.
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, nil)
	}
	return lines
}

func (t *Tokenizer) iterate(language, source string) (chroma.Iterator, bool) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return nil, false
	}

	// Coalesce for better performance with consecutive tokens of the same type
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return nil, false
	}
	return iterator, true
}

// Detector maps file names to chroma lexer names.
type Detector struct{}

// NewDetector creates a new language detector.
func NewDetector() *Detector {
	return &Detector{}
}

// DetectFromPath returns the name of the lexer matching the file name of
// path, or "" if none does.
func (d *Detector) DetectFromPath(path string) string {
	if path == "" {
		return ""
	}
	lexer := lexers.Match(filepath.Base(path))
	if lexer == nil {
		return ""
	}
	return lexer.Config().Name
}

// StyleFromChroma returns a StyleFunc reading colors from the named chroma
// style, or PaletteStyleName to use palette.
func StyleFromChroma(name string, palette lado.Palette) (StyleFunc, error) {
	if name == PaletteStyleName {
		return StyleFromPalette(palette), nil
	}
	style, ok := styles.Registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("chroma: unknown syntax theme %q", name)
	}
	return func(tt chroma.TokenType) lado.Style {
		entry := style.Get(tt)
		s := lado.Style{
			Bold:   entry.Bold == chroma.Yes,
			Italic: entry.Italic == chroma.Yes,
		}
		if entry.Colour.IsSet() {
			s.Foreground = entry.Colour.String()
		}
		return s
	}, nil
}

// StyleFromPalette returns a StyleFunc mapping token categories to the
// syntax colors of palette.
func StyleFromPalette(p lado.Palette) StyleFunc {
	return func(tt chroma.TokenType) lado.Style {
		return paletteStyle(p, tt)
	}
}

// paletteStyle uses direct type comparison for specific types, then falls
// through to category checks for broader matches.
func paletteStyle(p lado.Palette, tt chroma.TokenType) lado.Style {
	switch tt {
	case chroma.KeywordType, chroma.NameClass:
		return lado.Style{Foreground: string(p.Type)}
	case chroma.NameFunction, chroma.NameFunctionMagic:
		return lado.Style{Foreground: string(p.Function)}
	case chroma.NameBuiltin, chroma.NameBuiltinPseudo:
		return lado.Style{Foreground: string(p.Type)}
	case chroma.Operator, chroma.OperatorWord:
		return lado.Style{Foreground: string(p.Operator)}
	}

	switch {
	case tt.InCategory(chroma.Keyword):
		return lado.Style{Foreground: string(p.Keyword), Bold: true}
	case tt.InCategory(chroma.Comment):
		return lado.Style{Foreground: string(p.Comment), Italic: true}
	case tt.InSubCategory(chroma.LiteralString):
		return lado.Style{Foreground: string(p.String)}
	case tt.InSubCategory(chroma.LiteralNumber):
		return lado.Style{Foreground: string(p.Number)}
	default:
		return lado.Style{}
	}
}
