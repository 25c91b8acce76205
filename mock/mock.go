// Package mock provides function-field test doubles for lado interfaces.
package mock

import (
	"context"
	"io"

	"github.com/fwojciec/lado"
	"github.com/fwojciec/lado/gh"
)

var (
	_ lado.Source           = (*Source)(nil)
	_ lado.Parser           = (*Parser)(nil)
	_ lado.Viewer           = (*Viewer)(nil)
	_ lado.Tokenizer        = (*Tokenizer)(nil)
	_ lado.LanguageDetector = (*LanguageDetector)(nil)
	_ lado.WordDiffer       = (*WordDiffer)(nil)
	_ gh.Runner             = (*Runner)(nil)
)

// Source is a mock implementation of lado.Source.
type Source struct {
	LoadFn func(ctx context.Context, target lado.Target) (*lado.Snapshot, error)
}

func (s *Source) Load(ctx context.Context, target lado.Target) (*lado.Snapshot, error) {
	return s.LoadFn(ctx, target)
}

// Parser is a mock implementation of lado.Parser.
type Parser struct {
	ParseFn func(r io.Reader) ([]lado.RawFile, error)
}

func (p *Parser) Parse(r io.Reader) ([]lado.RawFile, error) {
	return p.ParseFn(r)
}

// Viewer is a mock implementation of lado.Viewer.
type Viewer struct {
	ViewFn func(ctx context.Context, c *lado.Comparison) error
}

func (v *Viewer) View(ctx context.Context, c *lado.Comparison) error {
	return v.ViewFn(ctx, c)
}

// Tokenizer is a mock implementation of lado.Tokenizer.
type Tokenizer struct {
	TokenizeLinesFn func(language, source string) [][]lado.Token
}

func (t *Tokenizer) TokenizeLines(language, source string) [][]lado.Token {
	return t.TokenizeLinesFn(language, source)
}

// LanguageDetector is a mock implementation of lado.LanguageDetector.
type LanguageDetector struct {
	DetectFromPathFn func(path string) string
}

func (d *LanguageDetector) DetectFromPath(path string) string {
	return d.DetectFromPathFn(path)
}

// WordDiffer is a mock implementation of lado.WordDiffer.
type WordDiffer struct {
	DiffFn func(old, new string) (oldSegs, newSegs []lado.Segment)
}

func (w *WordDiffer) Diff(old, new string) (oldSegs, newSegs []lado.Segment) {
	return w.DiffFn(old, new)
}

// Runner is a mock implementation of gh.Runner.
type Runner struct {
	RunFn func(ctx context.Context, args ...string) ([]byte, error)
}

func (r *Runner) Run(ctx context.Context, args ...string) ([]byte, error) {
	return r.RunFn(ctx, args...)
}
