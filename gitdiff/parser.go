// Package gitdiff parses unified diffs using the go-gitdiff library.
package gitdiff

import (
	"fmt"
	"io"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/fwojciec/lado"
)

// Compile-time interface verification.
var _ lado.Parser = (*Parser)(nil)

// Parser converts git-style unified diffs into raw lado records.
type Parser struct{}

// NewParser creates a new go-gitdiff based parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads a unified diff. Empty input yields no files.
func (p *Parser) Parse(r io.Reader) ([]lado.RawFile, error) {
	files, _, err := gitdiff.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	out := make([]lado.RawFile, 0, len(files))
	for _, f := range files {
		out = append(out, convertFile(f))
	}
	return out, nil
}

func convertFile(f *gitdiff.File) lado.RawFile {
	raw := lado.RawFile{
		OldPath:  f.OldName,
		NewPath:  f.NewName,
		Status:   fileStatus(f),
		IsBinary: f.IsBinary,
	}
	// go-gitdiff may report the surviving name on both sides.
	switch raw.Status {
	case lado.StatusAdded:
		raw.OldPath = ""
	case lado.StatusDeleted:
		raw.NewPath = ""
	}

	for _, frag := range f.TextFragments {
		raw.Hunks = append(raw.Hunks, convertFragment(frag))
	}
	return raw
}

func fileStatus(f *gitdiff.File) lado.FileStatus {
	switch {
	case f.IsNew:
		return lado.StatusAdded
	case f.IsDelete:
		return lado.StatusDeleted
	case f.IsRename:
		return lado.StatusRenamed
	case f.IsCopy:
		return lado.StatusCopied
	default:
		return lado.StatusModified
	}
}

func convertFragment(frag *gitdiff.TextFragment) lado.RawHunk {
	h := lado.RawHunk{
		OldStart: int(frag.OldPosition),
		OldCount: int(frag.OldLines),
		NewStart: int(frag.NewPosition),
		NewCount: int(frag.NewLines),
		Section:  strings.TrimSpace(frag.Comment),
		Lines:    make([]lado.RawLine, 0, len(frag.Lines)),
	}
	for _, l := range frag.Lines {
		h.Lines = append(h.Lines, lado.RawLine{
			Op:        lineOp(l.Op),
			Text:      strings.TrimSuffix(l.Line, "\n"),
			NoNewline: l.NoEOL(),
		})
	}
	return h
}

func lineOp(op gitdiff.LineOp) byte {
	switch op {
	case gitdiff.OpAdd:
		return '+'
	case gitdiff.OpDelete:
		return '-'
	default:
		return ' '
	}
}
