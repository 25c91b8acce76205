package lado

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// RawFile is a changed file as reported by a diff collaborator.
type RawFile struct {
	OldPath  string
	NewPath  string
	Status   FileStatus
	IsBinary bool
	Hunks    []RawHunk
}

// RawHunk is a hunk as reported by a diff collaborator.
type RawHunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Section  string
	Lines    []RawLine
}

// RawLine is a hunk line: a one-character op marker plus its text.
type RawLine struct {
	Op        byte // ' ', '+' or '-'
	Text      string
	NoNewline bool
}

// FromRaw validates raw collaborator records and wraps them into
// FileChanges. It assigns line numbers from each hunk's start positions.
//
// FromRaw returns an *EmptyPathError for a file with neither path, an
// *InvalidChangeError when the status contradicts the paths, and a
// *MalformedHunkError when a hunk's declared counts disagree with the lines
// it carries.
func FromRaw(files []RawFile) ([]FileChange, error) {
	changes := make([]FileChange, 0, len(files))
	for i, f := range files {
		if err := validatePaths(i, f); err != nil {
			return nil, err
		}
		change := FileChange{
			OldPath:  f.OldPath,
			NewPath:  f.NewPath,
			Status:   f.Status,
			IsBinary: f.IsBinary,
		}
		if len(f.Hunks) > 0 {
			change.Hunks = make([]DiffHunk, 0, len(f.Hunks))
		}
		for j, rh := range f.Hunks {
			h, err := convertHunk(change.Path(), j, rh)
			if err != nil {
				return nil, err
			}
			change.Hunks = append(change.Hunks, h)
		}
		changes = append(changes, change)
	}
	return changes, nil
}

func validatePaths(i int, f RawFile) error {
	if f.OldPath == "" && f.NewPath == "" {
		return &EmptyPathError{Index: i}
	}
	switch f.Status {
	case StatusAdded:
		if f.OldPath != "" {
			return &InvalidChangeError{Index: i, Reason: "added file has an old path"}
		}
	case StatusDeleted:
		if f.NewPath != "" {
			return &InvalidChangeError{Index: i, Reason: "deleted file has a new path"}
		}
	case StatusRenamed:
		if f.OldPath == "" || f.NewPath == "" {
			return &InvalidChangeError{Index: i, Reason: "renamed file needs both paths"}
		}
		if f.OldPath == f.NewPath {
			return &InvalidChangeError{Index: i, Reason: "renamed file has identical paths"}
		}
	}
	return nil
}

func convertHunk(path string, idx int, rh RawHunk) (DiffHunk, error) {
	h := DiffHunk{
		OldStart: rh.OldStart,
		OldCount: rh.OldCount,
		NewStart: rh.NewStart,
		NewCount: rh.NewCount,
		Section:  rh.Section,
		Lines:    make([]DiffLine, 0, len(rh.Lines)),
	}

	oldNo, newNo := rh.OldStart, rh.NewStart
	var oldSeen, newSeen int
	for _, rl := range rh.Lines {
		line := DiffLine{Content: rl.Text, NoNewline: rl.NoNewline}
		switch rl.Op {
		case ' ':
			line.Kind = LineContext
			line.OldLineNo = intPtr(oldNo)
			line.NewLineNo = intPtr(newNo)
			oldNo++
			newNo++
			oldSeen++
			newSeen++
		case '-':
			line.Kind = LineRemoved
			line.OldLineNo = intPtr(oldNo)
			oldNo++
			oldSeen++
		case '+':
			line.Kind = LineAdded
			line.NewLineNo = intPtr(newNo)
			newNo++
			newSeen++
		default:
			return DiffHunk{}, &MalformedHunkError{
				Path:   path,
				Hunk:   idx,
				Reason: fmt.Sprintf("unknown line marker %q", rl.Op),
			}
		}
		h.Lines = append(h.Lines, line)
	}

	if oldSeen != rh.OldCount {
		return DiffHunk{}, &MalformedHunkError{Path: path, Hunk: idx, Side: "old", Declared: rh.OldCount, Actual: oldSeen}
	}
	if newSeen != rh.NewCount {
		return DiffHunk{}, &MalformedHunkError{Path: path, Hunk: idx, Side: "new", Declared: rh.NewCount, Actual: newSeen}
	}
	return h, nil
}

func intPtr(v int) *int {
	return &v
}

// Comparison is one fully validated difference between two revisions.
// It is built once and not modified afterwards.
type Comparison struct {
	Title    string
	Changes  []FileChange
	Tree     *FileTreeNode
	Comments map[string][]ReviewComment // Keyed by path, see GroupCommentsByFile
	Commits  []Commit
}

// NewComparison wraps a snapshot's raw files and builds the file tree.
// Every structural error is reported here, so a returned Comparison is
// always valid.
func NewComparison(s *Snapshot) (*Comparison, error) {
	changes, err := FromRaw(s.Files)
	if err != nil {
		return nil, err
	}
	tree, err := BuildTree(changes)
	if err != nil {
		return nil, err
	}
	return &Comparison{
		Title:    s.Title,
		Changes:  changes,
		Tree:     tree,
		Comments: GroupCommentsByFile(s.Comments),
		Commits:  s.Commits,
	}, nil
}

// Hunk returns hunk h of file f.
func (c *Comparison) Hunk(f, h int) (DiffHunk, bool) {
	if f < 0 || f >= len(c.Changes) {
		return DiffHunk{}, false
	}
	hunks := c.Changes[f].Hunks
	if h < 0 || h >= len(hunks) {
		return DiffHunk{}, false
	}
	return hunks[h], true
}

// SideBySide returns the aligned rows of hunk h of file f, or nil if there
// is no such hunk.
func (c *Comparison) SideBySide(f, h int) []AlignedRow {
	hunk, ok := c.Hunk(f, h)
	if !ok {
		return nil
	}
	return Align(hunk.Lines)
}

// Unified returns the unified rows of hunk h of file f, or nil if there is
// no such hunk.
func (c *Comparison) Unified(f, h int) []UnifiedRow {
	hunk, ok := c.Hunk(f, h)
	if !ok {
		return nil
	}
	return UnifiedRows(hunk.Lines)
}

// AlignedHunks holds the side-by-side rows of each hunk of one file.
type AlignedHunks [][]AlignedRow

// AlignFiles aligns every hunk of every file, one goroutine per file.
// The result is indexed like Changes.
func (c *Comparison) AlignFiles(ctx context.Context) ([]AlignedHunks, error) {
	out := make([]AlignedHunks, len(c.Changes))
	g, ctx := errgroup.WithContext(ctx)
	for i := range c.Changes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			hunks := c.Changes[i].Hunks
			rows := make(AlignedHunks, len(hunks))
			for j, h := range hunks {
				rows[j] = Align(h.Lines)
			}
			out[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
