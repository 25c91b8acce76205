// Package lado provides domain types for comparing revisions and laying out
// their differences as a file tree and unified or side-by-side rows.
package lado

import "fmt"

// FileChange represents one modified path between two revisions.
type FileChange struct {
	OldPath  string     // empty for added files
	NewPath  string     // empty for deleted files
	Status   FileStatus // Added, Deleted, Modified, Renamed, Copied
	IsBinary bool       // Binary files have no hunks
	Hunks    []DiffHunk
}

// Path returns the representative path used to place the change in the
// file tree: the new path if present, otherwise the old path.
func (c FileChange) Path() string {
	if c.NewPath != "" {
		return c.NewPath
	}
	return c.OldPath
}

// Stats returns the number of added and removed lines across all hunks.
func (c FileChange) Stats() (additions, deletions int) {
	for _, h := range c.Hunks {
		for _, l := range h.Lines {
			switch l.Kind {
			case LineAdded:
				additions++
			case LineRemoved:
				deletions++
			}
		}
	}
	return additions, deletions
}

// FileStatus represents the kind of change made to a file.
type FileStatus int

// File statuses.
const (
	StatusModified FileStatus = iota
	StatusAdded
	StatusDeleted
	StatusRenamed
	StatusCopied
)

// String returns the lower-case name of the status.
func (s FileStatus) String() string {
	switch s {
	case StatusModified:
		return "modified"
	case StatusAdded:
		return "added"
	case StatusDeleted:
		return "deleted"
	case StatusRenamed:
		return "renamed"
	case StatusCopied:
		return "copied"
	default:
		return "unknown"
	}
}

// Indicator returns the single-letter marker shown next to a file.
func (s FileStatus) Indicator() string {
	switch s {
	case StatusModified:
		return "M"
	case StatusAdded:
		return "A"
	case StatusDeleted:
		return "D"
	case StatusRenamed:
		return "R"
	case StatusCopied:
		return "C"
	default:
		return "?"
	}
}

// DiffHunk represents a contiguous block of changes within a file.
type DiffHunk struct {
	OldStart int    // From @@ -X,...
	OldCount int    // Context + Removed lines
	NewStart int    // From @@ ...,+X
	NewCount int    // Context + Added lines
	Section  string // Optional function name after @@ ... @@
	Lines    []DiffLine
}

// Header renders the hunk's "@@ -a,b +c,d @@" line.
func (h DiffHunk) Header() string {
	s := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
	if h.Section != "" {
		s += " " + h.Section
	}
	return s
}

// DiffLine represents a single line within a hunk.
//
// OldLineNo is set only for context and removed lines, NewLineNo only for
// context and added lines. An absent number is nil, never zero.
type DiffLine struct {
	Kind      LineKind
	Content   string
	OldLineNo *int
	NewLineNo *int
	NoNewline bool // "\ No newline at end of file" marker
}

// Old returns the line number in the old revision, if the line has one.
func (l DiffLine) Old() (int, bool) {
	if l.OldLineNo == nil {
		return 0, false
	}
	return *l.OldLineNo, true
}

// New returns the line number in the new revision, if the line has one.
func (l DiffLine) New() (int, bool) {
	if l.NewLineNo == nil {
		return 0, false
	}
	return *l.NewLineNo, true
}

// LineKind represents the type of a diff line.
type LineKind int

// Line kinds.
const (
	LineContext LineKind = iota
	LineAdded
	LineRemoved
)

// Marker returns the unified diff prefix for the kind.
func (k LineKind) Marker() byte {
	switch k {
	case LineAdded:
		return '+'
	case LineRemoved:
		return '-'
	default:
		return ' '
	}
}

// String returns the name of the kind.
func (k LineKind) String() string {
	switch k {
	case LineContext:
		return "context"
	case LineAdded:
		return "added"
	case LineRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Token is a styled fragment of source text.
type Token struct {
	Text  string
	Style Style
}

// Style describes how a token is drawn. Empty fields inherit the default.
type Style struct {
	Foreground string // Hex color such as "#c678dd"
	Bold       bool
	Italic     bool
}

// Tokenizer splits source code into styled tokens.
type Tokenizer interface {
	// TokenizeLines tokenizes source as a whole and returns the tokens of
	// each line. Returns nil if the language is not supported.
	TokenizeLines(language, source string) [][]Token
}

// LanguageDetector maps file paths to tokenizer language names.
type LanguageDetector interface {
	// DetectFromPath returns the language for path, or "" if unknown.
	DetectFromPath(path string) string
}

// Segment represents a portion of text within a line for word-level diffing.
type Segment struct {
	Text    string
	Changed bool // True if this segment differs between old/new versions
}

// WordDiffer computes word-level differences between two strings.
type WordDiffer interface {
	// Diff returns segments for both the old and new strings,
	// marking which portions changed between them.
	Diff(old, new string) (oldSegs, newSegs []Segment)
}
