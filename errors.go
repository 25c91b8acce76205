package lado

import (
	"errors"
	"fmt"
)

// ErrNoChanges is returned when a comparison contains no changed files.
var ErrNoChanges = errors.New("no changes to display")

// DuplicatePathError reports two changes that resolve to the same tree path.
type DuplicatePathError struct {
	Path   string
	First  int // Index of the change that claimed Path first
	Second int // Index of the conflicting change
}

func (e *DuplicatePathError) Error() string {
	return fmt.Sprintf("duplicate path %q (changes %d and %d)", e.Path, e.First, e.Second)
}

// EmptyPathError reports a change with no usable path.
type EmptyPathError struct {
	Index int
	Path  string // Set when the path has an empty segment
}

func (e *EmptyPathError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("change %d: path %q has an empty segment", e.Index, e.Path)
	}
	return fmt.Sprintf("change %d has an empty path", e.Index)
}

// InvalidChangeError reports a change whose status contradicts its paths.
type InvalidChangeError struct {
	Index  int
	Reason string
}

func (e *InvalidChangeError) Error() string {
	return fmt.Sprintf("change %d: %s", e.Index, e.Reason)
}

// MalformedHunkError reports a hunk whose declared counts disagree with the
// lines it carries.
type MalformedHunkError struct {
	Path     string
	Hunk     int    // Index of the hunk within the file
	Side     string // "old" or "new"; empty when Reason is set
	Declared int
	Actual   int
	Reason   string
}

func (e *MalformedHunkError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: hunk %d: %s", e.Path, e.Hunk, e.Reason)
	}
	return fmt.Sprintf("%s: hunk %d: %s count declared %d, found %d lines",
		e.Path, e.Hunk, e.Side, e.Declared, e.Actual)
}
