package lado

import (
	"cmp"
	"slices"
)

// Side identifies which revision a review comment is attached to.
type Side int

// Comment sides.
const (
	SideRight Side = iota // New code
	SideLeft              // Old code
)

// ReviewComment is a single pull request review comment.
type ReviewComment struct {
	ID        int64
	InReplyTo *int64 // nil for the first comment of a thread
	Path      string
	Line      *int // nil for outdated or file-level comments
	Side      Side
	Body      string
	Author    string
	CreatedAt string
}

// Commit is a single commit in a pull request.
type Commit struct {
	SHA       string
	ShortSHA  string
	ParentSHA string // empty for root commits
	Message   string
	Author    string
}

// Subject returns the first line of the commit message.
func (c Commit) Subject() string {
	for i := 0; i < len(c.Message); i++ {
		if c.Message[i] == '\n' {
			return c.Message[:i]
		}
	}
	return c.Message
}

// GroupCommentsByFile groups comments by path. Within a file comments are
// ordered by line, then by ID so replies follow the comment they answer.
// Comments without a line sort first.
func GroupCommentsByFile(comments []ReviewComment) map[string][]ReviewComment {
	grouped := make(map[string][]ReviewComment)
	for _, c := range comments {
		grouped[c.Path] = append(grouped[c.Path], c)
	}
	for _, cs := range grouped {
		slices.SortStableFunc(cs, func(a, b ReviewComment) int {
			if n := cmp.Compare(lineKey(a.Line), lineKey(b.Line)); n != 0 {
				return n
			}
			return cmp.Compare(a.ID, b.ID)
		})
	}
	return grouped
}

func lineKey(line *int) int {
	if line == nil {
		return -1
	}
	return *line
}

// CommentsForLine returns the comments in grouped that are attached to line
// on the given side of path.
func CommentsForLine(grouped map[string][]ReviewComment, path string, side Side, line int) []ReviewComment {
	var out []ReviewComment
	for _, c := range grouped[path] {
		if c.Side == side && c.Line != nil && *c.Line == line {
			out = append(out, c)
		}
	}
	return out
}
