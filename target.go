package lado

import (
	"fmt"
	"strconv"
	"strings"
)

// TargetKind identifies what a Target compares HEAD against.
type TargetKind int

// Target kinds.
const (
	TargetDefaultBranch TargetKind = iota
	TargetRef
	TargetPullRequest
)

// Target names the revision to compare against.
type Target struct {
	Kind TargetKind
	Ref  string // Set for TargetRef
	PR   int    // Set for TargetPullRequest
}

// ParseTarget interprets a command-line target. An empty string selects the
// default branch, "42" or "#42" selects pull request 42, and anything else is
// treated as a branch name or commit.
func ParseTarget(s string) Target {
	s = strings.TrimSpace(s)
	if s == "" {
		return Target{Kind: TargetDefaultBranch}
	}
	digits := strings.TrimPrefix(s, "#")
	if digits != "" && isDigits(digits) {
		if n, err := strconv.Atoi(digits); err == nil {
			return Target{Kind: TargetPullRequest, PR: n}
		}
	}
	return Target{Kind: TargetRef, Ref: s}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String renders the target for titles and log records.
func (t Target) String() string {
	switch t.Kind {
	case TargetRef:
		return t.Ref
	case TargetPullRequest:
		return fmt.Sprintf("#%d", t.PR)
	default:
		return "default branch"
	}
}
