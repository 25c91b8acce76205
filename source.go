package lado

import "context"

// Snapshot is everything a Source knows about one comparison.
type Snapshot struct {
	Title    string
	Files    []RawFile
	Comments []ReviewComment // Only pull requests carry review comments
	Commits  []Commit        // Oldest first
}

// Source resolves a target to concrete revisions and returns their
// difference as raw hunks.
type Source interface {
	Load(ctx context.Context, target Target) (*Snapshot, error)
}
