// Package gogit loads comparisons from a local git repository using go-git.
package gogit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/fwojciec/lado"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// Repository errors.
var (
	// ErrNotRepository indicates no repository was found at or above the path.
	ErrNotRepository = errors.New("not a git repository")

	// ErrNoDefaultBranch indicates neither main nor master exists.
	ErrNoDefaultBranch = errors.New("could not find default branch (main or master)")

	// ErrUnsupportedTarget indicates a target this source cannot load.
	ErrUnsupportedTarget = errors.New("target not supported by local repository")
)

// DefaultContextLines is the number of unchanged lines around each hunk.
const DefaultContextLines = 3

// maxCommits bounds the commit list of a snapshot.
const maxCommits = 100

// defaultBranches are tried in order when no target is given.
var defaultBranches = []string{"main", "master"}

// Compile-time interface verification.
var _ lado.Source = (*Repository)(nil)

// Repository compares HEAD against branches and commits of a local repository.
type Repository struct {
	repo   *git.Repository
	parser lado.Parser

	// ContextLines is the number of unchanged lines shown around changes.
	ContextLines int

	// Logger receives debug records. Nil disables logging.
	Logger *slog.Logger
}

// Open finds the repository containing path.
func Open(path string, parser lado.Parser) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	return New(repo, parser), nil
}

// New wraps an already opened repository.
func New(repo *git.Repository, parser lado.Parser) *Repository {
	return &Repository{
		repo:         repo,
		parser:       parser,
		ContextLines: DefaultContextLines,
	}
}

func (r *Repository) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

// DefaultBranch returns the first of main or master that exists locally,
// falling back to the same names under the origin remote.
func (r *Repository) DefaultBranch() (string, error) {
	for _, name := range defaultBranches {
		if _, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), true); err == nil {
			return name, nil
		}
	}
	for _, name := range defaultBranches {
		if _, err := r.repo.Reference(plumbing.NewRemoteReferenceName("origin", name), true); err == nil {
			return name, nil
		}
	}
	return "", ErrNoDefaultBranch
}

// ResolveRef resolves a local branch, a branch of the origin remote, or any
// revision expression to a commit hash, in that order.
func (r *Repository) ResolveRef(name string) (plumbing.Hash, error) {
	if ref, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), true); err == nil {
		return ref.Hash(), nil
	}
	if ref, err := r.repo.Reference(plumbing.NewRemoteReferenceName("origin", name), true); err == nil {
		return ref.Hash(), nil
	}
	hash, err := r.repo.ResolveRevision(plumbing.Revision(name))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("could not resolve ref %q: %w", name, err)
	}
	return *hash, nil
}

// Load compares HEAD with the target's commit. Pull request targets return
// ErrUnsupportedTarget.
func (r *Repository) Load(ctx context.Context, target lado.Target) (*lado.Snapshot, error) {
	var ref string
	switch target.Kind {
	case lado.TargetDefaultBranch:
		name, err := r.DefaultBranch()
		if err != nil {
			return nil, err
		}
		ref = name
	case lado.TargetRef:
		ref = target.Ref
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTarget, target)
	}

	baseHash, err := r.ResolveRef(ref)
	if err != nil {
		return nil, err
	}
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("reading HEAD: %w", err)
	}

	base, err := r.repo.CommitObject(baseHash)
	if err != nil {
		return nil, fmt.Errorf("finding base commit: %w", err)
	}
	headCommit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("finding head commit: %w", err)
	}

	r.logger().Debug("computing diff", "base", baseHash.String(), "head", head.Hash().String())

	files, err := r.diff(ctx, base, headCommit)
	if err != nil {
		return nil, err
	}
	commits, err := r.commitsSince(head.Hash(), baseHash)
	if err != nil {
		return nil, err
	}

	return &lado.Snapshot{
		Title:   "HEAD vs " + ref,
		Files:   files,
		Commits: commits,
	}, nil
}

// diff encodes the tree-to-tree patch as unified text and parses it back
// into raw records.
func (r *Repository) diff(ctx context.Context, base, head *object.Commit) ([]lado.RawFile, error) {
	patch, err := base.PatchContext(ctx, head)
	if err != nil {
		return nil, fmt.Errorf("computing diff: %w", err)
	}

	var buf bytes.Buffer
	if err := diff.NewUnifiedEncoder(&buf, r.ContextLines).Encode(patch); err != nil {
		return nil, fmt.Errorf("encoding diff: %w", err)
	}

	files, err := r.parser.Parse(&buf)
	if err != nil {
		return nil, err
	}
	r.logger().Debug("parsed diff", "files", len(files))
	return files, nil
}

// commitsSince lists commits reachable from head but not from base, oldest
// first. Only the newest maxCommits are kept.
func (r *Repository) commitsSince(head, base plumbing.Hash) ([]lado.Commit, error) {
	shared, err := r.ancestors(base)
	if err != nil {
		return nil, err
	}

	iter, err := r.repo.Log(&git.LogOptions{From: head})
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	defer iter.Close()

	var commits []lado.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if len(commits) == maxCommits {
			return storer.ErrStop
		}
		if _, ok := shared[c.Hash]; ok {
			return nil
		}
		commits = append(commits, convertCommit(c))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	slices.Reverse(commits)
	return commits, nil
}

// ancestors returns the set of commits reachable from hash, itself included.
func (r *Repository) ancestors(hash plumbing.Hash) (map[plumbing.Hash]struct{}, error) {
	iter, err := r.repo.Log(&git.LogOptions{From: hash})
	if err != nil {
		return nil, fmt.Errorf("reading base log: %w", err)
	}
	defer iter.Close()

	seen := make(map[plumbing.Hash]struct{})
	err = iter.ForEach(func(c *object.Commit) error {
		seen[c.Hash] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading base log: %w", err)
	}
	return seen, nil
}

func convertCommit(c *object.Commit) lado.Commit {
	sha := c.Hash.String()
	commit := lado.Commit{
		SHA:      sha,
		ShortSHA: sha[:7],
		Message:  c.Message,
		Author:   c.Author.Name,
	}
	if len(c.ParentHashes) > 0 {
		commit.ParentSHA = c.ParentHashes[0].String()
	}
	return commit
}
