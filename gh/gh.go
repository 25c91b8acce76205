// Package gh loads pull request comparisons through the GitHub CLI.
package gh

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/fwojciec/lado"
	"golang.org/x/sync/errgroup"
)

// ErrNotPullRequest indicates a target that is not a pull request.
var ErrNotPullRequest = errors.New("target is not a pull request")

// Runner runs a gh command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, args ...string) ([]byte, error)
}

// Compile-time interface verification.
var (
	_ Runner      = (*ExecRunner)(nil)
	_ lado.Source = (*Source)(nil)
)

// ExecRunner runs the gh binary found on PATH.
type ExecRunner struct {
	// Dir is the working directory. Empty uses the current directory.
	Dir string
}

// Run executes gh with args. Failures carry gh's trimmed stderr.
func (r *ExecRunner) Run(ctx context.Context, args ...string) ([]byte, error) {
	//nolint:gosec // G204: args are built by this package
	cmd := exec.CommandContext(ctx, "gh", args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("gh %s: %s: %w", strings.Join(args, " "), msg, err)
		}
		return nil, fmt.Errorf("gh %s: %w", strings.Join(args, " "), err)
	}
	return stdout.Bytes(), nil
}

// Source loads pull requests of the repository gh is pointed at.
type Source struct {
	runner Runner
	parser lado.Parser

	// Logger receives debug records. Nil disables logging.
	Logger *slog.Logger
}

// NewSource returns a Source that runs commands with runner and parses the
// pull request diff with parser.
func NewSource(runner Runner, parser lado.Parser) *Source {
	return &Source{runner: runner, parser: parser}
}

func (s *Source) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// Info is the subset of pull request metadata shown in the header.
type Info struct {
	BaseRef string `json:"baseRefName"`
	HeadRef string `json:"headRefName"`
	Title   string `json:"title"`
}

// Load fetches the pull request's metadata, diff, review comments and
// commits concurrently.
func (s *Source) Load(ctx context.Context, target lado.Target) (*lado.Snapshot, error) {
	if target.Kind != lado.TargetPullRequest {
		return nil, fmt.Errorf("%w: %s", ErrNotPullRequest, target)
	}
	n := target.PR

	var (
		info     Info
		files    []lado.RawFile
		comments []lado.ReviewComment
		commits  []lado.Commit
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		info, err = s.Info(ctx, n)
		return err
	})
	g.Go(func() error {
		var err error
		files, err = s.Diff(ctx, n)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = s.Comments(ctx, n)
		return err
	})
	g.Go(func() error {
		var err error
		commits, err = s.Commits(ctx, n)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger().Debug("loaded pull request",
		"number", n,
		"base", info.BaseRef,
		"head", info.HeadRef,
		"files", len(files),
		"comments", len(comments),
		"commits", len(commits),
	)

	return &lado.Snapshot{
		Title:    fmt.Sprintf("PR #%d: %s", n, info.Title),
		Files:    files,
		Comments: comments,
		Commits:  commits,
	}, nil
}

// Info returns the pull request's branches and title.
func (s *Source) Info(ctx context.Context, n int) (Info, error) {
	out, err := s.runner.Run(ctx, "pr", "view", strconv.Itoa(n), "--json", "baseRefName,headRefName,title")
	if err != nil {
		return Info{}, err
	}
	var info Info
	if err := json.Unmarshal(out, &info); err != nil {
		return Info{}, fmt.Errorf("decoding pull request %d: %w", n, err)
	}
	if info.BaseRef == "" || info.HeadRef == "" {
		return Info{}, fmt.Errorf("pull request %d: missing branch names", n)
	}
	return info, nil
}

// Diff returns the pull request's unified diff as raw records.
func (s *Source) Diff(ctx context.Context, n int) ([]lado.RawFile, error) {
	out, err := s.runner.Run(ctx, "pr", "diff", strconv.Itoa(n))
	if err != nil {
		return nil, err
	}
	files, err := s.parser.Parse(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("parsing pull request %d diff: %w", n, err)
	}
	return files, nil
}

type apiComment struct {
	ID          int64   `json:"id"`
	InReplyToID *int64  `json:"in_reply_to_id"`
	Path        string  `json:"path"`
	Line        *int    `json:"line"`
	Side        string  `json:"side"`
	Body        string  `json:"body"`
	CreatedAt   string  `json:"created_at"`
	User        apiUser `json:"user"`
}

type apiUser struct {
	Login string `json:"login"`
}

// Comments returns the pull request's review comments.
func (s *Source) Comments(ctx context.Context, n int) ([]lado.ReviewComment, error) {
	out, err := s.runner.Run(ctx, "api", fmt.Sprintf("repos/{owner}/{repo}/pulls/%d/comments", n), "--paginate")
	if err != nil {
		return nil, err
	}
	raw, err := decodePages[apiComment](bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decoding comments of pull request %d: %w", n, err)
	}

	comments := make([]lado.ReviewComment, len(raw))
	for i, c := range raw {
		side := lado.SideRight
		if c.Side == "LEFT" {
			side = lado.SideLeft
		}
		comments[i] = lado.ReviewComment{
			ID:        c.ID,
			InReplyTo: c.InReplyToID,
			Path:      c.Path,
			Line:      c.Line,
			Side:      side,
			Body:      c.Body,
			Author:    c.User.Login,
			CreatedAt: c.CreatedAt,
		}
	}
	return comments, nil
}

type apiCommit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name string `json:"name"`
		} `json:"author"`
	} `json:"commit"`
	Parents []struct {
		SHA string `json:"sha"`
	} `json:"parents"`
}

// Commits returns the pull request's commits, oldest first.
func (s *Source) Commits(ctx context.Context, n int) ([]lado.Commit, error) {
	out, err := s.runner.Run(ctx, "api", fmt.Sprintf("repos/{owner}/{repo}/pulls/%d/commits", n), "--paginate")
	if err != nil {
		return nil, err
	}
	raw, err := decodePages[apiCommit](bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decoding commits of pull request %d: %w", n, err)
	}

	commits := make([]lado.Commit, len(raw))
	for i, c := range raw {
		commits[i] = lado.Commit{
			SHA:      c.SHA,
			ShortSHA: shortSHA(c.SHA),
			Message:  c.Commit.Message,
			Author:   c.Commit.Author.Name,
		}
		if len(c.Parents) > 0 {
			commits[i].ParentSHA = c.Parents[0].SHA
		}
	}
	return commits, nil
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

// decodePages reads the output of a paginated gh api call, which is one JSON
// array per page written back to back.
func decodePages[T any](r io.Reader) ([]T, error) {
	dec := json.NewDecoder(r)
	var all []T
	for {
		var page []T
		err := dec.Decode(&page)
		if errors.Is(err, io.EOF) {
			return all, nil
		}
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
	}
}
