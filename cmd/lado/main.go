// Command lado shows the difference between HEAD and a branch, commit or
// pull request in the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fwojciec/lado"
)

// Build information injected via ldflags at build time.
var version = "dev"

// ErrPullRequestsUnavailable is returned for pull request targets when no
// pull request source is configured.
var ErrPullRequestsUnavailable = errors.New("pull request targets are not available")

// App loads a comparison for a target and shows it.
type App struct {
	Source   lado.Source // Default branch and ref targets
	PRSource lado.Source // Pull request targets
	Viewer   lado.Viewer // Nil skips viewing
	Logger   *slog.Logger
}

// Run loads target, validates the result and shows it. It returns
// lado.ErrNoChanges without viewing when nothing differs.
func (a *App) Run(ctx context.Context, target lado.Target) (*lado.Comparison, error) {
	logger := a.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	src := a.Source
	if target.Kind == lado.TargetPullRequest {
		src = a.PRSource
		if src == nil {
			return nil, fmt.Errorf("%w: %s", ErrPullRequestsUnavailable, target)
		}
	}

	snap, err := src.Load(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", target, err)
	}
	if len(snap.Files) == 0 {
		return nil, lado.ErrNoChanges
	}

	c, err := lado.NewComparison(snap)
	if err != nil {
		return nil, fmt.Errorf("building comparison: %w", err)
	}
	logger.Debug("loaded comparison",
		"target", target.String(),
		"files", c.Tree.FileCount(),
		"commits", len(c.Commits),
		"commented_files", len(c.Comments),
	)

	if a.Viewer == nil {
		return c, nil
	}
	if err := a.Viewer.View(ctx, c); err != nil {
		return c, fmt.Errorf("viewing: %w", err)
	}
	return c, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCommand(version).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
