package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/lado"
	"github.com/fwojciec/lado/bubbletea"
	"github.com/fwojciec/lado/chroma"
	"github.com/fwojciec/lado/config"
	"github.com/fwojciec/lado/fs"
	"github.com/fwojciec/lado/gh"
	"github.com/fwojciec/lado/gitdiff"
	"github.com/fwojciec/lado/gogit"
	"github.com/fwojciec/lado/worddiff"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	themes "github.com/fwojciec/lado/lipgloss"
)

// NewRootCommand builds the lado command line.
func NewRootCommand(version string) *cobra.Command {
	var (
		configPath  string
		completions string
	)

	cmd := &cobra.Command{
		Use:   "lado [target]",
		Short: "Side-by-side diff viewer for branches and pull requests",
		Long: `lado compares HEAD with a target and shows the difference in the terminal.

The target is empty for the default branch (main or master), a number such
as 42 or #42 for a GitHub pull request, or any branch name or commit.`,
		Args:         cobra.MaximumNArgs(1),
		Version:      version,
		SilenceUsage: true,
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", fs.DefaultConfigPath(), "config file")
	flags.StringP("mode", "m", config.ModeUnified, "view mode (unified or side-by-side)")
	flags.Bool("debug", false, "write debug logs to "+fs.DefaultLogPath())
	flags.StringVar(&completions, "completions", "", "print shell completions (bash, zsh, fish or powershell)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if completions != "" {
			return writeCompletions(cmd.Root(), completions, cmd.OutOrStdout())
		}

		v := config.New(configPath)
		if err := v.BindPFlag("view.mode", cmd.Flags().Lookup("mode")); err != nil {
			return err
		}
		if err := v.BindPFlag("debug", cmd.Flags().Lookup("debug")); err != nil {
			return err
		}

		var target string
		if len(args) > 0 {
			target = args[0]
		}
		err := run(cmd.Context(), v, lado.ParseTarget(target))
		if errors.Is(err, lado.ErrNoChanges) {
			fmt.Fprintln(cmd.ErrOrStderr(), "No changes found")
			return nil
		}
		return err
	}
	return cmd
}

// run wires the application from the settings in v and runs it.
func run(ctx context.Context, v *viper.Viper, target lado.Target) error {
	cfg, err := config.Read(v)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, closeLog, err := openLogger(v.GetBool("debug"))
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Debug("starting", "target", target.String(), "config", v.ConfigFileUsed())

	theme, err := themes.ThemeByName(cfg.UITheme)
	if err != nil {
		return err
	}
	style, err := chroma.StyleFromChroma(cfg.SyntaxTheme, theme.Palette())
	if err != nil {
		return err
	}
	tokenizer, err := chroma.NewTokenizer(style)
	if err != nil {
		return err
	}
	mode, err := bubbletea.ParseMode(cfg.View.Mode)
	if err != nil {
		return err
	}

	parser := gitdiff.NewParser()
	repo, err := gogit.Open(".", parser)
	if err != nil {
		return err
	}
	repo.ContextLines = cfg.ContextLines
	repo.Logger = logger

	prs := gh.NewSource(&gh.ExecRunner{}, parser)
	prs.Logger = logger

	viewer := bubbletea.NewViewer(
		bubbletea.WithModelOptions(
			bubbletea.WithTheme(theme),
			bubbletea.WithTokenizer(tokenizer, chroma.NewDetector()),
			bubbletea.WithWordDiffer(worddiff.NewDiffer()),
			bubbletea.WithKeyMap(bubbletea.NewKeyMap(cfg.Keys)),
			bubbletea.WithMode(mode),
			bubbletea.WithTabWidth(cfg.TabWidth),
			bubbletea.WithLineWrap(cfg.LineWrap),
			bubbletea.WithCompactTree(cfg.Tree.CompactDirs),
		),
	)

	app := &App{
		Source:   repo,
		PRSource: prs,
		Viewer:   viewer,
		Logger:   logger,
	}
	_, err = app.Run(ctx, target)
	return err
}

// openLogger returns a debug logger writing to the log file, or a discarding
// logger when debug is off. bubbletea owns the terminal, so logs never go to
// stderr.
func openLogger(debug bool) (*slog.Logger, func(), error) {
	if !debug {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	path := fs.DefaultLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := tea.LogToFile(path, "lado")
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { _ = f.Close() }, nil
}

func writeCompletions(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	default:
		return fmt.Errorf("unsupported shell %q (want bash, zsh, fish or powershell)", shell)
	}
}
