package bubbletea_test

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/fwojciec/lado"
	"github.com/fwojciec/lado/bubbletea"
	"github.com/fwojciec/lado/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	themes "github.com/fwojciec/lado/lipgloss"
)

// render sizes m and returns its view.
func render(t *testing.T, m bubbletea.Model, width, height int) string {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	model, ok := updated.(bubbletea.Model)
	require.True(t, ok)
	return model.View()
}

func TestModel_RendersFileHeaders(t *testing.T) {
	t.Parallel()

	c := newComparison(t, modifiedFile("test.go", keep("context line"), add("new")))
	m := bubbletea.NewModel(c)
	tm := teatest.NewTestModel(t, m,
		teatest.WithInitialTermSize(80, 24),
	)

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("── M test.go")) &&
			bytes.Contains(out, []byte("+1 -0 ──"))
	})

	quit(t, tm)
}

func TestModel_RendersRenamedFileHeader(t *testing.T) {
	t.Parallel()

	c := newComparison(t, lado.RawFile{OldPath: "old.go", NewPath: "new.go", Status: lado.StatusRenamed})
	view := render(t, bubbletea.NewModel(c), 100, 24)

	assert.Contains(t, view, "── R old.go → new.go")
	assert.Contains(t, view, "No content changes")
}

func TestModel_RendersBinaryFile(t *testing.T) {
	t.Parallel()

	c := newComparison(t, lado.RawFile{OldPath: "logo.png", NewPath: "logo.png", Status: lado.StatusModified, IsBinary: true})
	view := render(t, bubbletea.NewModel(c), 100, 24)

	assert.Contains(t, view, "Binary file not shown")
}

func TestModel_RendersHunkHeaders(t *testing.T) {
	t.Parallel()

	file := lado.RawFile{
		OldPath: "test.go",
		NewPath: "test.go",
		Status:  lado.StatusModified,
		Hunks: []lado.RawHunk{{
			OldStart: 10, OldCount: 1, NewStart: 10, NewCount: 2,
			Section: "func Example",
			Lines:   []lado.RawLine{keep("context line"), add("added")},
		}},
	}
	m := bubbletea.NewModel(newComparison(t, file))
	tm := teatest.NewTestModel(t, m,
		teatest.WithInitialTermSize(80, 24),
	)

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("@@ -10,1 +10,2 @@ func Example"))
	})

	quit(t, tm)
}

func TestModel_RendersLinePrefixes(t *testing.T) {
	t.Parallel()

	c := newComparison(t, modifiedFile("test.go", keep("unchanged"), del("removed"), add("added")))
	m := bubbletea.NewModel(c)
	tm := teatest.NewTestModel(t, m,
		teatest.WithInitialTermSize(80, 24),
	)

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		hasContext := bytes.Contains(out, []byte(" unchanged"))
		hasDeleted := bytes.Contains(out, []byte("-removed"))
		hasAdded := bytes.Contains(out, []byte("+added"))
		return hasContext && hasDeleted && hasAdded
	})

	quit(t, tm)
}

func TestModel_RendersLineNumbersInGutter(t *testing.T) {
	t.Parallel()

	file := lado.RawFile{
		OldPath: "test.go",
		NewPath: "test.go",
		Status:  lado.StatusModified,
		Hunks: []lado.RawHunk{{
			OldStart: 10, OldCount: 2, NewStart: 10, NewCount: 2,
			Lines: []lado.RawLine{keep("context"), del("deleted"), add("added")},
		}},
	}
	view := render(t, bubbletea.NewModel(newComparison(t, file)), 100, 24)

	assert.Contains(t, view, "  10   10  context")
	assert.Contains(t, view, "  11      -deleted", "removed lines have no new number")
	assert.Contains(t, view, "       11 +added", "added lines have no old number")
}

func TestModel_ExpandsTabs(t *testing.T) {
	t.Parallel()

	c := newComparison(t, modifiedFile("main.go", add("\treturn nil")))
	view := render(t, bubbletea.NewModel(c, bubbletea.WithTabWidth(2)), 100, 24)

	assert.Contains(t, view, "+  return nil")
	assert.NotContains(t, view, "\t")
}

func TestModel_TruncatesOrWrapsLongLines(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 60) + "TAIL"
	c := newComparison(t, modifiedFile("main.go", add(long)))

	t.Run("truncates by default", func(t *testing.T) {
		t.Parallel()
		view := render(t, bubbletea.NewModel(c), 50, 24)
		assert.NotContains(t, view, "TAIL")
	})

	t.Run("wraps when enabled", func(t *testing.T) {
		t.Parallel()
		view := render(t, bubbletea.NewModel(c, bubbletea.WithLineWrap(true)), 50, 24)
		assert.Contains(t, view, "TAIL")
	})
}

func TestModel_AppliesColors(t *testing.T) {
	t.Parallel()

	c := newComparison(t, modifiedFile("test.go", keep("context"), del("deleted"), add("added")))
	m := bubbletea.NewModel(c,
		bubbletea.WithTheme(themes.TestTheme()),
		bubbletea.WithRenderer(trueColorRenderer()),
	)
	view := render(t, m, 80, 24)

	// Line backgrounds are the diff colors blended 15% over black.
	assert.Contains(t, view, "48;2;0;38;0", "added line background")
	assert.Contains(t, view, "48;2;38;0;0", "deleted line background")
	// Gutters use a 35% blend.
	assert.Contains(t, view, "48;2;0;89;0", "added gutter background")
	assert.Contains(t, view, "48;2;89;0;0", "deleted gutter background")
}

func TestModel_StatusBarUsesThemeUIColors(t *testing.T) {
	t.Parallel()

	c := newComparison(t, modifiedFile("test.go", add("x")))
	m := bubbletea.NewModel(c,
		bubbletea.WithTheme(themes.TestTheme()),
		bubbletea.WithRenderer(trueColorRenderer()),
	)
	view := render(t, m, 80, 24)

	lines := strings.Split(view, "\n")
	status := lines[len(lines)-1]
	assert.Contains(t, status, "48;2;51;51;51", "status bar uses UIBackground #333333")
	assert.Contains(t, status, "38;2;238;238;238", "status bar uses UIForeground #eeeeee")
}

func TestModel_StatusBar(t *testing.T) {
	t.Parallel()

	c := newComparison(t,
		modifiedFile("first.go", keep("first file")),
		modifiedFile("second.go", keep("second file")),
		modifiedFile("third.go", keep("third file")),
	)
	m := bubbletea.NewModel(c)
	tm := teatest.NewTestModel(t, m,
		teatest.WithInitialTermSize(80, 24),
	)

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("file 1/3")) &&
			bytes.Contains(out, []byte("hunk 1/3")) &&
			bytes.Contains(out, []byte("j/k scroll")) &&
			bytes.Contains(out, []byte("n/N hunk")) &&
			bytes.Contains(out, []byte("J/K file")) &&
			bytes.Contains(out, []byte("q quit"))
	})

	quit(t, tm)
}

func TestModel_AppliesSyntaxHighlighting(t *testing.T) {
	t.Parallel()

	c := newComparison(t, modifiedFile("main.go", keep("package main"), add("func f() {}")))

	var sources []string
	tokenizer := &mock.Tokenizer{
		TokenizeLinesFn: func(language, source string) [][]lado.Token {
			sources = append(sources, source)
			var out [][]lado.Token
			for _, line := range strings.Split(source, "\n") {
				word, rest, _ := strings.Cut(line, " ")
				out = append(out, []lado.Token{
					{Text: word, Style: lado.Style{Foreground: "#ff00ff", Bold: true}},
					{Text: " " + rest},
				})
			}
			return out
		},
	}
	detector := &mock.LanguageDetector{
		DetectFromPathFn: func(path string) string {
			assert.Equal(t, "main.go", path)
			return "Go"
		},
	}

	m := bubbletea.NewModel(c,
		bubbletea.WithTheme(themes.TestTheme()),
		bubbletea.WithRenderer(trueColorRenderer()),
		bubbletea.WithTokenizer(tokenizer, detector),
	)
	view := render(t, m, 80, 24)

	assert.Equal(t, []string{"package main", "package main\nfunc f() {}"}, sources,
		"each side is tokenized as a whole")
	assert.Contains(t, view, "38;2;255;0;255")
	assert.Contains(t, view, "func")
}

func TestModel_SkipsHighlightingForUnknownLanguage(t *testing.T) {
	t.Parallel()

	c := newComparison(t, modifiedFile("notes.txt", add("plain")))
	tokenizer := &mock.Tokenizer{
		TokenizeLinesFn: func(_, _ string) [][]lado.Token {
			t.Error("tokenizer should not be called without a language")
			return nil
		},
	}
	detector := &mock.LanguageDetector{
		DetectFromPathFn: func(string) string { return "" },
	}

	view := render(t, bubbletea.NewModel(c, bubbletea.WithTokenizer(tokenizer, detector)), 80, 24)

	assert.Contains(t, view, "+plain")
}

func TestModel_RendersReviewComments(t *testing.T) {
	t.Parallel()

	line := 2
	c, err := lado.NewComparison(&lado.Snapshot{
		Title: "PR #7: Fix things",
		Files: []lado.RawFile{modifiedFile("main.go", keep("package main"), del("old"), add("new"))},
		Comments: []lado.ReviewComment{
			{ID: 1, Path: "main.go", Line: &line, Side: lado.SideRight, Author: "alice", Body: "looks good"},
			{ID: 2, InReplyTo: ptr(int64(1)), Path: "main.go", Line: &line, Side: lado.SideRight, Author: "bob", Body: "agreed"},
			{ID: 3, Path: "main.go", Line: &line, Side: lado.SideLeft, Author: "carol", Body: "why remove?"},
		},
	})
	require.NoError(t, err)

	for _, mode := range []bubbletea.Mode{bubbletea.ModeUnified, bubbletea.ModeSideBySide} {
		t.Run(mode.String(), func(t *testing.T) {
			t.Parallel()

			view := render(t, bubbletea.NewModel(c, bubbletea.WithMode(mode)), 120, 30)

			assert.Contains(t, view, "┃ alice: looks good")
			assert.Contains(t, view, "┃ ↳ bob: agreed")
			assert.Contains(t, view, "┃ carol: why remove?")
			assert.Equal(t, 1, strings.Count(view, "alice: looks good"))
		})
	}
}

func TestModel_RendersCommentOnContextLineOnce(t *testing.T) {
	t.Parallel()

	line := 1
	c, err := lado.NewComparison(&lado.Snapshot{
		Files: []lado.RawFile{modifiedFile("main.go", keep("package main"), add("x"))},
		Comments: []lado.ReviewComment{
			{ID: 1, Path: "main.go", Line: &line, Side: lado.SideRight, Author: "alice", Body: "nit"},
		},
	})
	require.NoError(t, err)

	view := render(t, bubbletea.NewModel(c, bubbletea.WithMode(bubbletea.ModeSideBySide)), 120, 30)

	assert.Equal(t, 1, strings.Count(view, "alice: nit"))
}

func TestModel_UsesComparisonTitle(t *testing.T) {
	t.Parallel()

	c := newComparison(t, modifiedFile("main.go", add("x")))
	view := render(t, bubbletea.NewModel(c), 80, 24)

	assert.True(t, strings.HasPrefix(view, "HEAD vs main"))
}

func ptr[T any](v T) *T {
	return &v
}
