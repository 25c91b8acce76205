package bubbletea_test

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/fwojciec/lado"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

// trueColorRenderer creates a lipgloss renderer that outputs true colors.
// This is useful for testing color output without affecting global state.
func trueColorRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	return r
}

// newComparison validates raw files the same way sources do.
func newComparison(t *testing.T, files ...lado.RawFile) *lado.Comparison {
	t.Helper()
	c, err := lado.NewComparison(&lado.Snapshot{Title: "HEAD vs main", Files: files})
	require.NoError(t, err)
	return c
}

// modifiedFile returns a modified file with one hunk starting at line 1.
func modifiedFile(path string, lines ...lado.RawLine) lado.RawFile {
	var oldCount, newCount int
	for _, l := range lines {
		if l.Op != '+' {
			oldCount++
		}
		if l.Op != '-' {
			newCount++
		}
	}
	return lado.RawFile{
		OldPath: path,
		NewPath: path,
		Status:  lado.StatusModified,
		Hunks: []lado.RawHunk{{
			OldStart: 1, OldCount: oldCount,
			NewStart: 1, NewCount: newCount,
			Lines: lines,
		}},
	}
}

func keep(text string) lado.RawLine { return lado.RawLine{Op: ' ', Text: text} }
func add(text string) lado.RawLine  { return lado.RawLine{Op: '+', Text: text} }
func del(text string) lado.RawLine  { return lado.RawLine{Op: '-', Text: text} }

// contextLines returns n context lines with the same text.
func contextLines(n int, text string) []lado.RawLine {
	lines := make([]lado.RawLine, n)
	for i := range lines {
		lines[i] = keep(text)
	}
	return lines
}

func sendKeys(tm *teatest.TestModel, keys string) {
	for _, r := range keys {
		tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func quit(t *testing.T, tm *teatest.TestModel) {
	t.Helper()
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(0))
}
