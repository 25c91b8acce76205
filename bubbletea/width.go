package bubbletea

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DefaultTabWidth is the tab stop interval when none is configured.
const DefaultTabWidth = 4

// DisplayWidth calculates the display width of a string, correctly handling
// tab characters which expand to the next multiple of tabWidth.
// lipgloss.Width alone counts tabs as zero columns.
func DisplayWidth(s string, tabWidth int) int {
	return displayWidthFrom(s, 0, tabWidth)
}

// displayWidthFrom calculates the display width of s starting from column
// startCol, since tab expansion depends on the current column.
func displayWidthFrom(s string, startCol, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	col := startCol
	for _, r := range s {
		if r == '\t' {
			col = ((col / tabWidth) + 1) * tabWidth
		} else {
			col += lipgloss.Width(string(r))
		}
	}
	return col
}

// ExpandTabs replaces tabs in s with spaces up to the next tab stop.
func ExpandTabs(s string, tabWidth int) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			next := ((col / tabWidth) + 1) * tabWidth
			b.WriteString(strings.Repeat(" ", next-col))
			col = next
			continue
		}
		b.WriteRune(r)
		col += lipgloss.Width(string(r))
	}
	return b.String()
}
