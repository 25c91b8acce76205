package bubbletea

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/fwojciec/lado"
)

// hunkData holds the per-line decorations of one hunk, indexed by the
// line's position in the hunk.
type hunkData struct {
	text     []string // Content with tabs expanded
	tokens   [][]lado.Token
	segments map[int][]lado.Segment
	numWidth int
}

// renderContent renders every file into the viewport and records where
// files and hunks start.
func (m *Model) renderContent() {
	width := m.viewport.Width
	var lines []string
	m.filePositions = nil
	m.hunkPositions = nil

	if len(m.files) == 0 {
		m.viewport.SetContent("No changes")
		return
	}

	for _, ci := range m.files {
		change := m.comparison.Changes[ci]
		m.filePositions = append(m.filePositions, len(lines))
		lines = append(lines, m.renderFileHeader(change, width))

		switch {
		case change.IsBinary:
			lines = append(lines, m.style(m.theme.Styles().Filler).Width(width).Render("Binary file not shown"))
		case len(change.Hunks) == 0:
			lines = append(lines, m.style(m.theme.Styles().Filler).Width(width).Render("No content changes"))
		}

		var lang string
		if m.detector != nil {
			lang = m.detector.DetectFromPath(change.Path())
		}
		for hi, h := range change.Hunks {
			m.hunkPositions = append(m.hunkPositions, len(lines))
			header := ansi.Truncate(h.Header(), width, "…")
			lines = append(lines, m.style(m.theme.Styles().HunkHeader).Width(width).Render(header))

			d := m.prepareHunk(h, lang)
			if m.mode == ModeSideBySide {
				lines = m.appendSideBySide(lines, change, m.sideBySideRows(ci, hi), h, d, width)
			} else {
				lines = m.appendUnified(lines, change, m.comparison.Unified(ci, hi), d, width)
			}
		}
		lines = append(lines, "")
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

// sideBySideRows returns the aligned rows of hunk h of file f, preferring
// rows aligned before the program started.
func (m *Model) sideBySideRows(f, h int) []lado.AlignedRow {
	if f < len(m.aligned) && h < len(m.aligned[f]) {
		return m.aligned[f][h]
	}
	return m.comparison.SideBySide(f, h)
}

// renderFileHeader draws "── path ─── +A -D ──".
func (m *Model) renderFileHeader(change lado.FileChange, width int) string {
	name := change.Path()
	if change.Status == lado.StatusRenamed || change.Status == lado.StatusCopied {
		name = change.OldPath + " → " + change.NewPath
	}
	added, deleted := change.Stats()
	stats := fmt.Sprintf(" +%d -%d ──", added, deleted)

	head := fileHeaderLead + change.Status.Indicator() + " " + name + " "
	fill := max(fileHeaderMinTrail, width-lipgloss.Width(head)-lipgloss.Width(stats))
	line := ansi.Truncate(head+strings.Repeat("─", fill)+stats, width, "")
	return m.style(m.theme.Styles().FileHeader).Bold(true).Render(line)
}

// prepareHunk expands tabs, tokenizes each side of h as a whole and word
// diffs the modification pairs.
func (m *Model) prepareHunk(h lado.DiffHunk, lang string) hunkData {
	d := hunkData{
		text:     make([]string, len(h.Lines)),
		tokens:   make([][]lado.Token, len(h.Lines)),
		segments: make(map[int][]lado.Segment),
		numWidth: max(minGutterNumbers,
			len(strconv.Itoa(h.OldStart+h.OldCount)),
			len(strconv.Itoa(h.NewStart+h.NewCount))),
	}

	var oldIdx, newIdx []int
	var oldSrc, newSrc []string
	for i, l := range h.Lines {
		d.text[i] = ExpandTabs(l.Content, m.tabWidth)
		if l.Kind != lado.LineAdded {
			oldIdx = append(oldIdx, i)
			oldSrc = append(oldSrc, d.text[i])
		}
		if l.Kind != lado.LineRemoved {
			newIdx = append(newIdx, i)
			newSrc = append(newSrc, d.text[i])
		}
	}

	if m.tokenizer != nil && lang != "" {
		// Removed lines take old-side tokens; context and added lines take
		// new-side tokens.
		assign := func(idx []int, src []string, skip lado.LineKind) {
			toks := m.tokenizer.TokenizeLines(lang, strings.Join(src, "\n"))
			if len(toks) != len(idx) {
				return
			}
			for j, i := range idx {
				if h.Lines[i].Kind != skip {
					d.tokens[i] = toks[j]
				}
			}
		}
		assign(oldIdx, oldSrc, lado.LineContext)
		assign(newIdx, newSrc, lado.LineRemoved)
	}

	if m.wordDiffer != nil {
		for _, p := range modificationPairs(h.Lines) {
			oldSegs, newSegs := m.wordDiffer.Diff(d.text[p[0]], d.text[p[1]])
			if oldSegs != nil {
				d.segments[p[0]] = oldSegs
			}
			if newSegs != nil {
				d.segments[p[1]] = newSegs
			}
		}
	}
	return d
}

// modificationPairs returns the (removed, added) line indices that share
// a side-by-side row: within each run of changes the i-th removed line
// pairs with the i-th added line.
func modificationPairs(lines []lado.DiffLine) [][2]int {
	var pairs [][2]int
	var removed, added []int
	flush := func() {
		for i := 0; i < min(len(removed), len(added)); i++ {
			pairs = append(pairs, [2]int{removed[i], added[i]})
		}
		removed, added = removed[:0], added[:0]
	}
	for i, l := range lines {
		switch l.Kind {
		case lado.LineContext:
			flush()
		case lado.LineRemoved:
			removed = append(removed, i)
		case lado.LineAdded:
			added = append(added, i)
		}
	}
	flush()
	return pairs
}

func (m *Model) appendUnified(lines []string, change lado.FileChange, rows []lado.UnifiedRow, d hunkData, width int) []string {
	styles := m.theme.Styles()
	for i, row := range rows {
		linePair, gutterPair := styles.Context, styles.ContextGutter
		switch row.Line.Kind {
		case lado.LineAdded:
			linePair, gutterPair = styles.Added, styles.AddedGutter
		case lado.LineRemoved:
			linePair, gutterPair = styles.Deleted, styles.DeletedGutter
		}

		oldNo, newNo := "", ""
		if n, ok := row.Line.Old(); ok {
			oldNo = strconv.Itoa(n)
		}
		if n, ok := row.Line.New(); ok {
			newNo = strconv.Itoa(n)
		}
		gutterText := fmt.Sprintf("%*s %*s ", d.numWidth, oldNo, d.numWidth, newNo)
		gutter := m.style(gutterPair).Render(gutterText)
		codeWidth := max(1, width-lipgloss.Width(gutterText))

		code := m.style(linePair).Render(string(row.Marker)) + m.renderCode(i, d, linePair, highlightFor(row.Line.Kind, styles))
		if m.lineWrap {
			blank := m.style(gutterPair).Render(strings.Repeat(" ", lipgloss.Width(gutterText)))
			for j, part := range strings.Split(ansi.Hardwrap(code, codeWidth, true), "\n") {
				prefix := gutter
				if j > 0 {
					prefix = blank
				}
				lines = append(lines, prefix+m.pad(part, codeWidth, linePair))
			}
		} else {
			lines = append(lines, gutter+m.pad(ansi.Truncate(code, codeWidth, ""), codeWidth, linePair))
		}

		lines = m.appendComments(lines, change, row.Line, width)
	}
	return lines
}

func (m *Model) appendSideBySide(lines []string, change lado.FileChange, rows []lado.AlignedRow, h lado.DiffHunk, d hunkData, width int) []string {
	styles := m.theme.Styles()
	leftWidth := max(1, (width-lipgloss.Width(sideBySideDivider))/2)
	rightWidth := max(1, width-lipgloss.Width(sideBySideDivider)-leftWidth)

	// Each column replays its side of the hunk in order, so the next
	// unconsumed index on each side identifies the row's lines.
	var oldIdx, newIdx []int
	for i, l := range h.Lines {
		if l.Kind != lado.LineAdded {
			oldIdx = append(oldIdx, i)
		}
		if l.Kind != lado.LineRemoved {
			newIdx = append(newIdx, i)
		}
	}

	for _, row := range rows {
		left := m.renderFiller(leftWidth)
		if row.Left != nil && len(oldIdx) > 0 {
			idx := oldIdx[0]
			oldIdx = oldIdx[1:]
			n, _ := row.Left.Old()
			left = m.renderCell(idx, *row.Left, n, d, leftWidth)
		}
		right := m.renderFiller(rightWidth)
		if row.Right != nil && len(newIdx) > 0 {
			idx := newIdx[0]
			newIdx = newIdx[1:]
			n, _ := row.Right.New()
			right = m.renderCell(idx, *row.Right, n, d, rightWidth)
		}
		lines = append(lines, left+m.style(styles.Filler).Render(sideBySideDivider)+right)

		// Context rows share one line; show its comments once.
		if row.Left != nil {
			lines = m.appendComments(lines, change, *row.Left, width)
		}
		if row.Right != nil && !row.IsContext() {
			lines = m.appendComments(lines, change, *row.Right, width)
		}
	}
	return lines
}

// renderCell draws one side of a side-by-side row.
func (m *Model) renderCell(idx int, line lado.DiffLine, lineNo int, d hunkData, width int) string {
	styles := m.theme.Styles()
	linePair, gutterPair := styles.Context, styles.ContextGutter
	switch line.Kind {
	case lado.LineAdded:
		linePair, gutterPair = styles.Added, styles.AddedGutter
	case lado.LineRemoved:
		linePair, gutterPair = styles.Deleted, styles.DeletedGutter
	}

	gutterText := fmt.Sprintf("%*d ", d.numWidth, lineNo)
	codeWidth := max(1, width-lipgloss.Width(gutterText))
	code := m.style(linePair).Render(string(line.Kind.Marker())) + m.renderCode(idx, d, linePair, highlightFor(line.Kind, styles))
	return m.style(gutterPair).Render(gutterText) + m.pad(ansi.Truncate(code, codeWidth, ""), codeWidth, linePair)
}

func (m *Model) renderFiller(width int) string {
	return m.style(m.theme.Styles().Filler).Render(strings.Repeat(" ", width))
}

// renderCode styles the content of line idx: word-diff segments when
// present, else syntax tokens, else plain text.
func (m *Model) renderCode(idx int, d hunkData, linePair, highlight lado.ColorPair) string {
	base := m.style(linePair)

	if segs, ok := d.segments[idx]; ok {
		changed := m.style(highlight)
		var b strings.Builder
		for _, s := range segs {
			if s.Changed {
				b.WriteString(changed.Render(s.Text))
			} else {
				b.WriteString(base.Render(s.Text))
			}
		}
		return b.String()
	}

	if toks := d.tokens[idx]; len(toks) > 0 {
		var b strings.Builder
		for _, tok := range toks {
			st := base
			if tok.Style.Foreground != "" {
				st = st.Foreground(lipgloss.Color(tok.Style.Foreground))
			}
			b.WriteString(st.Bold(tok.Style.Bold).Italic(tok.Style.Italic).Render(tok.Text))
		}
		return b.String()
	}

	return base.Render(d.text[idx])
}

// pad extends s with background-colored spaces up to width.
func (m *Model) pad(s string, width int, pair lado.ColorPair) string {
	if w := lipgloss.Width(s); w < width {
		return s + m.style(pair).Render(strings.Repeat(" ", width-w))
	}
	return s
}

func highlightFor(kind lado.LineKind, styles lado.Styles) lado.ColorPair {
	if kind == lado.LineRemoved {
		return styles.DeletedHighlight
	}
	return styles.AddedHighlight
}

// appendComments adds the review threads attached to line below it.
func (m *Model) appendComments(lines []string, change lado.FileChange, line lado.DiffLine, width int) []string {
	if len(m.comparison.Comments) == 0 {
		return lines
	}

	var comments []lado.ReviewComment
	if n, ok := line.Old(); ok {
		comments = append(comments, lado.CommentsForLine(m.comparison.Comments, change.Path(), lado.SideLeft, n)...)
	}
	if n, ok := line.New(); ok {
		comments = append(comments, lado.CommentsForLine(m.comparison.Comments, change.Path(), lado.SideRight, n)...)
	}

	st := m.style(m.theme.Styles().Comment).Width(width)
	for _, c := range comments {
		author := c.Author
		if c.InReplyTo != nil {
			author = "↳ " + author
		}
		for i, body := range strings.Split(strings.TrimRight(c.Body, "\n"), "\n") {
			text := commentIndent + body
			if i == 0 {
				text = commentIndent + author + ": " + body
			}
			lines = append(lines, st.Render(ansi.Truncate(ExpandTabs(text, m.tabWidth), width, "…")))
		}
	}
	return lines
}
