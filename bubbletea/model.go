// Package bubbletea implements the interactive comparison viewer.
package bubbletea

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/fwojciec/lado"
	"github.com/fwojciec/lado/config"
	themes "github.com/fwojciec/lado/lipgloss"
)

// Mode selects the layout of the diff pane.
type Mode int

// Layouts.
const (
	ModeUnified Mode = iota
	ModeSideBySide
)

func (m Mode) String() string {
	if m == ModeSideBySide {
		return config.ModeSideBySide
	}
	return config.ModeUnified
}

// ParseMode parses a configured view mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case config.ModeUnified:
		return ModeUnified, nil
	case config.ModeSideBySide:
		return ModeSideBySide, nil
	default:
		return ModeUnified, fmt.Errorf("unknown view mode %q", s)
	}
}

// Layout bounds of the tree pane.
const (
	minTreeWidth       = 20
	maxTreeWidth       = 40
	minWidthForTree    = 60
	chromeHeight       = 2 // header and status bar
	minGutterNumbers   = 4
	commentIndent      = "  ┃ "
	treeSeparator      = "│"
	sideBySideDivider  = "│"
	fileHeaderLead     = "── "
	fileHeaderMinTrail = 3
)

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithTheme sets the color theme.
func WithTheme(t lado.Theme) ModelOption {
	return func(m *Model) { m.theme = t }
}

// WithRenderer sets the lipgloss renderer, mainly to force a color profile.
func WithRenderer(r *lipgloss.Renderer) ModelOption {
	return func(m *Model) { m.renderer = r }
}

// WithTokenizer enables syntax highlighting for languages d recognizes.
func WithTokenizer(t lado.Tokenizer, d lado.LanguageDetector) ModelOption {
	return func(m *Model) {
		m.tokenizer = t
		m.detector = d
	}
}

// WithWordDiffer enables word-level highlights on modified lines.
func WithWordDiffer(d lado.WordDiffer) ModelOption {
	return func(m *Model) { m.wordDiffer = d }
}

// WithKeyMap replaces the key bindings.
func WithKeyMap(k KeyMap) ModelOption {
	return func(m *Model) { m.keys = k }
}

// WithMode sets the initial layout.
func WithMode(mode Mode) ModelOption {
	return func(m *Model) { m.mode = mode }
}

// WithTabWidth sets the tab stop interval.
func WithTabWidth(n int) ModelOption {
	return func(m *Model) { m.tabWidth = n }
}

// WithLineWrap wraps long lines in the unified layout instead of cutting
// them at the pane edge.
func WithLineWrap(wrap bool) ModelOption {
	return func(m *Model) { m.lineWrap = wrap }
}

// WithCompactTree merges single-child directory chains in the tree pane.
func WithCompactTree(compact bool) ModelOption {
	return func(m *Model) { m.compactTree = compact }
}

// WithAlignedHunks supplies side-by-side rows computed ahead of time, as
// returned by Comparison.AlignFiles.
func WithAlignedHunks(rows []lado.AlignedHunks) ModelOption {
	return func(m *Model) { m.aligned = rows }
}

// Model is the bubbletea model of the viewer.
type Model struct {
	comparison *lado.Comparison
	files      []int            // Change indices in tree order
	entries    []lado.FlatEntry // Tree pane rows

	theme      lado.Theme
	renderer   *lipgloss.Renderer
	tokenizer  lado.Tokenizer
	detector   lado.LanguageDetector
	wordDiffer lado.WordDiffer
	keys       KeyMap

	mode        Mode
	tabWidth    int
	lineWrap    bool
	compactTree bool
	showTree    bool

	viewport viewport.Model
	ready    bool
	width    int
	height   int
	pendingG bool
	commit   int

	// Content line of each file header, parallel to files.
	filePositions []int
	// Content line of each hunk header across all files.
	hunkPositions []int

	// Added and deleted line totals of each directory entry.
	dirStats map[int][2]int
	// Precomputed side-by-side rows indexed like comparison.Changes.
	aligned []lado.AlignedHunks
}

// NewModel creates a viewer model for c. A nil comparison shows nothing.
func NewModel(c *lado.Comparison, opts ...ModelOption) Model {
	if c == nil {
		c = &lado.Comparison{}
	}
	m := Model{
		comparison: c,
		theme:      themes.DefaultTheme(),
		keys:       DefaultKeyMap(),
		tabWidth:   DefaultTabWidth,
		showTree:   true,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.renderer == nil {
		m.renderer = lipgloss.DefaultRenderer()
	}

	if c.Tree != nil {
		tree := c.Tree
		if m.compactTree {
			tree = lado.CompactTree(tree)
		}
		m.entries = tree.Flatten()
		for _, leaf := range tree.Leaves() {
			m.files = append(m.files, leaf.Change)
		}
		m.dirStats = directoryStats(tree, m.entries, c.Changes)
	} else {
		for i := range c.Changes {
			m.files = append(m.files, i)
		}
	}
	return m
}

// directoryStats sums the changes below each directory entry. Walk and
// Flatten visit nodes in the same order.
func directoryStats(tree *lado.FileTreeNode, entries []lado.FlatEntry, changes []lado.FileChange) map[int][2]int {
	var dirs []*lado.FileTreeNode
	tree.Walk(func(n *lado.FileTreeNode, _ int) bool {
		if n.IsDir() {
			dirs = append(dirs, n)
		}
		return true
	})

	stats := make(map[int][2]int, len(dirs))
	next := 0
	for i, e := range entries {
		if e.Kind != lado.NodeDirectory || next >= len(dirs) {
			continue
		}
		a, d := dirs[next].TotalStats(changes)
		stats[i] = [2]int{a, d}
		next++
	}
	return stats
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "g" && key.Matches(msg, m.keys.Top) {
		if m.pendingG {
			m.pendingG = false
			m.viewport.GotoTop()
			return m, nil
		}
		m.pendingG = true
		return m, nil
	}
	m.pendingG = false

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.ScrollDown(1)
	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.ScrollUp(1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.viewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.viewport.HalfPageUp()
	case key.Matches(msg, m.keys.FileNext):
		m.jumpForward(m.filePositions)
	case key.Matches(msg, m.keys.FilePrev):
		m.jumpBack(m.filePositions)
	case key.Matches(msg, m.keys.HunkNext):
		m.jumpForward(m.hunkPositions)
	case key.Matches(msg, m.keys.HunkPrev):
		m.jumpBack(m.hunkPositions)
	case key.Matches(msg, m.keys.Unified):
		m.setMode(ModeUnified)
	case key.Matches(msg, m.keys.SideBySide):
		m.setMode(ModeSideBySide)
	case key.Matches(msg, m.keys.NextCommit):
		if m.commit < len(m.comparison.Commits)-1 {
			m.commit++
		}
	case key.Matches(msg, m.keys.PrevCommit):
		if m.commit > 0 {
			m.commit--
		}
	case key.Matches(msg, m.keys.ToggleTree):
		m.showTree = !m.showTree
		m.layout()
	}
	return m, nil
}

// jumpForward scrolls to the first position below the current offset.
func (m *Model) jumpForward(positions []int) {
	for _, p := range positions {
		if p > m.viewport.YOffset {
			m.viewport.SetYOffset(p)
			return
		}
	}
}

// jumpBack scrolls to the last position above the current offset.
func (m *Model) jumpBack(positions []int) {
	for i := len(positions) - 1; i >= 0; i-- {
		if positions[i] < m.viewport.YOffset {
			m.viewport.SetYOffset(positions[i])
			return
		}
	}
}

func (m *Model) setMode(mode Mode) {
	if m.mode == mode {
		return
	}
	file := m.currentFile()
	m.mode = mode
	if !m.ready {
		return
	}
	m.renderContent()
	if file < len(m.filePositions) {
		m.viewport.SetYOffset(m.filePositions[file])
	}
}

// layout sizes the panes for the current window and re-renders the diff.
func (m *Model) layout() {
	bodyHeight := max(1, m.height-chromeHeight)
	diffWidth := max(1, m.width-m.treeWidth())
	if !m.ready {
		m.viewport = viewport.New(diffWidth, bodyHeight)
		m.ready = true
	} else {
		m.viewport.Width = diffWidth
		m.viewport.Height = bodyHeight
	}
	offset := m.viewport.YOffset
	m.renderContent()
	m.viewport.SetYOffset(offset)
}

// treeWidth is the width of the tree pane including its separator, or 0
// when the pane is hidden.
func (m Model) treeWidth() int {
	if !m.showTree || m.width < minWidthForTree || len(m.entries) == 0 {
		return 0
	}
	return min(max(m.width/4, minTreeWidth), maxTreeWidth) + 1
}

// currentFile returns the index into files of the file at the top of the
// diff pane.
func (m Model) currentFile() int {
	return positionIndex(m.filePositions, m.viewport.YOffset)
}

func positionIndex(positions []int, offset int) int {
	idx := 0
	for i, p := range positions {
		if p > offset {
			break
		}
		idx = i
	}
	return idx
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	body := m.viewport.View()
	if tw := m.treeWidth(); tw > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderTree(tw-1, m.viewport.Height), body)
	}
	return m.renderHeader() + "\n" + body + "\n" + m.renderStatus()
}

func (m Model) style(pair lado.ColorPair) lipgloss.Style {
	return themes.Style(m.renderer, pair)
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	title := m.comparison.Title
	if title == "" {
		title = "lado"
	}
	parts := []string{title}
	if n := len(m.comparison.Commits); n > 0 {
		c := m.comparison.Commits[m.commit]
		parts = append(parts, fmt.Sprintf("commit %d/%d %s %s", m.commit+1, n, c.ShortSHA, c.Subject()))
	}
	parts = append(parts, "["+m.mode.String()+"]")
	line := ansi.Truncate(strings.Join(parts, "  "), m.width, "…")
	return m.style(styles.FileHeader).Bold(true).Width(m.width).Render(line)
}

func (m Model) renderStatus() string {
	styles := m.theme.Styles()

	var position string
	switch {
	case m.viewport.AtTop():
		position = "Top"
	case m.viewport.AtBottom():
		position = "Bot"
	default:
		position = fmt.Sprintf("%d%%", int(m.viewport.ScrollPercent()*100))
	}

	var fields []string
	if len(m.files) == 0 {
		fields = append(fields, "no changes")
	} else {
		fields = append(fields, fmt.Sprintf("file %d/%d", m.currentFile()+1, len(m.files)))
		if len(m.hunkPositions) > 0 {
			// A file header sits directly above the file's first hunk.
			hunk := positionIndex(m.hunkPositions, m.viewport.YOffset+1)
			fields = append(fields, fmt.Sprintf("hunk %d/%d", hunk+1, len(m.hunkPositions)))
		}
	}
	fields = append(fields, position, m.keys.hints())

	line := ansi.Truncate(" "+strings.Join(fields, " │ "), m.width, "…")
	return m.style(styles.StatusBar).Width(m.width).Render(line)
}

func (m Model) renderTree(width, height int) string {
	styles := m.theme.Styles()

	selected := -1
	if len(m.files) > 0 {
		current := m.files[m.currentFile()]
		for i, e := range m.entries {
			if e.Kind == lado.NodeFile && e.Change == current {
				selected = i
				break
			}
		}
	}

	start := 0
	if selected >= height {
		start = selected - height + 1
	}

	lines := make([]string, 0, height)
	for i := start; i < len(m.entries) && len(lines) < height; i++ {
		e := m.entries[i]
		indent := strings.Repeat("  ", e.Depth)
		var label string
		pair := styles.TreeFile
		if e.Kind == lado.NodeDirectory {
			label = indent + "▾ " + e.Name + "/"
			if st, ok := m.dirStats[i]; ok {
				label += fmt.Sprintf(" +%d -%d", st[0], st[1])
			}
			pair = styles.TreeDir
		} else {
			status := "?"
			if e.Change >= 0 && e.Change < len(m.comparison.Changes) {
				status = m.comparison.Changes[e.Change].Status.Indicator()
			}
			label = indent + status + " " + e.Name
		}
		if i == selected {
			pair = styles.TreeSelected
		}
		label = ansi.Truncate(label, width, "…")
		lines = append(lines, m.style(pair).Width(width).Render(label)+treeSeparator)
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width)+treeSeparator)
	}
	return strings.Join(lines, "\n")
}
