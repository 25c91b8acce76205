package bubbletea

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/fwojciec/lado/config"
)

// KeyMap holds the viewer's key bindings.
type KeyMap struct {
	Unified      key.Binding
	SideBySide   key.Binding
	ScrollDown   key.Binding
	ScrollUp     key.Binding
	HalfPageDown key.Binding
	HalfPageUp   key.Binding
	FileNext     key.Binding
	FilePrev     key.Binding
	HunkNext     key.Binding
	HunkPrev     key.Binding
	PrevCommit   key.Binding
	NextCommit   key.Binding
	ToggleTree   key.Binding
	Top          key.Binding // pressed twice
	Bottom       key.Binding
	Quit         key.Binding
}

// NewKeyMap builds bindings from configured keys. Arrow keys, page keys and
// ctrl+c are always bound in addition.
func NewKeyMap(k config.KeyConfig) KeyMap {
	return KeyMap{
		Unified:      key.NewBinding(key.WithKeys(k.Unified), key.WithHelp(k.Unified, "unified")),
		SideBySide:   key.NewBinding(key.WithKeys(k.SideBySide), key.WithHelp(k.SideBySide, "split")),
		ScrollDown:   key.NewBinding(key.WithKeys(k.ScrollDown, "down"), key.WithHelp(k.ScrollDown, "down")),
		ScrollUp:     key.NewBinding(key.WithKeys(k.ScrollUp, "up"), key.WithHelp(k.ScrollUp, "up")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d", "pgdown"), key.WithHelp("ctrl+d", "half page down")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u", "pgup"), key.WithHelp("ctrl+u", "half page up")),
		FileNext:     key.NewBinding(key.WithKeys(k.FileNext), key.WithHelp(k.FileNext, "next file")),
		FilePrev:     key.NewBinding(key.WithKeys(k.FilePrev), key.WithHelp(k.FilePrev, "prev file")),
		HunkNext:     key.NewBinding(key.WithKeys(k.HunkNext), key.WithHelp(k.HunkNext, "next hunk")),
		HunkPrev:     key.NewBinding(key.WithKeys(k.HunkPrev), key.WithHelp(k.HunkPrev, "prev hunk")),
		PrevCommit:   key.NewBinding(key.WithKeys(k.PrevCommit), key.WithHelp(k.PrevCommit, "prev commit")),
		NextCommit:   key.NewBinding(key.WithKeys(k.NextCommit), key.WithHelp(k.NextCommit, "next commit")),
		ToggleTree:   key.NewBinding(key.WithKeys(k.ToggleTree), key.WithHelp(k.ToggleTree, "tree")),
		Top:          key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("gg", "top")),
		Bottom:       key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Quit:         key.NewBinding(key.WithKeys(k.Quit, "ctrl+c"), key.WithHelp(k.Quit, "quit")),
	}
}

// DefaultKeyMap returns the bindings of the default configuration.
func DefaultKeyMap() KeyMap {
	return NewKeyMap(config.Defaults().Keys)
}

// hints returns the status bar key summary.
func (k KeyMap) hints() string {
	pair := func(a, b key.Binding) string {
		return a.Help().Key + "/" + b.Help().Key
	}
	return pair(k.ScrollDown, k.ScrollUp) + " scroll  " +
		pair(k.FileNext, k.FilePrev) + " file  " +
		pair(k.HunkNext, k.HunkPrev) + " hunk  " +
		pair(k.Unified, k.SideBySide) + " mode  " +
		k.Quit.Help().Key + " quit"
}
