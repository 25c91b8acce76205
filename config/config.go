// Package config loads and saves user settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// View modes.
const (
	ModeUnified    = "unified"
	ModeSideBySide = "side-by-side"
)

// EnvPrefix prefixes environment overrides such as LADO_UI_THEME.
const EnvPrefix = "LADO"

// Config holds all user settings.
type Config struct {
	UITheme      string `mapstructure:"ui_theme" toml:"ui_theme"`         // "dark" or "light"
	SyntaxTheme  string `mapstructure:"syntax_theme" toml:"syntax_theme"` // chroma style name or "theme"
	TabWidth     int    `mapstructure:"tab_width" toml:"tab_width"`
	LineWrap     bool   `mapstructure:"line_wrap" toml:"line_wrap"`
	ContextLines int    `mapstructure:"context_lines" toml:"context_lines"`

	Tree TreeConfig `mapstructure:"tree" toml:"tree"`
	View ViewConfig `mapstructure:"view" toml:"view"`
	Keys KeyConfig  `mapstructure:"keys" toml:"keys"`
}

// TreeConfig configures the file tree pane.
type TreeConfig struct {
	CompactDirs bool `mapstructure:"compact_dirs" toml:"compact_dirs"`
}

// ViewConfig configures the diff pane.
type ViewConfig struct {
	Mode string `mapstructure:"mode" toml:"mode"`
}

// KeyConfig maps viewer actions to keys, in bubbletea key notation.
type KeyConfig struct {
	Unified    string `mapstructure:"unified" toml:"unified"`
	SideBySide string `mapstructure:"side_by_side" toml:"side_by_side"`
	ScrollDown string `mapstructure:"scroll_down" toml:"scroll_down"`
	ScrollUp   string `mapstructure:"scroll_up" toml:"scroll_up"`
	FileNext   string `mapstructure:"file_next" toml:"file_next"`
	FilePrev   string `mapstructure:"file_prev" toml:"file_prev"`
	HunkNext   string `mapstructure:"hunk_next" toml:"hunk_next"`
	HunkPrev   string `mapstructure:"hunk_prev" toml:"hunk_prev"`
	PrevCommit string `mapstructure:"prev_commit" toml:"prev_commit"`
	NextCommit string `mapstructure:"next_commit" toml:"next_commit"`
	ToggleTree string `mapstructure:"toggle_tree" toml:"toggle_tree"`
	Quit       string `mapstructure:"quit" toml:"quit"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Config {
	return Config{
		UITheme:      "dark",
		SyntaxTheme:  "onedark",
		TabWidth:     4,
		LineWrap:     false,
		ContextLines: 3,
		Tree:         TreeConfig{CompactDirs: false},
		View:         ViewConfig{Mode: ModeUnified},
		Keys: KeyConfig{
			Unified:    "u",
			SideBySide: "s",
			ScrollDown: "j",
			ScrollUp:   "k",
			FileNext:   "J",
			FilePrev:   "K",
			HunkNext:   "n",
			HunkPrev:   "N",
			PrevCommit: "[",
			NextCommit: "]",
			ToggleTree: "t",
			Quit:       "q",
		},
	}
}

// setDefaults registers every setting with v so environment variables and
// partial files resolve against the defaults.
func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("ui_theme", d.UITheme)
	v.SetDefault("syntax_theme", d.SyntaxTheme)
	v.SetDefault("tab_width", d.TabWidth)
	v.SetDefault("line_wrap", d.LineWrap)
	v.SetDefault("context_lines", d.ContextLines)
	v.SetDefault("tree.compact_dirs", d.Tree.CompactDirs)
	v.SetDefault("view.mode", d.View.Mode)
	v.SetDefault("keys.unified", d.Keys.Unified)
	v.SetDefault("keys.side_by_side", d.Keys.SideBySide)
	v.SetDefault("keys.scroll_down", d.Keys.ScrollDown)
	v.SetDefault("keys.scroll_up", d.Keys.ScrollUp)
	v.SetDefault("keys.file_next", d.Keys.FileNext)
	v.SetDefault("keys.file_prev", d.Keys.FilePrev)
	v.SetDefault("keys.hunk_next", d.Keys.HunkNext)
	v.SetDefault("keys.hunk_prev", d.Keys.HunkPrev)
	v.SetDefault("keys.prev_commit", d.Keys.PrevCommit)
	v.SetDefault("keys.next_commit", d.Keys.NextCommit)
	v.SetDefault("keys.toggle_tree", d.Keys.ToggleTree)
	v.SetDefault("keys.quit", d.Keys.Quit)
}

// New returns a viper instance reading TOML from path with defaults and
// LADO_ environment overrides registered. The file is not read yet.
func New(path string) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the settings at path. A missing file yields the defaults and
// missing keys keep their default values. A malformed file is an error.
func Load(path string) (Config, error) {
	return Read(New(path))
}

// Read reads the config file of v, if it exists, and decodes the settings.
func Read(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path as TOML, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return fmt.Errorf("writing config: %w", err)
	}
	return f.Close()
}

// Validate reports settings the viewer cannot use.
func (c Config) Validate() error {
	switch c.UITheme {
	case "dark", "light":
	default:
		return fmt.Errorf("ui_theme: unknown theme %q (want dark or light)", c.UITheme)
	}
	switch c.View.Mode {
	case ModeUnified, ModeSideBySide:
	default:
		return fmt.Errorf("view.mode: unknown mode %q (want %s or %s)", c.View.Mode, ModeUnified, ModeSideBySide)
	}
	if c.TabWidth < 1 || c.TabWidth > 16 {
		return fmt.Errorf("tab_width: %d is out of range 1-16", c.TabWidth)
	}
	if c.ContextLines < 0 {
		return fmt.Errorf("context_lines: %d is negative", c.ContextLines)
	}
	if c.SyntaxTheme == "" {
		return errors.New("syntax_theme: must not be empty")
	}
	return c.Keys.validate()
}

// reservedKeys are bound by the viewer regardless of configuration.
var reservedKeys = map[string]string{
	"up":     "scroll up",
	"down":   "scroll down",
	"ctrl+d": "half page down",
	"pgdown": "half page down",
	"ctrl+u": "half page up",
	"pgup":   "half page up",
	"g":      "top",
	"home":   "top",
	"G":      "bottom",
	"end":    "bottom",
	"ctrl+c": "quit",
}

func (k KeyConfig) validate() error {
	bindings := []struct {
		name string
		key  string
	}{
		{"unified", k.Unified},
		{"side_by_side", k.SideBySide},
		{"scroll_down", k.ScrollDown},
		{"scroll_up", k.ScrollUp},
		{"file_next", k.FileNext},
		{"file_prev", k.FilePrev},
		{"hunk_next", k.HunkNext},
		{"hunk_prev", k.HunkPrev},
		{"prev_commit", k.PrevCommit},
		{"next_commit", k.NextCommit},
		{"toggle_tree", k.ToggleTree},
		{"quit", k.Quit},
	}
	seen := make(map[string]string, len(bindings)+len(reservedKeys))
	for key, name := range reservedKeys {
		seen[key] = "built-in " + name
	}
	for _, b := range bindings {
		if b.key == "" {
			return fmt.Errorf("keys.%s: must not be empty", b.name)
		}
		if other, ok := seen[b.key]; ok {
			return fmt.Errorf("keys.%s: %q is already bound to %s", b.name, b.key, other)
		}
		seen[b.key] = b.name
	}
	return nil
}
