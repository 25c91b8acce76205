// Package lipgloss builds viewer themes and lipgloss styles from palettes.
package lipgloss

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/lado"
	"github.com/lucasb-eyer/go-colorful"
)

// Blend ratios of diff colors over the background.
const (
	lineBlend   = 0.15
	gutterBlend = 0.35
)

// Compile-time interface verification.
var _ lado.Theme = (*Theme)(nil)

// Theme is a lado.Theme derived from a palette.
type Theme struct {
	palette lado.Palette
	styles  lado.Styles
}

// NewTheme derives the viewer styles from p.
func NewTheme(p lado.Palette) *Theme {
	line := func(c lado.Color) lado.ColorPair {
		return lado.ColorPair{Foreground: p.Foreground, Background: blend(p.Background, c, lineBlend)}
	}
	strong := func(c lado.Color) lado.ColorPair {
		return lado.ColorPair{Foreground: p.Foreground, Background: blend(p.Background, c, gutterBlend)}
	}
	ui := lado.ColorPair{Foreground: p.UIForeground, Background: p.UIBackground}

	return &Theme{
		palette: p,
		styles: lado.Styles{
			Context:          lado.ColorPair{Foreground: p.Foreground, Background: p.Background},
			Added:            line(p.Added),
			Deleted:          line(p.Deleted),
			ContextGutter:    lado.ColorPair{Foreground: p.Comment, Background: p.Background},
			AddedGutter:      strong(p.Added),
			DeletedGutter:    strong(p.Deleted),
			AddedHighlight:   strong(p.Added),
			DeletedHighlight: strong(p.Deleted),
			Filler:           lado.ColorPair{Foreground: p.Comment, Background: blend(p.Background, p.UIBackground, 0.5)},
			FileHeader:       lado.ColorPair{Foreground: p.UIAccent, Background: p.Background},
			HunkHeader:       lado.ColorPair{Foreground: p.Modified, Background: p.Background},
			Comment:          lado.ColorPair{Foreground: p.Foreground, Background: blend(p.Background, p.Modified, lineBlend)},
			StatusBar:        ui,
			TreeDir:          lado.ColorPair{Foreground: p.UIAccent},
			TreeFile:         lado.ColorPair{Foreground: p.Foreground},
			TreeSelected:     lado.ColorPair{Foreground: p.Background, Background: p.UIAccent},
		},
	}
}

// Palette returns the base colors.
func (t *Theme) Palette() lado.Palette { return t.palette }

// Styles returns the derived colors.
func (t *Theme) Styles() lado.Styles { return t.styles }

// DefaultTheme returns the dark theme.
func DefaultTheme() *Theme {
	return DarkTheme()
}

// DarkTheme is based on the Catppuccin Mocha colors.
func DarkTheme() *Theme {
	return NewTheme(lado.Palette{
		Background:   "#1e1e2e",
		Foreground:   "#cdd6f4",
		Added:        "#a6e3a1",
		Deleted:      "#f38ba8",
		Modified:     "#89b4fa",
		Keyword:      "#cba6f7",
		String:       "#a6e3a1",
		Number:       "#fab387",
		Comment:      "#6c7086",
		Operator:     "#89dceb",
		Function:     "#89b4fa",
		Type:         "#f9e2af",
		UIBackground: "#313244",
		UIForeground: "#cdd6f4",
		UIAccent:     "#89b4fa",
	})
}

// LightTheme is based on the Catppuccin Latte colors.
func LightTheme() *Theme {
	return NewTheme(lado.Palette{
		Background:   "#eff1f5",
		Foreground:   "#4c4f69",
		Added:        "#40a02b",
		Deleted:      "#d20f39",
		Modified:     "#1e66f5",
		Keyword:      "#8839ef",
		String:       "#40a02b",
		Number:       "#fe640b",
		Comment:      "#9ca0b0",
		Operator:     "#04a5e5",
		Function:     "#1e66f5",
		Type:         "#df8e1d",
		UIBackground: "#ccd0da",
		UIForeground: "#4c4f69",
		UIAccent:     "#1e66f5",
	})
}

// TestTheme uses primary colors on black so blended values are easy to
// predict in tests.
func TestTheme() *Theme {
	return NewTheme(lado.Palette{
		Background:   "#000000",
		Foreground:   "#ffffff",
		Added:        "#00ff00",
		Deleted:      "#ff0000",
		Modified:     "#0000ff",
		Keyword:      "#ff00ff",
		String:       "#00ffff",
		Number:       "#ffff00",
		Comment:      "#808080",
		Operator:     "#ff8000",
		Function:     "#0080ff",
		Type:         "#80ff00",
		UIBackground: "#333333",
		UIForeground: "#eeeeee",
		UIAccent:     "#ffaa00",
	})
}

// ThemeByName returns the theme configured as name.
func ThemeByName(name string) (*Theme, error) {
	switch name {
	case "", "dark":
		return DarkTheme(), nil
	case "light":
		return LightTheme(), nil
	default:
		return nil, fmt.Errorf("unknown theme %q", name)
	}
}

// blend mixes c over base by ratio t. Invalid colors return base.
func blend(base, c lado.Color, t float64) lado.Color {
	b, err := colorful.Hex(string(base))
	if err != nil {
		return base
	}
	o, err := colorful.Hex(string(c))
	if err != nil {
		return base
	}
	return lado.Color(b.BlendRgb(o, t).Hex())
}

// Style returns a style of r drawing pair. A nil renderer uses the default.
func Style(r *lipgloss.Renderer, pair lado.ColorPair) lipgloss.Style {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	s := r.NewStyle()
	if pair.Foreground != "" {
		s = s.Foreground(lipgloss.Color(pair.Foreground))
	}
	if pair.Background != "" {
		s = s.Background(lipgloss.Color(pair.Background))
	}
	return s
}
