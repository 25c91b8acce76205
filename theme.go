package lado

// Color is a hex color such as "#1e1e2e".
type Color string

// ColorPair is a foreground and background color. Empty values leave the
// terminal default in place.
type ColorPair struct {
	Foreground Color
	Background Color
}

// Palette is the small set of base colors a theme is derived from.
type Palette struct {
	Background Color
	Foreground Color

	Added    Color
	Deleted  Color
	Modified Color

	// Syntax
	Keyword  Color
	String   Color
	Number   Color
	Comment  Color
	Operator Color
	Function Color
	Type     Color

	// Chrome
	UIBackground Color
	UIForeground Color
	UIAccent     Color
}

// Styles are the derived colors used when drawing a comparison.
type Styles struct {
	Context ColorPair
	Added   ColorPair
	Deleted ColorPair

	ContextGutter ColorPair
	AddedGutter   ColorPair
	DeletedGutter ColorPair

	// Changed words within modification rows.
	AddedHighlight   ColorPair
	DeletedHighlight ColorPair

	Filler     ColorPair
	FileHeader ColorPair
	HunkHeader ColorPair
	Comment    ColorPair
	StatusBar  ColorPair

	TreeDir      ColorPair
	TreeFile     ColorPair
	TreeSelected ColorPair
}

// Theme supplies the colors of the viewer.
type Theme interface {
	Palette() Palette
	Styles() Styles
}
