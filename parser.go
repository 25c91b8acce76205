package lado

import "io"

// Parser parses unified diff text into raw file records.
type Parser interface {
	// Parse reads diff content and returns the files it describes.
	Parse(r io.Reader) ([]RawFile, error)
}
