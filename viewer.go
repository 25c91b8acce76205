package lado

import "context"

// Viewer displays a comparison to the user.
type Viewer interface {
	// View displays the comparison and blocks until the user exits
	// or ctx is canceled.
	View(ctx context.Context, c *Comparison) error
}
