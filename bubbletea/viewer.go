package bubbletea

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/lado"
)

var _ lado.Viewer = (*Viewer)(nil)

// Viewer runs the interactive comparison viewer in the terminal.
type Viewer struct {
	programOpts []tea.ProgramOption
	modelOpts   []ModelOption
}

// ViewerOption configures a Viewer.
type ViewerOption func(*Viewer)

// WithProgramOptions passes options to the bubbletea program, such as
// custom input and output for tests.
func WithProgramOptions(opts ...tea.ProgramOption) ViewerOption {
	return func(v *Viewer) {
		v.programOpts = append(v.programOpts, opts...)
	}
}

// WithModelOptions passes options to every model the viewer creates.
func WithModelOptions(opts ...ModelOption) ViewerOption {
	return func(v *Viewer) {
		v.modelOpts = append(v.modelOpts, opts...)
	}
}

// NewViewer creates a new Viewer.
func NewViewer(opts ...ViewerOption) *Viewer {
	v := &Viewer{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// View displays c and blocks until the user quits or ctx is canceled.
func (v *Viewer) View(ctx context.Context, c *lado.Comparison) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	modelOpts := v.modelOpts
	if c != nil {
		aligned, err := c.AlignFiles(ctx)
		if err != nil {
			return err
		}
		modelOpts = append([]ModelOption{WithAlignedHunks(aligned)}, v.modelOpts...)
	}

	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, v.programOpts...)
	p := tea.NewProgram(NewModel(c, modelOpts...), opts...)
	if _, err := p.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("running viewer: %w", err)
	}
	return ctx.Err()
}
