package prompt

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Renderer writes interactive feedback (prompt text, hints, masking
// characters, erasures, alerts) to a channel separate from the one the
// finished secret goes to. Hints are dimmed when the channel is a
// terminal; on any other writer they come out as plain bytes so tests
// can assert the stream literally.
type Renderer struct {
	w   io.Writer
	out *termenv.Output
}

// NewRenderer wraps w. Styling is decided here once, from the writer
// itself, rather than from the global stdout state.
func NewRenderer(w io.Writer) *Renderer {
	profile := termenv.Ascii
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		profile = termenv.ANSI
	}
	return &Renderer{
		w:   w,
		out: termenv.NewOutput(w, termenv.WithProfile(profile)),
	}
}

// Print writes literal feedback text.
func (r *Renderer) Print(s string) error {
	if _, err := io.WriteString(r.w, s); err != nil {
		return fmt.Errorf("write feedback: %w", err)
	}
	return nil
}

// Hint writes transient helper text, faint where the channel supports it.
// Callers erase hints by their visible length; the styling sequences do
// not occupy cells.
func (r *Renderer) Hint(s string) error {
	return r.Print(r.out.String(s).Faint().String())
}

// Mask writes one masking character for an accepted secret byte.
func (r *Renderer) Mask() error {
	return r.Print("*")
}

// Erase rubs out the last n visible characters.
func (r *Renderer) Erase(n int) error {
	for ; n > 0; n-- {
		if err := r.Print("\b \b"); err != nil {
			return err
		}
	}
	return nil
}

// Bell sounds the terminal alert for a rejected edit.
func (r *Renderer) Bell() error {
	return r.Print("\a")
}
