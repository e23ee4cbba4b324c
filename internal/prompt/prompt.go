// Package prompt reads a secret one byte at a time from an unbuffered
// terminal stream, giving masked or silent feedback per the user's choice.
package prompt

import (
	"errors"
	"fmt"
	"io"

	"maskpass/internal/secmem"
)

// DefaultPrompt is shown when the caller supplies no prompt text.
const DefaultPrompt = "Password:"

const (
	hintPressTab = "(press TAB for no echo) "
	hintNoEcho   = "(no echo) "
)

// Mode is the echo state of the reader.
type Mode int

const (
	// ModeUndecided is the initial state, before the first byte decides
	// between echoing and silent. Never re-entered.
	ModeUndecided Mode = iota
	// ModeEchoing shows one masking character per accepted byte.
	ModeEchoing
	// ModeSilent shows nothing. Once entered it is never left.
	ModeSilent
)

// Reader drives the per-byte input loop. In is the unbuffered terminal
// stream, Render the feedback channel, Buf the locked secret store.
type Reader struct {
	In     io.Reader
	Render *Renderer
	Buf    *secmem.Buffer

	mode Mode
}

// Mode returns the current echo state.
func (r *Reader) Mode() Mode {
	return r.mode
}

// Run prints the prompt and the one-time hint, then consumes input until
// a newline or end of stream. The accepted secret is left in r.Buf; the
// feedback line is cleaned up and terminated before Run returns.
func (r *Reader) Run(promptText string) error {
	if err := r.Render.Print(promptText + " "); err != nil {
		return err
	}
	if err := r.Render.Hint(hintPressTab); err != nil {
		return err
	}

	var one [1]byte
	for {
		n, err := r.In.Read(one[:])
		if n > 0 {
			if one[0] == '\n' {
				break
			}
			if herr := r.handleByte(one[0]); herr != nil {
				return herr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("read input: %w", err)
		}
	}

	switch r.mode {
	case ModeUndecided:
		// Nothing was typed; the hint is still on screen.
		if err := r.Render.Erase(len(hintPressTab)); err != nil {
			return err
		}
	case ModeEchoing:
		// Don't leave the secret's length visible.
		if err := r.Render.Erase(r.Buf.Len()); err != nil {
			return err
		}
	}
	return r.Render.Print("\n")
}

func (r *Reader) handleByte(c byte) error {
	if r.mode == ModeUndecided {
		// First byte: the hint is shown at most once.
		if err := r.Render.Erase(len(hintPressTab)); err != nil {
			return err
		}
		if c == 0x08 || c == 0x7F {
			// Backspace before anything was typed opts into silent
			// mode; the byte is consumed, not treated as an edit.
			r.mode = ModeSilent
			return r.Render.Hint(hintNoEcho)
		}
		r.mode = ModeEchoing
	}

	switch c {
	case 0x08, 0x7F: // Backspace / DEL
		if r.Buf.DropLast() {
			if r.mode == ModeEchoing {
				return r.Render.Erase(1)
			}
			return nil
		}
		return r.Render.Bell()

	case 0x15: // Ctrl+U: kill line
		if r.mode == ModeEchoing {
			if err := r.Render.Erase(r.Buf.Len()); err != nil {
				return err
			}
		}
		r.Buf.Reset()
		return nil

	case 0x09: // Tab: go silent, taking any shown masks with it
		if r.mode == ModeEchoing {
			if err := r.Render.Erase(r.Buf.Len()); err != nil {
				return err
			}
			if err := r.Render.Hint(hintNoEcho); err != nil {
				return err
			}
		}
		r.mode = ModeSilent
		return nil

	default:
		if c < 0x20 {
			// Remaining control bytes never become secret characters.
			return nil
		}
		if !r.Buf.Append(c) {
			return r.Render.Bell()
		}
		if r.mode == ModeEchoing {
			return r.Render.Mask()
		}
		return nil
	}
}
