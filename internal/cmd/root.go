// Package cmd defines the maskpass command line interface.
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"maskpass/internal/prompt"
	"maskpass/internal/secmem"
	"maskpass/internal/terminal"
	"maskpass/internal/version"
)

// NewRootCmd creates the root cobra command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maskpass [PROMPT]",
		Short: "Prompt for a password on the terminal",
		Long: `maskpass prompts for a password on the controlling terminal and writes
it to standard output without a trailing newline, for capture by another
program. Interactive feedback (prompt, hints, masking) goes to standard
error, so the two streams can be redirected independently.

Typed characters are masked with '*'. Press TAB, or Backspace before the
first character, to switch to fully silent entry. Backspace edits,
Ctrl+U clears the line.

The secret is held in memory that is locked against swap and zeroed
before the process exits.`,
		Args:    cobra.MaximumNArgs(1),
		Version: version.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			promptText := prompt.DefaultPrompt
			if len(args) == 1 {
				promptText = args[0]
			}
			return run(cmd, promptText)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	return cmd
}

// run owns the whole prompt session: raw terminal mode, the locked
// secret buffer, the input loop, and the ordered teardown. The terminal
// is restored before the secret is emitted, so a restore failure is
// reported before any secret counts as delivered.
func run(cmd *cobra.Command, promptText string) error {
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return fmt.Errorf("standard input is not a terminal")
	}
	fd := int(in.Fd())

	ctl := &terminal.Controller{}
	if err := ctl.Engage(fd); err != nil {
		return err
	}
	defer ctl.Restore()

	// Harden before any secret byte exists.
	if err := secmem.DisableCoreDumps(); err != nil {
		return err
	}
	buf, err := secmem.Alloc(os.Getpagesize())
	if err != nil {
		return err
	}
	defer buf.Destroy()

	// Signals bypass the defers; restore and scrub before dying.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			ctl.Restore()
			buf.Destroy()
			fmt.Fprintln(os.Stderr)
			os.Exit(1)
		case <-done:
		}
	}()
	defer signal.Stop(sigCh)
	defer close(done)

	reader := &prompt.Reader{
		In:     in,
		Render: prompt.NewRenderer(cmd.ErrOrStderr()),
		Buf:    buf,
	}
	if err := reader.Run(promptText); err != nil {
		return err
	}

	if err := ctl.Restore(); err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write secret: %w", err)
	}
	return buf.Destroy()
}
