// Package terminal switches the controlling terminal between its normal
// line-buffered mode and the unbuffered no-echo mode password entry needs,
// and guarantees the original settings can be put back.
package terminal

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Controller owns the terminal attributes of a single file descriptor.
// Engage captures the current settings and switches the terminal to
// unbuffered no-echo input; Restore reverts to the captured settings.
// The zero value is ready to use.
type Controller struct {
	mu      sync.Mutex
	fd      int
	saved   unix.Termios
	engaged bool
}

// Engage snapshots the terminal attributes of fd and disables canonical
// line buffering and local echo. Signal generation (ISIG) and CR-to-NL
// translation stay on, so Ctrl-C still raises SIGINT and Enter arrives
// as '\n'. Fails if fd is not a terminal.
func (c *Controller) Engage(fd int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tio, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return fmt.Errorf("get terminal attributes: %w", err)
	}
	c.saved = *tio

	raw := *tio
	raw.Lflag &^= unix.ECHO | unix.ICANON
	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, &raw); err != nil {
		return fmt.Errorf("set terminal attributes: %w", err)
	}

	c.fd = fd
	c.engaged = true
	return nil
}

// Restore reverts the terminal to the settings captured by Engage.
// Calling it when never engaged, or a second time, is a no-op.
func (c *Controller) Restore() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.engaged {
		return nil
	}
	c.engaged = false
	if err := unix.IoctlSetTermios(c.fd, ioctlWriteTermios, &c.saved); err != nil {
		return fmt.Errorf("restore terminal attributes: %w", err)
	}
	return nil
}

// Engaged reports whether the terminal is currently in the modified mode.
func (c *Controller) Engaged() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engaged
}
