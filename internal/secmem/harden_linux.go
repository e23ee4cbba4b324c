package secmem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// DisableCoreDumps marks the process non-dumpable, so the secret cannot
// be read via core files or ptrace attach.
func DisableCoreDumps() error {
	if err := unix.Prctl(unix.PR_SET_DUMPABLE, 0, 0, 0, 0); err != nil {
		return fmt.Errorf("disable core dumps: %w", err)
	}
	return nil
}
