//go:build !linux

package secmem

// DisableCoreDumps is a no-op on platforms without a dumpable flag.
func DisableCoreDumps() error {
	return nil
}
