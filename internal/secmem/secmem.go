// Package secmem holds an in-progress secret in memory that is locked
// against swap and wiped before release.
package secmem

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// Buffer is a fixed-capacity byte buffer backed by page-aligned,
// mlock'ed memory. The secret is the first Len() bytes. One byte of
// capacity is always held back so the buffer can be terminated.
type Buffer struct {
	mem       []byte
	n         int
	destroyed bool
}

// Alloc maps capacity bytes of anonymous memory and locks them into RAM.
// Mapping anonymous pages gives page alignment for free. A lock failure
// is an error: the secret must never reach swap.
func Alloc(capacity int) (*Buffer, error) {
	if capacity < 2 {
		return nil, fmt.Errorf("secret buffer capacity %d too small", capacity)
	}
	mem, err := unix.Mmap(-1, 0, capacity,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("map secret buffer: %w", err)
	}
	if err := unix.Mlock(mem); err != nil {
		unix.Munmap(mem)
		return nil, fmt.Errorf("lock secret buffer: %w", err)
	}
	return &Buffer{mem: mem}, nil
}

// Append adds one byte to the secret. It reports false, leaving the
// buffer unchanged, when the buffer is full.
func (b *Buffer) Append(c byte) bool {
	if b.n >= len(b.mem)-1 {
		return false
	}
	b.mem[b.n] = c
	b.n++
	return true
}

// DropLast removes the last byte of the secret. It reports false when
// the buffer is empty.
func (b *Buffer) DropLast() bool {
	if b.n == 0 {
		return false
	}
	b.n--
	b.mem[b.n] = 0
	return true
}

// Reset discards the whole secret, zeroing the dropped bytes.
func (b *Buffer) Reset() {
	Wipe(b.mem[:b.n])
	b.n = 0
}

// Len returns the current secret length.
func (b *Buffer) Len() int {
	return b.n
}

// Bytes returns the current secret. The slice aliases the locked memory
// and is only valid until Destroy.
func (b *Buffer) Bytes() []byte {
	return b.mem[:b.n]
}

// Destroy wipes the full capacity, unlocks, and unmaps the memory.
// Safe to call more than once.
func (b *Buffer) Destroy() error {
	if b.destroyed {
		return nil
	}
	b.destroyed = true
	Wipe(b.mem)
	b.n = 0
	if err := unix.Munlock(b.mem); err != nil {
		unix.Munmap(b.mem)
		b.mem = nil
		return fmt.Errorf("unlock secret buffer: %w", err)
	}
	mem := b.mem
	b.mem = nil
	if err := unix.Munmap(mem); err != nil {
		return fmt.Errorf("unmap secret buffer: %w", err)
	}
	return nil
}

// Wipe overwrites p with zero bytes. The KeepAlive fence keeps the
// compiler from treating the stores as dead when p is about to be freed.
func Wipe(p []byte) {
	for i := range p {
		p[i] = 0
	}
	runtime.KeepAlive(p)
}
