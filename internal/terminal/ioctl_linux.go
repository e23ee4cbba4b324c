package terminal

import "golang.org/x/sys/unix"

// TCSETSF drains pending output and flushes unread input before applying,
// matching tcsetattr(fd, TCSAFLUSH, ...).
const (
	ioctlReadTermios  = unix.TCGETS
	ioctlWriteTermios = unix.TCSETSF
)
