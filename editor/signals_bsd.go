//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package editor

import "golang.org/x/sys/unix"

func enableSignals(fd int) error {
	t, err := unix.IoctlGetTermios(fd, unix.TIOCGETA)
	if err != nil {
		return err
	}
	t.Lflag |= unix.ISIG
	return unix.IoctlSetTermios(fd, unix.TIOCSETA, t)
}
