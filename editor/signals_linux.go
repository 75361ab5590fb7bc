package editor

import "golang.org/x/sys/unix"

// enableSignals turns ISIG back on after raw mode so Ctrl-C raises SIGINT.
func enableSignals(fd int) error {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}
	t.Lflag |= unix.ISIG
	return unix.IoctlSetTermios(fd, unix.TCSETS, t)
}
