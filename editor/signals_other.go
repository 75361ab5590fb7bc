//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package editor

import "errors"

func enableSignals(int) error {
	return errors.New("terminal signals are not supported on this platform")
}
