//go:build !windows

package editor

const defaultBellStyle = Audible
