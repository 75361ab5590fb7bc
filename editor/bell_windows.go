package editor

const defaultBellStyle = NoBell
