// Package helper provides ready-made editor hooks: a filename completer, a
// history hinter, a colouring highlighter and a masking highlighter for
// passwords.
package helper
