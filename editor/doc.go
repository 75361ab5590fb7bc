// Package editor implements an interactive line editor.
//
// An Editor reads one line per ReadLine call. When input is a terminal it is
// switched to raw mode and edited key by key with emacs or vi bindings,
// history navigation, completion, inline hints, highlighting and validation.
// Other input is read a line at a time.
//
//	e, err := editor.New(editor.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	for {
//	    line, err := e.ReadLine("> ")
//	    if errors.Is(err, editor.ErrEOF) {
//	        break
//	    }
//	    ...
//	}
//
// # Hooks
//
// Behaviour is extended through small interfaces: Completer, Hinter,
// Highlighter and Validator. Positions passed to hooks are UTF-8 byte
// offsets. Hooks run synchronously on the goroutine calling ReadLine.
//
// # History
//
// History files start with a "#V2" header and store one entry per line with
// backslash and newline escaped. Files without the header are read one raw
// entry per line. Saving replaces the file atomically.
package editor
