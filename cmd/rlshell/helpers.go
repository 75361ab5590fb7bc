package main

import (
	"strings"

	"github.com/wippyai/rlbridge/editor"
)

var commands = []string{"clear", "exit", "help", "history", "quit"}

// commandCompleter completes the shell's built-in commands at the start of
// the line.
type commandCompleter struct{}

func (commandCompleter) Complete(line string, pos int) (int, []editor.Candidate, error) {
	prefix := line[:pos]
	if strings.ContainsAny(prefix, " \t") {
		return pos, nil, nil
	}
	var out []editor.Candidate
	for _, c := range commands {
		if strings.HasPrefix(c, prefix) {
			out = append(out, editor.Candidate{Display: c, Replacement: c})
		}
	}
	return 0, out, nil
}

// bracketValidator keeps reading lines until (), [] and {} balance.
type bracketValidator struct{}

func (bracketValidator) Validate(line string, _ int) editor.ValidationResult {
	var stack []rune
	pairs := map[rune]rune{')': '(', ']': '[', '}': '{'}
	for _, r := range line {
		switch r {
		case '(', '[', '{':
			stack = append(stack, r)
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[r] {
				return editor.ValidationResult{Kind: editor.Invalid, Message: "unbalanced " + string(r)}
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return editor.ValidationResult{Kind: editor.Incomplete}
	}
	return editor.ValidationResult{Kind: editor.Valid}
}
