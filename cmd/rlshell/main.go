// Command rlshell is an interactive shell for trying the line editor.
//
//	rlshell [-mode default|minimal|file|validate|password] [-config file.toml] [-history file]
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wippyai/rlbridge/editor"
	"github.com/wippyai/rlbridge/helper"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

var modes = []string{"default", "minimal", "file", "validate", "password"}

func main() {
	var (
		mode    = flag.String("mode", "default", "Shell mode ("+strings.Join(modes, "|")+")")
		cfgFile = flag.String("config", "", "TOML editor configuration")
		history = flag.String("history", "", "History file to load and save")
		vi      = flag.Bool("vi", false, "Use vi editing mode")
		verbose = flag.Bool("v", false, "Log editor internals to stderr")
	)
	flag.Parse()

	if *verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			editor.SetLogger(l)
			defer l.Sync()
		}
	}

	cfg, err := loadConfig(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *vi {
		cfg.EditMode = editor.Vi
	}

	if err := run(*mode, cfg, *history); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(mode string, cfg editor.Config, histFile string) error {
	if mode == "password" {
		cfg.ColorMode = editor.ColorForced
		cfg.AutoAddHistory = false
	}
	ed, err := editor.New(cfg)
	if err != nil {
		return err
	}
	defer ed.Close()

	prompt, err := configure(ed, mode)
	if err != nil {
		return err
	}

	if histFile != "" {
		if err := ed.LoadHistory(histFile); err != nil {
			return err
		}
		defer func() {
			if err := ed.SaveHistory(histFile); err != nil {
				fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
			}
		}()
	}

	fmt.Println(titleStyle.Render("rlshell " + mode))
	fmt.Println(helpStyle.Render("Commands: history, clear, exit. Ctrl-D quits."))

	for {
		line, err := ed.ReadLine(prompt)
		switch {
		case errors.Is(err, editor.ErrInterrupted):
			fmt.Println(helpStyle.Render("^C"))
			continue
		case errors.Is(err, editor.ErrEOF):
			return nil
		case err != nil:
			return err
		}

		switch strings.TrimSpace(line) {
		case "exit", "quit":
			return nil
		case "history":
			for i, e := range ed.History().Entries() {
				fmt.Printf("%4d  %s\n", i+1, e)
			}
		case "clear":
			if err := ed.ClearScreen(); err != nil {
				return err
			}
		default:
			if mode == "password" {
				line = fmt.Sprintf("%d characters", len([]rune(line)))
			}
			fmt.Println(resultStyle.Render(line))
		}
	}
}

// configure installs the helpers of mode and returns its prompt.
func configure(ed *editor.Editor, mode string) (string, error) {
	switch mode {
	case "default":
		ed.SetCompleter(commandCompleter{})
		ed.SetHinter(helper.HistoryHinter{History: ed.History()})
		ed.SetHighlighter(helper.NewSimpleHighlighter())
		return "> ", nil
	case "minimal":
		return "> ", nil
	case "file":
		ed.SetCompleter(&helper.FileCompleter{})
		ed.SetHinter(helper.HistoryHinter{History: ed.History()})
		ed.SetHighlighter(helper.NewSimpleHighlighter())
		return "file> ", nil
	case "validate":
		ed.SetValidator(bracketValidator{})
		ed.SetHighlighter(helper.NewSimpleHighlighter())
		return "expr> ", nil
	case "password":
		ed.SetHighlighter(helper.PasswordHighlighter{})
		return "password: ", nil
	}
	return "", fmt.Errorf("unknown mode %q (want one of %s)", mode, strings.Join(modes, ", "))
}
