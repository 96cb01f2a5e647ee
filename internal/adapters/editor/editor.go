// Package editor launches the user's editor on a file.
package editor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
)

// ErrNoEditor is returned when neither the environment nor PATH names an
// editor.
var ErrNoEditor = errors.New("no editor found: set $EDITOR environment variable")

// Editor resolves the editor command from $EDITOR, $VISUAL or a list of
// common editors on PATH.
type Editor struct {
	getenv     func(string) string
	lookPath   func(string) (string, error)
	candidates []string
}

// New creates an Editor reading the process environment.
func New() *Editor {
	return &Editor{
		getenv:     os.Getenv,
		lookPath:   exec.LookPath,
		candidates: []string{"nvim", "vim", "vi", "nano"},
	}
}

// Edit opens path and waits for the editor to exit.
func (e *Editor) Edit(ctx context.Context, path string) error {
	cmd, err := e.Command(ctx, path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns the editor process for path wired to the terminal.
// Variables may carry arguments, as in EDITOR="code --wait".
func (e *Editor) Command(ctx context.Context, path string) (*exec.Cmd, error) {
	argv, err := e.resolve()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

func (e *Editor) resolve() ([]string, error) {
	for _, name := range []string{"EDITOR", "VISUAL"} {
		if argv := strings.Fields(e.getenv(name)); len(argv) > 0 {
			return argv, nil
		}
	}
	for _, c := range e.candidates {
		if p, err := e.lookPath(c); err == nil {
			return []string{p}, nil
		}
	}
	return nil, ErrNoEditor
}
