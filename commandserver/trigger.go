package commandserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Sentinel errors
var (
	// ErrEmptyTrigger is returned by CommandTrigger when Argv is empty.
	ErrEmptyTrigger = errors.New("trigger command is empty")
)

// Trigger tells the editor that a request is waiting, usually by sending it
// a keyboard shortcut.
type Trigger interface {
	Fire(ctx context.Context) error
}

// TriggerFunc adapts a function to Trigger.
type TriggerFunc func(ctx context.Context) error

// Fire calls f(ctx).
func (f TriggerFunc) Fire(ctx context.Context) error {
	return f(ctx)
}

// CommandTrigger runs an external program, e.g.
// ["xdotool", "key", "ctrl+shift+F17"].
type CommandTrigger struct {
	Argv []string
}

// Fire runs the program and waits for it to exit.
func (t CommandTrigger) Fire(ctx context.Context) error {
	if len(t.Argv) == 0 {
		return ErrEmptyTrigger
	}

	cmd := exec.CommandContext(ctx, t.Argv[0], t.Argv[1:]...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", t.Argv[0], err, msg)
		}
		return fmt.Errorf("%s: %w", t.Argv[0], err)
	}

	return nil
}
