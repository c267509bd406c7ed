package vscode

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Sentinel errors
var (
	// ErrKeyboardNotConfigured is returned when the argv for a keyboard
	// operation is empty.
	ErrKeyboardNotConfigured = errors.New("keyboard command is not configured")
)

// Keyboard types into the focused window.
type Keyboard interface {
	Insert(ctx context.Context, text string) error
	Key(ctx context.Context, key string) error
}

// ExecKeyboard runs external programs with the text or key appended to the
// configured argv, e.g. ["xdotool", "type", "--"] and ["xdotool", "key"].
type ExecKeyboard struct {
	InsertArgv []string
	KeyArgv    []string
}

// Insert runs InsertArgv with text as the last argument.
func (k ExecKeyboard) Insert(ctx context.Context, text string) error {
	return run(ctx, k.InsertArgv, text)
}

// Key runs KeyArgv with key as the last argument.
func (k ExecKeyboard) Key(ctx context.Context, key string) error {
	return run(ctx, k.KeyArgv, key)
}

func run(ctx context.Context, argv []string, arg string) error {
	if len(argv) == 0 {
		return ErrKeyboardNotConfigured
	}

	args := append(append([]string{}, argv[1:]...), arg)
	if out, err := exec.CommandContext(ctx, argv[0], args...).CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", argv[0], err, out)
	}

	return nil
}
