package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/spokenform/dispatch"
	"github.com/shibukawa/spokenform/grammar"
)

type fakeEditor struct {
	requests []dispatch.Request
	typed    []string
}

func (e *fakeEditor) Run(ctx context.Context, req dispatch.Request) error {
	e.requests = append(e.requests, req)
	return nil
}

func (e *fakeEditor) Insert(ctx context.Context, text string) error {
	e.typed = append(e.typed, "insert:"+text)
	return nil
}

func (e *fakeEditor) Key(ctx context.Context, key string) error {
	e.typed = append(e.typed, "key:"+key)
	return nil
}

func newContext(t *testing.T) (*Context, *fakeEditor, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	editor := &fakeEditor{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	return &Context{
		Config:   filepath.Join(t.TempDir(), "spokenform.yaml"),
		Stdout:   stdout,
		Stderr:   stderr,
		Bridge:   editor,
		Keyboard: editor,
	}, editor, stdout, stderr
}

func TestModifierCmd(t *testing.T) {
	tests := []struct {
		name     string
		cmd      ModifierCmd
		expected string
	}{
		{
			name:     "head alone",
			cmd:      ModifierCmd{Phrase: []string{"head"}},
			expected: `{"type":"extendThroughStartOf"}`,
		},
		{
			name:     "phrase split into words",
			cmd:      ModifierCmd{Phrase: []string{"tail", "inside"}},
			expected: `{"type":"extendThroughEndOf","modifiers":[{"type":"interiorOnly"}]}`,
		},
		{
			name:     "modifier sequence",
			cmd:      ModifierCmd{Phrase: []string{"just head"}, All: true},
			expected: `[{"type":"toRawSelection"},{"type":"extendThroughStartOf"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _, stdout, _ := newContext(t)

			assert.NoError(t, tt.cmd.Run(ctx))
			assert.Equal(t, tt.expected+"\n", stdout.String())
		})
	}
}

func TestModifierCmdNoMatch(t *testing.T) {
	ctx, _, _, _ := newContext(t)

	err := (&ModifierCmd{Phrase: []string{"middle"}}).Run(ctx)
	assert.True(t, errors.Is(err, grammar.ErrNoMatch))
}

func TestModifierCmdUsesConfiguredVocabulary(t *testing.T) {
	ctx, _, stdout, _ := newContext(t)
	assert.NoError(t, os.WriteFile(ctx.Config, []byte("vocabulary:\n  head_tail:\n    top: extendThroughStartOf\n"), 0644))

	assert.NoError(t, (&ModifierCmd{Phrase: []string{"top"}}).Run(ctx))
	assert.Equal(t, `{"type":"extendThroughStartOf"}`+"\n", stdout.String())
}

func TestCommandCmd(t *testing.T) {
	ctx, _, stdout, _ := newContext(t)

	assert.NoError(t, (&CommandCmd{Phrase: []string{"take", "head", "that"}}).Run(ctx))

	var decoded map[string]any
	assert.NoError(t, json.Unmarshal(stdout.Bytes(), &decoded))
	assert.Equal(t, "take head that", decoded["spokenForm"])
	assert.Equal[any](t, map[string]any{"name": "setSelection"}, decoded["action"])
}

func TestRunCmd(t *testing.T) {
	ctx, editor, _, _ := newContext(t)

	assert.NoError(t, (&RunCmd{Phrase: []string{"chuck tail inside this"}}).Run(ctx))

	assert.Equal(t, 1, len(editor.requests))
	assert.Equal(t, "cursorless.command", editor.requests[0].CommandID)
	assert.True(t, editor.requests[0].WaitForFinish)
}

func TestFindCmd(t *testing.T) {
	ctx, editor, _, stderr := newContext(t)

	long := strings.Repeat("x", 201)
	assert.NoError(t, (&FindCmd{Text: []string{long}}).Run(ctx))

	assert.Equal(t, "actions.find", editor.requests[0].CommandID)
	assert.Equal(t, []string{"insert:" + strings.Repeat("x", 200)}, editor.typed)
	assert.Contains(t, stderr.String(), dispatch.TruncationNotice)

	err := (&FindCmd{Text: []string{" "}}).Run(ctx)
	assert.True(t, errors.Is(err, ErrEmptyText))
}

func TestFindCmdQuietSuppressesNotice(t *testing.T) {
	ctx, _, _, stderr := newContext(t)
	ctx.Quiet = true

	assert.NoError(t, (&FindCmd{Text: []string{strings.Repeat("x", 300)}}).Run(ctx))
	assert.Equal(t, "", stderr.String())
}

func TestEditorCommands(t *testing.T) {
	tests := []struct {
		name    string
		run     func(ctx *Context) error
		command string
	}{
		{"settings", (&SettingsCmd{}).Run, "workbench.action.openSettings"},
		{"sidebar", (&SidebarCmd{}).Run, "workbench.view.extension.cursorless"},
		{"history", (&HistoryCmd{}).Run, "cursorless.analyzeCommandHistory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, editor, _, _ := newContext(t)

			assert.NoError(t, tt.run(ctx))
			assert.Equal(t, 1, len(editor.requests))
			assert.Equal(t, tt.command, editor.requests[0].CommandID)
		})
	}
}

func TestCheatsheetCmd(t *testing.T) {
	t.Run("editor", func(t *testing.T) {
		ctx, editor, _, _ := newContext(t)
		output := filepath.Join(t.TempDir(), "sheet.html")

		assert.NoError(t, (&CheatsheetCmd{Output: output}).Run(ctx))
		assert.Equal(t, "cursorless.showCheatsheet", editor.requests[0].CommandID)
		assert.Equal[any](t, output, editor.requests[0].Args[1])
	})

	t.Run("local", func(t *testing.T) {
		ctx, editor, _, _ := newContext(t)
		output := filepath.Join(t.TempDir(), "out", "sheet.html")

		assert.NoError(t, (&CheatsheetCmd{Output: output, Local: true}).Run(ctx))
		assert.Equal(t, 0, len(editor.requests))

		html, err := os.ReadFile(output)
		assert.NoError(t, err)
		assert.Contains(t, string(html), "<table>")
	})

	t.Run("json", func(t *testing.T) {
		ctx, _, stdout, _ := newContext(t)

		assert.NoError(t, (&CheatsheetCmd{JSON: true}).Run(ctx))
		assert.Contains(t, stdout.String(), `"id": "head-and-tail"`)
	})
}

func TestLoadConfigError(t *testing.T) {
	ctx, _, _, _ := newContext(t)
	assert.NoError(t, os.WriteFile(ctx.Config, []byte("unknown: true\n"), 0644))

	err := (&ModifierCmd{Phrase: []string{"head"}}).Run(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(true)
	assert.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	logger, err = NewLogger(false)
	assert.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))
}
