package vscode

import (
	"context"
	"fmt"
	"time"

	"github.com/shibukawa/spokenform/dispatch"
	"github.com/shibukawa/spokenform/target"
)

// Editor command ids.
const (
	FindCommand           = "actions.find"
	OpenSettingsCommand   = "workbench.action.openSettings"
	SidebarCommand        = "workbench.view.extension.cursorless"
	CommandHistoryCommand = "cursorless.analyzeCommandHistory"
	CursorlessCommand     = "cursorless.command"
)

// SettingsFilter narrows the settings page to the extension.
const SettingsFilter = "@ext:pokey.cursorless "

const (
	findYield              = 50 * time.Millisecond
	settingsYield          = 250 * time.Millisecond
	settingsFilterCloseKey = "right"
)

// Actions are the editor specific voice actions.
type Actions struct {
	dispatcher *dispatch.Dispatcher
	keyboard   Keyboard
}

// NewActions binds the actions to a dispatcher and a keyboard.
func NewActions(d *dispatch.Dispatcher, keyboard Keyboard) *Actions {
	return &Actions{dispatcher: d, keyboard: keyboard}
}

// Find opens the find widget and types text into it.
func (a *Actions) Find(ctx context.Context, text string) error {
	text = a.dispatcher.LimitText(text)

	if err := a.dispatcher.RunNoWaitThenYield(ctx, findYield, FindCommand); err != nil {
		return err
	}

	if err := a.keyboard.Insert(ctx, text); err != nil {
		return fmt.Errorf("failed to type search text: %w", err)
	}

	return nil
}

// ShowSettings opens the settings page filtered to the extension and moves
// the cursor out of the filter box.
func (a *Actions) ShowSettings(ctx context.Context) error {
	if err := a.dispatcher.RunNoWaitThenYield(ctx, settingsYield, OpenSettingsCommand, SettingsFilter); err != nil {
		return err
	}

	if err := a.keyboard.Key(ctx, settingsFilterCloseKey); err != nil {
		return fmt.Errorf("failed to press %s: %w", settingsFilterCloseKey, err)
	}

	return nil
}

// ShowSidebar shows the extension sidebar.
func (a *Actions) ShowSidebar(ctx context.Context) error {
	return a.dispatcher.RunAndWait(ctx, SidebarCommand)
}

// AnalyzeCommandHistory asks the extension to summarize recorded commands.
func (a *Actions) AnalyzeCommandHistory(ctx context.Context) error {
	return a.dispatcher.RunNoWait(ctx, CommandHistoryCommand)
}

// RunCommand sends a compiled command to the extension.
func (a *Actions) RunCommand(ctx context.Context, cmd target.Command) error {
	return a.dispatcher.RunAndWait(ctx, CursorlessCommand, cmd)
}
