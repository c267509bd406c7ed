package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shibukawa/spokenform/cheatsheet"
)

var ErrEmptyText = errors.New("search text is empty")

// ModifierCmd compiles a phrase into modifier JSON
type ModifierCmd struct {
	Phrase []string `arg:"" help:"Spoken phrase, e.g. \"tail inside\""`
	All    bool     `short:"a" help:"Accept any sequence of modifiers instead of a single head/tail modifier"`
	Indent bool     `help:"Indent the JSON output"`
}

func (m *ModifierCmd) Run(ctx *Context) error {
	config, err := ctx.loadConfig()
	if err != nil {
		return err
	}

	g, err := ctx.grammar(config)
	if err != nil {
		return err
	}

	phrase := strings.Join(m.Phrase, " ")
	ctx.info("Compiling %q", phrase)

	if m.All {
		mods, err := g.ParseModifiers(phrase)
		if err != nil {
			return err
		}
		return writeJSON(ctx, mods, m.Indent)
	}

	mod, err := g.ParseHeadTail(phrase)
	if err != nil {
		return err
	}

	return writeJSON(ctx, mod, m.Indent)
}

// CommandCmd compiles a phrase into the command object sent to the editor
type CommandCmd struct {
	Phrase []string `arg:"" help:"Spoken command, e.g. \"chuck tail inside this\""`
	Indent bool     `help:"Indent the JSON output"`
}

func (c *CommandCmd) Run(ctx *Context) error {
	config, err := ctx.loadConfig()
	if err != nil {
		return err
	}

	g, err := ctx.grammar(config)
	if err != nil {
		return err
	}

	cmd, err := g.ParseCommand(strings.Join(c.Phrase, " "))
	if err != nil {
		return err
	}

	return writeJSON(ctx, cmd, c.Indent)
}

// RunCmd compiles a phrase and sends it to the editor
type RunCmd struct {
	Phrase []string `arg:"" help:"Spoken command"`
}

func (r *RunCmd) Run(ctx *Context) error {
	config, err := ctx.loadConfig()
	if err != nil {
		return err
	}

	g, err := ctx.grammar(config)
	if err != nil {
		return err
	}

	cmd, err := g.ParseCommand(strings.Join(r.Phrase, " "))
	if err != nil {
		return err
	}

	ctx.info("Sending %q", cmd.SpokenForm)

	if err := ctx.actions(config).RunCommand(ctx.ctx(), cmd); err != nil {
		return err
	}

	ctx.success("Sent %q", cmd.SpokenForm)

	return nil
}

// FindCmd searches the editor for text
type FindCmd struct {
	Text []string `arg:"" help:"Text to search for"`
}

func (f *FindCmd) Run(ctx *Context) error {
	text := strings.Join(f.Text, " ")
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}

	config, err := ctx.loadConfig()
	if err != nil {
		return err
	}

	return ctx.actions(config).Find(ctx.ctx(), text)
}

// SettingsCmd opens the extension settings
type SettingsCmd struct{}

func (s *SettingsCmd) Run(ctx *Context) error {
	config, err := ctx.loadConfig()
	if err != nil {
		return err
	}

	return ctx.actions(config).ShowSettings(ctx.ctx())
}

// SidebarCmd shows the extension sidebar
type SidebarCmd struct{}

func (s *SidebarCmd) Run(ctx *Context) error {
	config, err := ctx.loadConfig()
	if err != nil {
		return err
	}

	return ctx.actions(config).ShowSidebar(ctx.ctx())
}

// HistoryCmd analyzes the recorded command history
type HistoryCmd struct{}

func (h *HistoryCmd) Run(ctx *Context) error {
	config, err := ctx.loadConfig()
	if err != nil {
		return err
	}

	return ctx.actions(config).AnalyzeCommandHistory(ctx.ctx())
}

// CheatsheetCmd shows or renders the cheat sheet
type CheatsheetCmd struct {
	Output string `short:"o" help:"Output HTML file (default: cheatsheet.output from config)"`
	Local  bool   `help:"Render the HTML locally instead of asking the editor"`
	JSON   bool   `help:"Print the cheat sheet JSON and exit"`
}

func (c *CheatsheetCmd) Run(ctx *Context) error {
	config, err := ctx.loadConfig()
	if err != nil {
		return err
	}

	sheet := cheatsheet.Build(config.Vocabularies())

	if c.JSON {
		return writeJSON(ctx, sheet, true)
	}

	output := c.Output
	if output == "" {
		output = config.Cheatsheet.Output
	}

	if !c.Local {
		if err := sheet.Show(ctx.ctx(), ctx.dispatcher(config), output); err != nil {
			return err
		}
		ctx.success("Cheat sheet written to %s", output)
		return nil
	}

	html, err := cheatsheet.RenderHTML(sheet)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(output, html, 0o644); err != nil {
		return fmt.Errorf("failed to write cheat sheet: %w", err)
	}

	ctx.success("Cheat sheet written to %s", output)

	return nil
}

func writeJSON(ctx *Context, v any, indent bool) error {
	encoder := json.NewEncoder(ctx.stdout())
	if indent {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}

	return nil
}
