package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/shibukawa/spokenform"
	"github.com/shibukawa/spokenform/commandserver"
	"github.com/shibukawa/spokenform/dispatch"
	"github.com/shibukawa/spokenform/grammar"
	"github.com/shibukawa/spokenform/vscode"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool

	// Ctx bounds editor calls; nil means context.Background().
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger

	// Bridge and Keyboard replace the configured command server client and
	// keyboard programs when set.
	Bridge   dispatch.Bridge
	Keyboard vscode.Keyboard
}

// NewLogger builds the production logger, at debug level when verbose.
func NewLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger, nil
}

func (c *Context) ctx() context.Context {
	if c.Ctx != nil {
		return c.Ctx
	}
	return context.Background()
}

func (c *Context) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}

func (c *Context) stderr() io.Writer {
	if c.Stderr != nil {
		return c.Stderr
	}
	return os.Stderr
}

func (c *Context) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

// info prints progress on stderr in verbose mode.
func (c *Context) info(format string, args ...any) {
	if c.Verbose && !c.Quiet {
		color.New(color.FgBlue).Fprintf(c.stderr(), format+"\n", args...)
	}
}

// success prints a confirmation on stderr unless quiet.
func (c *Context) success(format string, args ...any) {
	if !c.Quiet {
		color.New(color.FgGreen).Fprintf(c.stderr(), format+"\n", args...)
	}
}

// Notify prints user notices in yellow on stderr.
func (c *Context) Notify(message string) {
	if !c.Quiet {
		color.New(color.FgYellow).Fprintln(c.stderr(), message)
	}
}

func (c *Context) loadConfig() (*spokenform.Config, error) {
	config, err := LoadConfig(c.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return config, nil
}

func (c *Context) grammar(config *spokenform.Config) (*grammar.Grammar, error) {
	g, err := grammar.New(config.Vocabularies())
	if err != nil {
		return nil, fmt.Errorf("failed to build grammar: %w", err)
	}

	return g, nil
}

func (c *Context) dispatcher(config *spokenform.Config) *dispatch.Dispatcher {
	bridge := c.Bridge
	if bridge == nil {
		bridge = commandserver.NewClient(
			commandserver.CommandTrigger{Argv: config.Bridge.Trigger},
			commandserver.WithDir(config.Bridge.Dir),
			commandserver.WithTimeout(config.Bridge.Timeout),
			commandserver.WithLogger(c.logger().Named("commandserver")),
		)
	}

	return dispatch.New(bridge,
		dispatch.WithNotifier(c),
		dispatch.WithLogger(c.logger().Named("dispatch")),
	)
}

func (c *Context) actions(config *spokenform.Config) *vscode.Actions {
	keyboard := c.Keyboard
	if keyboard == nil {
		keyboard = vscode.ExecKeyboard{
			InsertArgv: config.Keyboard.Insert,
			KeyArgv:    config.Keyboard.Key,
		}
	}

	return vscode.NewActions(c.dispatcher(config), keyboard)
}
