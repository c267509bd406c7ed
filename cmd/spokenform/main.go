package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/shibukawa/spokenform"
	"github.com/shibukawa/spokenform/cli"
)

// Version is set at build time.
var Version = "v0.1.0"

// Arguments represents the command-line interface
type Arguments struct {
	Config     string            `help:"Configuration file path" default:"${default_config}"`
	Verbose    bool              `help:"Enable verbose output" short:"v"`
	Quiet      bool              `help:"Suppress output" short:"q"`
	Modifier   cli.ModifierCmd   `cmd:"" help:"Compile a spoken phrase into modifier JSON"`
	Command    cli.CommandCmd    `cmd:"" help:"Compile a spoken command into the editor command JSON"`
	Run        cli.RunCmd        `cmd:"" help:"Compile a spoken command and send it to the editor"`
	Find       cli.FindCmd       `cmd:"" help:"Search the editor for text"`
	Settings   cli.SettingsCmd   `cmd:"" help:"Open the extension settings"`
	Sidebar    cli.SidebarCmd    `cmd:"" help:"Show the extension sidebar"`
	History    cli.HistoryCmd    `cmd:"" help:"Analyze the recorded command history"`
	Cheatsheet cli.CheatsheetCmd `cmd:"" help:"Show the cheat sheet"`
	Version    VersionCmd        `cmd:"" help:"Show version information"`
}

// CLI holds the parsed command line
var CLI Arguments

func newParser(args *Arguments) (*kong.Kong, error) {
	return kong.New(args,
		kong.Name("spokenform"),
		kong.Description("Compile spoken phrases into editor commands."),
		kong.Vars{"default_config": spokenform.DefaultConfigFile},
	)
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run() error {
	fmt.Printf("spokenform %s\n", Version)
	return nil
}

func main() {
	parser, err := newParser(&CLI)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	logger, err := cli.NewLogger(CLI.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	appCtx := &cli.Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
		Ctx:     signalCtx,
		Logger:  logger,
	}

	err = ctx.Run(appCtx)
	if err != nil {
		stop()
		_ = logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
