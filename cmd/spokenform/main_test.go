package main

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		command  string
		validate func(t *testing.T, args *Arguments)
	}{
		{
			name:    "modifier phrase",
			args:    []string{"modifier", "tail", "inside"},
			command: "modifier <phrase>",
			validate: func(t *testing.T, args *Arguments) {
				assert.Equal(t, []string{"tail", "inside"}, args.Modifier.Phrase)
				assert.Equal(t, "spokenform.yaml", args.Config)
			},
		},
		{
			name:    "global flags",
			args:    []string{"-v", "--config", "custom.yaml", "find", "hello"},
			command: "find <text>",
			validate: func(t *testing.T, args *Arguments) {
				assert.True(t, args.Verbose)
				assert.Equal(t, "custom.yaml", args.Config)
				assert.Equal(t, []string{"hello"}, args.Find.Text)
			},
		},
		{
			name:    "cheatsheet local",
			args:    []string{"cheatsheet", "--local", "-o", "sheet.html"},
			command: "cheatsheet",
			validate: func(t *testing.T, args *Arguments) {
				assert.True(t, args.Cheatsheet.Local)
				assert.Equal(t, "sheet.html", args.Cheatsheet.Output)
			},
		},
		{
			name:    "sidebar",
			args:    []string{"sidebar"},
			command: "sidebar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var args Arguments

			parser, err := newParser(&args)
			assert.NoError(t, err)

			ctx, err := parser.Parse(tt.args)
			assert.NoError(t, err)
			assert.Equal(t, tt.command, ctx.Command())

			if tt.validate != nil {
				tt.validate(t, &args)
			}
		})
	}
}

func TestParseCommandLineRequiresPhrase(t *testing.T) {
	var args Arguments

	parser, err := newParser(&args)
	assert.NoError(t, err)

	_, err = parser.Parse([]string{"modifier"})
	assert.Error(t, err)
}
