package testhelper

import (
	"regexp"
	"strings"
	"testing"
)

var (
	leadingSpace = regexp.MustCompile(`^[ \t]*`)
	leadingTabs  = regexp.MustCompile(`^\t+`)
)

// TrimIndent removes the indentation of the first line from every line of a
// raw string literal and turns the remaining leading tabs into two spaces, so
// YAML and Markdown fixtures can follow the indentation of the test code.
func TrimIndent(t *testing.T, src string) string {
	t.Helper()

	lines := strings.Split(strings.TrimPrefix(src, "\n"), "\n")
	indent := leadingSpace.FindString(lines[0])

	for i, line := range lines {
		line = strings.TrimPrefix(line, indent)
		lines[i] = leadingTabs.ReplaceAllStringFunc(line, func(tabs string) string {
			return strings.Repeat("  ", len(tabs))
		})
	}

	return strings.Join(lines, "\n")
}
