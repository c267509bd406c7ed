package cheatsheet

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shibukawa/spokenform/dispatch"
	"github.com/shibukawa/spokenform/grammar"
	"github.com/shibukawa/spokenform/lexicon"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// ShowCommand is the editor command that renders a sheet.
const ShowCommand = "cursorless.showCheatsheet"

// Sheet is the document sent to the editor.
type Sheet struct {
	Sections []Section `json:"sections"`
}

type Section struct {
	Name  string `json:"name"`
	ID    string `json:"id"`
	Items []Item `json:"items"`
}

// Item groups every phrase bound to one canonical token.
type Item struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Variations []Variation `json:"variations"`
}

type Variation struct {
	SpokenForm  string `json:"spokenForm"`
	Description string `json:"description"`
}

var descriptions = map[string]string{
	"extendThroughStartOf": "Extend through start of",
	"extendThroughEndOf":   "Extend through end of",
	"interiorOnly":         "Interior only",
	"excludeInterior":      "Bounds only",
	"leading":              "Leading delimiter range",
	"trailing":             "Trailing delimiter range",
	"toRawSelection":       "Raw selection",
	"cursor":               "Current selection",
	"that":                 "Last target",
	"source":               "Source of last move",
	"nothing":              "Empty target",
	"setSelection":         "Select",
	"setSelectionBefore":   "Cursor before",
	"setSelectionAfter":    "Cursor after",
	"remove":               "Delete",
	"clearAndSetSelection": "Clear and select",
	"copyToClipboard":      "Copy",
}

// Build lays out the vocabularies in the order they are usually learned.
func Build(v grammar.Vocabularies) Sheet {
	sections := []struct {
		name       string
		id         string
		list       string
		vocabulary lexicon.Vocabulary
	}{
		{"Actions", "actions", grammar.ActionList, v.Actions},
		{"Head and tail", "head-and-tail", grammar.HeadTailList, v.HeadTail},
		{"Interior", "interior", grammar.InteriorList, v.Interior},
		{"Swallowed modifiers", "swallowed-modifiers", grammar.SwallowedList, v.Swallowed},
		{"Marks", "marks", grammar.MarkList, v.Marks},
	}

	sheet := Sheet{Sections: make([]Section, 0, len(sections))}
	for _, s := range sections {
		sheet.Sections = append(sheet.Sections, Section{
			Name:  s.name,
			ID:    s.id,
			Items: items(s.list, s.vocabulary),
		})
	}

	return sheet
}

func items(list string, v lexicon.Vocabulary) []Item {
	byID := map[string][]string{}
	for phrase, canonical := range v {
		if canonical == "" {
			continue
		}
		byID[canonical] = append(byID[canonical], phrase)
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	results := make([]Item, 0, len(ids))
	for _, id := range ids {
		phrases := byID[id]
		slices.Sort(phrases)

		item := Item{ID: id, Type: list}
		for _, phrase := range phrases {
			item.Variations = append(item.Variations, Variation{SpokenForm: phrase, Description: describe(id)})
		}
		results = append(results, item)
	}

	return results
}

func describe(id string) string {
	if d, ok := descriptions[id]; ok {
		return d
	}
	return id
}

// Show asks the editor to write the sheet as HTML to outPath.
func (s Sheet) Show(ctx context.Context, d *dispatch.Dispatcher, outPath string) error {
	return d.RunAndWait(ctx, ShowCommand, s, outPath)
}

// Markdown renders the sheet as a GFM document, one table per section.
func (s Sheet) Markdown() string {
	var b strings.Builder

	b.WriteString("# Cheat sheet\n")

	for _, section := range s.Sections {
		fmt.Fprintf(&b, "\n## %s\n\n", section.Name)

		if len(section.Items) == 0 {
			b.WriteString("_No phrases._\n")
			continue
		}

		b.WriteString("| Spoken form | Description |\n")
		b.WriteString("| --- | --- |\n")

		for _, item := range section.Items {
			for _, v := range item.Variations {
				fmt.Fprintf(&b, "| `%s` | %s |\n", escapeCell(v.SpokenForm), escapeCell(v.Description))
			}
		}
	}

	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// RenderHTML renders the sheet without the editor.
func RenderHTML(s Sheet) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(s.Markdown()), &buf); err != nil {
		return nil, fmt.Errorf("failed to render cheat sheet: %w", err)
	}

	return buf.Bytes(), nil
}
