package grammar

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/spokenform/lexicon"
	"github.com/shibukawa/spokenform/modifier"
)

func toJSON(t *testing.T, v any) string {
	t.Helper()

	data, err := json.Marshal(v)
	assert.NoError(t, err)

	return string(data)
}

func TestParseHeadTail(t *testing.T) {
	g := MustNew(DefaultVocabularies())

	tests := []struct {
		name     string
		phrase   string
		expected string
	}{
		{
			name:     "head alone",
			phrase:   "head",
			expected: `{"type":"extendThroughStartOf"}`,
		},
		{
			name:     "tail alone",
			phrase:   "tail",
			expected: `{"type":"extendThroughEndOf"}`,
		},
		{
			name:     "tail with interior",
			phrase:   "tail inside",
			expected: `{"type":"extendThroughEndOf","modifiers":[{"type":"interiorOnly"}]}`,
		},
		{
			name:     "head with swallowed",
			phrase:   "head leading",
			expected: `{"type":"extendThroughStartOf","modifiers":[{"type":"leading"}]}`,
		},
		{
			name:     "both slots",
			phrase:   "tail bounds just",
			expected: `{"type":"extendThroughEndOf","modifiers":[{"type":"excludeInterior"},{"type":"toRawSelection"}]}`,
		},
		{
			name:     "case and punctuation are ignored",
			phrase:   "Head, Inside.",
			expected: `{"type":"extendThroughStartOf","modifiers":[{"type":"interiorOnly"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := g.ParseHeadTail(tt.phrase)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, toJSON(t, m))
		})
	}
}

func TestParseHeadTailSlotOrderIsFixed(t *testing.T) {
	g := MustNew(DefaultVocabularies())

	// swallowed before interior is not part of the head/tail rule
	_, err := g.ParseHeadTail("tail just inside")
	assert.True(t, errors.Is(err, ErrNoMatch))
	assert.Contains(t, err.Error(), `unexpected "inside"`)
}

func TestParseHeadTailErrors(t *testing.T) {
	g := MustNew(DefaultVocabularies())

	tests := []struct {
		name    string
		phrase  string
		wantErr error
	}{
		{name: "empty", phrase: "  ", wantErr: ErrEmptyPhrase},
		{name: "not a head/tail word", phrase: "inside", wantErr: ErrNoMatch},
		{name: "unknown word", phrase: "middle", wantErr: ErrNoMatch},
		{name: "trailing garbage", phrase: "head banana", wantErr: ErrNoMatch},
		{name: "two interiors", phrase: "head inside bounds", wantErr: ErrNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := g.ParseHeadTail(tt.phrase)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Equal(t, "", m.Type)
		})
	}
}

func TestNoMatchIsLexiconNoMatch(t *testing.T) {
	g := MustNew(DefaultVocabularies())

	_, err := g.ParseHeadTail("middle")
	assert.True(t, errors.Is(err, lexicon.ErrNoMatch))
}

func TestParseModifiers(t *testing.T) {
	g := MustNew(DefaultVocabularies())

	tests := []struct {
		name     string
		phrase   string
		expected string
	}{
		{
			name:     "standalone interior",
			phrase:   "inside",
			expected: `[{"type":"interiorOnly"}]`,
		},
		{
			name:     "head tail swallows following words",
			phrase:   "tail inside leading",
			expected: `[{"type":"extendThroughEndOf","modifiers":[{"type":"interiorOnly"},{"type":"leading"}]}]`,
		},
		{
			name:     "modifier before head tail stays separate",
			phrase:   "just head",
			expected: `[{"type":"toRawSelection"},{"type":"extendThroughStartOf"}]`,
		},
		{
			name:     "two head tail modifiers",
			phrase:   "head inside tail",
			expected: `[{"type":"extendThroughStartOf","modifiers":[{"type":"interiorOnly"}]},{"type":"extendThroughEndOf"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mods, err := g.ParseModifiers(tt.phrase)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, toJSON(t, mods))
		})
	}
}

func TestParseTarget(t *testing.T) {
	g := MustNew(DefaultVocabularies())

	tests := []struct {
		name     string
		phrase   string
		expected string
	}{
		{
			name:     "mark only",
			phrase:   "this",
			expected: `{"type":"primitive","mark":{"type":"cursor"}}`,
		},
		{
			name:     "modifier only",
			phrase:   "head",
			expected: `{"type":"primitive","modifiers":[{"type":"extendThroughStartOf"}]}`,
		},
		{
			name:     "modifier and mark",
			phrase:   "tail inside that",
			expected: `{"type":"primitive","mark":{"type":"that"},"modifiers":[{"type":"extendThroughEndOf","modifiers":[{"type":"interiorOnly"}]}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := g.ParseTarget(tt.phrase)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, toJSON(t, p))
		})
	}

	_, err := g.ParseTarget("that head")
	assert.True(t, errors.Is(err, ErrNoMatch))
}

func TestParseCommand(t *testing.T) {
	g := MustNew(DefaultVocabularies())

	cmd, err := g.ParseCommand("Chuck tail inside this")
	assert.NoError(t, err)
	assert.Equal(t,
		`{"version":3,"spokenForm":"chuck tail inside this","action":{"name":"remove"},"targets":[{"type":"primitive","mark":{"type":"cursor"},"modifiers":[{"type":"extendThroughEndOf","modifiers":[{"type":"interiorOnly"}]}]}],"usePrePhraseSnapshot":true}`,
		toJSON(t, cmd))

	_, err = g.ParseCommand("tail inside this")
	assert.True(t, errors.Is(err, ErrNoMatch))
}

func TestParseCommandRequiresTarget(t *testing.T) {
	g := MustNew(DefaultVocabularies())

	for _, phrase := range []string{"take", "Chuck"} {
		_, err := g.ParseCommand(phrase)
		assert.True(t, errors.Is(err, ErrNoMatch), "%s: got %v", phrase, err)
	}

	cmd, err := g.ParseCommand("take that")
	assert.NoError(t, err)
	assert.Equal(t, `[{"type":"primitive","mark":{"type":"that"}}]`, toJSON(t, cmd.Targets))
}

func TestOverlappingMultiWordPhrases(t *testing.T) {
	g := MustNew(DefaultVocabularies().Merge(Vocabularies{
		HeadTail:  lexicon.Vocabulary{"tail end": "tailEnd"},
		Swallowed: lexicon.Vocabulary{"end line": "endLine"},
	}))

	tests := []struct {
		phrase   string
		expected string
	}{
		{"tail end line", `{"type":"extendThroughEndOf","modifiers":[{"type":"endLine"}]}`},
		{"tail end just", `{"type":"tailEnd","modifiers":[{"type":"toRawSelection"}]}`},
		{"tail end", `{"type":"tailEnd"}`},
		{"tail inside end line", `{"type":"extendThroughEndOf","modifiers":[{"type":"interiorOnly"},{"type":"endLine"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			m, err := g.ParseHeadTail(tt.phrase)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, toJSON(t, m))
		})
	}

	mods, err := g.ParseModifiers("tail end line head")
	assert.NoError(t, err)
	assert.Equal(t, `[{"type":"extendThroughEndOf","modifiers":[{"type":"endLine"}]},{"type":"extendThroughStartOf"}]`, toJSON(t, mods))

	cmd, err := g.ParseCommand("take tail end line this")
	assert.NoError(t, err)
	assert.Equal(t, `[{"type":"primitive","mark":{"type":"cursor"},"modifiers":[{"type":"extendThroughEndOf","modifiers":[{"type":"endLine"}]}]}]`, toJSON(t, cmd.Targets))
}

func TestCustomVocabulary(t *testing.T) {
	v := DefaultVocabularies().Merge(Vocabularies{
		HeadTail:  lexicon.Vocabulary{"top": modifier.ExtendThroughStartOf, "head": ""},
		Swallowed: lexicon.Vocabulary{"just the": modifier.ToRawSelection},
	})
	g := MustNew(v)

	m, err := g.ParseHeadTail("top just the")
	assert.NoError(t, err)
	assert.Equal(t, `{"type":"extendThroughStartOf","modifiers":[{"type":"toRawSelection"}]}`, toJSON(t, m))

	_, err = g.ParseHeadTail("head")
	assert.True(t, errors.Is(err, ErrNoMatch))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		layer   Vocabularies
		wantErr error
	}{
		{
			name:    "interior word in swallowed list",
			layer:   Vocabularies{Swallowed: lexicon.Vocabulary{"inside": modifier.InteriorOnly}},
			wantErr: ErrAmbiguousVocabulary,
		},
		{
			name:    "mark shadowing a head tail word",
			layer:   Vocabularies{Marks: lexicon.Vocabulary{"Tail": "cursor"}},
			wantErr: ErrAmbiguousVocabulary,
		},
		{
			name:    "empty head tail list",
			layer:   Vocabularies{HeadTail: lexicon.Vocabulary{"head": "", "tail": ""}},
			wantErr: ErrEmptyVocabulary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(DefaultVocabularies().Merge(tt.layer))
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	assert.NoError(t, DefaultVocabularies().Validate())
}
