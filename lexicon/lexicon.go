package lexicon

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	pc "github.com/shibukawa/parsercombinator"
	tok "github.com/shibukawa/spokenform/tokenizer"
)

// Sentinel errors
var (
	ErrNoMatch           = errors.New("phrase is not in vocabulary")
	ErrInvalidVocabulary = errors.New("invalid vocabulary")
)

// Vocabulary maps spoken phrases to canonical tokens.
type Vocabulary map[string]string

// Merge returns a new vocabulary made of v followed by layers.
//
// Layers are applied in order: a later layer replaces the canonical token of a
// phrase defined earlier, and an empty canonical token removes the phrase.
// Phrases are compared after normalization. Neither v nor layers are modified.
func (v Vocabulary) Merge(layers ...Vocabulary) Vocabulary {
	result := make(Vocabulary, len(v))

	for _, layer := range append([]Vocabulary{v}, layers...) {
		for phrase, canonical := range layer {
			key := tok.Normalize(phrase)
			if canonical == "" {
				delete(result, key)
				continue
			}
			result[key] = canonical
		}
	}

	return result
}

// Lexicon is a closed vocabulary compiled into a single alternation pattern.
type Lexicon struct {
	name     string
	entries  map[string]string
	maxWords int
	whole    *regexp.Regexp
	prefix   *regexp.Regexp
}

// New compiles vocabulary into a lexicon named name. The name becomes the
// type of the parser tokens produced by Capture.
func New(name string, vocabulary Vocabulary) (*Lexicon, error) {
	l := &Lexicon{
		name:    name,
		entries: make(map[string]string, len(vocabulary)),
	}

	for phrase, canonical := range vocabulary {
		key := tok.Normalize(phrase)
		if key == "" {
			return nil, fmt.Errorf("%w: %s: phrase %q has no words", ErrInvalidVocabulary, name, phrase)
		}
		if canonical == "" {
			return nil, fmt.Errorf("%w: %s: phrase %q has no canonical token", ErrInvalidVocabulary, name, phrase)
		}
		if existing, ok := l.entries[key]; ok && existing != canonical {
			return nil, fmt.Errorf("%w: %s: phrase %q maps to both %q and %q", ErrInvalidVocabulary, name, key, existing, canonical)
		}
		l.entries[key] = canonical
		l.maxWords = max(l.maxWords, strings.Count(key, " ")+1)
	}

	if len(l.entries) == 0 {
		return l, nil
	}

	// Longest phrases first so that leftmost-first alternation prefers them.
	phrases := slices.Collect(maps.Keys(l.entries))
	slices.SortFunc(phrases, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})

	quoted := make([]string, len(phrases))
	for i, phrase := range phrases {
		quoted[i] = regexp.QuoteMeta(phrase)
	}
	alternation := strings.Join(quoted, "|")

	l.whole = regexp.MustCompile(`^(?:` + alternation + `)$`)
	l.prefix = regexp.MustCompile(`^(` + alternation + `)(?: |$)`)

	return l, nil
}

// MustNew is like New but panics on error. Intended for built-in vocabularies.
func MustNew(name string, vocabulary Vocabulary) *Lexicon {
	l, err := New(name, vocabulary)
	if err != nil {
		panic(err)
	}
	return l
}

// Name returns the lexicon name
func (l *Lexicon) Name() string {
	return l.name
}

// Len returns the number of phrases
func (l *Lexicon) Len() int {
	return len(l.entries)
}

// Match returns the canonical token for a whole phrase.
func (l *Lexicon) Match(phrase string) (string, error) {
	key := tok.Normalize(phrase)
	if l.whole == nil || !l.whole.MatchString(key) {
		return "", fmt.Errorf("%w: %s: %q", ErrNoMatch, l.name, phrase)
	}

	return l.entries[key], nil
}

// Phrases returns the normalized phrases in alphabetical order.
func (l *Lexicon) Phrases() []string {
	return slices.Sorted(maps.Keys(l.entries))
}

// Vocabulary returns a copy of the normalized vocabulary.
func (l *Lexicon) Vocabulary() Vocabulary {
	return maps.Clone(Vocabulary(l.entries))
}

// Capture returns a parser that consumes the longest vocabulary phrase at the
// head of a word stream and yields a single token: Type is the lexicon name,
// Val.Value the canonical token and Raw the spoken phrase.
func (l *Lexicon) Capture() pc.Parser[tok.Token] {
	return func(pctx *pc.ParseContext[tok.Token], tokens []pc.Token[tok.Token]) (int, []pc.Token[tok.Token], error) {
		if l.prefix == nil {
			return 0, nil, pc.ErrNotMatch
		}

		window, words := l.leadingWords(tokens)
		if len(window) == 0 {
			return 0, nil, pc.ErrNotMatch
		}

		match := l.prefix.FindStringSubmatch(strings.Join(words, " "))
		if match == nil {
			return 0, nil, pc.ErrNotMatch
		}

		phrase := match[1]

		return WordCount(phrase), []pc.Token[tok.Token]{l.captured(window[0], phrase)}, nil
	}
}

// Prefixes returns a capture for every vocabulary phrase at the head of a word
// stream, longest phrase first. Captures have the same shape as the ones
// Capture yields; WordCount tells how many tokens each one covers.
func (l *Lexicon) Prefixes(tokens []pc.Token[tok.Token]) []pc.Token[tok.Token] {
	window, words := l.leadingWords(tokens)

	var results []pc.Token[tok.Token]
	for n := len(words); n > 0; n-- {
		phrase := strings.Join(words[:n], " ")
		if _, ok := l.entries[phrase]; ok {
			results = append(results, l.captured(window[0], phrase))
		}
	}

	return results
}

// WordCount returns the number of words in a normalized phrase.
func WordCount(phrase string) int {
	return strings.Count(phrase, " ") + 1
}

// leadingWords returns the leading word tokens that could belong to a phrase,
// with their values.
func (l *Lexicon) leadingWords(tokens []pc.Token[tok.Token]) ([]pc.Token[tok.Token], []string) {
	window := tokens[:min(len(tokens), l.maxWords)]
	words := make([]string, len(window))
	for i, token := range window {
		if token.Val.Type != tok.WORD {
			return window[:i], words[:i]
		}
		words[i] = token.Val.Value
	}

	return window, words
}

func (l *Lexicon) captured(first pc.Token[tok.Token], phrase string) pc.Token[tok.Token] {
	return pc.Token[tok.Token]{
		Type: l.name,
		Pos:  first.Pos,
		Val: tok.Token{
			Type:     tok.WORD,
			Value:    l.entries[phrase],
			Position: first.Val.Position,
		},
		Raw: phrase,
	}
}

// ParserTokens wraps word tokens for the parser combinators.
func ParserTokens(tokens []tok.Token) []pc.Token[tok.Token] {
	results := make([]pc.Token[tok.Token], 0, len(tokens))

	for _, token := range tokens {
		if token.Type != tok.WORD {
			continue
		}
		results = append(results, pc.Token[tok.Token]{
			Type: "raw",
			Pos: &pc.Pos{
				Line:  1,
				Col:   token.Position.Index + 1,
				Index: token.Position.Offset,
			},
			Val: token,
			Raw: token.Value,
		})
	}

	return results
}
