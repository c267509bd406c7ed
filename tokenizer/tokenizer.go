package tokenizer

import (
	"fmt"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// TokenIterator uses Go 1.24 iterator pattern
type TokenIterator iter.Seq2[Token, error]

// PhraseTokenizer splits a recognized phrase into words
type PhraseTokenizer struct {
	input   string
	options TokenizerOptions
}

// TokenizerOptions are options for the tokenizer
type TokenizerOptions struct {
	KeepSeparators bool
	PreserveCase   bool
}

// NewPhraseTokenizer creates a new PhraseTokenizer
func NewPhraseTokenizer(input string, options ...TokenizerOptions) *PhraseTokenizer {
	opts := TokenizerOptions{}
	if len(options) > 0 {
		opts = options[0]
	}

	return &PhraseTokenizer{
		input:   input,
		options: opts,
	}
}

// Tokens returns an iterator of tokens. The last token is always EOF.
func (t *PhraseTokenizer) Tokens() TokenIterator {
	return func(yield func(Token, error) bool) {
		if !utf8.ValidString(t.input) {
			yield(Token{}, fmt.Errorf("%w: %q", ErrInvalidUTF8, t.input))
			return
		}

		input := norm.NFC.String(t.input)
		lower := cases.Lower(language.Und)

		index := 0
		offset := 0

		for offset < len(input) {
			start := offset
			r, _ := utf8.DecodeRuneInString(input[offset:])
			word := isWordRune(r)

			for offset < len(input) {
				r, size := utf8.DecodeRuneInString(input[offset:])
				if isWordRune(r) != word {
					break
				}
				offset += size
			}

			if !word {
				if t.options.KeepSeparators {
					if !yield(Token{Type: SEPARATOR, Value: input[start:offset], Position: Position{Offset: start, Index: index}}, nil) {
						return
					}
				}
				continue
			}

			value := input[start:offset]
			if !t.options.PreserveCase {
				value = lower.String(value)
			}

			if !yield(Token{Type: WORD, Value: value, Position: Position{Offset: start, Index: index}}, nil) {
				return
			}
			index++
		}

		yield(Token{Type: EOF, Position: Position{Offset: len(input), Index: index}}, nil)
	}
}

// AllTokens gets all tokens as a slice, EOF included
func (t *PhraseTokenizer) AllTokens() ([]Token, error) {
	tokens := make([]Token, 0, 8)

	for token, err := range t.Tokens() {
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}

	return tokens, nil
}

// Words returns the WORD tokens of phrase
func Words(phrase string) ([]Token, error) {
	tokens, err := NewPhraseTokenizer(phrase).AllTokens()
	if err != nil {
		return nil, err
	}

	words := tokens[:0]
	for _, token := range tokens {
		if token.Type == WORD {
			words = append(words, token)
		}
	}

	return words, nil
}

// Normalize returns the words of phrase lower-cased and joined by a single space.
// Vocabulary phrases and recognized phrases go through the same function.
func Normalize(phrase string) string {
	words, err := Words(phrase)
	if err != nil {
		return ""
	}

	values := make([]string, len(words))
	for i, word := range words {
		values[i] = word.Value
	}

	return strings.Join(values, " ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '’'
}
