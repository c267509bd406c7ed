package grammar

import (
	"strings"

	pc "github.com/shibukawa/parsercombinator"
	"github.com/shibukawa/spokenform/lexicon"
	tok "github.com/shibukawa/spokenform/tokenizer"
)

// Entity is the value carried by grammar tokens.
type Entity struct {
	Original tok.Token // first word of the match; Value holds the canonical token for captures
	NewValue any       // reduced value (modifier.Modifier, target.Mark, ...); nil for plain words and captures
}

func wordsToEntities(words []tok.Token) []pc.Token[Entity] {
	wrapped := lexicon.ParserTokens(words)
	results := make([]pc.Token[Entity], len(wrapped))

	for i, w := range wrapped {
		results[i] = pc.Token[Entity]{
			Type: w.Type,
			Pos:  w.Pos,
			Val:  Entity{Original: w.Val},
			Raw:  w.Raw,
		}
	}

	return results
}

// lift runs a word level capture on the leading plain words of an entity stream.
func lift(capture pc.Parser[tok.Token]) pc.Parser[Entity] {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		consumed, matched, err := capture(pc.NewParseContext[tok.Token](), plainWords(tokens))
		if err != nil {
			return 0, nil, err
		}

		results := make([]pc.Token[Entity], len(matched))
		for i, m := range matched {
			results[i] = fromCapture(m)
		}

		return consumed, results, nil
	}
}

func plainWords(tokens []pc.Token[Entity]) []pc.Token[tok.Token] {
	words := make([]pc.Token[tok.Token], 0, len(tokens))
	for _, t := range tokens {
		if t.Val.NewValue != nil || t.Val.Original.Type != tok.WORD {
			break
		}
		words = append(words, pc.Token[tok.Token]{Type: t.Type, Pos: t.Pos, Val: t.Val.Original, Raw: t.Raw})
	}
	return words
}

func fromCapture(m pc.Token[tok.Token]) pc.Token[Entity] {
	return pc.Token[Entity]{Type: m.Type, Pos: m.Pos, Val: Entity{Original: m.Val}, Raw: m.Raw}
}

// reduce replaces the matched tokens by a single token of the given type
// whose value is built from them.
func reduce(typeName string, p pc.Parser[Entity], build func(src []pc.Token[Entity]) (any, error)) pc.Parser[Entity] {
	return pc.Trans(p, func(pctx *pc.ParseContext[Entity], src []pc.Token[Entity]) ([]pc.Token[Entity], error) {
		if len(src) == 0 {
			return nil, pc.ErrNotMatch
		}

		value, err := build(src)
		if err != nil {
			return nil, err
		}

		raws := make([]string, len(src))
		for i, s := range src {
			raws[i] = s.Raw
		}

		return []pc.Token[Entity]{{
			Type: typeName,
			Pos:  src[0].Pos,
			Val:  Entity{Original: src[0].Val.Original, NewValue: value},
			Raw:  strings.Join(raws, " "),
		}}, nil
	})
}
