package grammar

import (
	"errors"
	"fmt"

	pc "github.com/shibukawa/parsercombinator"
	"github.com/shibukawa/spokenform/lexicon"
	"github.com/shibukawa/spokenform/modifier"
	"github.com/shibukawa/spokenform/target"
	tok "github.com/shibukawa/spokenform/tokenizer"
)

const (
	modifierToken = "modifier"
	markToken     = "markValue"
)

// Grammar compiles spoken phrases into modifiers, targets and commands.
//
// Rules:
//
//	headTailModifier = headTail [interior] [swallowed]
//	modifier         = headTailModifier | interior | swallowed
//	target           = modifier* [mark]
//	command          = action target
//
// A head/tail modifier swallows the interior and swallowed words that follow
// it, so "tail inside" is one composed modifier rather than two.
type Grammar struct {
	vocabularies Vocabularies

	headTail  *lexicon.Lexicon
	interior  *lexicon.Lexicon
	swallowed *lexicon.Lexicon
	marks     *lexicon.Lexicon
	actions   *lexicon.Lexicon

	headTailRule pc.Parser[Entity]
	modifierRule pc.Parser[Entity]
	targetRule   pc.Parser[Entity]
	commandRule  pc.Parser[Entity]
}

// New validates the vocabularies and builds the grammar rules.
func New(v Vocabularies) (*Grammar, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}

	g := &Grammar{vocabularies: v}

	lexicons := []struct {
		dst        **lexicon.Lexicon
		name       string
		vocabulary lexicon.Vocabulary
	}{
		{&g.headTail, HeadTailList, v.HeadTail},
		{&g.interior, InteriorList, v.Interior},
		{&g.swallowed, SwallowedList, v.Swallowed},
		{&g.marks, MarkList, v.Marks},
		{&g.actions, ActionList, v.Actions},
	}

	for _, l := range lexicons {
		compiled, err := lexicon.New(l.name, l.vocabulary)
		if err != nil {
			return nil, err
		}
		*l.dst = compiled
	}

	g.build()

	return g, nil
}

// MustNew is like New but panics on error.
func MustNew(v Vocabularies) *Grammar {
	g, err := New(v)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Grammar) build() {
	interior := reduce(InteriorList, lift(g.interior.Capture()), simpleModifier)
	swallowed := reduce(SwallowedList, lift(g.swallowed.Capture()), simpleModifier)

	g.headTailRule = pc.Trace("head-tail-modifier", reduce(modifierToken,
		bestHeadTail(g.headTail, pc.Seq(pc.Optional(interior), pc.Optional(swallowed))),
		composeHeadTail,
	))

	item := pc.Or(g.headTailRule, interior, swallowed)
	g.modifierRule = pc.Seq(item, pc.ZeroOrMore("modifiers", item))

	mark := reduce(markToken, lift(g.marks.Capture()), func(src []pc.Token[Entity]) (any, error) {
		return target.Mark{Type: src[0].Val.Original.Value}, nil
	})

	g.targetRule = pc.Trace("target", pc.Seq(pc.ZeroOrMore("modifiers", item), pc.Optional(mark)))
	g.commandRule = pc.Trace("command", pc.Seq(lift(g.actions.Capture()), g.targetRule))
}

// bestHeadTail tries every head/tail phrase at the head of the stream and
// keeps the one after which slots consume the most words. Ties go to the
// longer head/tail phrase. "tail end line" with the head/tail phrase
// "tail end" and the swallowed phrase "end line" is read as "tail" followed
// by "end line".
func bestHeadTail(headTail *lexicon.Lexicon, slots pc.Parser[Entity]) pc.Parser[Entity] {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		best := 0
		var result []pc.Token[Entity]

		for _, candidate := range headTail.Prefixes(plainWords(tokens)) {
			n := lexicon.WordCount(candidate.Raw)

			consumed, filled, err := slots(pctx, tokens[n:])
			if err != nil {
				if errors.Is(err, pc.ErrNotMatch) {
					continue
				}
				return 0, nil, err
			}

			if n+consumed > best {
				best = n + consumed
				result = append([]pc.Token[Entity]{fromCapture(candidate)}, filled...)
			}
		}

		if best == 0 {
			return 0, nil, pc.ErrNotMatch
		}

		return best, result, nil
	}
}

func simpleModifier(src []pc.Token[Entity]) (any, error) {
	return modifier.Simple(src[0].Val.Original.Value), nil
}

// composeHeadTail turns the tagged slot tokens into a capture. Slots that did
// not match produced no token and stay absent.
func composeHeadTail(src []pc.Token[Entity]) (any, error) {
	capture := modifier.HeadTailCapture{HeadTail: src[0].Val.Original.Value}

	for _, t := range src[1:] {
		m, ok := t.Val.NewValue.(modifier.Modifier)
		if !ok {
			continue
		}

		switch t.Type {
		case InteriorList:
			capture.Interior = modifier.Some(m)
		case SwallowedList:
			capture.Swallowed = modifier.Some(m)
		}
	}

	return modifier.ComposeHeadTail(capture), nil
}

// Vocabularies returns the vocabularies the grammar was built from.
func (g *Grammar) Vocabularies() Vocabularies {
	return g.vocabularies
}

// ParseHeadTail parses a phrase made of exactly one head/tail modifier.
func (g *Grammar) ParseHeadTail(phrase string) (modifier.Modifier, error) {
	matched, err := g.run(g.headTailRule, phrase)
	if err != nil {
		return modifier.Modifier{}, err
	}

	return matched[0].Val.NewValue.(modifier.Modifier), nil
}

// ParseModifiers parses a phrase made of one or more modifiers.
func (g *Grammar) ParseModifiers(phrase string) ([]modifier.Modifier, error) {
	matched, err := g.run(g.modifierRule, phrase)
	if err != nil {
		return nil, err
	}

	mods, _ := collect(matched)

	return mods, nil
}

// ParseTarget parses modifiers followed by an optional mark.
func (g *Grammar) ParseTarget(phrase string) (target.Primitive, error) {
	matched, err := g.run(g.targetRule, phrase)
	if err != nil {
		return target.Primitive{}, err
	}

	mods, mark := collect(matched)

	return target.Assemble(mods, mark), nil
}

// ParseCommand parses an action followed by a target.
func (g *Grammar) ParseCommand(phrase string) (target.Command, error) {
	matched, err := g.run(g.commandRule, phrase)
	if err != nil {
		return target.Command{}, err
	}

	action := matched[0].Val.Original.Value
	mods, mark := collect(matched[1:])
	if len(mods) == 0 && mark == nil {
		return target.Command{}, fmt.Errorf("%w: %q has no target", ErrNoMatch, phrase)
	}

	return target.NewCommand(tok.Normalize(phrase), action, target.Assemble(mods, mark))
}

func (g *Grammar) run(rule pc.Parser[Entity], phrase string) ([]pc.Token[Entity], error) {
	words, err := tok.Words(phrase)
	if err != nil {
		return nil, err
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyPhrase, phrase)
	}

	tokens := wordsToEntities(words)
	pctx := pc.NewParseContext[Entity]()

	consumed, matched, err := rule(pctx, tokens)
	if err != nil {
		if errors.Is(err, pc.ErrNotMatch) {
			return nil, fmt.Errorf("%w: %q at %s", ErrNoMatch, phrase, words[0].Position)
		}
		return nil, fmt.Errorf("%w: %q: %w", ErrNoMatch, phrase, err)
	}

	if consumed < len(words) {
		w := words[consumed]
		return nil, fmt.Errorf("%w: unexpected %q at %s in %q", ErrNoMatch, w.Value, w.Position, phrase)
	}

	return matched, nil
}

func collect(matched []pc.Token[Entity]) ([]modifier.Modifier, *target.Mark) {
	var (
		mods []modifier.Modifier
		mark *target.Mark
	)

	for _, t := range matched {
		switch v := t.Val.NewValue.(type) {
		case modifier.Modifier:
			mods = append(mods, v)
		case target.Mark:
			mark = &v
		}
	}

	return mods, mark
}
