package grammar

import (
	"fmt"
	"slices"

	"github.com/shibukawa/spokenform/lexicon"
	"github.com/shibukawa/spokenform/modifier"
	"github.com/shibukawa/spokenform/target"
)

// Lexicon names. They are also the token types produced by the captures.
const (
	HeadTailList  = "head_tail"
	InteriorList  = "interior"
	SwallowedList = "swallowed"
	MarkList      = "mark"
	ActionList    = "action"
)

// Vocabularies holds every list the grammar is built from.
type Vocabularies struct {
	HeadTail  lexicon.Vocabulary
	Interior  lexicon.Vocabulary
	Swallowed lexicon.Vocabulary
	Marks     lexicon.Vocabulary
	Actions   lexicon.Vocabulary
}

// DefaultVocabularies returns the built-in spoken forms.
func DefaultVocabularies() Vocabularies {
	return Vocabularies{
		HeadTail: lexicon.Vocabulary{
			"head": modifier.ExtendThroughStartOf,
			"tail": modifier.ExtendThroughEndOf,
		},
		Interior: lexicon.Vocabulary{
			"inside": modifier.InteriorOnly,
			"bounds": modifier.ExcludeInterior,
		},
		Swallowed: lexicon.Vocabulary{
			"leading":  modifier.Leading,
			"trailing": modifier.Trailing,
			"just":     modifier.ToRawSelection,
		},
		Marks: lexicon.Vocabulary{
			"this":    target.MarkCursor,
			"that":    target.MarkThat,
			"source":  target.MarkSource,
			"nothing": target.MarkNothing,
		},
		Actions: lexicon.Vocabulary{
			"take":  "setSelection",
			"pre":   "setSelectionBefore",
			"post":  "setSelectionAfter",
			"chuck": "remove",
			"clear": "clearAndSetSelection",
			"copy":  "copyToClipboard",
		},
	}
}

// Merge applies layers on top of v using the lexicon merge rule, list by list.
func (v Vocabularies) Merge(layers ...Vocabularies) Vocabularies {
	result := v
	for _, layer := range layers {
		result = Vocabularies{
			HeadTail:  result.HeadTail.Merge(layer.HeadTail),
			Interior:  result.Interior.Merge(layer.Interior),
			Swallowed: result.Swallowed.Merge(layer.Swallowed),
			Marks:     result.Marks.Merge(layer.Marks),
			Actions:   result.Actions.Merge(layer.Actions),
		}
	}

	return result
}

// Lists returns the vocabularies keyed by lexicon name.
func (v Vocabularies) Lists() map[string]lexicon.Vocabulary {
	return map[string]lexicon.Vocabulary{
		HeadTailList:  v.HeadTail,
		InteriorList:  v.Interior,
		SwallowedList: v.Swallowed,
		MarkList:      v.Marks,
		ActionList:    v.Actions,
	}
}

// Validate checks that no spoken phrase belongs to two lists. In particular the
// swallowed list must not contain interior words, which are composed through
// their own slot.
func (v Vocabularies) Validate() error {
	owner := map[string]string{}
	lists := v.Lists()

	names := []string{HeadTailList, InteriorList, SwallowedList, MarkList, ActionList}
	for _, name := range names {
		if name == HeadTailList && len(lists[name]) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyVocabulary, name)
		}

		phrases := make([]string, 0, len(lists[name]))
		for phrase := range lists[name].Merge() {
			phrases = append(phrases, phrase)
		}
		slices.Sort(phrases)

		for _, phrase := range phrases {
			if other, ok := owner[phrase]; ok {
				return fmt.Errorf("%w: %q is in both %s and %s", ErrAmbiguousVocabulary, phrase, other, name)
			}
			owner[phrase] = name
		}
	}

	return nil
}
