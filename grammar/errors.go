package grammar

import (
	"errors"

	"github.com/shibukawa/spokenform/lexicon"
)

// Sentinel errors
var (
	// ErrNoMatch is returned when a phrase is not accepted by a rule. It is the
	// lexicon error so callers can test for either with errors.Is.
	ErrNoMatch = lexicon.ErrNoMatch
	// ErrEmptyPhrase is returned when a phrase has no words.
	ErrEmptyPhrase = errors.New("phrase has no words")
	// ErrAmbiguousVocabulary is returned when a phrase belongs to more than one list.
	ErrAmbiguousVocabulary = errors.New("phrase is registered in more than one list")
	// ErrEmptyVocabulary is returned when a required list has no phrases.
	ErrEmptyVocabulary = errors.New("required vocabulary list is empty")
)
