package spokenform

import "errors"

// Common errors used throughout the spokenform package
var (
	// ErrConfigValidation is returned when configuration validation fails
	ErrConfigValidation = errors.New("configuration validation failed")
	// ErrVocabularyFile indicates a vocabulary file could not be read or parsed.
	ErrVocabularyFile = errors.New("failed to load vocabulary file")
)
