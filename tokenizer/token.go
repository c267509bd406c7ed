package tokenizer

import (
	"errors"
	"strconv"
)

// Sentinel errors
var (
	ErrInvalidUTF8 = errors.New("invalid UTF-8 in phrase")
)

// TokenType represents the type of a token
type TokenType int

const (
	EOF       TokenType = iota
	WORD                // spoken word
	SEPARATOR           // whitespace and punctuation between words
)

// String returns the string representation of TokenType
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case WORD:
		return "WORD"
	case SEPARATOR:
		return "SEPARATOR"
	default:
		return "UNKNOWN"
	}
}

// Position represents a position in the recognized phrase
type Position struct {
	Offset int // byte offset in the original phrase
	Index  int // word index, counted over WORD tokens only
}

// String returns the position as "word N (offset M)"
func (p Position) String() string {
	return "word " + strconv.Itoa(p.Index+1) + " (offset " + strconv.Itoa(p.Offset) + ")"
}

// Token represents a token
type Token struct {
	Type     TokenType
	Value    string
	Position Position
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + ": " + t.Value
}
