package modifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Canonical tokens of the built-in vocabularies.
const (
	ExtendThroughStartOf = "extendThroughStartOf"
	ExtendThroughEndOf   = "extendThroughEndOf"
	InteriorOnly         = "interiorOnly"
	ExcludeInterior      = "excludeInterior"
	Leading              = "leading"
	Trailing             = "trailing"
	ToRawSelection       = "toRawSelection"
)

// Sentinel errors
var (
	ErrMissingType      = errors.New("modifier has no type")
	ErrInvalidModifiers = errors.New("modifier has invalid modifiers")
)

// Modifier is a structured qualifier narrowing a target.
//
// Modifiers is nil when the modifier has no sub-modifiers; the nil/non-nil
// distinction is kept through JSON so that "modifiers" is emitted only when it
// was present. Values are built once and treated as read-only afterwards.
type Modifier struct {
	Type      string
	Modifiers []Modifier
}

// HeadTailCapture is the result of matching
//
//	headTailModifier [interiorModifier] [swallowedModifier]
type HeadTailCapture struct {
	HeadTail  string
	Interior  Slot[Modifier]
	Swallowed Slot[Modifier]
}

// ComposeHeadTail builds the head/tail modifier for a capture. Sub-modifiers
// keep slot order (interior, then swallowed) and "modifiers" is left nil when
// no optional slot matched. No semantic check is made between the head/tail
// type and its sub-modifiers.
func ComposeHeadTail(c HeadTailCapture) Modifier {
	var modifiers []Modifier

	if interior, ok := c.Interior.Get(); ok {
		modifiers = append(modifiers, interior.Clone())
	}

	if swallowed, ok := c.Swallowed.Get(); ok {
		modifiers = append(modifiers, swallowed.Clone())
	}

	return Modifier{
		Type:      c.HeadTail,
		Modifiers: modifiers,
	}
}

// Simple returns a modifier without sub-modifiers.
func Simple(modifierType string) Modifier {
	return Modifier{Type: modifierType}
}

// HasModifiers reports whether the modifiers field is present.
func (m Modifier) HasModifiers() bool {
	return m.Modifiers != nil
}

// Clone returns a deep copy that shares no slices with m.
func (m Modifier) Clone() Modifier {
	clone := Modifier{Type: m.Type}
	if m.Modifiers != nil {
		clone.Modifiers = make([]Modifier, len(m.Modifiers))
		for i, sub := range m.Modifiers {
			clone.Modifiers[i] = sub.Clone()
		}
	}

	return clone
}

// Equal reports deep equality, including presence of the modifiers field.
func (m Modifier) Equal(other Modifier) bool {
	if m.Type != other.Type || (m.Modifiers == nil) != (other.Modifiers == nil) || len(m.Modifiers) != len(other.Modifiers) {
		return false
	}

	for i := range m.Modifiers {
		if !m.Modifiers[i].Equal(other.Modifiers[i]) {
			return false
		}
	}

	return true
}

// String returns the JSON form, for logs and error messages.
func (m Modifier) String() string {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Sprintf("modifier(%s)", m.Type)
	}

	return string(data)
}

type wireModifier struct {
	Type      string      `json:"type"`
	Modifiers *[]Modifier `json:"modifiers,omitempty"`
}

// MarshalJSON emits "modifiers" only when the field is present.
func (m Modifier) MarshalJSON() ([]byte, error) {
	if m.Type == "" {
		return nil, ErrMissingType
	}

	wire := wireModifier{Type: m.Type}
	if m.Modifiers != nil {
		wire.Modifiers = &m.Modifiers
	}

	return json.Marshal(wire)
}

// UnmarshalJSON keeps an absent "modifiers" key nil and a present one
// non-nil, even when it is an empty list.
func (m *Modifier) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type      string          `json:"type"`
		Modifiers json.RawMessage `json:"modifiers"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.Type == "" {
		return fmt.Errorf("%w: %s", ErrMissingType, data)
	}

	result := Modifier{Type: raw.Type}

	if raw.Modifiers != nil {
		if bytes.Equal(bytes.TrimSpace(raw.Modifiers), []byte("null")) {
			return fmt.Errorf("%w: modifiers of %q is null", ErrInvalidModifiers, raw.Type)
		}

		modifiers := []Modifier{}
		if err := json.Unmarshal(raw.Modifiers, &modifiers); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidModifiers, err)
		}
		result.Modifiers = modifiers
	}

	*m = result

	return nil
}
