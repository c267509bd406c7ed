package modifier

// Slot holds the result of an optional grammar slot. The zero value is an
// absent slot, which is distinct from a slot that matched a zero value.
type Slot[T any] struct {
	value   T
	present bool
}

// Some returns a slot that matched v.
func Some[T any](v T) Slot[T] {
	return Slot[T]{value: v, present: true}
}

// None returns an unmatched slot.
func None[T any]() Slot[T] {
	return Slot[T]{}
}

// Get returns the matched value and whether the slot matched.
func (s Slot[T]) Get() (T, bool) {
	return s.value, s.present
}

// Present reports whether the slot matched.
func (s Slot[T]) Present() bool {
	return s.present
}
