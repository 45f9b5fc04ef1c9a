package vault

import "sync"

// Slot is a shared, mutable, write-once cell used to build the cyclic
// block graph (spec §4.3, §9): allocate an empty Slot for every block
// location in a first pass, hand out cheap clones (a Slot is backed by a
// pointer) to everyone who needs a back-edge, then Set each slot once its
// block is fully constructed in a second pass.
//
// Grounded on original_source/crates/parsing/src/slot.rs, translated from
// Rust's Arc<RwLock<SlotState<T>>> into the Go idiom for a write-once
// cell: a mutex-guarded optional value plus a bool discriminant, instead
// of an enum. After vault construction completes every Slot must be Set;
// reading an unset Slot is the fatal "integrity" error class of spec §7.
type Slot[T any] struct {
	mu  sync.RWMutex
	set bool
	val T
}

// NewEmptySlot allocates an unset slot (pass one of the two-pass build).
func NewEmptySlot[T any]() *Slot[T] {
	return &Slot[T]{}
}

// NewSlot allocates an already-set slot, for leaf values that need no
// deferred initialization.
func NewSlot[T any](v T) *Slot[T] {
	return &Slot[T]{set: true, val: v}
}

// Set fills the slot (pass two). It is an integrity error to Set a slot
// twice — each block location is populated exactly once.
func (s *Slot[T]) Set(v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set {
		return ErrSlotAlreadySet
	}
	s.val = v
	s.set = true
	return nil
}

// IsSet reports whether the slot has been populated.
func (s *Slot[T]) IsSet() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set
}

// Read returns the slot's value. It returns ErrSlotUnset if called before
// Set — per spec §7 this must never happen after vault construction
// completes, and is a fatal (not user-visible) error when it does.
func (s *Slot[T]) Read() (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		var zero T
		return zero, ErrSlotUnset
	}
	return s.val, nil
}

// MustRead is Read, panicking on an unset slot. Used only at call sites
// that run strictly after construction has completed and therefore treat
// an unset slot as an unrecoverable invariant violation (spec §7).
func (s *Slot[T]) MustRead() T {
	v, err := s.Read()
	if err != nil {
		panic(err)
	}
	return v
}
