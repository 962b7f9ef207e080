package layers

import (
	"fmt"
	"sync"
)

// MaxSets is the number of alternate layer sets a mesh can carry.
const MaxSets = 10

// Sets holds up to MaxSets alternate stacks over the same mesh, exactly one
// of which is active at a time. Switching swaps which stack subsequent
// operations see; the inactive stacks keep their contents.
type Sets struct {
	mu     sync.Mutex
	stacks []*Stack
	active int
}

// NewSets wraps an initial stack as the only, active layer set.
func NewSets(first *Stack) *Sets {
	return &Sets{stacks: []*Stack{first}}
}

// Active returns the currently bound stack.
func (s *Sets) Active() *Stack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stacks[s.active]
}

// ActiveIndex returns the 0-based index of the bound stack.
func (s *Sets) ActiveIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Count returns the number of layer sets.
func (s *Sets) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stacks)
}

// Add duplicates the active stack, contents included, appends it as a new
// set, and returns it. Adding beyond MaxSets fails.
func (s *Sets) Add() (*Stack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.stacks) >= MaxSets {
		return nil, fmt.Errorf("%w: %d sets", ErrSetLimit, len(s.stacks))
	}
	dup := s.stacks[s.active].Clone()
	s.stacks = append(s.stacks, dup)
	return dup, nil
}

// Switch binds the set at the given 0-based index.
func (s *Sets) Switch(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.stacks) {
		return fmt.Errorf("%w: %d", ErrNoSuchSet, index)
	}
	s.active = index
	return nil
}

// Remove deletes the set at the given index. A mesh always keeps at least
// one set; removing the active set binds the first remaining one.
func (s *Sets) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.stacks) {
		return fmt.Errorf("%w: %d", ErrNoSuchSet, index)
	}
	if len(s.stacks) == 1 {
		return ErrLastSet
	}
	s.stacks = append(s.stacks[:index], s.stacks[index+1:]...)
	switch {
	case s.active == index:
		s.active = 0
	case s.active > index:
		s.active--
	}
	return nil
}
