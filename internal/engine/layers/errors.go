package layers

import "errors"

// Operation errors. All are reported without mutating the stack.
var (
	ErrNoSuchLayer     = errors.New("no such layer")
	ErrNoSuchComponent = errors.New("component index out of range")
	ErrNoUpperNeighbor = errors.New("no layer above")
	ErrNoLowerNeighbor = errors.New("no layer below")
	ErrSetLimit        = errors.New("layer set limit reached")
	ErrLastSet         = errors.New("cannot remove the only layer set")
	ErrNoSuchSet       = errors.New("no such layer set")
)
