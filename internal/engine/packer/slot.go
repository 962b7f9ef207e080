package packer

import (
	"fmt"
	"strconv"
	"strings"
)

// Axis selects the U or V scalar of a UV set.
type Axis uint8

// Axis values.
const (
	AxisU Axis = iota
	AxisV
)

// String returns "U" or "V".
func (a Axis) String() string {
	if a == AxisV {
		return "V"
	}
	return "U"
}

// Slot addresses one scalar of a physical UV set, with sets numbered
// from 1.
type Slot struct {
	Set  int
	Axis Axis
}

// String returns the slot in its configuration notation, "U1" through
// "V9" for a nine-set project.
func (s Slot) String() string {
	return fmt.Sprintf("%s%d", s.Axis, s.Set)
}

// ParseSlot parses slot notation like "U1" or "v3". The set number must
// be positive; range checking against the project's set count happens
// during mapping validation.
func ParseSlot(text string) (Slot, error) {
	if len(text) < 2 {
		return Slot{}, fmt.Errorf("invalid slot %q: want an axis letter and a set number", text)
	}

	var axis Axis
	switch strings.ToUpper(text[:1]) {
	case "U":
		axis = AxisU
	case "V":
		axis = AxisV
	default:
		return Slot{}, fmt.Errorf("invalid slot %q: axis must be U or V", text)
	}

	set, err := strconv.Atoi(text[1:])
	if err != nil {
		return Slot{}, fmt.Errorf("invalid slot %q: bad set number", text)
	}
	if set < 1 {
		return Slot{}, fmt.Errorf("invalid slot %q: sets are numbered from 1", text)
	}
	return Slot{Set: set, Axis: axis}, nil
}
