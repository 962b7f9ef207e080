package layers

// Classification is the derived role of a layer at a given alpha-to-mask
// limit. Mask and Adjustment are independent: a layer holding both opaque
// and faint components reports both.
type Classification struct {
	IsMask       bool
	IsAdjustment bool
	Hidden       bool
	MaxAlpha     float32
}

// Markers returns the list annotation for the classification, a subset of
// "(H)(M)(A)". A plain visible layer yields the empty string.
func (c Classification) Markers() string {
	s := ""
	if c.Hidden {
		s += "(H)"
	}
	if c.IsMask {
		s += "(M)"
	}
	if c.IsAdjustment {
		s += "(A)"
	}
	return s
}

// Classify derives a layer's classification in one pass over its alphas.
// A component with alpha at or above limit marks the layer as a mask; a
// component with alpha strictly between zero and limit marks it as an
// adjustment. The result is computed fresh on every call.
func Classify(l *Layer, limit float32) Classification {
	cls := Classification{Hidden: !l.visible}
	for _, c := range l.colors {
		if c.A >= limit {
			cls.IsMask = true
		} else if c.A > 0 {
			cls.IsAdjustment = true
		}
		if c.A > cls.MaxAlpha {
			cls.MaxAlpha = c.A
		}
	}
	return cls
}

// ClassifyAll classifies every layer of the stack under the read lock,
// returning results in stack order.
func (s *Stack) ClassifyAll(limit float32) []Classification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Classification, len(s.layers))
	for i, l := range s.layers {
		out[i] = Classify(l, limit)
	}
	return out
}
