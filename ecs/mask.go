package ecs

import "math/bits"

// ComponentMask is a set of up to 256 component kinds. Each row of the
// table carries one, and each system keeps one for its requirements.
type ComponentMask [4]uint64

// NewComponentMask builds a mask with the given kinds set.
func NewComponentMask(kinds ...ComponentKind) ComponentMask {
	var m ComponentMask
	for _, k := range kinds {
		m.Set(k)
	}
	return m
}

// Set enables the bit for kind.
func (m *ComponentMask) Set(kind ComponentKind) {
	m[kind>>6] |= uint64(1) << (kind & 63)
}

// Unset clears the bit for kind.
func (m *ComponentMask) Unset(kind ComponentKind) {
	m[kind>>6] &^= uint64(1) << (kind & 63)
}

// Has reports whether kind is in the mask.
func (m ComponentMask) Has(kind ComponentKind) bool {
	return m[kind>>6]&(uint64(1)<<(kind&63)) != 0
}

// Contains reports whether every kind in sub is also in m.
// An empty sub is contained in every mask.
func (m ComponentMask) Contains(sub ComponentMask) bool {
	return m[0]&sub[0] == sub[0] &&
		m[1]&sub[1] == sub[1] &&
		m[2]&sub[2] == sub[2] &&
		m[3]&sub[3] == sub[3]
}

// Intersects reports whether m and other share at least one kind.
func (m ComponentMask) Intersects(other ComponentMask) bool {
	return m[0]&other[0] != 0 ||
		m[1]&other[1] != 0 ||
		m[2]&other[2] != 0 ||
		m[3]&other[3] != 0
}

// IsEmpty reports whether no kind is set.
func (m ComponentMask) IsEmpty() bool {
	return m[0]|m[1]|m[2]|m[3] == 0
}

// Count returns the number of kinds in the mask.
func (m ComponentMask) Count() int {
	return bits.OnesCount64(m[0]) + bits.OnesCount64(m[1]) +
		bits.OnesCount64(m[2]) + bits.OnesCount64(m[3])
}

// Kinds returns the kinds in ascending order.
func (m ComponentMask) Kinds() []ComponentKind {
	kinds := make([]ComponentKind, 0, m.Count())
	for word := range m {
		w := m[word]
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			kinds = append(kinds, ComponentKind(word*64+bit))
			w &= w - 1
		}
	}
	return kinds
}
