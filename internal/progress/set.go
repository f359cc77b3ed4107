package progress

import (
	"encoding/json"
	"sort"
)

// Set is a set of completed lesson indices.
type Set map[int]struct{}

// NewSet returns a set holding the given indices.
func NewSet(indices ...int) Set {
	s := make(Set, len(indices))
	for _, i := range indices {
		s.Add(i)
	}
	return s
}

// Add inserts i and reports whether it was newly added.
func (s Set) Add(i int) bool {
	if _, ok := s[i]; ok {
		return false
	}
	s[i] = struct{}{}
	return true
}

func (s Set) Has(i int) bool {
	_, ok := s[i]
	return ok
}

func (s Set) Len() int { return len(s) }

// Ints returns the members in ascending order.
func (s Set) Ints() []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for i := range s {
		c[i] = struct{}{}
	}
	return c
}

// Within returns the members inside [0, n).
func (s Set) Within(n int) Set {
	c := make(Set, len(s))
	for i := range s {
		if i >= 0 && i < n {
			c[i] = struct{}{}
		}
	}
	return c
}

// Equal reports whether both sets hold the same members.
func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if !o.Has(i) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as an ascending JSON array.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Ints())
}
