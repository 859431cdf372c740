package stats

import (
	"fmt"
	"strings"
)

// Vector holds one measured value per stat, indexed by Stat. A zero value
// means the stat is not present.
type Vector [Count]int

// NewVector builds a vector from stat/value pairs.
func NewVector(values map[Stat]int) Vector {
	var v Vector
	for s, n := range values {
		if s.Valid() {
			v[s] = n
		}
	}
	return v
}

func (v Vector) Value(s Stat) int {
	if !s.Valid() {
		return 0
	}
	return v[s]
}

// With returns a copy of v with s set to n.
func (v Vector) With(s Stat, n int) Vector {
	if s.Valid() {
		v[s] = n
	}
	return v
}

// Present counts the non-zero stats.
func (v Vector) Present() int {
	n := 0
	for _, x := range v {
		if x > 0 {
			n++
		}
	}
	return n
}

// String renders the present stats in game order, e.g. "OQ=900 SR=350".
func (v Vector) String() string {
	var b strings.Builder
	for _, s := range gameOrder {
		if v[s] == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%d", s, v[s])
	}
	return b.String()
}

// ParseVector reads a map keyed by stat abbreviation, as found in pool files.
func ParseVector(m map[string]int) (Vector, error) {
	var v Vector
	for k, n := range m {
		s, err := Parse(k)
		if err != nil {
			return v, err
		}
		if n < 0 || n > MaxValue {
			return v, fmt.Errorf("stat %s: value %d out of range", s, n)
		}
		v[s] = n
	}
	return v, nil
}
