package inventory

import (
	"testing"

	"craftlab.ai/internal/crafting/resources"
)

func TestMap(t *testing.T) {
	m := Map{1: 4, 2: 0, 3: -1}
	cases := []struct {
		id int64
		n  int64
		ok bool
	}{
		{1, 4, true},
		{2, 0, true},
		{3, 0, false},
		{9, 0, false},
	}
	for _, c := range cases {
		n, ok := m.Amount(&resources.KnownResource{ID: c.id})
		if n != c.n || ok != c.ok {
			t.Fatalf("Amount(%d) = %d,%v want %d,%v", c.id, n, ok, c.n, c.ok)
		}
	}
	if _, ok := m.Amount(nil); ok {
		t.Fatalf("nil resource reported stocked")
	}
	if _, ok := Empty.Amount(&resources.KnownResource{ID: 1}); ok {
		t.Fatalf("Empty reported stock")
	}
}

func TestFunc(t *testing.T) {
	var idx Index = Func(func(r *resources.KnownResource) (int64, bool) { return r.ID * 2, true })
	if n, ok := idx.Amount(&resources.KnownResource{ID: 21}); !ok || n != 42 {
		t.Fatalf("Func Amount = %d,%v", n, ok)
	}
}
