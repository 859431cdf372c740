package inventory

import "craftlab.ai/internal/crafting/resources"

// Index reports how many units of a resource are in stock. ok is false when
// the resource is not stocked at all; a stocked amount may be zero.
type Index interface {
	Amount(r *resources.KnownResource) (n int64, ok bool)
}

// Map is an in-memory Index keyed by resource id.
type Map map[int64]int64

func (m Map) Amount(r *resources.KnownResource) (int64, bool) {
	if r == nil {
		return 0, false
	}
	n, ok := m[r.ID]
	if !ok || n < 0 {
		return 0, false
	}
	return n, true
}

// Func adapts a function to Index.
type Func func(r *resources.KnownResource) (int64, bool)

func (f Func) Amount(r *resources.KnownResource) (int64, bool) { return f(r) }

// Empty stocks nothing.
var Empty Index = Map(nil)
