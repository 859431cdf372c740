package resources

import (
	"fmt"
	"time"

	"craftlab.ai/internal/crafting/catalogs"
	"craftlab.ai/internal/crafting/stats"
)

// KnownResource is one concrete, measured material. Instances are owned by
// the pool or inventory that produced them; the lab only reads them.
type KnownResource struct {
	ID        int64
	Name      string
	Class     *catalogs.ResourceClass
	Stats     stats.Vector
	FirstSeen time.Time
}

// Age is the time elapsed since the resource was first observed.
func (r *KnownResource) Age(now time.Time) time.Duration {
	if r.FirstSeen.IsZero() || now.Before(r.FirstSeen) {
		return 0
	}
	return now.Sub(r.FirstSeen)
}

// Validate checks the resource against its class ranges.
func (r *KnownResource) Validate() error {
	if r.Class == nil {
		return fmt.Errorf("resource %q: no class", r.Name)
	}
	for _, s := range stats.All() {
		v := r.Stats.Value(s)
		if !r.Class.Has(s) {
			if v != 0 {
				return fmt.Errorf("resource %q: %s has no %s", r.Name, r.Class.Name(), s)
			}
			continue
		}
		if v < r.Class.Min(s) || v > r.Class.Max(s) {
			return fmt.Errorf("resource %q: %s=%d outside [%d, %d]", r.Name, s, v, r.Class.Min(s), r.Class.Max(s))
		}
	}
	return nil
}

func (r *KnownResource) String() string {
	if r.Class == nil {
		return r.Name
	}
	return fmt.Sprintf("%s (%s)", r.Name, r.Class.Name())
}

// Union merges several resource sets, keeping the first occurrence of each
// id in input order and dropping nil entries. Resources without an id
// (ID <= 0) are told apart by pointer.
func Union(sets ...[]*KnownResource) []*KnownResource {
	seenID := map[int64]bool{}
	seenPtr := map[*KnownResource]bool{}
	var out []*KnownResource
	for _, set := range sets {
		for _, r := range set {
			if r == nil {
				continue
			}
			if r.ID <= 0 {
				if seenPtr[r] {
					continue
				}
				seenPtr[r] = true
			} else {
				if seenID[r.ID] {
					continue
				}
				seenID[r.ID] = true
			}
			out = append(out, r)
		}
	}
	return out
}
