package rating

import (
	"craftlab.ai/internal/crafting/catalogs"
	"craftlab.ai/internal/crafting/resources"
	"craftlab.ai/internal/crafting/stats"
)

// Scale is the rating of a material that sits at every weighted cap. Ratings
// share the 0..1000 range of stat values.
const Scale = 1000.0

// SpaceOrRecycledLQ is the fixed LQ rating of space and recycled materials.
const SpaceOrRecycledLQ = 200.0

// Rate scores r for a recipe line targeting class target with weights w.
//
// HQ profiles rate against target's caps over the stats target constrains.
// The LQ profile rates against r's own class with uniform weights, except for
// space and recycled materials, which always rate SpaceOrRecycledLQ.
func Rate(r *resources.KnownResource, target *catalogs.ResourceClass, w Weights) float64 {
	if r == nil || r.Class == nil {
		return 0
	}
	if w.IsLQ() {
		if r.Class.IsSpaceOrRecycled() {
			return SpaceOrRecycledLQ
		}
		return rateAgainst(r.Stats, r.Class, classWeights(r.Class))
	}
	if target == nil {
		return 0
	}
	return rateAgainst(r.Stats, target, w.w)
}

func classWeights(c *catalogs.ResourceClass) [stats.Count]float64 {
	var w [stats.Count]float64
	for _, s := range stats.All() {
		if c.Has(s) {
			w[s] = 1
		}
	}
	return w
}

func rateAgainst(v stats.Vector, caps *catalogs.ResourceClass, w [stats.Count]float64) float64 {
	var total, sum float64
	for _, s := range stats.All() {
		ws := w[s]
		if ws <= 0 {
			continue
		}
		total += ws
		if !caps.Has(s) {
			continue
		}
		max := caps.Max(s)
		if max <= 0 {
			continue
		}
		sum += ws * float64(v.Value(s)) / float64(max)
	}
	if total <= 0 {
		return 0
	}
	return Scale * sum / total
}
