package lab

import (
	"sort"

	"craftlab.ai/internal/crafting/catalogs"
	"craftlab.ai/internal/crafting/rating"
	"craftlab.ai/internal/crafting/resources"
	"craftlab.ai/internal/inventory"
)

const (
	MinLimit     = 3
	MaxLimit     = 10
	DefaultLimit = 5
)

// ClampLimit bounds the per-line candidate count to [MinLimit, MaxLimit].
func ClampLimit(n int) int {
	if n < MinLimit {
		return MinLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// Row is one output row: a line header when Resource is nil, otherwise a
// ranked candidate of Line.
type Row struct {
	Line     *Line
	Resource *resources.KnownResource
	Score    float64
	Marker   Marker
}

func (r Row) IsHeader() bool { return r.Resource == nil }

// Matcher ranks pool resources per experiment line. A Matcher holds no state
// between calls and may be shared by concurrent passes.
type Matcher struct {
	// Limit is the number of candidates kept per line; it is clamped.
	Limit int
	// Eligible restricts which pool resources are scored for a line. Nil
	// scores every resource.
	Eligible func(r *resources.KnownResource, l *Line) bool
	// Rate defaults to rating.Rate.
	Rate func(r *resources.KnownResource, target *catalogs.ResourceClass, w rating.Weights) float64
}

// ByClass admits resources of the line's class or any of its sub-classes.
func ByClass(r *resources.KnownResource, l *Line) bool {
	return r.Class != nil && r.Class.IsA(l.Class)
}

// Match ranks pool for lines with a default Matcher.
func Match(lines []*Line, pool []*resources.KnownResource, inv inventory.Index, resLimit int) []Row {
	m := Matcher{Limit: resLimit}
	return m.Match(lines, pool, inv)
}

// Match merges identical lines and, for each, emits a header row followed by
// the top candidates in descending score order. Ties go to the lower id;
// resources without an id follow in pool order. Nil entries, entries without
// a class and repeats of the same resource are ignored; a nil inventory
// stocks nothing.
func (m *Matcher) Match(lines []*Line, pool []*resources.KnownResource, inv inventory.Index) []Row {
	limit := ClampLimit(m.Limit)
	rate := m.Rate
	if rate == nil {
		rate = rating.Rate
	}
	if inv == nil {
		inv = inventory.Empty
	}
	merged := Merge(lines)
	pool = distinct(pool)

	out := make([]Row, 0, len(merged)*(limit+1))
	for _, l := range merged {
		out = append(out, Row{Line: l})

		type cand struct {
			r     *resources.KnownResource
			score float64
		}
		cands := make([]cand, 0, len(pool))
		for _, r := range pool {
			if m.Eligible != nil && !m.Eligible(r, l) {
				continue
			}
			cands = append(cands, cand{r: r, score: rate(r, l.Class, l.Weights)})
		}
		sort.SliceStable(cands, func(i, j int) bool {
			a, b := cands[i], cands[j]
			if a.score != b.score {
				return a.score > b.score
			}
			return tieBefore(a.r, b.r)
		})
		if len(cands) > limit {
			cands = cands[:limit]
		}

		scan := NewMarkerScan(l.IsLQ())
		for _, c := range cands {
			n, ok := inv.Amount(c.r)
			out = append(out, Row{
				Line:     l,
				Resource: c.r,
				Score:    c.score,
				Marker:   scan.Next(n, ok),
			})
		}
	}
	return out
}

// tieBefore orders equally rated resources: ids ascending, then resources
// without an id, which keep pool order.
func tieBefore(a, b *resources.KnownResource) bool {
	if a.ID <= 0 || b.ID <= 0 {
		return a.ID > 0 && b.ID <= 0
	}
	return a.ID < b.ID
}

// distinct drops nil and classless entries and repeats of the same
// resource, keeping first-seen order.
func distinct(pool []*resources.KnownResource) []*resources.KnownResource {
	seen := make(map[*resources.KnownResource]bool, len(pool))
	out := make([]*resources.KnownResource, 0, len(pool))
	for _, r := range pool {
		if r == nil || r.Class == nil || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

// Group splits rows into per-line slices, header first.
func Group(rows []Row) [][]Row {
	var out [][]Row
	for _, r := range rows {
		if r.IsHeader() || len(out) == 0 {
			out = append(out, []Row{r})
			continue
		}
		out[len(out)-1] = append(out[len(out)-1], r)
	}
	return out
}
