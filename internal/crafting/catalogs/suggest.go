package catalogs

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns up to n classes whose token or name is close to query,
// best match first. It is meant for "did you mean" hints after a lookup miss.
func (r *Registry) Suggest(query string, n int) []*ResourceClass {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || n <= 0 {
		return nil
	}

	type cand struct {
		c    *ResourceClass
		dist int
	}
	var cands []cand
	for _, c := range r.all {
		best := -1
		for _, key := range []string{c.token, strings.ToLower(c.name)} {
			d := levenshtein.ComputeDistance(q, key)
			if d > suggestLimit(len(key)) {
				if strings.Contains(key, q) && len(q) >= 3 {
					d = suggestLimit(len(key))
				} else {
					continue
				}
			}
			if best < 0 || d < best {
				best = d
			}
		}
		if best >= 0 {
			cands = append(cands, cand{c: c, dist: best})
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].dist == cands[j].dist {
			return cands[i].c.sortIndex < cands[j].c.sortIndex
		}
		return cands[i].dist < cands[j].dist
	})
	if len(cands) > n {
		cands = cands[:n]
	}
	out := make([]*ResourceClass, len(cands))
	for i, c := range cands {
		out[i] = c.c
	}
	return out
}

func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
