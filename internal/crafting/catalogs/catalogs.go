package catalogs

import (
	"sort"
	"strings"

	"craftlab.ai/internal/crafting/stats"
)

// ResourceClass is one entry of the resource taxonomy. Instances are built
// once by Load and shared by every reference; compare them by pointer.
type ResourceClass struct {
	id        int
	token     string
	name      string
	sortIndex int
	expected  int

	min [stats.Count]int
	max [stats.Count]int

	spaceOrRecycled bool
	spawnable       bool

	parent *ResourceClass
}

func (c *ResourceClass) ID() int            { return c.id }
func (c *ResourceClass) Token() string      { return c.token }
func (c *ResourceClass) Name() string       { return c.name }
func (c *ResourceClass) SortIndex() int     { return c.sortIndex }
func (c *ResourceClass) ExpectedStats() int { return c.expected }
func (c *ResourceClass) String() string     { return c.name }

// Parent is the more general category, nil for the root.
func (c *ResourceClass) Parent() *ResourceClass { return c.parent }

// IsSpaceOrRecycled reports a class whose stats carry no meaningful
// variation (recycled or space resources).
func (c *ResourceClass) IsSpaceOrRecycled() bool { return c.spaceOrRecycled }

// IsSpawnable reports a class that appears in the world as a concrete spawn.
func (c *ResourceClass) IsSpawnable() bool { return c.spawnable }

// Has reports whether the class constrains s.
func (c *ResourceClass) Has(s stats.Stat) bool {
	return s.Valid() && c.min[s] > 0
}

func (c *ResourceClass) Min(s stats.Stat) int {
	if !s.Valid() {
		return 0
	}
	return c.min[s]
}

func (c *ResourceClass) Max(s stats.Stat) int {
	if !s.Valid() {
		return 0
	}
	return c.max[s]
}

// Contains reports whether v fits the class: every constrained stat lies in
// [min, max] and every other stat is zero.
func (c *ResourceClass) Contains(v stats.Vector) bool {
	for _, s := range stats.All() {
		n := v.Value(s)
		if !c.Has(s) {
			if n != 0 {
				return false
			}
			continue
		}
		if n < c.min[s] || n > c.max[s] {
			return false
		}
	}
	return true
}

// IsA reports whether c is anc or one of its descendants.
func (c *ResourceClass) IsA(anc *ResourceClass) bool {
	if anc == nil {
		return false
	}
	for x := c; x != nil; x = x.parent {
		if x == anc {
			return true
		}
	}
	return false
}

// Registry is the read-only resource class taxonomy. It has no mutation API;
// all methods are safe for concurrent use.
type Registry struct {
	all      []*ResourceClass
	byID     map[int]*ResourceClass
	byToken  map[string]*ResourceClass
	byName   map[string]*ResourceClass
	children map[*ResourceClass][]*ResourceClass
	digest   string
}

func newRegistry(classes []*ResourceClass, digest string) *Registry {
	r := &Registry{
		all:      append([]*ResourceClass(nil), classes...),
		byID:     make(map[int]*ResourceClass, len(classes)),
		byToken:  make(map[string]*ResourceClass, len(classes)),
		byName:   make(map[string]*ResourceClass, len(classes)),
		children: map[*ResourceClass][]*ResourceClass{},
		digest:   digest,
	}
	sort.SliceStable(r.all, func(i, j int) bool {
		if r.all[i].sortIndex == r.all[j].sortIndex {
			return r.all[i].id < r.all[j].id
		}
		return r.all[i].sortIndex < r.all[j].sortIndex
	})
	for _, c := range r.all {
		r.byID[c.id] = c
		r.byToken[c.token] = c
		r.byName[strings.ToLower(c.name)] = c
		if c.parent != nil {
			r.children[c.parent] = append(r.children[c.parent], c)
		}
	}
	return r
}

func (r *Registry) ByID(id int) (*ResourceClass, bool) {
	c, ok := r.byID[id]
	return c, ok
}

func (r *Registry) ByToken(token string) (*ResourceClass, bool) {
	c, ok := r.byToken[strings.ToLower(strings.TrimSpace(token))]
	return c, ok
}

// ByName looks up a class by display name, case-insensitively.
func (r *Registry) ByName(name string) (*ResourceClass, bool) {
	c, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// All returns every class ordered by sort index.
func (r *Registry) All() []*ResourceClass {
	return append([]*ResourceClass(nil), r.all...)
}

func (r *Registry) Len() int { return len(r.all) }

// Digest is the sha256 of the taxonomy document the registry was built from.
func (r *Registry) Digest() string { return r.digest }

// Children returns the direct sub-classes of c in sort order.
func (r *Registry) Children(c *ResourceClass) []*ResourceClass {
	return append([]*ResourceClass(nil), r.children[c]...)
}

// Spawnable returns the spawnable classes in sort order.
func (r *Registry) Spawnable() []*ResourceClass {
	var out []*ResourceClass
	for _, c := range r.all {
		if c.spawnable {
			out = append(out, c)
		}
	}
	return out
}
