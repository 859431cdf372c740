package resources

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"craftlab.ai/internal/crafting/catalogs"
	"craftlab.ai/internal/crafting/stats"
)

// PoolFile is the on-disk form of a spawning pool snapshot.
type PoolFile struct {
	Resources []ResourceSpec `yaml:"resources"`
}

type ResourceSpec struct {
	ID        int64          `yaml:"id"`
	Name      string         `yaml:"name"`
	Class     string         `yaml:"class"`
	Stats     map[string]int `yaml:"stats"`
	FirstSeen time.Time      `yaml:"first_seen,omitempty"`
}

// Resolve turns the spec into a validated resource.
func (s ResourceSpec) Resolve(reg *catalogs.Registry) (*KnownResource, error) {
	c, ok := reg.ByToken(s.Class)
	if !ok {
		if hint := reg.Suggest(s.Class, 1); len(hint) > 0 {
			return nil, fmt.Errorf("resource %q: unknown class %q (did you mean %q?)", s.Name, s.Class, hint[0].Token())
		}
		return nil, fmt.Errorf("resource %q: unknown class %q", s.Name, s.Class)
	}
	v, err := stats.ParseVector(s.Stats)
	if err != nil {
		return nil, fmt.Errorf("resource %q: %w", s.Name, err)
	}
	r := &KnownResource{
		ID:        s.ID,
		Name:      strings.TrimSpace(s.Name),
		Class:     c,
		Stats:     v,
		FirstSeen: s.FirstSeen,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Spec is the inverse of Resolve.
func Spec(r *KnownResource) ResourceSpec {
	m := map[string]int{}
	for _, s := range stats.All() {
		if v := r.Stats.Value(s); v != 0 {
			m[s.String()] = v
		}
	}
	spec := ResourceSpec{ID: r.ID, Name: r.Name, Stats: m, FirstSeen: r.FirstSeen}
	if r.Class != nil {
		spec.Class = r.Class.Token()
	}
	return spec
}

// LoadPool reads a pool file. The result is ordered by id so a snapshot
// always ranks the same way.
func LoadPool(path string, reg *catalogs.Registry) ([]*KnownResource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePool(raw, reg)
}

func ParsePool(raw []byte, reg *catalogs.Registry) ([]*KnownResource, error) {
	var f PoolFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}
	out := make([]*KnownResource, 0, len(f.Resources))
	seen := map[int64]bool{}
	for _, spec := range f.Resources {
		if spec.ID <= 0 {
			return nil, fmt.Errorf("pool: resource %q: missing id", spec.Name)
		}
		if seen[spec.ID] {
			return nil, fmt.Errorf("pool: duplicate resource id %d", spec.ID)
		}
		seen[spec.ID] = true
		r, err := spec.Resolve(reg)
		if err != nil {
			return nil, fmt.Errorf("pool: %w", err)
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
