package catalogs

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"craftlab.ai/internal/crafting/stats"
)

// ErrInvalidTaxonomy wraps every load-time consistency failure.
var ErrInvalidTaxonomy = errors.New("invalid taxonomy")

//go:embed taxonomy.schema.json
var schemaJSON []byte

const schemaURL = "taxonomy.schema.json"

type taxonomyDoc struct {
	Version int        `yaml:"version"`
	Classes []classDoc `yaml:"classes"`
}

type classDoc struct {
	ID              int              `yaml:"id"`
	Token           string           `yaml:"token"`
	Name            string           `yaml:"name"`
	Parent          string           `yaml:"parent"`
	Sort            int              `yaml:"sort"`
	ExpectedStats   int              `yaml:"expected_stats"`
	Spawnable       bool             `yaml:"spawnable"`
	SpaceOrRecycled bool             `yaml:"space_or_recycled"`
	Stats           map[string][]int `yaml:"stats"`
}

type ranges struct {
	min [stats.Count]int
	max [stats.Count]int
}

// LoadFile reads a taxonomy document from disk.
func LoadFile(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(raw)
}

// Load validates a taxonomy document against its schema, flattens range
// inheritance, checks every class invariant and builds the registry.
func Load(raw []byte) (*Registry, error) {
	if err := validateSchema(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTaxonomy, err)
	}

	var doc taxonomyDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTaxonomy, err)
	}

	classes, err := build(doc.Classes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTaxonomy, err)
	}
	return newRegistry(classes, sha256Hex(raw)), nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func validateSchema(raw []byte) error {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return err
	}
	schema, err := c.Compile(schemaURL)
	if err != nil {
		return err
	}

	// The validator works on JSON values; round-trip the YAML tree.
	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return err
	}
	b, err := json.Marshal(tree)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	return schema.Validate(v)
}

func build(docs []classDoc) ([]*ResourceClass, error) {
	var problems []error
	byToken := make(map[string]classDoc, len(docs))
	seenID := map[int]string{}
	for _, d := range docs {
		if prev, ok := seenID[d.ID]; ok {
			problems = append(problems, fmt.Errorf("class %q: id %d already used by %q", d.Token, d.ID, prev))
			continue
		}
		if _, ok := byToken[d.Token]; ok {
			problems = append(problems, fmt.Errorf("class %q: duplicate token", d.Token))
			continue
		}
		seenID[d.ID] = d.Token
		byToken[d.Token] = d
	}
	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}

	flat := make(map[string]ranges, len(docs))
	var resolve func(token string, path []string) (ranges, error)
	resolve = func(token string, path []string) (ranges, error) {
		if r, ok := flat[token]; ok {
			return r, nil
		}
		for _, p := range path {
			if p == token {
				return ranges{}, fmt.Errorf("parent cycle: %s", strings.Join(append(path, token), " -> "))
			}
		}
		d := byToken[token]
		if d.Stats == nil {
			if d.Parent == "" {
				return ranges{}, fmt.Errorf("class %q: no stats and no parent to inherit from", token)
			}
			r, err := resolve(d.Parent, append(path, token))
			if err != nil {
				return ranges{}, err
			}
			flat[token] = r
			return r, nil
		}
		var r ranges
		for k, mm := range d.Stats {
			s, err := stats.Parse(k)
			if err != nil {
				return ranges{}, fmt.Errorf("class %q: %w", token, err)
			}
			if len(mm) != 2 {
				return ranges{}, fmt.Errorf("class %q: stat %s: want [min, max]", token, s)
			}
			r.min[s], r.max[s] = mm[0], mm[1]
		}
		flat[token] = r
		return r, nil
	}

	for _, d := range docs {
		if d.Parent != "" {
			if _, ok := byToken[d.Parent]; !ok {
				problems = append(problems, fmt.Errorf("class %q: unknown parent %q", d.Token, d.Parent))
				continue
			}
		}
		r, err := resolve(d.Token, nil)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		if err := checkRanges(d, r); err != nil {
			problems = append(problems, err)
		}
	}
	if err := checkCycles(byToken); err != nil {
		problems = append(problems, err)
	}
	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}

	classes := make(map[string]*ResourceClass, len(docs))
	out := make([]*ResourceClass, 0, len(docs))
	for _, d := range docs {
		r := flat[d.Token]
		c := &ResourceClass{
			id:              d.ID,
			token:           d.Token,
			name:            d.Name,
			sortIndex:       d.Sort,
			expected:        d.ExpectedStats,
			min:             r.min,
			max:             r.max,
			spaceOrRecycled: d.SpaceOrRecycled,
			spawnable:       d.Spawnable,
		}
		classes[d.Token] = c
		out = append(out, c)
	}
	for _, d := range docs {
		if d.Parent != "" {
			classes[d.Token].parent = classes[d.Parent]
		}
	}
	return out, nil
}

// checkRanges enforces 0 <= min <= max <= 1000, has(s) <=> min(s) > 0 and
// the expected stat count.
func checkRanges(d classDoc, r ranges) error {
	n := 0
	for _, s := range stats.All() {
		lo, hi := r.min[s], r.max[s]
		if lo < 0 || hi > stats.MaxValue || lo > hi {
			return fmt.Errorf("class %q: stat %s: bad range [%d, %d]", d.Token, s, lo, hi)
		}
		if lo == 0 && hi != 0 {
			return fmt.Errorf("class %q: stat %s: max %d without min", d.Token, s, hi)
		}
		if lo > 0 {
			n++
		}
	}
	if n != d.ExpectedStats {
		return fmt.Errorf("class %q: has %d stats, expected %d", d.Token, n, d.ExpectedStats)
	}
	return nil
}

// checkCycles catches parent loops among classes that carry their own stats,
// which resolve does not walk through.
func checkCycles(byToken map[string]classDoc) error {
	for token := range byToken {
		seen := map[string]bool{}
		for t := token; t != ""; t = byToken[t].Parent {
			if seen[t] {
				return fmt.Errorf("parent cycle through %q", t)
			}
			seen[t] = true
		}
	}
	return nil
}
