package resources

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"craftlab.ai/internal/crafting/catalogs"
	"craftlab.ai/internal/crafting/stats"
)

func beans(t *testing.T) *catalogs.ResourceClass {
	t.Helper()
	c, ok := catalogs.Default().ByToken("yabns")
	if !ok {
		t.Fatalf("yabns missing")
	}
	return c
}

func TestValidate(t *testing.T) {
	r := &KnownResource{
		ID:    1,
		Name:  "Abaca",
		Class: beans(t),
		Stats: stats.NewVector(map[stats.Stat]int{stats.DR: 300, stats.FL: 700, stats.OQ: 950, stats.PE: 400}),
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	r.Stats = r.Stats.With(stats.UT, 10)
	if err := r.Validate(); err == nil {
		t.Fatalf("expected error for foreign stat")
	}
	r.Class = nil
	if err := r.Validate(); err == nil {
		t.Fatalf("expected error for missing class")
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	r := &KnownResource{FirstSeen: now.Add(-36 * time.Hour)}
	if got := r.Age(now); got != 36*time.Hour {
		t.Fatalf("Age=%v", got)
	}
	if got := (&KnownResource{}).Age(now); got != 0 {
		t.Fatalf("zero FirstSeen Age=%v", got)
	}
}

func TestUnion(t *testing.T) {
	a := &KnownResource{ID: 1, Name: "a"}
	b := &KnownResource{ID: 2, Name: "b"}
	b2 := &KnownResource{ID: 2, Name: "b-dup"}
	c := &KnownResource{ID: 3, Name: "c"}
	got := Union([]*KnownResource{b, nil, a}, []*KnownResource{b2, c, a})
	if len(got) != 3 || got[0] != b || got[1] != a || got[2] != c {
		t.Fatalf("Union=%v", got)
	}

	// Without ids only the same pointer is a repeat.
	x := &KnownResource{Name: "x"}
	y := &KnownResource{Name: "y"}
	z := &KnownResource{Name: "z"}
	got = Union([]*KnownResource{x, y}, []*KnownResource{z, x})
	if len(got) != 3 || got[0] != x || got[1] != y || got[2] != z {
		t.Fatalf("Union without ids=%v", got)
	}
}

const poolYAML = `
resources:
  - id: 20
    name: Ovaeti
    class: yabns
    stats: {DR: 500, FL: 800, OQ: 900, PE: 100}
    first_seen: 2026-10-01T00:00:00Z
  - id: 10
    name: Scrap
    class: snfr
    stats: {CD: 200, CR: 200, DR: 200, HR: 200, MA: 200, OQ: 200, SR: 200, UT: 200}
`

func TestParsePool(t *testing.T) {
	reg := catalogs.Default()
	pool, err := ParsePool([]byte(poolYAML), reg)
	if err != nil {
		t.Fatalf("ParsePool: %v", err)
	}
	if len(pool) != 2 || pool[0].ID != 10 || pool[1].Name != "Ovaeti" {
		t.Fatalf("unexpected pool: %v", pool)
	}
	if pool[1].FirstSeen.IsZero() {
		t.Fatalf("first_seen not parsed")
	}
	spec := Spec(pool[1])
	if spec.Class != "yabns" || spec.Stats["OQ"] != 900 || len(spec.Stats) != 4 {
		t.Fatalf("Spec=%+v", spec)
	}
}

func TestParsePool_Errors(t *testing.T) {
	reg := catalogs.Default()
	cases := map[string]string{
		"unknown class": strings.Replace(poolYAML, "class: yabns", "class: yabn", 1),
		"out of range":  strings.Replace(poolYAML, "CD: 200,", "CD: 201,", 1),
		"duplicate id":  strings.Replace(poolYAML, "id: 10", "id: 20", 1),
		"missing id":    strings.Replace(poolYAML, "id: 10", "id: 0", 1),
	}
	for name, doc := range cases {
		if _, err := ParsePool([]byte(doc), reg); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	_, err := ParsePool([]byte(strings.Replace(poolYAML, "class: yabns", "class: yabn", 1)), reg)
	if err == nil || !strings.Contains(err.Error(), "did you mean") {
		t.Fatalf("expected suggestion, got %v", err)
	}
}

func TestLoadPool(t *testing.T) {
	p := filepath.Join(t.TempDir(), "pool.yaml")
	if err := os.WriteFile(p, []byte(poolYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	pool, err := LoadPool(p, catalogs.Default())
	if err != nil {
		t.Fatalf("LoadPool: %v", err)
	}
	if len(pool) != 2 {
		t.Fatalf("len=%d", len(pool))
	}
}
