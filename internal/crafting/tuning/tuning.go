package tuning

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"craftlab.ai/internal/crafting/lab"
)

type Tuning struct {
	// ResLimit is the number of candidates listed per experiment line.
	ResLimit int `yaml:"res_limit"`
	// ClassFilter restricts candidates to the line's class and its
	// sub-classes. Off scores the whole pool for every line.
	ClassFilter bool `yaml:"class_filter"`
	Parallelism int  `yaml:"parallelism"`

	// Taxonomy overrides the embedded class taxonomy when set.
	Taxonomy    string `yaml:"taxonomy,omitempty"`
	Pool        string `yaml:"pool"`
	Schematics  string `yaml:"schematics"`
	InventoryDB string `yaml:"inventory_db"`
	LogDir      string `yaml:"log_dir"`
}

func Defaults() Tuning {
	return Tuning{
		ResLimit:    lab.DefaultLimit,
		ClassFilter: true,
		Parallelism: 4,
		Pool:        "pool.yaml",
		Schematics:  "schematics.yaml",
		InventoryDB: "data/inventory.db",
		LogDir:      "data/runs",
	}
}

// Load reads a lab.yaml file over the defaults. An empty path returns the
// defaults. Relative paths inside the file resolve against its directory.
func Load(path string) (Tuning, error) {
	t := Defaults()
	if strings.TrimSpace(path) == "" {
		t.Normalize()
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("lab.yaml: %w", err)
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("lab.yaml: %w", err)
	}
	t.resolve(filepath.Dir(path))
	return t, nil
}

// Normalize clamps values into range; the limit is never rejected.
func (t *Tuning) Normalize() {
	t.ResLimit = lab.ClampLimit(t.ResLimit)
	if t.Parallelism <= 0 {
		t.Parallelism = 1
	}
	t.Taxonomy = strings.TrimSpace(t.Taxonomy)
	t.Pool = strings.TrimSpace(t.Pool)
	t.Schematics = strings.TrimSpace(t.Schematics)
	t.InventoryDB = strings.TrimSpace(t.InventoryDB)
	t.LogDir = strings.TrimSpace(t.LogDir)
}

func (t Tuning) Validate() error {
	if t.Parallelism > 64 {
		return fmt.Errorf("parallelism %d too large", t.Parallelism)
	}
	if t.Pool == "" && t.InventoryDB == "" {
		return fmt.Errorf("need a pool or an inventory_db")
	}
	return nil
}

func (t *Tuning) resolve(dir string) {
	for _, p := range []*string{&t.Taxonomy, &t.Pool, &t.Schematics, &t.InventoryDB, &t.LogDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}
