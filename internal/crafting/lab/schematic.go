package lab

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"craftlab.ai/internal/crafting/catalogs"
	"craftlab.ai/internal/crafting/rating"
)

// Schematic is a recipe as written in a schematics file.
type Schematic struct {
	Name  string     `yaml:"name"`
	Lines []LineSpec `yaml:"lines"`
}

type LineSpec struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Class       string `yaml:"class"`
	Weights     string `yaml:"weights"`
}

type schematicsFile struct {
	Schematics []Schematic `yaml:"schematics"`
}

func LoadSchematics(path string) ([]Schematic, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSchematics(raw)
}

func ParseSchematics(raw []byte) ([]Schematic, error) {
	var f schematicsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("schematics: %w", err)
	}
	seen := map[string]bool{}
	for _, s := range f.Schematics {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, fmt.Errorf("schematics: missing name")
		}
		if seen[strings.ToLower(name)] {
			return nil, fmt.Errorf("schematics: duplicate %q", name)
		}
		seen[strings.ToLower(name)] = true
	}
	return f.Schematics, nil
}

// Find returns the schematic with the given name, case-insensitively.
func Find(list []Schematic, name string) (Schematic, bool) {
	for _, s := range list {
		if strings.EqualFold(strings.TrimSpace(s.Name), strings.TrimSpace(name)) {
			return s, true
		}
	}
	return Schematic{}, false
}

// Resolve turns every line spec into a Line. All problems are reported
// together.
func (s Schematic) Resolve(reg *catalogs.Registry) ([]*Line, error) {
	var (
		out  []*Line
		errs []error
	)
	for i, ls := range s.Lines {
		name := strings.TrimSpace(ls.Name)
		if name == "" {
			name = fmt.Sprintf("line %d", i+1)
		}
		c, ok := reg.ByToken(ls.Class)
		if !ok {
			msg := fmt.Sprintf("%s: %s: unknown class %q", s.Name, name, ls.Class)
			if hint := reg.Suggest(ls.Class, 1); len(hint) > 0 {
				msg += fmt.Sprintf(" (did you mean %q?)", hint[0].Token())
			}
			errs = append(errs, errors.New(msg))
			continue
		}
		w, err := rating.ParseWeights(ls.Weights)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %s: %w", s.Name, name, err))
			continue
		}
		l, err := NewLine(name, c, w)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		l.Description = strings.TrimSpace(ls.Description)
		out = append(out, l)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
