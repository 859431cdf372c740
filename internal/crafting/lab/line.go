package lab

import (
	"fmt"
	"strings"

	"craftlab.ai/internal/crafting/catalogs"
	"craftlab.ai/internal/crafting/rating"
)

// Line is an experiment line: a target resource class and the weighting a
// recipe applies to it. Several recipe lines with the same class and weights
// collapse into one Line that carries all their names.
type Line struct {
	Names       []string
	Description string
	Class       *catalogs.ResourceClass
	Weights     rating.Weights
}

func NewLine(name string, class *catalogs.ResourceClass, w rating.Weights) (*Line, error) {
	if class == nil {
		return nil, fmt.Errorf("line %q: no resource class", name)
	}
	return &Line{Names: []string{name}, Class: class, Weights: w}, nil
}

// Name joins the names of every recipe line merged into l.
func (l *Line) Name() string { return strings.Join(l.Names, ", ") }

func (l *Line) IsLQ() bool { return l.Weights.IsLQ() }

func (l *Line) String() string {
	return fmt.Sprintf("%s [%s %s]", l.Name(), l.Class.Token(), l.Weights)
}

type lineKey struct {
	class   *catalogs.ResourceClass
	weights rating.Weights
}

func (l *Line) key() lineKey { return lineKey{class: l.Class, weights: l.Weights} }

// Merge unifies lines with identical class and weights, keeping first-seen
// order. The inputs are not modified; nil lines and lines without a class
// are dropped.
func Merge(lines []*Line) []*Line {
	index := map[lineKey]int{}
	var out []*Line
	for _, l := range lines {
		if l == nil || l.Class == nil {
			continue
		}
		i, ok := index[l.key()]
		if !ok {
			index[l.key()] = len(out)
			out = append(out, &Line{
				Names:       appendNames(nil, l.Names),
				Description: l.Description,
				Class:       l.Class,
				Weights:     l.Weights,
			})
			continue
		}
		m := out[i]
		m.Names = appendNames(m.Names, l.Names)
		if m.Description == "" {
			m.Description = l.Description
		}
	}
	return out
}

func appendNames(dst, src []string) []string {
	for _, n := range src {
		dup := false
		for _, d := range dst {
			if d == n {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, n)
		}
	}
	return dst
}
