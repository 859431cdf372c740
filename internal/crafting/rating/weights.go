package rating

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"craftlab.ai/internal/crafting/stats"
)

// Weights is a recipe's per-stat weighting. The zero value weighs nothing.
// Weights is comparable, so identical profiles compare equal with ==.
type Weights struct {
	lq bool
	w  [stats.Count]float64
}

// LQ is the low-quality sentinel: rate a material by its own class and
// ignore any HQ weighting. It is not derived from any other profile.
var LQ = Weights{lq: true}

// NewWeights builds an HQ profile. Weights must be finite and non-negative.
func NewWeights(m map[stats.Stat]float64) (Weights, error) {
	var w Weights
	for s, v := range m {
		if !s.Valid() {
			return Weights{}, fmt.Errorf("weights: invalid stat %d", int(s))
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Weights{}, fmt.Errorf("weights: %s: bad weight %v", s, v)
		}
		w.w[s] = v
	}
	return w, nil
}

// MustWeights is NewWeights for literals.
func MustWeights(m map[stats.Stat]float64) Weights {
	w, err := NewWeights(m)
	if err != nil {
		panic(err)
	}
	return w
}

func (w Weights) IsLQ() bool { return w.lq }

func (w Weights) Value(s stats.Stat) float64 {
	if w.lq || !s.Valid() {
		return 0
	}
	return w.w[s]
}

// Total is the sum of all weights; the LQ sentinel has none.
func (w Weights) Total() float64 {
	var t float64
	for _, v := range w.w {
		t += v
	}
	return t
}

// String renders the profile in game order, e.g. "OQ:67 SR:33", or "LQ".
func (w Weights) String() string {
	if w.lq {
		return "LQ"
	}
	var parts []string
	for _, s := range stats.GameOrder() {
		if v := w.w[s]; v > 0 {
			parts = append(parts, s.String()+":"+strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// ParseWeights reads the String form. Pairs may be separated by spaces or
// commas and use ':' or '='.
func ParseWeights(v string) (Weights, error) {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "LQ") {
		return LQ, nil
	}
	fields := strings.FieldsFunc(v, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })
	if len(fields) == 0 {
		return Weights{}, fmt.Errorf("weights: empty profile")
	}
	m := map[stats.Stat]float64{}
	for _, f := range fields {
		k, n, ok := strings.Cut(f, ":")
		if !ok {
			k, n, ok = strings.Cut(f, "=")
		}
		if !ok {
			return Weights{}, fmt.Errorf("weights: %q: want STAT:weight", f)
		}
		s, err := stats.Parse(k)
		if err != nil {
			return Weights{}, fmt.Errorf("weights: %w", err)
		}
		x, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return Weights{}, fmt.Errorf("weights: %s: %w", s, err)
		}
		if _, dup := m[s]; dup {
			return Weights{}, fmt.Errorf("weights: %s given twice", s)
		}
		m[s] = x
	}
	return NewWeights(m)
}
