package stats

import (
	"fmt"
	"strings"
)

// Stat is one of the eleven material properties. The numeric value is the
// storage index used by ranges and vectors.
type Stat int

const (
	CD Stat = iota // conductivity
	CR             // cold resistance
	DR             // decay resistance
	ER             // entangle resistance
	FL             // flavor
	HR             // heat resistance
	MA             // malleability
	OQ             // overall quality
	PE             // potential energy
	SR             // shock resistance
	UT             // unit toughness
)

// Count is the number of stats.
const Count = 11

// MaxValue is the upper bound of every stat range.
const MaxValue = 1000

var abbrevs = [Count]string{"CD", "CR", "DR", "ER", "FL", "HR", "MA", "OQ", "PE", "SR", "UT"}

var names = [Count]string{
	"Conductivity",
	"Cold Resistance",
	"Decay Resistance",
	"Entangle Resistance",
	"Flavor",
	"Heat Resistance",
	"Malleability",
	"Overall Quality",
	"Potential Energy",
	"Shock Resistance",
	"Unit Toughness",
}

var storageOrder = [Count]Stat{CD, CR, DR, ER, FL, HR, MA, OQ, PE, SR, UT}

// gameOrder is the order the stats are listed in-game and in every table.
var gameOrder = [Count]Stat{ER, CR, CD, DR, FL, HR, MA, PE, OQ, SR, UT}

// All returns the stats in storage order.
func All() []Stat {
	out := storageOrder
	return out[:]
}

// GameOrder returns the stats in the canonical display order.
func GameOrder() []Stat {
	out := gameOrder
	return out[:]
}

func (s Stat) Valid() bool { return s >= 0 && s < Count }

func (s Stat) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Stat(%d)", int(s))
	}
	return abbrevs[s]
}

// Name is the long display name, e.g. "Overall Quality".
func (s Stat) Name() string {
	if !s.Valid() {
		return s.String()
	}
	return names[s]
}

// Parse accepts an abbreviation ("OQ") or a long name ("overall quality"),
// case-insensitively.
func Parse(v string) (Stat, error) {
	v = strings.TrimSpace(v)
	for i := 0; i < Count; i++ {
		if strings.EqualFold(v, abbrevs[i]) || strings.EqualFold(v, names[i]) {
			return Stat(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stat %q", v)
}
