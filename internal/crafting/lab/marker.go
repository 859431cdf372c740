package lab

import "strconv"

type MarkerKind uint8

const (
	// MarkerNone is carried by header rows.
	MarkerNone MarkerKind = iota
	// MarkerStocked: the resource is in inventory.
	MarkerStocked
	// MarkerSuperiorFirst: not in inventory and ranked above anything that is.
	MarkerSuperiorFirst
	// MarkerSuperiorOther: not in inventory and not distinguished, or any
	// absent resource on an LQ line.
	MarkerSuperiorOther
)

// Marker annotates a ranked resource with its inventory status.
type Marker struct {
	kind   MarkerKind
	amount int64
}

func Stocked(n int64) Marker { return Marker{kind: MarkerStocked, amount: n} }

var (
	SuperiorFirst = Marker{kind: MarkerSuperiorFirst}
	SuperiorOther = Marker{kind: MarkerSuperiorOther}
)

func (m Marker) Kind() MarkerKind { return m.kind }

// Amount is the stocked amount; ok is false for every other kind.
func (m Marker) Amount() (n int64, ok bool) {
	if m.kind != MarkerStocked {
		return 0, false
	}
	return m.amount, true
}

// Int is the legacy signed encoding: the amount when stocked, -1 for
// superior-first and -2 otherwise.
func (m Marker) Int() int64 {
	switch m.kind {
	case MarkerStocked:
		return m.amount
	case MarkerSuperiorFirst:
		return -1
	default:
		return -2
	}
}

// Highlighted reports whether a table should emphasize the row.
func (m Marker) Highlighted() bool {
	return m.kind == MarkerStocked || m.kind == MarkerSuperiorFirst
}

func (m Marker) String() string {
	switch m.kind {
	case MarkerStocked:
		return strconv.FormatInt(m.amount, 10)
	case MarkerSuperiorFirst:
		return "best"
	case MarkerSuperiorOther:
		return "-"
	default:
		return ""
	}
}

// MarkerScan assigns markers to one line's candidates in rank order. Before
// anything has been seen the first absent candidate is SuperiorFirst; a
// stocked candidate or a SuperiorFirst marks the scan as seen and every later
// absent candidate is SuperiorOther. LQ scans start out seen.
type MarkerScan struct {
	seen bool
}

func NewMarkerScan(lq bool) *MarkerScan { return &MarkerScan{seen: lq} }

func (s *MarkerScan) Next(amount int64, stocked bool) Marker {
	if stocked && amount >= 0 {
		s.seen = true
		return Stocked(amount)
	}
	if s.seen {
		return SuperiorOther
	}
	s.seen = true
	return SuperiorFirst
}
