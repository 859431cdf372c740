package stats

import "testing"

func TestGameOrderIsPermutation(t *testing.T) {
	seen := map[Stat]bool{}
	for _, s := range GameOrder() {
		if !s.Valid() {
			t.Fatalf("invalid stat in game order: %d", s)
		}
		if seen[s] {
			t.Fatalf("duplicate stat in game order: %s", s)
		}
		seen[s] = true
	}
	if len(seen) != Count {
		t.Fatalf("game order covers %d stats, want %d", len(seen), Count)
	}
	if GameOrder()[0] != ER || GameOrder()[8] != OQ {
		t.Fatalf("unexpected game order: %v", GameOrder())
	}
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	a[0] = UT
	if All()[0] != CD {
		t.Fatalf("All() exposed internal state")
	}
}

func TestParse(t *testing.T) {
	cases := map[string]Stat{"OQ": OQ, "oq": OQ, " Unit Toughness ": UT, "flavor": FL}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("Parse(%q)=%s want %s", in, got, want)
		}
	}
	if _, err := Parse("XX"); err == nil {
		t.Fatalf("expected error for unknown stat")
	}
}

func TestVector(t *testing.T) {
	v := NewVector(map[Stat]int{OQ: 900, ER: 10})
	if v.Value(OQ) != 900 || v.Present() != 2 {
		t.Fatalf("unexpected vector: %v", v)
	}
	w := v.With(OQ, 1)
	if v.Value(OQ) != 900 || w.Value(OQ) != 1 {
		t.Fatalf("With must not mutate the receiver")
	}
	if got := v.String(); got != "ER=10 OQ=900" {
		t.Fatalf("String()=%q", got)
	}
	if v.Value(Stat(42)) != 0 {
		t.Fatalf("out of range stat should read 0")
	}
}

func TestParseVector(t *testing.T) {
	v, err := ParseVector(map[string]int{"DR": 500, "pe": 20})
	if err != nil {
		t.Fatalf("ParseVector: %v", err)
	}
	if v.Value(DR) != 500 || v.Value(PE) != 20 {
		t.Fatalf("unexpected vector: %v", v)
	}
	if _, err := ParseVector(map[string]int{"DR": 1001}); err == nil {
		t.Fatalf("expected range error")
	}
	if _, err := ParseVector(map[string]int{"ZZ": 1}); err == nil {
		t.Fatalf("expected unknown stat error")
	}
}
