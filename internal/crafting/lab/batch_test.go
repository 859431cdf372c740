package lab

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"craftlab.ai/internal/crafting/rating"
	"craftlab.ai/internal/crafting/resources"
	"craftlab.ai/internal/inventory"
)

func TestMatchBatch(t *testing.T) {
	pool := []*resources.KnownResource{bean(t, 1, "A", 100), bean(t, 2, "B", 900)}
	var jobs []Job
	for i := 0; i < 8; i++ {
		w := oqHeavy
		if i%2 == 1 {
			w = rating.LQ
		}
		jobs = append(jobs, Job{
			Name:      fmt.Sprintf("job-%d", i),
			Lines:     []*Line{line(t, "l", "ffd", w)},
			Pool:      pool,
			Inventory: inventory.Map{2: 1},
		})
	}
	m := Matcher{Limit: 3}
	res, err := m.MatchBatch(context.Background(), jobs, 3)
	if err != nil {
		t.Fatalf("MatchBatch: %v", err)
	}
	if len(res) != len(jobs) {
		t.Fatalf("results=%d", len(res))
	}
	for i, r := range res {
		if r.Job != jobs[i].Name {
			t.Fatalf("result %d is %s", i, r.Job)
		}
		want := m.Match(jobs[i].Lines, jobs[i].Pool, jobs[i].Inventory)
		if !equalViews(view(r.Rows), view(want)) {
			t.Fatalf("%s: batch result differs from a single pass", r.Job)
		}
	}
}

func TestMatchBatch_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := Matcher{}
	_, err := m.MatchBatch(ctx, []Job{{Name: "x", Lines: []*Line{line(t, "l", "ffd", oqHeavy)}}}, 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v", err)
	}
}
