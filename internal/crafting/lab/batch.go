package lab

import (
	"context"

	"golang.org/x/sync/errgroup"

	"craftlab.ai/internal/crafting/resources"
	"craftlab.ai/internal/inventory"
)

// Job is one independent matching pass, typically one schematic.
type Job struct {
	Name      string
	Lines     []*Line
	Pool      []*resources.KnownResource
	Inventory inventory.Index
}

type Result struct {
	Job  string
	Rows []Row
}

// MatchBatch runs jobs concurrently, at most parallelism at a time, and
// returns results in job order. It stops early when ctx is canceled.
func (m *Matcher) MatchBatch(ctx context.Context, jobs []Job, parallelism int) ([]Result, error) {
	if parallelism <= 0 {
		parallelism = 1
	}
	out := make([]Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = Result{Job: job.Name, Rows: m.Match(job.Lines, job.Pool, job.Inventory)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
