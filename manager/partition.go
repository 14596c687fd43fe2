package manager

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/solverforge/solverforge/director"
	"github.com/solverforge/solverforge/score"
)

// Partition is one independently solvable sub-problem: its own director
// over a disjoint slice of the working solution, with no variable or
// constraint shared with any other partition (spec.md §4.6 "partitioned
// search" — correctness depends entirely on that disjointness, which the
// caller building Partitions must guarantee).
type Partition struct {
	Director     *director.ScoreDirector
	Construction MoveProvider
	Search       MoveProvider
	Config       Config
}

// SolvePartitioned runs every partition concurrently via errgroup, each
// through its own Manager, and combines their best scores by Score.Add —
// valid because partitions share no constraint, so each contributes an
// independent, summable component of the overall score.
func SolvePartitioned(ctx context.Context, zero score.Score, partitions []Partition) (score.Score, error) {
	results := make([]score.Score, len(partitions))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range partitions {
		i, p := i, p
		g.Go(func() error {
			mgr := New(p.Director, p.Config)
			done := make(chan struct{})
			defer close(done)
			go drainEvents(ctx, done, mgr)
			results[i] = mgr.Solve(p.Construction, p.Search)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	total := zero
	for _, r := range results {
		if r != nil {
			total = total.Add(r)
		}
	}
	return total, nil
}

// drainEvents discards a partition's best-solution and termination events;
// nothing else reads them (Manager.send never blocks, so draining is not
// needed for progress). Callers that want per-partition streaming should
// call Manager.Solve directly instead of SolvePartitioned.
func drainEvents(ctx context.Context, done <-chan struct{}, mgr *Manager) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case _, ok := <-mgr.Events():
			if !ok {
				return
			}
		}
	}
}
