package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/Croissong/vdirsyncer/internal/config"
	"github.com/Croissong/vdirsyncer/internal/pair"
)

// discover plans the collections of every pair concurrently and prints the
// resulting jobs in pair order.
func (a *App) discover(ctx context.Context, conf *config.Config) error {
	names := sortedKeys(conf.Pairs)

	var mu sync.Mutex
	jobsByPair := make(map[string][]pair.CollectionJob, len(names))

	planJobs := make([]pair.Job, 0, len(names))
	for _, name := range names {
		p := conf.Pairs[name]
		planJobs = append(planJobs, func(ctx context.Context) error {
			jobs, err := a.planPair(ctx, conf, p)
			if err != nil {
				return err
			}
			mu.Lock()
			jobsByPair[p.Name] = jobs
			mu.Unlock()
			return nil
		})
	}

	pool := pair.NewPool(a.config.MaxWorkers)
	if err := pool.Run(ctx, planJobs); err != nil {
		return err
	}

	for _, name := range names {
		fmt.Fprintf(a.outW, "pair %q:\n", name)
		for _, job := range jobsByPair[name] {
			if job.A == job.Alias && job.B == job.Alias {
				fmt.Fprintf(a.outW, "  %s\n", job.Alias)
				continue
			}
			fmt.Fprintf(a.outW, "  %s (a: %s, b: %s)\n", job.Alias, job.A, job.B)
		}
	}
	return nil
}

// planPair instantiates both storages of a pair and expands its collections.
func (a *App) planPair(ctx context.Context, conf *config.Config, p *config.PairConfig) ([]pair.CollectionJob, error) {
	sideA, ok := conf.Storages[p.A]
	if !ok {
		return nil, fmt.Errorf("pair %q: side a references storage %q, which is not configured", p.Name, p.A)
	}
	sideB, ok := conf.Storages[p.B]
	if !ok {
		return nil, fmt.Errorf("pair %q: side b references storage %q, which is not configured", p.Name, p.B)
	}

	storageA, err := a.registry.New(ctx, sideA)
	if err != nil {
		return nil, fmt.Errorf("pair %q: %w", p.Name, err)
	}
	storageB, err := a.registry.New(ctx, sideB)
	if err != nil {
		return nil, fmt.Errorf("pair %q: %w", p.Name, err)
	}

	return pair.Expand(ctx, p, storageA, storageB)
}
