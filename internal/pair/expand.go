// Package pair turns validated pair sections into concrete per-collection
// sync jobs. It consumes the collections value the config loader already
// shape-checked, so every entry here is either a name or a 3-element list
// with a string alias.
package pair

import (
	"context"
	"fmt"

	"github.com/Croissong/vdirsyncer/internal/config"
	"github.com/Croissong/vdirsyncer/internal/storage"
	"github.com/zclconf/go-cty/cty"
)

// CollectionJob names one collection to sync on both sides of a pair.
type CollectionJob struct {
	Pair  string
	Alias string
	// A and B are the collection names on each side. When the config gave
	// a null for a side, the alias is used.
	A string
	B string
}

// Expand resolves a pair's collections value into concrete jobs. A null
// collections value means "everything both sides expose": both storages
// are discovered and the intersection of their collection names is used.
func Expand(ctx context.Context, p *config.PairConfig, a, b storage.Storage) ([]CollectionJob, error) {
	if p.Collections.IsNull() {
		return discoverJobs(ctx, p, a, b)
	}

	var jobs []CollectionJob
	for it := p.Collections.ElementIterator(); it.Next(); {
		_, entry := it.Element()
		jobs = append(jobs, entryJob(p.Name, entry))
	}
	return jobs, nil
}

func entryJob(pairName string, entry cty.Value) CollectionJob {
	if entry.Type() == cty.String {
		alias := entry.AsString()
		return CollectionJob{Pair: pairName, Alias: alias, A: alias, B: alias}
	}

	elems := entry.AsValueSlice()
	job := CollectionJob{Pair: pairName, Alias: elems[0].AsString()}
	job.A = sideName(elems[1], job.Alias)
	job.B = sideName(elems[2], job.Alias)
	return job
}

func sideName(v cty.Value, alias string) string {
	if v.IsNull() {
		return alias
	}
	return v.AsString()
}

func discoverJobs(ctx context.Context, p *config.PairConfig, a, b storage.Storage) ([]CollectionJob, error) {
	onA, err := a.DiscoverCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("pair %q, side a: %w", p.Name, err)
	}
	onB, err := b.DiscoverCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("pair %q, side b: %w", p.Name, err)
	}

	inB := make(map[string]struct{}, len(onB))
	for _, name := range onB {
		inB[name] = struct{}{}
	}

	var jobs []CollectionJob
	for _, name := range onA {
		if _, ok := inB[name]; !ok {
			continue
		}
		jobs = append(jobs, CollectionJob{Pair: p.Name, Alias: name, A: name, B: name})
	}
	return jobs, nil
}
