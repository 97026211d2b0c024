package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/Croissong/vdirsyncer/internal/config"
)

// check instantiates every configured storage and verifies every pair's
// a/b references. This is where dangling storage references surface; the
// config loader deliberately leaves them unchecked.
func (a *App) check(ctx context.Context, conf *config.Config) error {
	var problems []string

	for _, name := range sortedKeys(conf.Storages) {
		if _, err := a.registry.New(ctx, conf.Storages[name]); err != nil {
			problems = append(problems, fmt.Sprintf("storage %q: %v", name, err))
			continue
		}
		fmt.Fprintf(a.outW, "storage %q ok\n", name)
	}

	for _, name := range sortedKeys(conf.Pairs) {
		p := conf.Pairs[name]
		ok := true
		for side, ref := range map[string]string{"a": p.A, "b": p.B} {
			if _, exists := conf.Storages[ref]; !exists {
				problems = append(problems,
					fmt.Sprintf("pair %q: side %s references storage %q, which is not configured", name, side, ref))
				ok = false
			}
		}
		if ok {
			fmt.Fprintf(a.outW, "pair %q ok\n", name)
		}
	}

	if len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintf(a.outW, "error: %s\n", p)
		}
		return fmt.Errorf("check found %d problem(s)", len(problems))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
