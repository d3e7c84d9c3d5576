package pool

import (
	"context"
	"fmt"
	"sync"

	"docrender/internal/infrastructure/logger"
)

// FontJob asks the pool to resolve and read one font alias referenced by a
// document's element tree.
type FontJob struct {
	Alias string
	Path  string
}

// FontData is what a resolved FontJob produces: the raw bytes a
// TextMeasurer/render.Document needs to embed the font. Results are keyed
// by path, since the same file may be referenced under several aliases and
// only needs reading once downstream.
type FontData struct {
	Alias string
	Path  string
	Bytes []byte
}

// FontResolver reads one font file given its on-disk path. It's injected
// rather than hardcoded to os.ReadFile so tests can substitute an in-memory
// resolver.
type FontResolver func(path string) ([]byte, error)

// PrefetchFonts reads every font referenced by jobs concurrently using a
// bounded WorkerPool, and returns the resolved bytes keyed by path. It
// blocks until every job has been attempted; if any font failed to
// resolve, the returned error wraps the first failure but the map still
// contains every font that did succeed.
func PrefetchFonts(ctx context.Context, jobs []FontJob, poolSize int, resolve FontResolver, log logger.Logger) (map[string]FontData, error) {
	if len(jobs) == 0 {
		return map[string]FontData{}, nil
	}
	if poolSize <= 0 {
		poolSize = 1
	}
	if poolSize > len(jobs) {
		poolSize = len(jobs)
	}

	wp := NewWorkerPool(poolSize, log)

	var mu sync.Mutex
	results := make(map[string]FontData, len(jobs))
	var errs []error

	wp.Start(ctx, func(job interface{}) error {
		fj := job.(FontJob)
		data, err := resolve(fj.Path)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = append(errs, fmt.Errorf("font %q (%s): %w", fj.Alias, fj.Path, err))
			return err
		}
		results[fj.Path] = FontData{Alias: fj.Alias, Path: fj.Path, Bytes: data}
		return nil
	})

	for _, j := range jobs {
		select {
		case wp.jobs <- j:
		case <-ctx.Done():
			mu.Lock()
			errs = append(errs, fmt.Errorf("font %q: %w", j.Alias, ctx.Err()))
			mu.Unlock()
		}
	}

	wp.Stop(ctx)

	if len(errs) > 0 {
		return results, fmt.Errorf("font prefetch: %d of %d fonts failed: %w", len(errs), len(jobs), errs[0])
	}
	return results, nil
}
