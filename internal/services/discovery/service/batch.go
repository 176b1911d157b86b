package service

import (
	"context"
	"sync"
	"sync/atomic"

	"oarr/internal/platform/logger"
	"oarr/internal/services/discovery/domain"
)

// Batch probes urls with at most workers probes in flight. Results keep the input order;
// a cancelled ctx leaves the remaining entries with ctx.Err()
func (s *Service) Batch(ctx context.Context, urls []string, workers int, opts domain.Options, save bool) []domain.BatchResult {
	w := max(workers, 1)
	out := make([]domain.BatchResult, len(urls))
	var fails int64
	var wg sync.WaitGroup
	sem := make(chan struct{}, w)

	probe := func(i int) {
		defer func() { <-sem; wg.Done() }()
		res := domain.BatchResult{URL: urls[i]}
		if save {
			res.Register, res.Err = s.DiscoverAndSave(ctx, urls[i], opts)
			if res.Err == nil {
				res.ID = res.Register.ID()
			}
		} else {
			res.Register, res.Err = s.Discover(ctx, urls[i], opts)
		}
		if res.Err != nil {
			atomic.AddInt64(&fails, 1)
			logger.C(ctx).Error().Str("url", urls[i]).Err(res.Err).Msg("batch: probe failed")
		}
		out[i] = res
	}

	for i := range urls {
		select {
		case <-ctx.Done():
			for j := i; j < len(urls); j++ {
				out[j] = domain.BatchResult{URL: urls[j], Err: ctx.Err()}
			}
			wg.Wait()
			return out
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go probe(i)
	}
	wg.Wait()

	logger.C(ctx).Info().Int("probes", len(urls)).Int64("failed", atomic.LoadInt64(&fails)).Msg("batch finished")
	return out
}
