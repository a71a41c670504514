package main

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"travel_planner/internal/domain"
)

type sweeper interface {
	SweepPublic(ctx context.Context, id int64) (int, error)
}

type sweepResult struct {
	merged int64
	failed int64
}

// leaders returns the lowest id of each destination identity. Sweeping one id
// per identity keeps two workers from merging public twins into each other.
func leaders(ds []domain.Destination) []int64 {
	sorted := append([]domain.Destination(nil), ds...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	seen := make(map[domain.DestinationKey]bool, len(sorted))
	var ids []int64
	for _, d := range sorted {
		k := d.Key()
		k = domain.DestinationKey{Name: strings.ToLower(k.Name), Type: strings.ToLower(k.Type), Country: strings.ToLower(k.Country)}
		if seen[k] {
			continue
		}
		seen[k] = true
		ids = append(ids, d.ID)
	}
	return ids
}

// sweep runs SweepPublic for each id with at most workers in flight.
func sweep(ctx context.Context, s sweeper, ids []int64, workers int) sweepResult {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg  sync.WaitGroup
		res sweepResult
	)
	for _, id := range ids {
		if ctx.Err() != nil {
			log.Warn().Err(ctx.Err()).Msg("dedupe interrupted")
			break
		}
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("dedupe interrupted")
			break
		}
		wg.Add(1)
		go func(destID int64) {
			defer wg.Done()
			defer sem.Release(1)

			n, err := s.SweepPublic(ctx, destID)
			atomic.AddInt64(&res.merged, int64(n))
			if err != nil {
				atomic.AddInt64(&res.failed, 1)
				log.Warn().Int64("id", destID).Err(err).Msg("sweep failed")
				return
			}
			if n > 0 {
				log.Info().Int64("id", destID).Int("merged", n).Msg("duplicates merged")
			}
		}(id)
	}
	wg.Wait()
	return res
}
