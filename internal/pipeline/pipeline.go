// Package pipeline orchestrates the source adapters and turns their raw
// output into one ranked result set.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/avetisov/jobradar/internal/dedup"
	"github.com/avetisov/jobradar/internal/listing"
	"github.com/avetisov/jobradar/internal/profile"
	"github.com/avetisov/jobradar/internal/score"
	"github.com/avetisov/jobradar/internal/source"
)

// Pipeline runs every registered adapter, merges their output in
// registration order, deduplicates, scores, and sorts.
type Pipeline struct {
	adapters []source.Adapter
	logger   *zap.Logger
}

func New(logger *zap.Logger, adapters ...source.Adapter) *Pipeline {
	return &Pipeline{
		adapters: adapters,
		logger:   logger,
	}
}

// fetchResult is one adapter's privately owned output. The slot index
// restores registration order after concurrent completion.
type fetchResult struct {
	items   []listing.Listing
	outcome source.Outcome
}

// Run executes one search. Adapter failures only degrade result
// quality; the only error conditions are contract violations such as a
// nil profile. The passed context bounds the whole run: on expiry
// adapters stop issuing new requests and whatever has completed is
// scored and returned.
func (p *Pipeline) Run(ctx context.Context, prof *profile.Profile) (*listing.RankedResult, error) {
	if err := prof.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	results := make([]fetchResult, len(p.adapters))

	var wg sync.WaitGroup
	for i, adapter := range p.adapters {
		wg.Add(1)
		go func(slot int, a source.Adapter) {
			defer wg.Done()
			items, outcome := a.Fetch(ctx, prof)
			results[slot] = fetchResult{items: items, outcome: outcome}
		}(i, adapter)
	}
	wg.Wait()

	var merged listing.Listings
	for i, adapter := range p.adapters {
		p.logger.Info("adapter finished",
			zap.String("platform", adapter.Name()),
			zap.String("outcome", string(results[i].outcome)),
			zap.Int("count", len(results[i].items)),
		)
		merged.Append(results[i].items...)
	}

	unique := dedup.Dedup(merged.Items)
	p.logger.Info("deduplication",
		zap.Int("initial", merged.Len()),
		zap.Int("dropped", merged.Len()-len(unique)),
		zap.Int("left", len(unique)),
	)

	for i := range unique {
		unique[i].MatchScore = score.Score(unique[i], prof)
	}

	// Stable sort keeps merge order as the tie break for equal scores.
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].MatchScore > unique[j].MatchScore
	})

	result := &listing.RankedResult{
		SearchDate: time.Now().UTC(),
		Profile:    *prof,
		Jobs:       unique,
		Summary:    listing.Summarize(unique),
	}

	p.logger.Info("search completed",
		zap.Int("total", result.Summary.TotalJobs),
		zap.Int("high_matches", result.Summary.HighMatches),
		zap.Int("medium_matches", result.Summary.MediumMatches),
		zap.Int("low_matches", result.Summary.LowMatches),
	)

	return result, nil
}
