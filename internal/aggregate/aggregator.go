// Package aggregate build and cache weekly cross-feed snapshots.
package aggregate

//
// aggregator.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"gitlab.com/kabes/podweek/internal/common"
	"gitlab.com/kabes/podweek/internal/feed"
	"gitlab.com/kabes/podweek/internal/model"
	"gitlab.com/kabes/podweek/internal/week"
)

type Aggregator struct {
	fetcher *feed.Fetcher
}

func NewAggregator(fetcher *feed.Fetcher) *Aggregator {
	return &Aggregator{fetcher: fetcher}
}

// Aggregate fetch all configured feeds for the window in batches of
// batchsize. Fetches inside one batch run concurrently; batches run
// strictly in sequence. The result list preserves url order, not
// completion order, and contains exactly one entry per url - failed
// feeds are included with a failure status.
func (a *Aggregator) Aggregate(
	ctx context.Context,
	urls []string,
	window week.Window,
	batchsize int,
) *model.WeeklyAggregate {
	logger := zerolog.Ctx(ctx)
	logger.Info().Int(common.LogKeyWeek, window.Number).
		Msgf("aggregating %d feeds; window=%s..%s batch_size=%d",
			len(urls), window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"), batchsize)

	if batchsize < 1 {
		batchsize = 1
	}

	// each task writes only its own slot; merge is the batch join itself
	results := make([]model.FeedResult, len(urls))

	for start := 0; start < len(urls); start += batchsize {
		batch := urls[start:min(start+batchsize, len(urls))]

		logger.Debug().Msgf("processing batch %v", batch)

		var wg sync.WaitGroup

		for offset := range batch {
			idx := start + offset

			wg.Go(func() {
				results[idx] = a.fetcher.Fetch(ctx, urls[idx], window)
			})
		}

		wg.Wait()
	}

	aggregate := model.NewWeeklyAggregate(window.Number, window.Start, results)

	logger.Info().Int(common.LogKeyWeek, window.Number).
		Msgf("aggregation finished; %d feeds, %d available items", len(results), aggregate.AvailableItems)

	return aggregate
}
