package aggregate

//
// service.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/samber/do/v2"

	"gitlab.com/kabes/podweek/internal/config"
	"gitlab.com/kabes/podweek/internal/feed"
	"gitlab.com/kabes/podweek/internal/history"
	"gitlab.com/kabes/podweek/internal/model"
	"gitlab.com/kabes/podweek/internal/week"
)

// Srv is the aggregation service: it resolves week windows, runs the
// aggregator over configured sources and keeps per-week results in the
// file cache. Cached weeks are never recomputed unless forced.
type Srv struct {
	cfg        *config.Config
	cache      *Cache
	aggregator *Aggregator
	store      *history.Store
}

func NewSrvI(i do.Injector) (*Srv, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return &Srv{
		cfg:        cfg,
		cache:      NewCache(cfg.ResultsDir),
		aggregator: NewAggregator(do.MustInvoke[*feed.Fetcher](i)),
		store:      do.MustInvoke[*history.Store](i),
	}, nil
}

// LastWeek return the aggregate for the most recent finished week,
// computing and caching it when absent.
func (s *Srv) LastWeek(ctx context.Context) (*model.WeeklyAggregate, bool, error) {
	return s.forWindow(ctx, week.LastWeek(time.Now()), false)
}

// ForWeekNumber return the aggregate for given iso week of the current
// year. With force the cached result is ignored and overwritten.
func (s *Srv) ForWeekNumber(ctx context.Context, weeknumber int, force bool) (*model.WeeklyAggregate, bool, error) {
	window, err := week.WindowFor(time.Now(), weeknumber)
	if err != nil {
		return nil, false, err
	}

	return s.forWindow(ctx, window, force)
}

// Cached return the cached aggregate for given week without computing
// anything; common.ErrNoData when the week was never aggregated.
func (s *Srv) Cached(weeknumber int) (*model.WeeklyAggregate, error) {
	return s.cache.Get(weeknumber)
}

func (s *Srv) forWindow(ctx context.Context, window week.Window, force bool) (*model.WeeklyAggregate, bool, error) {
	compute := func(ctx context.Context) (*model.WeeklyAggregate, error) {
		started := time.Now()
		aggregate := s.aggregator.Aggregate(ctx, s.cfg.Feeds, window, s.cfg.FetchBatchSize)
		s.recordRun(ctx, aggregate, started)

		return aggregate, nil
	}

	if force {
		aggregate, err := compute(ctx)
		if err != nil {
			return nil, false, err
		}

		if err := s.cache.Put(window.Number, aggregate); err != nil {
			return nil, false, err
		}

		return aggregate, false, nil
	}

	return s.cache.GetOrCompute(ctx, window.Number, compute)
}

// recordRun write a run entry into the history ledger; the ledger is
// best effort and never fails the aggregation.
func (s *Srv) recordRun(ctx context.Context, aggregate *model.WeeklyAggregate, started time.Time) {
	failed := 0

	for _, res := range aggregate.Results {
		if res.UpdateStatus == model.FeedFailed {
			failed++
		}
	}

	run := &history.Run{
		ID:             xid.New().String(),
		Kind:           history.RunKindAggregate,
		Week:           aggregate.WeekNumber,
		Feeds:          len(aggregate.Results),
		FailedFeeds:    failed,
		AvailableItems: aggregate.AvailableItems,
		StartedAt:      started.UTC(),
		DurationMS:     time.Since(started).Milliseconds(),
	}

	if err := s.store.RecordRun(ctx, run); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("record aggregation run failed")
	}
}
