package aggregate

//
// cache_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gitlab.com/kabes/podweek/internal/assert"
	"gitlab.com/kabes/podweek/internal/common"
	"gitlab.com/kabes/podweek/internal/model"
)

func testAggregate(weeknumber int) *model.WeeklyAggregate {
	return model.NewWeeklyAggregate(weeknumber, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), []model.FeedResult{
		{
			FeedTitle:    "Feed A",
			UpdateStatus: 1,
			Episodes: []model.Episode{
				{Title: "episode", MediaURL: "https://example.com/e.mp3"},
			},
		},
	})
}

func TestCachePutGet(t *testing.T) {
	cache := NewCache(t.TempDir())

	_, err := cache.Get(1)
	assert.ErrSpec(t, err, common.ErrNoData)

	assert.NoErr(t, cache.Put(1, testAggregate(1)))

	aggregate, err := cache.Get(1)
	assert.NoErr(t, err)
	assert.Equal(t, aggregate.WeekNumber, 1)
	assert.Equal(t, aggregate.AvailableItems, 1)
	assert.Equal(t, aggregate.Results[0].FeedTitle, "Feed A")
	assert.Equal(t, aggregate.Results[0].Episodes[0].Title, "episode")
}

func TestCacheGetOrComputeOnce(t *testing.T) {
	dir := t.TempDir()
	cache := NewCache(dir)

	calls := 0
	compute := func(_ context.Context) (*model.WeeklyAggregate, error) {
		calls++

		return testAggregate(7), nil
	}

	aggregate, cached, err := cache.GetOrCompute(t.Context(), 7, compute)
	assert.NoErr(t, err)
	assert.Equal(t, cached, false)
	assert.Equal(t, aggregate.WeekNumber, 7)
	assert.Equal(t, calls, 1)

	first, err := os.ReadFile(filepath.Join(dir, "7.json"))
	assert.NoErr(t, err)

	// second call must serve the file, not recompute
	again, cached, err := cache.GetOrCompute(t.Context(), 7, compute)
	assert.NoErr(t, err)
	assert.Equal(t, cached, true)
	assert.Equal(t, calls, 1)
	assert.Equal(t, again.AvailableItems, aggregate.AvailableItems)

	second, err := os.ReadFile(filepath.Join(dir, "7.json"))
	assert.NoErr(t, err)
	assert.Equal(t, second, first)
}

func TestCacheGetOrComputeError(t *testing.T) {
	cache := NewCache(t.TempDir())

	boom := errors.New("boom")
	_, _, err := cache.GetOrCompute(t.Context(), 2, func(_ context.Context) (*model.WeeklyAggregate, error) {
		return nil, boom
	})
	assert.ErrSpec(t, err, boom)

	_, err = cache.Get(2)
	assert.ErrSpec(t, err, common.ErrNoData)
}

func TestCacheCorruptFile(t *testing.T) {
	dir := t.TempDir()
	cache := NewCache(dir)

	assert.NoErr(t, os.WriteFile(filepath.Join(dir, "3.json"), []byte("{not json"), 0o644))

	_, err := cache.Get(3)
	assert.ErrSpec(t, err, "parse cached aggregate failed")
}
