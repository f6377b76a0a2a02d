package history

//
// history_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"testing"
	"time"

	"github.com/rs/xid"

	"gitlab.com/kabes/podweek/internal/assert"
	"gitlab.com/kabes/podweek/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store := &Store{connstr: ":memory:"}

	ctx := t.Context()
	assert.NoErr(t, store.Open(ctx))
	assert.NoErr(t, store.Migrate(ctx))

	t.Cleanup(func() { _ = store.db.Close() })

	return store
}

func TestRecordAndListRuns(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	first := &Run{
		ID:             xid.New().String(),
		Kind:           RunKindAggregate,
		Week:           12,
		Feeds:          5,
		FailedFeeds:    1,
		AvailableItems: 7,
		StartedAt:      time.Date(2024, 3, 18, 6, 0, 0, 0, time.UTC),
		DurationMS:     1500,
	}
	assert.NoErr(t, store.RecordRun(ctx, first))

	second := &Run{
		ID:        xid.New().String(),
		Kind:      RunKindDownload,
		Week:      12,
		StartedAt: time.Date(2024, 3, 18, 7, 0, 0, 0, time.UTC),
	}
	assert.NoErr(t, store.RecordRun(ctx, second))

	runs, err := store.ListRuns(ctx, 10)
	assert.NoErr(t, err)
	assert.Equal(t, len(runs), 2)

	// newest first
	assert.Equal(t, runs[0].ID, second.ID)
	assert.Equal(t, runs[1].ID, first.ID)
	assert.Equal(t, runs[1].Kind, RunKindAggregate)
	assert.Equal(t, runs[1].Feeds, 5)
	assert.Equal(t, runs[1].FailedFeeds, 1)
	assert.Equal(t, runs[1].AvailableItems, 7)
}

func TestRecordOutcomes(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	run := &Run{
		ID:        xid.New().String(),
		Kind:      RunKindDownload,
		Week:      3,
		StartedAt: time.Now().UTC(),
	}
	assert.NoErr(t, store.RecordRun(ctx, run))

	outcomes := []model.DownloadOutcome{
		{
			DownloadTask: model.DownloadTask{
				FeedTitle:    "Feed A",
				EpisodeTitle: "Episode 1",
				MediaURL:     "https://example.com/ep1.mp3",
			},
			Status: model.DownloadSuccess,
		},
		{
			DownloadTask: model.DownloadTask{
				FeedTitle:    "Feed A",
				EpisodeTitle: "Episode 2",
				MediaURL:     "https://example.com/ep2.mp3",
			},
			Status: model.DownloadFailed,
			Error:  "connection refused",
		},
	}

	assert.NoErr(t, store.RecordOutcomes(ctx, run.ID, outcomes))

	stored, err := store.ListOutcomes(ctx, run.ID)
	assert.NoErr(t, err)
	assert.Equal(t, len(stored), 2)
	assert.Equal(t, stored[0].EpisodeTitle, "Episode 1")
	assert.Equal(t, stored[0].Status, string(model.DownloadSuccess))
	assert.Equal(t, stored[1].Error, "connection refused")
}

func TestPrepareSqliteConnstr(t *testing.T) {
	tests := []struct {
		connstr string
		want    string
		wantErr bool
	}{
		{"history.sqlite", "history.sqlite?_fk=ON", false},
		{"history.sqlite?_fk=OFF", "history.sqlite?_fk=OFF", false},
		{"history.sqlite?cache=shared", "history.sqlite?_fk=ON&cache=shared", false},
		{"", "", true},
		{"?_fk=ON", "", true},
	}

	for _, tc := range tests {
		got, err := prepareSqliteConnstr(tc.connstr)
		if tc.wantErr {
			assert.Err(t, err)

			continue
		}

		assert.NoErr(t, err)
		assert.Equal(t, got, tc.want)
	}
}
