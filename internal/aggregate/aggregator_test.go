package aggregate

//
// aggregator_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gitlab.com/kabes/podweek/internal/assert"
	"gitlab.com/kabes/podweek/internal/feed"
	"gitlab.com/kabes/podweek/internal/model"
	"gitlab.com/kabes/podweek/internal/week"
)

const feedTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>%s</title>
<link>https://example.com/</link>
<item>
<title>episode</title>
<link>https://example.com/episode</link>
<pubDate>Wed, 03 Jan 2024 10:00:00 +0000</pubDate>
<enclosure url="https://example.com/episode.mp3" type="audio/mpeg" length="1"/>
</item>
</channel>
</rss>`

func testWindow(t *testing.T) week.Window {
	t.Helper()

	window, err := week.WindowFor(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 1)
	assert.NoErr(t, err)

	return window
}

func TestAggregateOrderAndIsolation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			fmt.Fprintf(w, feedTemplate, "feed "+r.URL.Path)
		}
	}))
	defer srv.Close()

	urls := []string{
		srv.URL + "/a",
		srv.URL + "/b",
		srv.URL + "/broken",
		srv.URL + "/c",
		srv.URL + "/d",
	}

	aggregator := NewAggregator(feed.NewFetcher())
	aggregate := aggregator.Aggregate(t.Context(), urls, testWindow(t), 2)

	// one entry per url, url order, regardless of batch boundaries
	assert.Equal(t, len(aggregate.Results), len(urls))
	assert.Equal(t, aggregate.Results[0].FeedTitle, "feed /a")
	assert.Equal(t, aggregate.Results[1].FeedTitle, "feed /b")
	assert.Equal(t, aggregate.Results[3].FeedTitle, "feed /c")
	assert.Equal(t, aggregate.Results[4].FeedTitle, "feed /d")

	// one failed feed does not affect the others
	assert.Equal(t, aggregate.Results[2].FeedTitle, srv.URL+"/broken")
	assert.Equal(t, aggregate.Results[2].UpdateStatus, model.FeedFailed)
	assert.Equal(t, aggregate.Results[0].UpdateStatus, 1)

	// failed feeds do not count into available items
	assert.Equal(t, aggregate.AvailableItems, 4)
	assert.Equal(t, aggregate.WeekNumber, 1)
}

func TestAggregateNoFeeds(t *testing.T) {
	aggregator := NewAggregator(feed.NewFetcher())
	aggregate := aggregator.Aggregate(t.Context(), nil, testWindow(t), 3)

	assert.Equal(t, len(aggregate.Results), 0)
	assert.Equal(t, aggregate.AvailableItems, 0)
}

func TestAggregateBatchSizeOne(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, feedTemplate, "feed "+r.URL.Path)
	}))
	defer srv.Close()

	urls := []string{srv.URL + "/x", srv.URL + "/y", srv.URL + "/z"}

	aggregator := NewAggregator(feed.NewFetcher())
	aggregate := aggregator.Aggregate(t.Context(), urls, testWindow(t), 0)

	assert.Equal(t, len(aggregate.Results), 3)

	for i, res := range aggregate.Results {
		assert.Equal(t, res.FeedTitle, "feed "+[]string{"/x", "/y", "/z"}[i])
	}
}
