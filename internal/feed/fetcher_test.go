package feed

//
// fetcher_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gitlab.com/kabes/podweek/internal/assert"
	"gitlab.com/kabes/podweek/internal/model"
	"gitlab.com/kabes/podweek/internal/week"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
  <channel>
    <title>Test Podcast</title>
    <link>https://example.com/podcast</link>
    <item>
      <title>Before window</title>
      <link>https://example.com/ep0</link>
      <pubDate>Sun, 31 Dec 2023 10:00:00 GMT</pubDate>
      <enclosure url="https://example.com/ep0.mp3" type="audio/mpeg" length="1"/>
    </item>
    <item>
      <title>In window</title>
      <link>https://example.com/ep1</link>
      <description>show notes text</description>
      <pubDate>Wed, 03 Jan 2024 08:00:00 GMT</pubDate>
      <media:content url="https://example.com/ep1-media.mp3" type="audio/mpeg"/>
      <enclosure url="https://example.com/ep1-enclosure.mp3" type="audio/mpeg" length="1"/>
    </item>
    <item>
      <title>After window</title>
      <link>https://example.com/ep2</link>
      <pubDate>Mon, 08 Jan 2024 09:00:00 GMT</pubDate>
      <enclosure url="https://example.com/ep2.mp3" type="audio/mpeg" length="1"/>
    </item>
    <item>
      <title>No date</title>
      <link>https://example.com/ep3</link>
      <enclosure url="https://example.com/ep3.mp3" type="audio/mpeg" length="1"/>
    </item>
  </channel>
</rss>`

func testWindow(t *testing.T) week.Window {
	t.Helper()

	now, err := time.Parse(time.DateOnly, "2024-06-15")
	assert.NoErr(t, err)

	window, err := week.WindowFor(now, 1)
	assert.NoErr(t, err)

	return window
}

func newFeedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(status)
		w.Write([]byte(body)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestFetchFiltersToWindow(t *testing.T) {
	srv := newFeedServer(t, http.StatusOK, testFeed)

	result := NewFetcher().Fetch(context.Background(), srv.URL, testWindow(t))

	assert.Equal(t, result.FeedTitle, "Test Podcast")
	assert.Equal(t, result.UpdateStatus, 1)
	assert.Equal(t, len(result.Episodes), 1)

	episode := result.Episodes[0]
	assert.Equal(t, episode.Title, "In window")
	// media:content has priority over enclosure
	assert.Equal(t, episode.MediaURL, "https://example.com/ep1-media.mp3")
	assert.Equal(t, episode.ShowNotes, "show notes text")
	assert.Equal(t, episode.Link, "https://example.com/ep1")
}

func TestFetchEnclosureFallback(t *testing.T) {
	feed := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Enclosure Only</title>
    <item>
      <title>Episode</title>
      <pubDate>Wed, 03 Jan 2024 08:00:00 GMT</pubDate>
      <enclosure url="https://example.com/only.mp3" type="audio/mpeg" length="1"/>
    </item>
  </channel>
</rss>`

	srv := newFeedServer(t, http.StatusOK, feed)

	result := NewFetcher().Fetch(context.Background(), srv.URL, testWindow(t))
	assert.Equal(t, result.UpdateStatus, 1)
	assert.Equal(t, result.Episodes[0].MediaURL, "https://example.com/only.mp3")
}

func TestFetchItunesSummaryFallback(t *testing.T) {
	feed := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
  <channel>
    <title>Itunes Notes</title>
    <item>
      <title>Episode</title>
      <pubDate>Wed, 03 Jan 2024 08:00:00 GMT</pubDate>
      <itunes:summary>summary from itunes</itunes:summary>
      <enclosure url="https://example.com/itunes.mp3" type="audio/mpeg" length="1"/>
    </item>
  </channel>
</rss>`

	srv := newFeedServer(t, http.StatusOK, feed)

	result := NewFetcher().Fetch(context.Background(), srv.URL, testWindow(t))
	assert.Equal(t, result.UpdateStatus, 1)
	// no plain description; itunes summary is next in line
	assert.Equal(t, result.Episodes[0].ShowNotes, "summary from itunes")
}

func TestFetchNoItems(t *testing.T) {
	feed := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Empty Feed</title></channel></rss>`

	srv := newFeedServer(t, http.StatusOK, feed)

	result := NewFetcher().Fetch(context.Background(), srv.URL, testWindow(t))
	// reachable feed without items is zero updates, not a failure
	assert.Equal(t, result.FeedTitle, "Empty Feed")
	assert.Equal(t, result.UpdateStatus, 0)
	assert.Equal(t, len(result.Episodes), 0)
}

func TestFetchHTTPError(t *testing.T) {
	srv := newFeedServer(t, http.StatusInternalServerError, "boom")

	result := NewFetcher().Fetch(context.Background(), srv.URL, testWindow(t))
	assert.Equal(t, result, model.NewFailedFeedResult(srv.URL))
}

func TestFetchUnreachable(t *testing.T) {
	// closed server
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	result := NewFetcher().Fetch(context.Background(), url, testWindow(t))
	assert.Equal(t, result.FeedTitle, url)
	assert.Equal(t, result.UpdateStatus, model.FeedFailed)
	assert.Equal(t, len(result.Episodes), 0)
}

func TestFetchGarbage(t *testing.T) {
	srv := newFeedServer(t, http.StatusOK, "this is not xml")

	result := NewFetcher().Fetch(context.Background(), srv.URL, testWindow(t))
	assert.Equal(t, result.UpdateStatus, model.FeedFailed)
}
