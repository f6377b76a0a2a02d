// Package feed retrieve and normalize single podcast feeds.
package feed

//
// fetcher.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"gitlab.com/kabes/podweek/internal/common"
	"gitlab.com/kabes/podweek/internal/model"
	"gitlab.com/kabes/podweek/internal/week"
)

// DefaultTimeout bounds one feed retrieval, including body read.
const DefaultTimeout = 10 * time.Second

//nolint:gochecknoglobals
var fetchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "podweek_feed_fetches_total",
		Help: "Feed fetch attempts partitioned by result.",
	},
	[]string{"result"},
)

type Fetcher struct {
	Timeout time.Duration
}

func NewFetcher() *Fetcher {
	return &Fetcher{Timeout: DefaultTimeout}
}

// Fetch retrieve and parse one feed and filter its items to the window.
// Every failure is absorbed into the result; a failed feed must never
// abort the batch it runs in.
func (f *Fetcher) Fetch(ctx context.Context, url string, window week.Window) model.FeedResult {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str(common.LogKeyFeedURL, url).Msg("fetching feed")

	fctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	parser := gofeed.NewParser()

	parsed, err := parser.ParseURLWithContext(url, fctx)
	if err != nil {
		logger.Info().Str(common.LogKeyFeedURL, url).Err(err).Msg("fetch feed failed")
		fetchesTotal.WithLabelValues("failed").Inc()

		return model.NewFailedFeedResult(url)
	}

	fetchesTotal.WithLabelValues("ok").Inc()

	title := parsed.Title
	if title == "" {
		title = "<no title>"
	}

	episodes := []model.Episode{}

	for _, item := range parsed.Items {
		pubdate := publicationDate(item)
		if pubdate == nil || !window.Contains(*pubdate) {
			continue
		}

		episodes = append(episodes, model.Episode{
			Title:     itemTitle(item),
			MediaURL:  mediaURL(item),
			ShowNotes: showNotes(item),
			Link:      itemLink(item, parsed),
			PubDate:   pubdate,
		})
	}

	logger.Debug().Str(common.LogKeyFeedURL, url).Msgf("feed %q has %d in-window episodes", title, len(episodes))

	return model.FeedResult{
		FeedTitle:    title,
		UpdateStatus: len(episodes),
		Episodes:     episodes,
	}
}

// publicationDate prefer the machine-readable published date, fall back to
// the updated date. Items without any parseable date yield nil and are
// excluded from the window.
func publicationDate(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}

	return item.UpdatedParsed
}

// mediaURL extract downloadable media url; media:content extension has
// priority over plain enclosures.
func mediaURL(item *gofeed.Item) string {
	if contents, ok := item.Extensions["media"]["content"]; ok {
		for _, c := range contents {
			if url := c.Attrs["url"]; url != "" {
				return url
			}
		}
	}

	for _, enc := range item.Enclosures {
		if enc.URL != "" {
			return enc.URL
		}
	}

	return ""
}

// showNotes prefer plain-text summaries over raw html content.
func showNotes(item *gofeed.Item) string {
	if item.Description != "" {
		return item.Description
	}

	if item.ITunesExt != nil && item.ITunesExt.Summary != "" {
		return item.ITunesExt.Summary
	}

	return item.Content
}

func itemTitle(item *gofeed.Item) string {
	if item.Title == "" {
		return "<no title>"
	}

	return item.Title
}

func itemLink(item *gofeed.Item, parsed *gofeed.Feed) string {
	if item.Link != "" {
		return item.Link
	}

	if parsed.Link != "" {
		return parsed.Link
	}

	return parsed.FeedLink
}
