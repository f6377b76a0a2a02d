package model

//
// aggregate.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import "time"

// FeedFailed is UpdateStatus value for feed that could not be fetched or
// parsed. Non-negative values are the count of in-window episodes.
const FeedFailed = -1

// Episode is one normalized feed entry that falls into requested week.
// MediaURL is empty when the entry carry no enclosure or media tag.
type Episode struct {
	Title     string     `json:"itemTitle"`
	MediaURL  string     `json:"media"`
	ShowNotes string     `json:"showNotes"`
	Link      string     `json:"itemLink"`
	PubDate   *time.Time `json:"pubDate,omitempty"`
}

// FeedResult is outcome of processing one configured feed url.
type FeedResult struct {
	FeedTitle    string    `json:"feedTitle"`
	UpdateStatus int       `json:"updateStatus"`
	Episodes     []Episode `json:"data"`
}

// NewFailedFeedResult create result for unreachable or unparsable feed;
// url is used as title so failed source is still identifiable.
func NewFailedFeedResult(url string) FeedResult {
	return FeedResult{
		FeedTitle:    url,
		UpdateStatus: FeedFailed,
		Episodes:     []Episode{},
	}
}

// WeeklyAggregate is persisted, week-keyed snapshot of all feed results.
// Once written to the cache it is never mutated.
type WeeklyAggregate struct {
	StartOfWeek    string       `json:"startOfWeek"`
	WeekNumber     int          `json:"weekNumber"`
	AvailableItems int          `json:"availableItems"`
	Results        []FeedResult `json:"results"`
}

// NewWeeklyAggregate assemble aggregate from ordered feed results;
// AvailableItems is a sum of non-negative update statuses.
func NewWeeklyAggregate(weeknumber int, startofweek time.Time, results []FeedResult) *WeeklyAggregate {
	available := 0

	for _, r := range results {
		if r.UpdateStatus > 0 {
			available += r.UpdateStatus
		}
	}

	return &WeeklyAggregate{
		StartOfWeek:    startofweek.Format(time.DateOnly),
		WeekNumber:     weeknumber,
		AvailableItems: available,
		Results:        results,
	}
}

// MediaEpisodes return all episodes across all feeds that carry a media
// url, paired with owning feed title, in results order.
func (w *WeeklyAggregate) MediaEpisodes() []DownloadTask {
	var tasks []DownloadTask

	for _, feed := range w.Results {
		for _, episode := range feed.Episodes {
			if episode.MediaURL != "" {
				tasks = append(tasks, DownloadTask{
					FeedTitle:    feed.FeedTitle,
					EpisodeTitle: episode.Title,
					MediaURL:     episode.MediaURL,
				})
			}
		}
	}

	return tasks
}
