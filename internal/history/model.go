package history

//
// model.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import "time"

const (
	RunKindAggregate = "aggregate"
	RunKindDownload  = "download"
)

// Run is one recorded pipeline execution. For download runs Feeds and
// FailedFeeds carry task counts.
type Run struct {
	ID             string    `db:"id"              json:"id"`
	Kind           string    `db:"kind"            json:"kind"`
	Week           int       `db:"week"            json:"week"`
	Feeds          int       `db:"feeds"           json:"feeds"`
	FailedFeeds    int       `db:"failed_feeds"    json:"failedFeeds"`
	AvailableItems int       `db:"available_items" json:"availableItems"`
	StartedAt      time.Time `db:"started_at"      json:"startedAt"`
	DurationMS     int64     `db:"duration_ms"     json:"durationMs"`
}

// Outcome is one recorded media download result.
type Outcome struct {
	ID           int64     `db:"id"`
	RunID        string    `db:"run_id"`
	FeedTitle    string    `db:"feed_title"`
	EpisodeTitle string    `db:"episode_title"`
	MediaURL     string    `db:"media_url"`
	Status       string    `db:"status"`
	Error        string    `db:"error"`
	CreatedAt    time.Time `db:"created_at"`
}
