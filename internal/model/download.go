package model

//
// download.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

type DownloadStatus string

const (
	DownloadSuccess = DownloadStatus("success")
	DownloadSkipped = DownloadStatus("skipped")
	DownloadFailed  = DownloadStatus("failed")
)

// DownloadTask is one media file to retrieve; derived from cached
// aggregate, never persisted.
type DownloadTask struct {
	FeedTitle    string `json:"feedTitle"`
	EpisodeTitle string `json:"itemTitle"`
	MediaURL     string `json:"media"`
}

// DownloadOutcome is result of processing one task. Error is filled only
// for failed outcomes.
type DownloadOutcome struct {
	DownloadTask

	Status DownloadStatus `json:"status"`
	Error  string         `json:"error,omitempty"`
}

// DownloadReport split outcomes into success (downloaded or skipped) and
// failed lists, as reported to the caller.
type DownloadReport struct {
	WeekNumber int               `json:"week"`
	Success    []DownloadOutcome `json:"success"`
	Failed     []DownloadOutcome `json:"failed"`
}

func NewDownloadReport(weeknumber int, outcomes []DownloadOutcome) *DownloadReport {
	report := &DownloadReport{
		WeekNumber: weeknumber,
		Success:    []DownloadOutcome{},
		Failed:     []DownloadOutcome{},
	}

	for _, o := range outcomes {
		if o.Status == DownloadFailed {
			report.Failed = append(report.Failed, o)
		} else {
			report.Success = append(report.Success, o)
		}
	}

	return report
}
