// Package week resolve points in time to ISO-8601 week windows.
package week

//
// week.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"time"

	"gitlab.com/kabes/podweek/internal/common"
)

const (
	minWeekNumber = 1
	maxWeekNumber = 53
)

// Window is inclusive date range of one ISO week (Monday..Sunday), at day
// granularity. Immutable; only derived numbers are ever persisted.
type Window struct {
	Number int
	Start  time.Time
	End    time.Time
}

// Contains check whether t falls into the window, inclusive on both ends,
// compared at day granularity.
func (w Window) Contains(t time.Time) bool {
	day := truncateToDay(t)

	return !day.Before(w.Start) && !day.After(w.End)
}

// LastWeek return the window of the ISO week preceding the week of now.
func LastWeek(now time.Time) Window {
	ref := now.UTC().AddDate(0, 0, -7)
	_, number := ref.ISOWeek()
	start := mondayOf(ref)

	return Window{
		Number: number,
		Start:  start,
		End:    start.AddDate(0, 0, 6),
	}
}

// WindowFor return window of given week number in the ISO year of now.
// Week numbers outside 1-53 are rejected before any I/O.
func WindowFor(now time.Time, weeknumber int) (Window, error) {
	if weeknumber < minWeekNumber || weeknumber > maxWeekNumber {
		return Window{}, common.ErrInvalidWeek.WithMeta("week", weeknumber)
	}

	isoyear, _ := now.UTC().ISOWeek()
	// January 4 is always inside ISO week 1.
	week1monday := mondayOf(time.Date(isoyear, time.January, 4, 0, 0, 0, 0, time.UTC))
	start := week1monday.AddDate(0, 0, (weeknumber-1)*7)

	return Window{
		Number: weeknumber,
		Start:  start,
		End:    start.AddDate(0, 0, 6),
	}, nil
}

func mondayOf(t time.Time) time.Time {
	day := truncateToDay(t)

	weekday := int(day.Weekday())
	if weekday == 0 { // sunday
		weekday = 7
	}

	return day.AddDate(0, 0, 1-weekday)
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
