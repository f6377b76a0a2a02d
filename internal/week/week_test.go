package week

//
// week_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"fmt"
	"testing"
	"time"

	"gitlab.com/kabes/podweek/internal/assert"
	"gitlab.com/kabes/podweek/internal/common"
)

func date(value string) time.Time {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}

	return t
}

func TestLastWeek(t *testing.T) {
	tests := []struct {
		now    string
		number int
		start  string
		end    string
	}{
		// 2024-01-08 is monday of week 2
		{"2024-01-08", 1, "2024-01-01", "2024-01-07"},
		{"2024-01-14", 1, "2024-01-01", "2024-01-07"},
		{"2024-01-15", 2, "2024-01-08", "2024-01-14"},
		// year boundary: 2023-01-01 is sunday of ISO week 52/2022
		{"2023-01-01", 51, "2022-12-19", "2022-12-25"},
		{"2026-08-31", 35, "2026-08-24", "2026-08-30"},
	}

	for _, tt := range tests {
		t.Run(tt.now, func(t *testing.T) {
			w := LastWeek(date(tt.now))
			assert.Equal(t, w.Number, tt.number)
			assert.Equal(t, w.Start, date(tt.start))
			assert.Equal(t, w.End, date(tt.end))
		})
	}
}

func TestWindowFor(t *testing.T) {
	now := date("2024-06-15")

	tests := []struct {
		week  int
		start string
		end   string
	}{
		{1, "2024-01-01", "2024-01-07"},
		{2, "2024-01-08", "2024-01-14"},
		{24, "2024-06-10", "2024-06-16"},
		{52, "2024-12-23", "2024-12-29"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("week %d", tt.week), func(t *testing.T) {
			w, err := WindowFor(now, tt.week)
			assert.NoErr(t, err)
			assert.Equal(t, w.Number, tt.week)
			assert.Equal(t, w.Start, date(tt.start))
			assert.Equal(t, w.End, date(tt.end))
		})
	}
}

func TestWindowForInvariant(t *testing.T) {
	// ISO year 2020 has 53 weeks, so the whole range is checkable
	now := date("2020-06-15")

	for weeknumber := 1; weeknumber <= 53; weeknumber++ {
		w, err := WindowFor(now, weeknumber)
		assert.NoErr(t, err)
		assert.True(t, !w.Start.After(w.End))

		_, isoweek := w.Start.ISOWeek()
		assert.Equal(t, isoweek, weeknumber)
		_, isoweek = w.End.ISOWeek()
		assert.Equal(t, isoweek, weeknumber)
	}
}

func TestWindowForInvalid(t *testing.T) {
	now := time.Now()

	for _, weeknumber := range []int{-1, 0, 54, 100} {
		_, err := WindowFor(now, weeknumber)
		assert.ErrSpec(t, err, common.ErrInvalidWeek)
	}
}

func TestWindowContains(t *testing.T) {
	w, err := WindowFor(date("2024-06-15"), 1)
	assert.NoErr(t, err)

	tests := []struct {
		ts       string
		expected bool
	}{
		{"2023-12-31T23:59:59Z", false},
		{"2024-01-01T00:00:00Z", true},
		{"2024-01-03T12:30:00Z", true},
		// same day as window end counts, whatever the hour
		{"2024-01-07T23:59:59Z", true},
		{"2024-01-08T00:00:00Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.ts, func(t *testing.T) {
			ts, err := time.Parse(time.RFC3339, tt.ts)
			assert.NoErr(t, err)
			assert.Equal(t, w.Contains(ts), tt.expected)
		})
	}
}
