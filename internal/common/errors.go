package common

//
// Common application errors
//
// errors.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"errors"

	"gitlab.com/kabes/podweek/internal/aerr"
)

// Validation errors.
var (
	ErrInvalidWeek = aerr.NewSimple("invalid week number").
			WithTag(aerr.ValidationError).
			WithUserMsg("week number must be in range 1-53")
	ErrNoSources = aerr.NewSimple("no feed sources configured").
			WithTag(aerr.ConfigurationError)
)

// Infrastructure errors; per-feed and per-download failures are not
// errors, they are recorded in result statuses.
var (
	ErrCacheIO  = aerr.NewSimple("aggregate cache error").WithTag(aerr.InternalError).WithUserMsg("cache failure")
	ErrMediaDir = aerr.NewSimple("media directory error").WithTag(aerr.InternalError).WithUserMsg("storage failure")
)

var ErrNoData = errors.New("no result")
