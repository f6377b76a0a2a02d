package common

//
// logging.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

const (
	LogKeyWeek    = "week"
	LogKeyFeedURL = "feed_url"
	LogKeyTaskID  = "task_id"
	LogKeyReqID   = "req_id"
)
