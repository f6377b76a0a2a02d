// weekly.go
// /lastweek, /weeks/{week}
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/samber/do/v2"

	"gitlab.com/kabes/podweek/internal/aerr"
	"gitlab.com/kabes/podweek/internal/aggregate"
	"gitlab.com/kabes/podweek/internal/common"
	"gitlab.com/kabes/podweek/internal/model"
	"gitlab.com/kabes/podweek/internal/server/srvsupport"
)

type weeklyResource struct {
	aggSrv *aggregate.Srv
}

func newWeeklyResource(i do.Injector) (weeklyResource, error) {
	return weeklyResource{
		aggSrv: do.MustInvoke[*aggregate.Srv](i),
	}, nil
}

// weeklyResponse spread aggregate fields next to the status envelope.
type weeklyResponse struct {
	Status bool   `json:"status"`
	Msg    string `json:"msg,omitempty"`

	*model.WeeklyAggregate
}

func (q *weeklyResource) lastWeekHandler() http.HandlerFunc {
	return srvsupport.WrapNamed(q.lastWeek, "lastweek")
}

func (q *weeklyResource) weekHandler() http.HandlerFunc {
	return srvsupport.WrapNamed(q.week, "week")
}

func (q *weeklyResource) lastWeek(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	logger *zerolog.Logger,
) {
	aggregate, cached, err := q.aggSrv.LastWeek(ctx)
	if err != nil {
		srvsupport.CheckAndWriteError(w, r, err)
		logger.WithLevel(aerr.LogLevelForError(err)).Err(err).Msg("aggregate last week error")

		return
	}

	msg := "aggregated"
	if cached {
		msg = "already aggregated, cached result"
	}

	srvsupport.RenderJSON(w, r, &weeklyResponse{Status: true, Msg: msg, WeeklyAggregate: aggregate})
}

func (q *weeklyResource) week(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	logger *zerolog.Logger,
) {
	_ = ctx

	weeknumber, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil {
		srvsupport.WriteError(w, r, http.StatusBadRequest, "invalid week number")

		return
	}

	aggregate, err := q.aggSrv.Cached(weeknumber)
	if err != nil {
		srvsupport.CheckAndWriteError(w, r, err)
		logger.WithLevel(aerr.LogLevelForError(err)).Err(err).
			Int(common.LogKeyWeek, weeknumber).Msg("get cached week error")

		return
	}

	srvsupport.RenderJSON(w, r, &weeklyResponse{Status: true, WeeklyAggregate: aggregate})
}
