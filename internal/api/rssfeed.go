// rssfeed.go
// /rss
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
	"gitlab.com/kabes/podweek/internal/model"
	"gitlab.com/kabes/podweek/internal/rssout"
	"gitlab.com/kabes/podweek/internal/server/srvsupport"
)

type rssResource struct {
	aggSrv *aggregate.Srv
}

func newRSSResource(i do.Injector) (rssResource, error) {
	return rssResource{
		aggSrv: do.MustInvoke[*aggregate.Srv](i),
	}, nil
}

func (s *rssResource) rssHandler() http.HandlerFunc {
	return srvsupport.WrapNamed(s.rss, "rss")
}

// rss render combined feed; without week in path the last week is
// aggregated on demand.
func (s *rssResource) rss(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	logger *zerolog.Logger,
) {
	var (
		aggregate *model.WeeklyAggregate
		err       error
	)

	if week := chi.URLParam(r, "week"); week != "" {
		weeknumber, perr := strconv.Atoi(week)
		if perr != nil {
			srvsupport.WriteError(w, r, http.StatusBadRequest, "invalid week number")

			return
		}

		aggregate, err = s.aggSrv.Cached(weeknumber)
	} else {
		aggregate, _, err = s.aggSrv.LastWeek(ctx)
	}

	if err != nil {
		srvsupport.CheckAndWriteError(w, r, err)
		logger.WithLevel(aerr.LogLevelForError(err)).Err(err).Msg("get aggregate for rss error")

		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")

	if err := rssout.Render(w, aggregate); err != nil {
		logger.Error().Err(err).Msg("render rss error")
	}
}
