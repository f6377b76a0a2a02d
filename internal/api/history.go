// history.go
// /history
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/samber/do/v2"

	"gitlab.com/kabes/podweek/internal/aerr"
	"gitlab.com/kabes/podweek/internal/history"
	"gitlab.com/kabes/podweek/internal/server/srvsupport"
)

const defaultHistoryLimit = 50

type historyResource struct {
	store *history.Store
}

func newHistoryResource(i do.Injector) (historyResource, error) {
	return historyResource{
		store: do.MustInvoke[*history.Store](i),
	}, nil
}

func (h *historyResource) listHandler() http.HandlerFunc {
	return srvsupport.WrapNamed(h.list, "history")
}

func (h *historyResource) list(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	logger *zerolog.Logger,
) {
	limit := defaultHistoryLimit
	if param := r.URL.Query().Get("limit"); param != "" {
		if val, err := strconv.Atoi(param); err == nil && val > 0 {
			limit = val
		}
	}

	runs, err := h.store.ListRuns(ctx, limit)
	if err != nil {
		srvsupport.CheckAndWriteError(w, r, err)
		logger.WithLevel(aerr.LogLevelForError(err)).Err(err).Msg("list runs error")

		return
	}

	srvsupport.RenderJSON(w, r, runs)
}
