// media.go
// /fetchmedia
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/samber/do/v2"

	"gitlab.com/kabes/podweek/internal/aerr"
	"gitlab.com/kabes/podweek/internal/download"
	"gitlab.com/kabes/podweek/internal/model"
	"gitlab.com/kabes/podweek/internal/server/srvsupport"
)

type mediaResource struct {
	downloadSrv *download.Srv
}

func newMediaResource(i do.Injector) (mediaResource, error) {
	return mediaResource{
		downloadSrv: do.MustInvoke[*download.Srv](i),
	}, nil
}

type fetchMediaRequest struct {
	WeekNumber int `json:"weekNumber"`
}

type fetchMediaResponse struct {
	Status bool `json:"status"`

	*model.DownloadReport
}

func (m *mediaResource) fetchMediaHandler() http.HandlerFunc {
	return srvsupport.WrapNamed(m.fetchMedia, "fetchmedia")
}

func (m *mediaResource) fetchMedia(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	logger *zerolog.Logger,
) {
	var req fetchMediaRequest

	// body is optional; empty body means last week
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		srvsupport.WriteError(w, r, http.StatusBadRequest, "invalid request body")

		return
	}

	var (
		report *model.DownloadReport
		err    error
	)

	if req.WeekNumber > 0 {
		report, err = m.downloadSrv.ForWeekNumber(ctx, req.WeekNumber)
	} else {
		report, err = m.downloadSrv.LastWeek(ctx)
	}

	if err != nil {
		srvsupport.CheckAndWriteError(w, r, err)
		logger.WithLevel(aerr.LogLevelForError(err)).Err(err).Msg("fetch media error")

		return
	}

	srvsupport.RenderJSON(w, r, &fetchMediaResponse{Status: true, DownloadReport: report})
}
