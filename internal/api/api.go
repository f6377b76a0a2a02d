// Package api handle request do api's endpoints.
package api

//
// api.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"github.com/go-chi/chi/v5"
	"github.com/samber/do/v2"
)

// API is handler for all api endpoints.
type API struct {
	router *chi.Mux
}

func New(i do.Injector) (API, error) {
	weeklyRes := do.MustInvoke[weeklyResource](i)
	mediaRes := do.MustInvoke[mediaResource](i)
	rssRes := do.MustInvoke[rssResource](i)
	historyRes := do.MustInvoke[historyResource](i)

	router := chi.NewRouter()

	router.Post("/lastweek", weeklyRes.lastWeekHandler())
	router.Get("/weeks/{week:[0-9]+}", weeklyRes.weekHandler())
	router.Post("/fetchmedia", mediaRes.fetchMediaHandler())
	router.Get("/rss", rssRes.rssHandler())
	router.Get("/rss/{week:[0-9]+}", rssRes.rssHandler())
	router.Get("/history", historyRes.listHandler())

	return API{router}, nil
}

func (a *API) Routes() *chi.Mux {
	return a.router
}
