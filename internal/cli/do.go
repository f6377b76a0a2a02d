package cli

//
// do.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"

	"gitlab.com/kabes/podweek/internal/aggregate"
	"gitlab.com/kabes/podweek/internal/download"
	"gitlab.com/kabes/podweek/internal/feed"
	"gitlab.com/kabes/podweek/internal/history"
)

func createInjector(ctx context.Context) do.Injector {
	injector := do.New(
		feed.Package,
		aggregate.Package,
		download.Package,
		history.Package,
	)

	logger := log.Ctx(ctx)
	logger.Debug().Msgf("Available services: %v", injector.ListProvidedServices())

	return injector
}

func shutdownInjector(ctx context.Context, injector do.Injector) {
	logger := log.Ctx(ctx)
	logger.Debug().Msg("shutting down services...")

	if report := injector.RootScope().ShutdownWithContext(ctx); report != nil && !report.Succeed {
		logger.Error().Msgf("shutdown services error: %s", report.Error())
	}
}

func enableDoDebug(ctx context.Context, injector do.Injector) {
	logger := log.Ctx(ctx)

	explanation := do.ExplainInjector(injector)
	logger.Debug().Msg(explanation.String())
}
