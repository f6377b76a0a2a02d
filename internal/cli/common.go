package cli

//
// common.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"

	"gitlab.com/kabes/podweek/internal/aerr"
	"gitlab.com/kabes/podweek/internal/config"
	"gitlab.com/kabes/podweek/internal/history"
)

func wrap(
	cmdfunc func(ctx context.Context, clicmd *cli.Command, i do.Injector) error,
) func(ctx context.Context, clicmd *cli.Command) error {
	return func(ctx context.Context, clicmd *cli.Command) error {
		if err := initializeLogger(clicmd.String("log.level"), clicmd.String("log.format")); err != nil {
			return err
		}

		ctx = log.Logger.WithContext(ctx)

		cfg, err := config.Load(clicmd.String("config"))
		if err != nil {
			return aerr.Wrapf(err, "load configuration failed")
		}

		if err := cfg.Validate(); err != nil {
			return aerr.Wrapf(err, "invalid configuration")
		}

		injector := createInjector(ctx)
		do.ProvideValue(injector, cfg)
		do.ProvideNamedValue(injector, "history.connstr", clicmd.String("database"))

		store := do.MustInvoke[*history.Store](injector)
		if err := store.Open(ctx); err != nil {
			return aerr.Wrapf(err, "open history database failed")
		}

		if err := store.Migrate(ctx); err != nil {
			return aerr.Wrapf(err, "migrate history database failed")
		}

		defer shutdownInjector(ctx, injector)

		return cmdfunc(ctx, clicmd, injector)
	}
}
