package cli

//
// serve.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Merovius/systemd"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"

	"gitlab.com/kabes/podweek/internal/aerr"
	"gitlab.com/kabes/podweek/internal/aggregate"
	podapi "gitlab.com/kabes/podweek/internal/api"
	"gitlab.com/kabes/podweek/internal/common"
	"gitlab.com/kabes/podweek/internal/config"
	"gitlab.com/kabes/podweek/internal/history"
	"gitlab.com/kabes/podweek/internal/server"
)

func newStartServerCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "start server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Value:   ":8080",
				Usage:   "listen address",
				Aliases: []string{"a"},
				Sources: cli.EnvVars("PODWEEK_SERVER_ADDRESS"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.BoolFlag{
				Name:    "enable-metrics",
				Usage:   "enable prometheus metrics (/metrics endpoint)",
				Sources: cli.EnvVars("PODWEEK_SERVER_METRICS"),
			},
			&cli.StringFlag{
				Name:      "cert",
				Usage:     "tls certificate file",
				Sources:   cli.EnvVars("PODWEEK_SERVER_CERT"),
				Config:    cli.StringConfig{TrimSpace: true},
				TakesFile: true,
			},
			&cli.StringFlag{
				Name:      "key",
				Usage:     "tls key file",
				Sources:   cli.EnvVars("PODWEEK_SERVER_KEY"),
				Config:    cli.StringConfig{TrimSpace: true},
				TakesFile: true,
			},
			&cli.DurationFlag{
				Name:    "aggregate-interval",
				Usage:   "Enable background worker that aggregate last week feeds in given intervals.",
				Sources: cli.EnvVars("PODWEEK_SERVER_AGGREGATE_INTERVAL"),
				Value:   0,
			},
		},
		Action: wrap(startServerCmd),
	}
}

func startServerCmd(ctx context.Context, clicmd *cli.Command, rootInjector do.Injector) error {
	injector := rootInjector.Scope("server",
		podapi.Package,
		server.Package,
	)

	serverConf := server.Configuration{
		Listen:        strings.TrimSpace(clicmd.String("address")),
		DebugFlags:    config.NewDebugFLags(clicmd.String("debug")),
		EnableMetrics: clicmd.Bool("enable-metrics"),
		TLSKey:        clicmd.String("key"),
		TLSCert:       clicmd.String("cert"),
	}

	if err := serverConf.Validate(); err != nil {
		return aerr.Wrapf(err, "server config validation failed")
	}

	do.ProvideValue(injector, &serverConf)

	if serverConf.DebugFlags.HasFlag(config.DebugDo) {
		enableDoDebug(ctx, injector.RootScope())
	}

	s := Server{}

	return s.start(ctx, injector, &serverConf, clicmd)
}

type Server struct{}

func (s *Server) start(ctx context.Context, injector do.Injector, cfg *server.Configuration,
	clicmd *cli.Command,
) error {
	logger := log.Ctx(ctx)
	logger.Log().Msgf("Starting podweek (%s)...", config.VersionString)
	logger.Debug().Msgf("Server: debug_flags=%q", cfg.DebugFlags)

	s.startSystemdWatchdog(logger)

	if cfg.EnableMetrics {
		store := do.MustInvoke[*history.Store](injector)
		store.RegisterMetrics()
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	srv := do.MustInvoke[*server.Server](injector)
	if err := srv.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msgf("start server failed error=%q", err)

		return aerr.New("failed start server")
	}

	if i := clicmd.Duration("aggregate-interval"); i > 0 {
		go s.aggregateTask(ctx, injector, i)
	}

	systemd.NotifyReady()           //nolint:errcheck
	systemd.NotifyStatus("running") //nolint:errcheck

	<-ctx.Done()

	systemd.NotifyStatus("stopped") //nolint:errcheck

	return nil
}

func (*Server) startSystemdWatchdog(logger *zerolog.Logger) {
	if ok, dur, err := systemd.AutoWatchdog(); ok {
		logger.Info().Msgf("Systemd: autowatchdog started; duration=%s", dur)
	} else if err != nil {
		logger.Warn().Err(err).Msgf("Systemd: autowatchdog start error=%q", err)
	}
}

// aggregateTask periodically aggregate the last finished week. The
// aggregation is idempotent so an already cached week is a cheap no op.
func (s *Server) aggregateTask(ctx context.Context, injector do.Injector, interval time.Duration) {
	logger := log.Ctx(ctx)
	logger.Info().Msgf("Aggregator: start background aggregation; interval=%s", interval)

	aggSrv := do.MustInvoke[*aggregate.Srv](injector)

	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}

		taskid := xid.New()
		llog := logger.With().Str(common.LogKeyTaskID, taskid.String()).Logger()
		tctx := hlog.CtxWithID(llog.WithContext(ctx), taskid)

		if _, cached, err := aggSrv.LastWeek(tctx); err != nil {
			llog.Error().Err(err).Msgf("Aggregator: background aggregation error=%q", err)
		} else if !cached {
			llog.Info().Msg("Aggregator: background aggregation finished")
		}
	}
}
