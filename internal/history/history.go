// Package history keep a sqlite ledger of aggregation and download runs.
// The ledger is observational; failures to record are logged by callers
// and never abort the pipeline.
package history

//
// history.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"

	"gitlab.com/kabes/podweek/internal/aerr"
	"gitlab.com/kabes/podweek/internal/model"
)

//go:embed "migrations/*.sql"
var embedMigrations embed.FS

const (
	connMaxIdleTime = 30 * time.Second
	connMaxLifetime = 60 * time.Second
	maxIdleConns    = 1
	maxOpenConns    = 10
)

type Store struct {
	db      *sqlx.DB
	connstr string
}

func NewStoreI(i do.Injector) (*Store, error) {
	connstr := do.MustInvokeNamed[string](i, "history.connstr")

	connstr, err := prepareSqliteConnstr(connstr)
	if err != nil {
		return nil, aerr.Wrapf(err, "invalid history database connstr")
	}

	return &Store{connstr: connstr}, nil
}

func (s *Store) Open(ctx context.Context) error {
	logger := log.Ctx(ctx)
	logger.Debug().Msgf("connecting to history database %q", s.connstr)

	var err error

	s.db, err = sqlx.Open("sqlite3", s.connstr)
	if err != nil {
		return aerr.Wrapf(err, "open history database failed").
			WithTag(aerr.InternalError).WithMeta("connstr", s.connstr)
	}

	s.db.SetConnMaxIdleTime(connMaxIdleTime)
	s.db.SetConnMaxLifetime(connMaxLifetime)
	s.db.SetMaxIdleConns(maxIdleConns)
	s.db.SetMaxOpenConns(maxOpenConns)

	if err := s.db.PingContext(ctx); err != nil {
		return aerr.Wrapf(err, "ping history database failed").WithTag(aerr.InternalError)
	}

	return nil
}

func (s *Store) Migrate(ctx context.Context) error {
	logger := log.Ctx(ctx)

	migdir, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		panic(fmt.Errorf("prepare migration fs failed: %w", err))
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db.DB, migdir)
	if err != nil {
		panic(fmt.Errorf("create goose provider failed: %w", err))
	}

	ver, err := provider.GetDBVersion(ctx)
	if err != nil {
		return aerr.ApplyFor(aerr.ErrStorage, err, "check history database version failed")
	}

	logger.Debug().Msgf("current history database version: %d", ver)

	for {
		res, err := provider.UpByOne(ctx)
		if res != nil {
			logger.Debug().Msgf("migration: %s", res)
		}

		if errors.Is(err, goose.ErrNoNextVersion) {
			break
		} else if err != nil {
			return aerr.ApplyFor(aerr.ErrStorage, err, "migrate history database failed")
		}
	}

	return nil
}

func (s *Store) RegisterMetrics() {
	prometheus.DefaultRegisterer.MustRegister(
		collectors.NewDBStatsCollector(s.db.DB, "history"))
}

// Shutdown close database. Called by samber/do.
func (s *Store) Shutdown(ctx context.Context) error {
	if s.db == nil {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close history database error: %w", err)
	}

	log.Ctx(ctx).Debug().Msg("history database closed")

	return nil
}

//------------------------------------------------------------------------------

func (s *Store) RecordRun(ctx context.Context, run *Run) error {
	query := `
		INSERT INTO runs (id, kind, week, feeds, failed_feeds, available_items, started_at, duration_ms)
		VALUES (:id, :kind, :week, :feeds, :failed_feeds, :available_items, :started_at, :duration_ms)
	`

	if _, err := s.db.NamedExecContext(ctx, query, run); err != nil {
		return aerr.Wrapf(err, "insert run failed").WithTag(aerr.InternalError)
	}

	return nil
}

func (s *Store) RecordOutcomes(ctx context.Context, runid string, outcomes []model.DownloadOutcome) error {
	query := `
		INSERT INTO outcomes (run_id, feed_title, episode_title, media_url, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()

	for _, o := range outcomes {
		_, err := s.db.ExecContext(ctx, query,
			runid, o.FeedTitle, o.EpisodeTitle, o.MediaURL, string(o.Status), o.Error, now)
		if err != nil {
			return aerr.Wrapf(err, "insert outcome failed").WithTag(aerr.InternalError)
		}
	}

	return nil
}

// ListRuns return most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, kind, week, feeds, failed_feeds, available_items, started_at, duration_ms
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`

	runs := []Run{}
	if err := s.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, aerr.Wrapf(err, "query runs failed").WithTag(aerr.InternalError)
	}

	return runs, nil
}

// ListOutcomes return outcomes recorded for one run, insertion order.
func (s *Store) ListOutcomes(ctx context.Context, runid string) ([]Outcome, error) {
	query := `
		SELECT id, run_id, feed_title, episode_title, media_url, status, error, created_at
		FROM outcomes
		WHERE run_id = ?
		ORDER BY id
	`

	outcomes := []Outcome{}
	if err := s.db.SelectContext(ctx, &outcomes, query, runid); err != nil {
		return nil, aerr.Wrapf(err, "query outcomes failed").WithTag(aerr.InternalError)
	}

	return outcomes, nil
}

//------------------------------------------------------------------------------

// prepareSqliteConnstr add required parameters (foreign keys) when missing.
func prepareSqliteConnstr(connstr string) (string, error) {
	if connstr == "" {
		return "", aerr.ErrInvalidConf.WithUserMsg("history database connstr can't be empty")
	}

	path, query, _ := strings.Cut(connstr, "?")
	if path == "" {
		return "", aerr.ErrInvalidConf.WithUserMsg("invalid history database connstr")
	}

	params, err := url.ParseQuery(query)
	if err != nil {
		return "", aerr.ErrInvalidConf.WithError(err).WithUserMsg("invalid history database connstr")
	}

	if !params.Has("_fk") && !params.Has("__foreign_keys") {
		params.Set("_fk", "ON")
	}

	return path + "?" + params.Encode(), nil
}
