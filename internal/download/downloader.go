// Package download retrieve episode media files listed in a weekly
// aggregate. Downloads are idempotent; files already on disk are
// skipped, failed tasks are reported as outcomes and never abort the
// run.
package download

//
// downloader.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/samber/do/v2"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"gitlab.com/kabes/podweek/internal/aggregate"
	"gitlab.com/kabes/podweek/internal/common"
	"gitlab.com/kabes/podweek/internal/config"
	"gitlab.com/kabes/podweek/internal/history"
	"gitlab.com/kabes/podweek/internal/model"
)

const (
	retryBase     = time.Second
	retryAttempts = 2
)

var downloadsCntr = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "podweek_media_downloads_total",
		Help: "Media download attempts partitioned by result.",
	},
	[]string{"result"},
)

type Srv struct {
	cfg        *config.Config
	aggregates *aggregate.Srv
	store      *history.Store
	client     *http.Client
}

func NewSrvI(i do.Injector) (*Srv, error) {
	return &Srv{
		cfg:        do.MustInvoke[*config.Config](i),
		aggregates: do.MustInvoke[*aggregate.Srv](i),
		store:      do.MustInvoke[*history.Store](i),
		// no client timeout; media transfers are long and bounded by ctx
		client: &http.Client{},
	}, nil
}

// LastWeek download media for the most recent finished week, computing
// the aggregate first when not cached yet.
func (s *Srv) LastWeek(ctx context.Context) (*model.DownloadReport, error) {
	agg, _, err := s.aggregates.LastWeek(ctx)
	if err != nil {
		return nil, err
	}

	return s.download(ctx, agg)
}

// ForWeekNumber download media for given iso week of the current year.
func (s *Srv) ForWeekNumber(ctx context.Context, weeknumber int) (*model.DownloadReport, error) {
	agg, _, err := s.aggregates.ForWeekNumber(ctx, weeknumber, false)
	if err != nil {
		return nil, err
	}

	return s.download(ctx, agg)
}

func (s *Srv) download(ctx context.Context, agg *model.WeeklyAggregate) (*model.DownloadReport, error) {
	logger := zerolog.Ctx(ctx)

	// media files land in one subdirectory per week
	weekdir := filepath.Join(s.cfg.MediaDir, strconv.Itoa(agg.WeekNumber))
	if err := os.MkdirAll(weekdir, 0o755); err != nil {
		return nil, common.ErrMediaDir.WithError(err)
	}

	tasks := agg.MediaEpisodes()
	batchsize := max(s.cfg.DownloadBatchSize, 1)

	logger.Info().Int(common.LogKeyWeek, agg.WeekNumber).
		Msgf("downloading %d media files; batch_size=%d", len(tasks), batchsize)

	started := time.Now()
	outcomes := make([]model.DownloadOutcome, len(tasks))

	for start := 0; start < len(tasks); start += batchsize {
		batch := tasks[start:min(start+batchsize, len(tasks))]

		// task failures land in outcomes, never in the group error
		var group errgroup.Group

		for offset, task := range batch {
			idx := start + offset

			group.Go(func() error {
				outcomes[idx] = s.processTask(ctx, task, agg.WeekNumber)

				return nil
			})
		}

		_ = group.Wait()

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	s.recordRun(ctx, agg.WeekNumber, outcomes, started)

	report := model.NewDownloadReport(agg.WeekNumber, outcomes)
	logger.Info().Int(common.LogKeyWeek, agg.WeekNumber).
		Msgf("download finished; success=%d failed=%d", len(report.Success), len(report.Failed))

	return report, nil
}

func (s *Srv) processTask(ctx context.Context, task model.DownloadTask, weeknumber int) model.DownloadOutcome {
	logger := zerolog.Ctx(ctx)
	outcome := model.DownloadOutcome{DownloadTask: task}

	name := Filename(task.FeedTitle, weeknumber, task.EpisodeTitle, task.MediaURL)
	dst := filepath.Join(s.cfg.MediaDir, strconv.Itoa(weeknumber), name)

	if _, err := os.Stat(dst); err == nil {
		logger.Debug().Str("file", name).Msg("media already downloaded, skipped")
		downloadsCntr.WithLabelValues("skipped").Inc()

		outcome.Status = model.DownloadSkipped

		return outcome
	}

	if err := s.fetchFile(ctx, task.MediaURL, dst, name); err != nil {
		logger.Warn().Err(err).Str("file", name).Str("url", task.MediaURL).
			Msg("media download failed")
		downloadsCntr.WithLabelValues("failed").Inc()

		outcome.Status = model.DownloadFailed
		outcome.Error = err.Error()

		return outcome
	}

	logger.Debug().Str("file", name).Msg("media downloaded")
	downloadsCntr.WithLabelValues("success").Inc()

	outcome.Status = model.DownloadSuccess

	return outcome
}

func (s *Srv) fetchFile(ctx context.Context, mediaurl, dst, name string) error {
	backoff := retry.WithMaxRetries(retryAttempts, retry.NewExponential(retryBase))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		return s.fetchFileOnce(ctx, mediaurl, dst, name)
	})
}

func (s *Srv) fetchFileOnce(ctx context.Context, mediaurl, dst, name string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaurl, nil)
	if err != nil {
		return fmt.Errorf("prepare request failed: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return retry.RetryableError(err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected response status: %s", resp.Status)
		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(err)
		}

		return err
	}

	// write into a temporary file first so a broken transfer never
	// leaves a partial media file that a later run would skip
	tmp := dst + ".part"

	out, err := os.Create(tmp)
	if err != nil {
		return common.ErrMediaDir.WithError(err).WithMeta("file", dst)
	}

	progress := newProgressWriter(zerolog.Ctx(ctx), name, resp.ContentLength)

	if _, err := io.Copy(io.MultiWriter(out, progress), resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)

		return retry.RetryableError(fmt.Errorf("transfer failed: %w", err))
	}

	if err := out.Close(); err != nil {
		os.Remove(tmp)

		return common.ErrMediaDir.WithError(err).WithMeta("file", dst)
	}

	if err := os.Rename(tmp, dst); err != nil {
		return common.ErrMediaDir.WithError(err).WithMeta("file", dst)
	}

	return nil
}

func (s *Srv) recordRun(ctx context.Context, weeknumber int, outcomes []model.DownloadOutcome, started time.Time) {
	failed := 0

	for _, o := range outcomes {
		if o.Status == model.DownloadFailed {
			failed++
		}
	}

	run := &history.Run{
		ID:          xid.New().String(),
		Kind:        history.RunKindDownload,
		Week:        weeknumber,
		Feeds:       len(outcomes),
		FailedFeeds: failed,
		StartedAt:   started.UTC(),
		DurationMS:  time.Since(started).Milliseconds(),
	}

	if err := s.store.RecordRun(ctx, run); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("record download run failed")

		return
	}

	if err := s.store.RecordOutcomes(ctx, run.ID, outcomes); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("record download outcomes failed")
	}
}
