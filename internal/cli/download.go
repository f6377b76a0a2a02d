//
// download.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package cli

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"

	"gitlab.com/kabes/podweek/internal/download"
	"gitlab.com/kabes/podweek/internal/model"
)

func newDownloadCmd() *cli.Command {
	return &cli.Command{
		Name:  "download",
		Usage: "download media files for one week",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "week",
				Usage:   "iso week number of current year; 0 means last finished week",
				Aliases: []string{"w"},
				Value:   0,
			},
		},
		Action: wrap(downloadCmd),
	}
}

//nolint:forbidigo
func downloadCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	downloadSrv := do.MustInvoke[*download.Srv](injector)

	var (
		report *model.DownloadReport
		err    error
	)

	if weeknumber := clicmd.Int("week"); weeknumber > 0 {
		report, err = downloadSrv.ForWeekNumber(ctx, weeknumber)
	} else {
		report, err = downloadSrv.LastWeek(ctx)
	}

	if err != nil {
		return fmt.Errorf("download error: %w", err)
	}

	fmt.Printf("Week %d: %d downloaded or skipped, %d failed\n",
		report.WeekNumber, len(report.Success), len(report.Failed))

	for _, outcome := range report.Failed {
		fmt.Printf("  failed: %s / %s: %s\n", outcome.FeedTitle, outcome.EpisodeTitle, outcome.Error)
	}

	return nil
}
