//
// rss.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"

	"gitlab.com/kabes/podweek/internal/aggregate"
	"gitlab.com/kabes/podweek/internal/model"
	"gitlab.com/kabes/podweek/internal/rssout"
)

func newRSSCmd() *cli.Command {
	return &cli.Command{
		Name:  "rss",
		Usage: "render aggregated week as rss document",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "week",
				Usage:   "iso week number of current year; 0 means last finished week",
				Aliases: []string{"w"},
				Value:   0,
			},
			&cli.StringFlag{
				Name:      "output",
				Usage:     "output file; empty write to stdout",
				Aliases:   []string{"o"},
				TakesFile: true,
			},
		},
		Action: wrap(rssCmd),
	}
}

func rssCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	aggSrv := do.MustInvoke[*aggregate.Srv](injector)

	var (
		agg *model.WeeklyAggregate
		err error
	)

	if weeknumber := clicmd.Int("week"); weeknumber > 0 {
		agg, _, err = aggSrv.ForWeekNumber(ctx, weeknumber, false)
	} else {
		agg, _, err = aggSrv.LastWeek(ctx)
	}

	if err != nil {
		return fmt.Errorf("get aggregate error: %w", err)
	}

	out := os.Stdout

	if output := clicmd.String("output"); output != "" {
		out, err = os.Create(output)
		if err != nil {
			return fmt.Errorf("create output file error: %w", err)
		}

		defer out.Close()
	}

	if err := rssout.Render(out, agg); err != nil {
		return fmt.Errorf("render rss error: %w", err)
	}

	return nil
}
