//
// aggregate.go
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

	"gitlab.com/kabes/podweek/internal/aggregate"
	"gitlab.com/kabes/podweek/internal/model"
)

func newAggregateCmd() *cli.Command {
	return &cli.Command{
		Name:  "aggregate",
		Usage: "aggregate feeds for one week and cache the result",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "week",
				Usage:   "iso week number of current year; 0 means last finished week",
				Aliases: []string{"w"},
				Value:   0,
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "recompute and overwrite cached result",
			},
		},
		Action: wrap(aggregateCmd),
	}
}

//nolint:forbidigo
func aggregateCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	aggSrv := do.MustInvoke[*aggregate.Srv](injector)

	var (
		agg    *model.WeeklyAggregate
		cached bool
		err    error
	)

	if weeknumber := clicmd.Int("week"); weeknumber > 0 {
		agg, cached, err = aggSrv.ForWeekNumber(ctx, weeknumber, clicmd.Bool("force"))
	} else {
		agg, cached, err = aggSrv.LastWeek(ctx)
	}

	if err != nil {
		return fmt.Errorf("aggregate error: %w", err)
	}

	if cached {
		fmt.Printf("Week %d already aggregated; cached result:\n", agg.WeekNumber)
	}

	fmt.Printf("Week:            %d (starting %s)\n", agg.WeekNumber, agg.StartOfWeek)
	fmt.Printf("Available items: %d\n", agg.AvailableItems)
	fmt.Println()
	fmt.Printf("%-40s | %s\n", "Feed", "Episodes")
	fmt.Println("---------------------------------------------------------")

	for _, result := range agg.Results {
		if result.UpdateStatus == model.FeedFailed {
			fmt.Printf("%-40s | failed\n", result.FeedTitle)
		} else {
			fmt.Printf("%-40s | %d\n", result.FeedTitle, result.UpdateStatus)
		}
	}

	return nil
}
