//
// history.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"

	"gitlab.com/kabes/podweek/internal/history"
)

func newHistoryCmd() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "list recorded aggregation and download runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Usage:   "max number of runs to show",
				Aliases: []string{"n"},
				Value:   20,
			},
		},
		Action: wrap(historyCmd),
	}
}

//nolint:forbidigo
func historyCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	store := do.MustInvoke[*history.Store](injector)

	runs, err := store.ListRuns(ctx, clicmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("get runs list error: %w", err)
	}

	fmt.Printf("%-22s | %-10s | %-4s | %-5s | %-6s | %-5s | %s\n",
		"Started", "Kind", "Week", "Tasks", "Failed", "Items", "Duration")
	fmt.Println("--------------------------------------------------------------------------")

	for _, r := range runs {
		fmt.Printf("%-22s | %-10s | %4d | %5d | %6d | %5d | %s\n",
			r.StartedAt.Format(time.DateTime), r.Kind, r.Week, r.Feeds, r.FailedFeeds,
			r.AvailableItems, time.Duration(r.DurationMS)*time.Millisecond)
	}

	fmt.Printf("\nTotal: %d\n", len(runs))

	return nil
}
