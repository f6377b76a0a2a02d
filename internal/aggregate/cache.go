package aggregate

//
// cache.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"gitlab.com/kabes/podweek/internal/common"
	"gitlab.com/kabes/podweek/internal/model"
)

// Cache persist one aggregate artifact per week number under dir.
// A cached week is final; nothing here invalidates or recomputes it.
type Cache struct {
	dir string
}

func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

func (c *Cache) path(weeknumber int) string {
	return filepath.Join(c.dir, fmt.Sprintf("%d.json", weeknumber))
}

// Get return cached aggregate for week or common.ErrNoData when absent.
func (c *Cache) Get(weeknumber int) (*model.WeeklyAggregate, error) {
	content, err := os.ReadFile(c.path(weeknumber))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.ErrNoData
	} else if err != nil {
		return nil, common.ErrCacheIO.WithError(err).WithMeta("week", weeknumber)
	}

	var aggregate model.WeeklyAggregate
	if err := json.Unmarshal(content, &aggregate); err != nil {
		return nil, common.ErrCacheIO.WithError(err).
			WithMsg("parse cached aggregate failed").WithMeta("week", weeknumber)
	}

	return &aggregate, nil
}

// Put write aggregate artifact for the week, whole-document.
func (c *Cache) Put(weeknumber int, aggregate *model.WeeklyAggregate) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return common.ErrCacheIO.WithError(err).WithMsg("create results dir failed")
	}

	content, err := json.MarshalIndent(aggregate, "", "  ")
	if err != nil {
		return common.ErrCacheIO.WithError(err).WithMsg("marshal aggregate failed")
	}

	if err := os.WriteFile(c.path(weeknumber), content, 0o644); err != nil { //nolint:gosec
		return common.ErrCacheIO.WithError(err).WithMeta("week", weeknumber)
	}

	return nil
}

// GetOrCompute return cached aggregate or compute, persist and return a
// fresh one. In steady state compute runs at most once per week number.
// Concurrent first callers for the same week are not mutually excluded;
// both compute the same content and the write degrades to a redundant,
// identical overwrite.
func (c *Cache) GetOrCompute(
	ctx context.Context,
	weeknumber int,
	compute func(ctx context.Context) (*model.WeeklyAggregate, error),
) (*model.WeeklyAggregate, bool, error) {
	logger := zerolog.Ctx(ctx)

	aggregate, err := c.Get(weeknumber)

	switch {
	case err == nil:
		logger.Debug().Int(common.LogKeyWeek, weeknumber).Msg("aggregate loaded from cache")

		return aggregate, true, nil

	case !errors.Is(err, common.ErrNoData):
		return nil, false, err
	}

	aggregate, err = compute(ctx)
	if err != nil {
		return nil, false, err
	}

	if err := c.Put(weeknumber, aggregate); err != nil {
		return nil, false, err
	}

	logger.Debug().Int(common.LogKeyWeek, weeknumber).Msg("aggregate computed and cached")

	return aggregate, false, nil
}
