package config

//
// config.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"os"

	"gopkg.in/yaml.v3"

	"gitlab.com/kabes/podweek/internal/aerr"
	"gitlab.com/kabes/podweek/internal/common"
)

const (
	defaultFetchBatchSize    = 3
	defaultDownloadBatchSize = 2
	maxBatchSize             = 16
)

// Config holds the ordered feed-source list and pipeline tunables; loaded
// from a yaml file so tests can inject small fixed lists.
type Config struct {
	// Feeds is the ordered list of feed urls; order defines batch and
	// result order.
	Feeds []string `yaml:"feeds"`

	// FetchBatchSize limit concurrent feed fetches within one batch.
	FetchBatchSize int `yaml:"fetchBatchSize"`
	// DownloadBatchSize limit concurrent media downloads within one batch.
	DownloadBatchSize int `yaml:"downloadBatchSize"`

	// ResultsDir is directory for per-week aggregate artifacts.
	ResultsDir string `yaml:"resultsDir"`
	// MediaDir is root directory for downloaded media; one subdirectory
	// per week is created under it.
	MediaDir string `yaml:"mediaDir"`
}

func Default() *Config {
	return &Config{
		Feeds:             nil,
		FetchBatchSize:    defaultFetchBatchSize,
		DownloadBatchSize: defaultDownloadBatchSize,
		ResultsDir:        "results",
		MediaDir:          "media",
	}
}

// Load read configuration from yaml file; missing keys keep defaults.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, aerr.Wrapf(err, "read config file failed").
			WithTag(aerr.ConfigurationError).WithMeta("path", path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, aerr.Wrapf(err, "parse config file failed").
			WithTag(aerr.ConfigurationError).WithMeta("path", path)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Feeds) == 0 {
		return common.ErrNoSources.WithUserMsg("configuration must define at least one feed url")
	}

	if c.FetchBatchSize < 1 || c.FetchBatchSize > maxBatchSize {
		return aerr.ErrInvalidConf.WithUserMsg("fetchBatchSize must be in range 1-%d", maxBatchSize)
	}

	if c.DownloadBatchSize < 1 || c.DownloadBatchSize > maxBatchSize {
		return aerr.ErrInvalidConf.WithUserMsg("downloadBatchSize must be in range 1-%d", maxBatchSize)
	}

	if c.ResultsDir == "" || c.MediaDir == "" {
		return aerr.ErrInvalidConf.WithUserMsg("resultsDir and mediaDir can't be empty")
	}

	return nil
}
