package config

//
// config_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"os"
	"path/filepath"
	"testing"

	"gitlab.com/kabes/podweek/internal/assert"
	"gitlab.com/kabes/podweek/internal/common"
)

func TestLoad(t *testing.T) {
	content := `
feeds:
  - https://example.com/feed1.xml
  - https://example.com/feed2.xml
fetchBatchSize: 2
mediaDir: /tmp/media
`

	path := filepath.Join(t.TempDir(), "podweek.yaml")
	assert.NoErr(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	assert.NoErr(t, err)
	assert.Equal(t, len(cfg.Feeds), 2)
	assert.Equal(t, cfg.Feeds[0], "https://example.com/feed1.xml")
	assert.Equal(t, cfg.FetchBatchSize, 2)
	// defaults kept for missing keys
	assert.Equal(t, cfg.DownloadBatchSize, defaultDownloadBatchSize)
	assert.Equal(t, cfg.ResultsDir, "results")
	assert.Equal(t, cfg.MediaDir, "/tmp/media")

	assert.NoErr(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "no-such-file.yaml"))
	assert.Err(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Feeds = []string{"https://example.com/feed.xml"}
	assert.NoErr(t, cfg.Validate())

	nofeeds := Default()
	assert.ErrSpec(t, nofeeds.Validate(), common.ErrNoSources)

	badbatch := Default()
	badbatch.Feeds = cfg.Feeds
	badbatch.FetchBatchSize = 0
	assert.Err(t, badbatch.Validate())

	baddir := Default()
	baddir.Feeds = cfg.Feeds
	baddir.MediaDir = ""
	assert.Err(t, baddir.Validate())
}
