package download

//
// downloader_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"gitlab.com/kabes/podweek/internal/assert"
	"gitlab.com/kabes/podweek/internal/config"
	"gitlab.com/kabes/podweek/internal/model"
)

func newTestSrv(mediadir string) *Srv {
	return &Srv{
		cfg:    &config.Config{MediaDir: mediadir, DownloadBatchSize: 2},
		client: &http.Client{},
	}
}

// weekDir create the per-week media subdirectory the way a full run does.
func weekDir(t *testing.T, mediadir string, week int) string {
	t.Helper()

	dir := filepath.Join(mediadir, strconv.Itoa(week))
	assert.NoErr(t, os.MkdirAll(dir, 0o755))

	return dir
}

func TestProcessTaskDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("media content"))
	}))
	defer server.Close()

	dir := t.TempDir()
	srv := newTestSrv(dir)
	wdir := weekDir(t, dir, 5)

	task := model.DownloadTask{
		FeedTitle:    "My Podcast",
		EpisodeTitle: "Episode One",
		MediaURL:     server.URL + "/ep1.mp3",
	}

	outcome := srv.processTask(t.Context(), task, 5)
	assert.Equal(t, outcome.Status, model.DownloadSuccess)
	assert.Equal(t, outcome.Error, "")

	// files land in one subdirectory per week
	content, err := os.ReadFile(filepath.Join(wdir, "My-Podcast_5_Episode-One.mp3"))
	assert.NoErr(t, err)
	assert.Equal(t, string(content), "media content")

	// second run finds the file on disk and transfers nothing
	again := srv.processTask(t.Context(), task, 5)
	assert.Equal(t, again.Status, model.DownloadSkipped)
}

func TestProcessTaskSkipExisting(t *testing.T) {
	dir := t.TempDir()
	srv := newTestSrv(dir)

	existing := filepath.Join(weekDir(t, dir, 1), "Feed_1_Episode.mp3")
	assert.NoErr(t, os.WriteFile(existing, []byte("old content"), 0o644))

	task := model.DownloadTask{
		FeedTitle:    "Feed",
		EpisodeTitle: "Episode",
		MediaURL:     "https://unreachable.invalid/ep.mp3",
	}

	// url is never contacted; the skip decision happens before any request
	outcome := srv.processTask(t.Context(), task, 1)
	assert.Equal(t, outcome.Status, model.DownloadSkipped)

	content, err := os.ReadFile(existing)
	assert.NoErr(t, err)
	assert.Equal(t, string(content), "old content")
}

func TestProcessTaskFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dir := t.TempDir()
	srv := newTestSrv(dir)
	wdir := weekDir(t, dir, 1)

	task := model.DownloadTask{
		FeedTitle:    "Feed",
		EpisodeTitle: "Gone",
		MediaURL:     server.URL + "/gone.mp3",
	}

	outcome := srv.processTask(t.Context(), task, 1)
	assert.Equal(t, outcome.Status, model.DownloadFailed)
	assert.True(t, strings.Contains(outcome.Error, "unexpected response status"))

	// no file and no partial leftovers
	entries, err := os.ReadDir(wdir)
	assert.NoErr(t, err)
	assert.Equal(t, len(entries), 0)
}

func TestProcessTaskRetries(t *testing.T) {
	var calls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		_, _ = w.Write([]byte("ok after retry"))
	}))
	defer server.Close()

	dir := t.TempDir()
	srv := newTestSrv(dir)
	weekDir(t, dir, 1)

	task := model.DownloadTask{
		FeedTitle:    "Feed",
		EpisodeTitle: "Flaky",
		MediaURL:     server.URL + "/flaky.mp3",
	}

	outcome := srv.processTask(t.Context(), task, 1)
	assert.Equal(t, outcome.Status, model.DownloadSuccess)
	assert.Equal(t, calls, 2)
}
