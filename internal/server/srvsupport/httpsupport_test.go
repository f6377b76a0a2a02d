package srvsupport

//
// httpsupport_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gitlab.com/kabes/podweek/internal/assert"
	"gitlab.com/kabes/podweek/internal/common"
)

func TestCheckAndWriteError(t *testing.T) {
	testcases := []struct {
		err     error
		expCode int
		expBody string
	}{
		{common.ErrNoData, http.StatusNotFound, "no data for week"},
		{fmt.Errorf("load: %w", common.ErrNoData), http.StatusNotFound, "no data for week"},
		{common.ErrInvalidWeek, http.StatusBadRequest, "week number must be in range 1-53"},
		{common.ErrCacheIO, http.StatusInternalServerError, "cache failure"},
		{fmt.Errorf("some internal failure"), http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)},
	}

	for i, tc := range testcases {
		t.Run(fmt.Sprintf("case %d", i), func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/weeks/12", nil)

			CheckAndWriteError(w, r, tc.err)

			assert.Equal(t, w.Code, tc.expCode)
			assert.True(t, strings.Contains(w.Body.String(), tc.expBody))
		})
	}
}

func TestWriteErrorJSON(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/lastweek", nil)
	r.Header.Set("Content-Type", "application/json")

	WriteError(w, r, http.StatusBadRequest, "invalid week number")

	assert.Equal(t, w.Code, http.StatusBadRequest)
	assert.True(t, strings.Contains(w.Body.String(), `{"error":"invalid week number"}`))
}
