package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/zhukovvlad/tender-matching-service/cmd/internal/services/matching"
	"github.com/zhukovvlad/tender-matching-service/cmd/internal/testutil"
	"github.com/zhukovvlad/tender-matching-service/cmd/pkg/logging"
	"github.com/zhukovvlad/tender-matching-service/internal/store"
)

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := logging.GetLogger()
	st := store.NewStore(db, logger)
	matchingService := matching.NewMatchingService(st, logger)
	return NewServer(st, logger, matchingService), mock
}

func TestServer_Healthz(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	var body map[string]string
	testutil.AssertResponse(t, w, http.StatusOK, &body)
	testutil.AssertEqual(t, "ok", body["status"])
}

func TestServer_GetStats(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM tender_matches").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\)").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	var body map[string]float64
	testutil.AssertResponse(t, w, http.StatusOK, &body)
	testutil.AssertEqual(t, float64(3), body["total_matches"])
	testutil.AssertEqual(t, float64(1), body["unmatched_count"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestServer_MatchPosition_RejectsInvalidBody(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/positions/match", strings.NewReader(`{"tender_position_id": 0}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "")
}
