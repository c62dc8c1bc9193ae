package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/arcade-wallet/internal/config"
	"github.com/iliyamo/arcade-wallet/internal/repository"
)

func newCatalogHandler(t *testing.T) (*CatalogHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h := NewCatalogHandler(
		config.Config{EventKey: testEvent},
		repository.NewGameRepo(db),
		repository.NewPresetRepo(db),
	)
	return h, mock
}

func TestListGamesReturnsActiveOnly(t *testing.T) {
	h, mock := newCatalogHandler(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM arcade_games\s+WHERE event_key = \? AND is_active = TRUE\s+ORDER BY name ASC`).
		WithArgs(testEvent).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_key", "name", "default_debit_amount", "allowed_debit_amounts", "is_active", "created_at",
		}).
			AddRow(1, testEvent, "Air Hockey", int64(20), `[10,20,50]`, true, now).
			AddRow(2, testEvent, "Claw Machine", int64(10), `[10]`, true, now))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/games", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.ListGames(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"name":"Air Hockey"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListPresetsRejectsBadGameID(t *testing.T) {
	h, _ := newCatalogHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.ListPresets(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPresetsOrdersBySortOrder(t *testing.T) {
	h, mock := newCatalogHandler(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM arcade_reward_presets\s+WHERE event_key = \? AND game_id = \? AND is_active = TRUE\s+ORDER BY sort_order ASC, label ASC`).
		WithArgs(testEvent, uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_key", "game_id", "label", "amount", "is_active", "sort_order", "created_at",
		}).
			AddRow(3, testEvent, 1, "Winner", int64(50), true, int32(1), now).
			AddRow(4, testEvent, 1, "Runner-up", int64(20), true, int32(2), now))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.ListPresets(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"label":"Winner"`)
	require.NoError(t, mock.ExpectationsWereMet())
}
