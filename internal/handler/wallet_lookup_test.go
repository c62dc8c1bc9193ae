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

var lookupCols = []string{
	"w.id", "w.wallet_code", "w.balance", "w.event_key",
	"r.id", "r.name", "r.email", "r.contact", "r.reg_no", "r.category",
	"r.team_lead_reg_id", "r.checkin_status", "r.checkin_at", "r.reject_reason",
	"p.code", "p.title",
}

var txnListCols = []string{
	"id", "wallet_id", "kind", "amount", "reason",
	"actor_type", "actor_id", "actor_username",
	"event_key", "game_id", "preset_id", "action_id",
	"balance_after", "created_at",
}

func newLookupHandler(t *testing.T) (*LookupHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h := NewLookupHandler(
		config.Config{EventKey: testEvent},
		repository.NewWalletRepo(db),
		repository.NewTxnRepo(db),
		repository.NewRegistrationRepo(db),
	)
	return h, mock
}

func lookupContext(code string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/wallets/lookup?code="+code, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLookupReturnsWalletRecentAndRoster(t *testing.T) {
	h, mock := newLookupHandler(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM arcade_wallets w\s+JOIN arcade_registrations r`).
		WithArgs(testEvent, "W-123").
		WillReturnRows(sqlmock.NewRows(lookupCols).AddRow(
			10, "W-123", int64(70), testEvent,
			42, "Dana Visitor", nil, nil, "REG-0042", nil,
			nil, "CHECKED_IN", now, nil,
			"DAYPASS", "Day Pass",
		))
	mock.ExpectQuery(`FROM arcade_wallet_txns\s+WHERE event_key = \? AND wallet_id = \?\s+ORDER BY created_at DESC, id DESC`).
		WithArgs(testEvent, uint64(10), 3).
		WillReturnRows(sqlmock.NewRows(txnListCols).
			AddRow(5, 10, "DEBIT", int64(30), "PLAY", "STAFF", 7, "station", testEvent, 2, nil, "act-2", int64(70), now).
			AddRow(4, 10, "CREDIT", int64(100), "REWARD", "STAFF", 7, "station", testEvent, nil, 1, "act-1", int64(100), now.Add(-time.Minute)))
	mock.ExpectQuery(`SELECT team_lead_reg_id FROM arcade_registrations`).
		WithArgs(uint64(42), testEvent).
		WillReturnRows(sqlmock.NewRows([]string{"team_lead_reg_id"}).AddRow(nil))
	mock.ExpectQuery(`LEFT JOIN arcade_wallets w ON w\.registration_id = r\.id`).
		WithArgs(testEvent, uint64(42), uint64(42), uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"r.id", "r.name", "r.reg_no", "r.category", "r.checkin_status",
			"w.id", "w.wallet_code", "w.balance",
		}).AddRow(42, "Dana Visitor", "REG-0042", nil, "CHECKED_IN", 10, "W-123", int64(70)))

	c, rec := lookupContext("W-123")
	require.NoError(t, h.Lookup(c))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `"wallet_code":"W-123"`)
	require.Contains(t, body, `"recent"`)
	// A solo registration yields an empty roster rather than itself.
	require.Contains(t, body, `"team_members":[]`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupUnknownCodeReturnsNullItem(t *testing.T) {
	h, mock := newLookupHandler(t)

	mock.ExpectQuery(`FROM arcade_wallets w\s+JOIN arcade_registrations r`).
		WithArgs(testEvent, "NOPE").
		WillReturnRows(sqlmock.NewRows(lookupCols))

	c, rec := lookupContext("NOPE")
	require.NoError(t, h.Lookup(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"item": null}`, rec.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupRequiresCode(t *testing.T) {
	h, _ := newLookupHandler(t)

	c, rec := lookupContext("")
	require.NoError(t, h.Lookup(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
