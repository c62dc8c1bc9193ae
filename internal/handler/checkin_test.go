package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/arcade-wallet/internal/config"
	"github.com/iliyamo/arcade-wallet/internal/repository"
)

const testEvent = "EVT2026"

var registrationCols = []string{
	"id", "event_key", "name", "email", "contact", "reg_no", "category",
	"plan_id", "team_lead_reg_id", "checkin_status", "checkin_at",
	"checkin_by_username", "rejected_at", "rejected_by", "reject_reason",
	"created_at", "updated_at",
}

// registrationRow builds the select-back row the transition queries
// return after an update.
func registrationRow(regID uint64, status string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(registrationCols).AddRow(
		regID, testEvent, "Dana Visitor", nil, nil, "REG-0042", nil,
		nil, nil, status, now,
		"gatekeeper", nil, nil, nil,
		now, now,
	)
}

// staffContext builds an echo context carrying the claims JWTAuth
// would have stored, with the request body as JSON.
func staffContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("staff_id", float64(7)) // numeric JWT claims arrive as float64
	c.Set("username", "gatekeeper")
	return c, rec
}

func newCheckinHandler(t *testing.T) (*CheckinHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h := NewCheckinHandler(
		config.Config{EventKey: testEvent},
		repository.NewRegistrationRepo(db),
		repository.NewAuditRepo(db),
	)
	return h, mock
}

func TestApproveWritesTransitionAndAudit(t *testing.T) {
	h, mock := newCheckinHandler(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE arcade_registrations\s+SET checkin_status = 'CHECKED_IN'`).
		WithArgs("gatekeeper", uint64(42), testEvent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .+ FROM arcade_registrations WHERE id = \? AND event_key = \? LIMIT 1`).
		WithArgs(uint64(42), testEvent).
		WillReturnRows(registrationRow(42, "CHECKED_IN"))
	mock.ExpectExec(`INSERT INTO arcade_audit_events`).
		WithArgs(testEvent, uint64(7), "gatekeeper", "CHECKIN_APPROVE", uint64(42), `{"reg_id":42}`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	c, rec := staffContext(t, `{"reg_id": 42}`)
	require.NoError(t, h.Approve(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"checkin_status":"CHECKED_IN"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectRecordsReasonInAudit(t *testing.T) {
	h, mock := newCheckinHandler(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE arcade_registrations\s+SET checkin_status = 'REJECTED'`).
		WithArgs("badge mismatch", uint64(7), uint64(42), testEvent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .+ FROM arcade_registrations WHERE id = \? AND event_key = \? LIMIT 1`).
		WithArgs(uint64(42), testEvent).
		WillReturnRows(registrationRow(42, "REJECTED"))
	mock.ExpectExec(`INSERT INTO arcade_audit_events`).
		WithArgs(testEvent, uint64(7), "gatekeeper", "CHECKIN_REJECT", uint64(42), `{"reason":"badge mismatch","reg_id":42}`).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	c, rec := staffContext(t, `{"reg_id": 42, "reason": "badge mismatch"}`)
	require.NoError(t, h.Reject(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"checkin_status":"REJECTED"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveUnknownRegistration(t *testing.T) {
	h, mock := newCheckinHandler(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE arcade_registrations\s+SET checkin_status = 'CHECKED_IN'`).
		WithArgs("gatekeeper", uint64(99), testEvent).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .+ FROM arcade_registrations WHERE id = \? AND event_key = \? LIMIT 1`).
		WithArgs(uint64(99), testEvent).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	c, rec := staffContext(t, `{"reg_id": 99}`)
	require.NoError(t, h.Approve(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveRequiresRegID(t *testing.T) {
	h, _ := newCheckinHandler(t)

	c, rec := staffContext(t, `{}`)
	require.NoError(t, h.Approve(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
