package handler

import (
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/arcade-wallet/internal/config"
	"github.com/iliyamo/arcade-wallet/internal/ledger"
	"github.com/iliyamo/arcade-wallet/internal/repository"
)

func newTxnHandler(t *testing.T) (*TxnHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	engine := ledger.NewEngine(db,
		repository.NewWalletRepo(db),
		repository.NewRegistrationRepo(db),
		repository.NewTxnRepo(db),
	)
	return NewTxnHandler(config.Config{EventKey: testEvent}, engine), mock
}

// lockedWalletRow is wallet 10 owned by registration 42, as read under
// the engine's row lock.
func lockedWalletRow(balance int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "event_key", "wallet_code", "registration_id", "balance", "updated_at"}).
		AddRow(10, testEvent, "W-123", 42, balance, time.Now().UTC())
}

func TestDebitAppliesWithDefaultReason(t *testing.T) {
	h, mock := newTxnHandler(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM arcade_wallet_txns WHERE event_key = \? AND action_id = \?`).
		WithArgs(testEvent, "act-1").
		WillReturnRows(sqlmock.NewRows(txnListCols))
	mock.ExpectQuery(`FROM arcade_wallets\s+WHERE id = \? AND event_key = \?\s+FOR UPDATE`).
		WithArgs(uint64(10), testEvent).
		WillReturnRows(lockedWalletRow(int64(100)))
	mock.ExpectQuery(`SELECT checkin_status FROM arcade_registrations`).
		WithArgs(uint64(42), testEvent).
		WillReturnRows(sqlmock.NewRows([]string{"checkin_status"}).AddRow("CHECKED_IN"))
	mock.ExpectExec(`UPDATE arcade_wallets SET balance = \?`).
		WithArgs(int64(70), uint64(10), testEvent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO arcade_wallet_txns`).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery(`FROM arcade_wallet_txns WHERE id = \?`).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows(txnListCols).
			AddRow(5, 10, "DEBIT", int64(30), "PLAY", "STAFF", 7, "gatekeeper", testEvent, nil, nil, "act-1", int64(70), now))
	mock.ExpectCommit()

	c, rec := staffContext(t, `{"wallet_id": 10, "amount": 30, "action_id": "act-1"}`)
	require.NoError(t, h.Debit(c))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `"reason":"PLAY"`)
	require.Contains(t, body, `"balance_after":70`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitInsufficientBalanceMapsToConflict(t *testing.T) {
	h, mock := newTxnHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM arcade_wallet_txns WHERE event_key = \? AND action_id = \?`).
		WithArgs(testEvent, "act-2").
		WillReturnRows(sqlmock.NewRows(txnListCols))
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(uint64(10), testEvent).
		WillReturnRows(lockedWalletRow(int64(5)))
	mock.ExpectQuery(`SELECT checkin_status FROM arcade_registrations`).
		WithArgs(uint64(42), testEvent).
		WillReturnRows(sqlmock.NewRows([]string{"checkin_status"}).AddRow("CHECKED_IN"))
	mock.ExpectRollback()

	c, rec := staffContext(t, `{"wallet_id": 10, "amount": 30, "action_id": "act-2"}`)
	require.NoError(t, h.Debit(c))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), `"error":"insufficient_balance"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditRejectedWhenNotCheckedIn(t *testing.T) {
	h, mock := newTxnHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM arcade_wallet_txns WHERE event_key = \? AND action_id = \?`).
		WithArgs(testEvent, "act-3").
		WillReturnRows(sqlmock.NewRows(txnListCols))
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(uint64(10), testEvent).
		WillReturnRows(lockedWalletRow(int64(0)))
	mock.ExpectQuery(`SELECT checkin_status FROM arcade_registrations`).
		WithArgs(uint64(42), testEvent).
		WillReturnRows(sqlmock.NewRows([]string{"checkin_status"}).AddRow("PENDING"))
	mock.ExpectRollback()

	c, rec := staffContext(t, `{"wallet_id": 10, "amount": 50, "action_id": "act-3"}`)
	require.NoError(t, h.Credit(c))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), `"error":"not_checked_in"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitUnknownWalletMapsToNotFound(t *testing.T) {
	h, mock := newTxnHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM arcade_wallet_txns WHERE event_key = \? AND action_id = \?`).
		WithArgs(testEvent, "act-4").
		WillReturnRows(sqlmock.NewRows(txnListCols))
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(uint64(99), testEvent).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	c, rec := staffContext(t, `{"wallet_id": 99, "amount": 30, "action_id": "act-4"}`)
	require.NoError(t, h.Debit(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitValidationMapsToBadRequest(t *testing.T) {
	h, _ := newTxnHandler(t)

	// Missing action_id never reaches the database.
	c, rec := staffContext(t, `{"wallet_id": 10, "amount": 30}`)
	require.NoError(t, h.Debit(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), `"error":"invalid_argument"`)
}
