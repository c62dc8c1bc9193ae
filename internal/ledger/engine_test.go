package ledger

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/arcade-wallet/internal/model"
	"github.com/iliyamo/arcade-wallet/internal/repository"
)

const testEvent = "EVT2026"

var txnCols = []string{
	"id", "wallet_id", "kind", "amount", "reason",
	"actor_type", "actor_id", "actor_username",
	"event_key", "game_id", "preset_id", "action_id",
	"balance_after", "created_at",
}

func newEngine(t *testing.T) (*Engine, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	eng := NewEngine(db,
		repository.NewWalletRepo(db),
		repository.NewRegistrationRepo(db),
		repository.NewTxnRepo(db),
	)
	return eng, mock, func() { _ = db.Close() }
}

func emptyTxnLookup() *sqlmock.Rows { return sqlmock.NewRows(txnCols) }

// walletRow is the locked wallet read: wallet 1 owned by registration 7.
func walletRow(balance int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "event_key", "wallet_code", "registration_id", "balance", "updated_at"}).
		AddRow(1, testEvent, "W-001", 7, balance, time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC))
}

func txnRow(id uint64, kind string, amount, balanceAfter int64, actionID string) *sqlmock.Rows {
	return sqlmock.NewRows(txnCols).AddRow(
		id, 1, kind, amount, "PLAY",
		"STAFF", 9, "gamestaff",
		testEvent, nil, nil, actionID,
		balanceAfter, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	)
}

func debitReq(amount int64, actionID string) ApplyRequest {
	staffID := uint64(9)
	username := "gamestaff"
	return ApplyRequest{
		EventKey:         testEvent,
		WalletID:         1,
		Kind:             model.TxnDebit,
		Amount:           amount,
		Reason:           "PLAY",
		ActionID:         actionID,
		Actor:            Actor{Type: "STAFF", ID: &staffID, Username: &username},
		EnforceCheckedIn: true,
	}
}

func TestApplyDebitHappyPath(t *testing.T) {
	eng, mock, done := newEngine(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM arcade_wallet_txns WHERE event_key = \? AND action_id = \?`).
		WithArgs(testEvent, "x1").
		WillReturnRows(emptyTxnLookup())
	mock.ExpectQuery(`FROM arcade_wallets\s+WHERE id = \? AND event_key = \?\s+FOR UPDATE`).
		WithArgs(uint64(1), testEvent).
		WillReturnRows(walletRow(100))
	mock.ExpectQuery(`SELECT checkin_status FROM arcade_registrations`).
		WithArgs(uint64(7), testEvent).
		WillReturnRows(sqlmock.NewRows([]string{"checkin_status"}).AddRow(model.CheckinCheckedIn))
	mock.ExpectExec(`UPDATE arcade_wallets SET balance = \?`).
		WithArgs(int64(70), uint64(1), testEvent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO arcade_wallet_txns`).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery(`FROM arcade_wallet_txns WHERE id = \?`).
		WithArgs(uint64(42)).
		WillReturnRows(txnRow(42, model.TxnDebit, 30, 70, "x1"))
	mock.ExpectCommit()

	txn, err := eng.Apply(context.Background(), debitReq(30, "x1"))
	require.NoError(t, err)
	require.Equal(t, uint64(42), txn.ID)
	require.Equal(t, int64(30), txn.Amount)
	require.Equal(t, int64(70), txn.BalanceAfter)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyIdempotentReplay(t *testing.T) {
	eng, mock, done := newEngine(t)
	defer done()

	// The action id already has a committed ledger row: the engine
	// must return it unchanged and issue no further mutation.
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM arcade_wallet_txns WHERE event_key = \? AND action_id = \?`).
		WithArgs(testEvent, "x1").
		WillReturnRows(txnRow(42, model.TxnDebit, 30, 70, "x1"))
	mock.ExpectCommit()

	txn, err := eng.Apply(context.Background(), debitReq(30, "x1"))
	require.NoError(t, err)
	require.Equal(t, uint64(42), txn.ID)
	require.Equal(t, int64(70), txn.BalanceAfter)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyInsufficientBalance(t *testing.T) {
	eng, mock, done := newEngine(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM arcade_wallet_txns WHERE event_key = \? AND action_id = \?`).
		WillReturnRows(emptyTxnLookup())
	mock.ExpectQuery(`FOR UPDATE`).
		WillReturnRows(walletRow(0))
	mock.ExpectQuery(`SELECT checkin_status FROM arcade_registrations`).
		WillReturnRows(sqlmock.NewRows([]string{"checkin_status"}).AddRow(model.CheckinCheckedIn))
	mock.ExpectRollback()

	_, err := eng.Apply(context.Background(), debitReq(10, "x2"))
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyNotCheckedIn(t *testing.T) {
	eng, mock, done := newEngine(t)
	defer done()

	req := debitReq(50, "x3")
	req.Kind = model.TxnCredit

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM arcade_wallet_txns WHERE event_key = \? AND action_id = \?`).
		WillReturnRows(emptyTxnLookup())
	mock.ExpectQuery(`FOR UPDATE`).
		WillReturnRows(walletRow(100))
	mock.ExpectQuery(`SELECT checkin_status FROM arcade_registrations`).
		WillReturnRows(sqlmock.NewRows([]string{"checkin_status"}).AddRow(model.CheckinPending))
	mock.ExpectRollback()

	_, err := eng.Apply(context.Background(), req)
	require.ErrorIs(t, err, ErrNotCheckedIn)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplySkipsGateWhenNotEnforced(t *testing.T) {
	eng, mock, done := newEngine(t)
	defer done()

	req := debitReq(30, "x9")
	req.EnforceCheckedIn = false

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM arcade_wallet_txns WHERE event_key = \? AND action_id = \?`).
		WillReturnRows(emptyTxnLookup())
	mock.ExpectQuery(`FOR UPDATE`).
		WillReturnRows(walletRow(100))
	mock.ExpectExec(`UPDATE arcade_wallets SET balance = \?`).
		WithArgs(int64(70), uint64(1), testEvent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO arcade_wallet_txns`).
		WillReturnResult(sqlmock.NewResult(43, 1))
	mock.ExpectQuery(`FROM arcade_wallet_txns WHERE id = \?`).
		WillReturnRows(txnRow(43, model.TxnDebit, 30, 70, "x9"))
	mock.ExpectCommit()

	txn, err := eng.Apply(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, int64(70), txn.BalanceAfter)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyWalletNotFound(t *testing.T) {
	eng, mock, done := newEngine(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM arcade_wallet_txns WHERE event_key = \? AND action_id = \?`).
		WillReturnRows(emptyTxnLookup())
	mock.ExpectQuery(`FOR UPDATE`).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := eng.Apply(context.Background(), debitReq(10, "x4"))
	require.ErrorIs(t, err, repository.ErrWalletNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyDuplicateActionRace(t *testing.T) {
	eng, mock, done := newEngine(t)
	defer done()

	// Two identical submissions both passed the idempotency lookup;
	// ours loses on the unique index and must return the winner's row.
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM arcade_wallet_txns WHERE event_key = \? AND action_id = \?`).
		WillReturnRows(emptyTxnLookup())
	mock.ExpectQuery(`FOR UPDATE`).
		WillReturnRows(walletRow(100))
	mock.ExpectQuery(`SELECT checkin_status FROM arcade_registrations`).
		WillReturnRows(sqlmock.NewRows([]string{"checkin_status"}).AddRow(model.CheckinCheckedIn))
	mock.ExpectExec(`UPDATE arcade_wallets SET balance = \?`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO arcade_wallet_txns`).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'EVT2026-x1' for key 'uq_txn_action'"))
	mock.ExpectRollback()
	mock.ExpectQuery(`FROM arcade_wallet_txns WHERE event_key = \? AND action_id = \?`).
		WithArgs(testEvent, "x1").
		WillReturnRows(txnRow(42, model.TxnDebit, 30, 70, "x1"))

	txn, err := eng.Apply(context.Background(), debitReq(30, "x1"))
	require.NoError(t, err)
	require.Equal(t, uint64(42), txn.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyValidation(t *testing.T) {
	eng, mock, done := newEngine(t)
	defer done()

	cases := []struct {
		name   string
		mutate func(*ApplyRequest)
	}{
		{"bad kind", func(r *ApplyRequest) { r.Kind = "TRANSFER" }},
		{"zero amount", func(r *ApplyRequest) { r.Amount = 0 }},
		{"negative amount", func(r *ApplyRequest) { r.Amount = -5 }},
		{"blank reason", func(r *ApplyRequest) { r.Reason = "   " }},
		{"missing action id", func(r *ApplyRequest) { r.ActionID = "" }},
		{"missing wallet", func(r *ApplyRequest) { r.WalletID = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := debitReq(10, "x5")
			tc.mutate(&req)
			_, err := eng.Apply(context.Background(), req)
			require.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
	// Validation failures must never reach the database.
	require.NoError(t, mock.ExpectationsWereMet())
}
