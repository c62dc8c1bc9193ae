// Package ledger implements the wallet ledger engine: the single
// write path for token balances.  Every balance change runs through
// Apply, which executes one atomic database transaction holding an
// exclusive lock on the target wallet row.  The engine guarantees
// that a logical action identified by its idempotency token has
// exactly one economic effect no matter how often clients retry, and
// that no committed state ever shows a negative balance.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/arcade-wallet/internal/model"
	"github.com/iliyamo/arcade-wallet/internal/repository"
)

// ErrInvalidArgument is returned when a request is malformed: unknown
// kind, non-positive amount, blank reason or missing action id.
// Handlers should translate this into an HTTP 400 response.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrNotCheckedIn is returned when a gated apply targets a wallet
// whose registration is not CHECKED_IN.  Nothing is written.
var ErrNotCheckedIn = errors.New("not checked in")

// ErrInsufficientBalance is returned when a debit would drive the
// wallet balance below zero.  Nothing is written.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Actor identifies who applied a balance change.  The service records
// whatever identity the authentication boundary hands it.
type Actor struct {
	Type     string // actor category; STAFF for all staff app calls
	ID       *uint64
	Username *string
}

// ApplyRequest carries the parameters of one balance change.  The
// ActionID is the client-generated idempotency token; resubmitting a
// request with the same token replays the original result instead of
// applying a second effect.
type ApplyRequest struct {
	EventKey         string
	WalletID         uint64
	Kind             string // CREDIT or DEBIT
	Amount           int64  // unsigned token amount, must be > 0
	Reason           string
	Note             string // optional, appended to the reason
	ActionID         string
	GameID           *uint64
	PresetID         *uint64
	Actor            Actor
	EnforceCheckedIn bool
}

// Engine orchestrates the atomic apply protocol over the wallet,
// registration and transaction repositories.
type Engine struct {
	db      *sql.DB
	wallets *repository.WalletRepo
	regs    *repository.RegistrationRepo
	txns    *repository.TxnRepo
}

// NewEngine constructs an Engine.  All dependencies must be non-nil.
func NewEngine(db *sql.DB, wallets *repository.WalletRepo, regs *repository.RegistrationRepo, txns *repository.TxnRepo) *Engine {
	if db == nil || wallets == nil || regs == nil || txns == nil {
		panic("nil dependency passed to NewEngine")
	}
	return &Engine{db: db, wallets: wallets, regs: regs, txns: txns}
}

// signedDelta maps a kind and unsigned amount to the signed balance
// delta: +amount for CREDIT, -amount for DEBIT.
func signedDelta(kind string, amount int64) (int64, error) {
	switch kind {
	case model.TxnCredit:
		return amount, nil
	case model.TxnDebit:
		return -amount, nil
	}
	return 0, fmt.Errorf("%w: kind must be CREDIT or DEBIT", ErrInvalidArgument)
}

// Apply executes one balance change as a single atomic unit:
//
//  1. validate inputs
//  2. look up an existing ledger row by (event key, action id); if
//     found, return it unchanged (idempotent replay)
//  3. lock the wallet row exclusively (SELECT ... FOR UPDATE)
//  4. when EnforceCheckedIn, require the linked registration to be
//     CHECKED_IN
//  5. compute the next balance and reject it if negative
//  6. update the wallet balance and append the ledger row
//  7. commit
//
// Any failure rolls back the whole unit, leaving no wallet mutation,
// no ledger row and no idempotency marker, so a later retry with the
// same action id can still succeed.  The idempotency lookup runs
// inside the same transaction as the mutation; the residual race of
// two identical submissions passing the lookup concurrently is closed
// by the unique (event_key, action_id) index, in which case the loser
// re-reads and returns the winner's committed row.
func (e *Engine) Apply(ctx context.Context, req ApplyRequest) (*model.Transaction, error) {
	if req.EventKey == "" || req.WalletID == 0 {
		return nil, fmt.Errorf("%w: wallet required", ErrInvalidArgument)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be > 0", ErrInvalidArgument)
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reason required", ErrInvalidArgument)
	}
	actionID := strings.TrimSpace(req.ActionID)
	if actionID == "" {
		return nil, fmt.Errorf("%w: action_id required", ErrInvalidArgument)
	}
	delta, err := signedDelta(req.Kind, req.Amount)
	if err != nil {
		return nil, err
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Idempotent replay: a row with this action id means the logical
	// action already took effect.  Return it without touching state.
	existing, err := e.txns.FindByActionTx(ctx, tx, req.EventKey, actionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		committed = true
		return existing, nil
	}

	w, err := e.wallets.GetForUpdateTx(ctx, tx, req.EventKey, req.WalletID)
	if err != nil {
		return nil, err
	}

	if req.EnforceCheckedIn {
		status, err := e.regs.CheckinStatusTx(ctx, tx, req.EventKey, w.RegistrationID)
		if err != nil {
			return nil, err
		}
		if status != model.CheckinCheckedIn {
			return nil, fmt.Errorf("%w (status=%s)", ErrNotCheckedIn, status)
		}
	}

	nextBalance := w.Balance + delta
	if nextBalance < 0 {
		return nil, ErrInsufficientBalance
	}

	if err := e.wallets.UpdateBalanceTx(ctx, tx, req.EventKey, req.WalletID, nextBalance); err != nil {
		return nil, err
	}

	if note := strings.TrimSpace(req.Note); note != "" {
		reason = reason + " — " + note
	}
	actorType := req.Actor.Type
	if actorType == "" {
		actorType = "STAFF"
	}
	txn := &model.Transaction{
		WalletID:      req.WalletID,
		Kind:          req.Kind,
		Amount:        req.Amount,
		Reason:        reason,
		ActorType:     actorType,
		ActorID:       req.Actor.ID,
		ActorUsername: req.Actor.Username,
		EventKey:      req.EventKey,
		GameID:        req.GameID,
		PresetID:      req.PresetID,
		ActionID:      actionID,
		BalanceAfter:  nextBalance,
	}
	if err := e.txns.InsertTx(ctx, tx, txn); err != nil {
		if errors.Is(err, repository.ErrDuplicateAction) {
			// A concurrent identical submission committed first.  Drop
			// our unit and hand back its result as a replay.
			_ = tx.Rollback()
			committed = true // suppress the deferred double rollback
			winner, ferr := e.txns.FindByAction(ctx, req.EventKey, actionID)
			if ferr != nil {
				return nil, ferr
			}
			if winner == nil {
				return nil, err
			}
			return winner, nil
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return txn, nil
}
