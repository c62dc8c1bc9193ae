package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/arcade-wallet/internal/model"
)

// TxnRepo provides data access to the arcade_wallet_txns ledger.  The
// table is append-only: rows are inserted exactly once and never
// updated or deleted.  A unique index on (event_key, action_id)
// backs idempotent retries.
type TxnRepo struct {
	db *sql.DB
}

// NewTxnRepo returns a new TxnRepo bound to the given database.
func NewTxnRepo(db *sql.DB) *TxnRepo { return &TxnRepo{db: db} }

const txnColumns = `id, wallet_id, kind, amount, reason,
                    actor_type, actor_id, actor_username,
                    event_key, game_id, preset_id, action_id,
                    balance_after, created_at`

// scanTxn reads one ledger row from the given row scanner.
func scanTxn(row *sql.Row) (*model.Transaction, error) {
	var t model.Transaction
	var actorID, gameID, presetID sql.NullInt64
	var actorUsername sql.NullString
	err := row.Scan(
		&t.ID, &t.WalletID, &t.Kind, &t.Amount, &t.Reason,
		&t.ActorType, &actorID, &actorUsername,
		&t.EventKey, &gameID, &presetID, &t.ActionID,
		&t.BalanceAfter, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if actorID.Valid {
		v := uint64(actorID.Int64)
		t.ActorID = &v
	}
	if actorUsername.Valid {
		v := actorUsername.String
		t.ActorUsername = &v
	}
	if gameID.Valid {
		v := uint64(gameID.Int64)
		t.GameID = &v
	}
	if presetID.Valid {
		v := uint64(presetID.Int64)
		t.PresetID = &v
	}
	return &t, nil
}

// FindByActionTx looks up an existing ledger row by its idempotency
// token inside the given transaction.  It returns (nil, nil) when no
// row exists, which is the normal case for a first submission.
func (r *TxnRepo) FindByActionTx(ctx context.Context, tx *sql.Tx, eventKey, actionID string) (*model.Transaction, error) {
	t, err := scanTxn(tx.QueryRowContext(ctx,
		`SELECT `+txnColumns+` FROM arcade_wallet_txns WHERE event_key = ? AND action_id = ? LIMIT 1`,
		eventKey, actionID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

// FindByAction is the non-transactional variant of FindByActionTx.
// The ledger engine uses it to recover the committed row after a
// duplicate-key insert signals that a concurrent identical submission
// won the race.
func (r *TxnRepo) FindByAction(ctx context.Context, eventKey, actionID string) (*model.Transaction, error) {
	t, err := scanTxn(r.db.QueryRowContext(ctx,
		`SELECT `+txnColumns+` FROM arcade_wallet_txns WHERE event_key = ? AND action_id = ? LIMIT 1`,
		eventKey, actionID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

// InsertTx appends a new ledger row inside the given transaction and
// populates the generated ID and creation timestamp on the provided
// record.  A violation of the unique (event_key, action_id) index is
// reported as ErrDuplicateAction so the engine can resolve the retry
// race instead of failing the request.
func (r *TxnRepo) InsertTx(ctx context.Context, tx *sql.Tx, t *model.Transaction) error {
	const q = `INSERT INTO arcade_wallet_txns
               (wallet_id, kind, amount, reason, actor_type, actor_id, actor_username,
                event_key, game_id, preset_id, action_id, balance_after)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		t.WalletID, t.Kind, t.Amount, t.Reason, t.ActorType, t.ActorID, t.ActorUsername,
		t.EventKey, t.GameID, t.PresetID, t.ActionID, t.BalanceAfter,
	)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrDuplicateAction
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	// Read back the row to pick up the DB-assigned created_at.
	full, err := scanTxn(tx.QueryRowContext(ctx,
		`SELECT `+txnColumns+` FROM arcade_wallet_txns WHERE id = ?`, t.ID,
	))
	if err != nil {
		return err
	}
	*t = *full
	return nil
}

// RecentByWallet returns the most recent ledger rows for a wallet,
// newest first, capped at limit.  It is used by the staff lookup
// screen to show context before debiting or crediting.
func (r *TxnRepo) RecentByWallet(ctx context.Context, eventKey string, walletID uint64, limit int) ([]model.Transaction, error) {
	if limit <= 0 {
		limit = 3
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+txnColumns+` FROM arcade_wallet_txns
         WHERE event_key = ? AND wallet_id = ?
         ORDER BY created_at DESC, id DESC
         LIMIT ?`,
		eventKey, walletID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	txns := make([]model.Transaction, 0, limit)
	for rows.Next() {
		var t model.Transaction
		var actorID, gameID, presetID sql.NullInt64
		var actorUsername sql.NullString
		if err := rows.Scan(
			&t.ID, &t.WalletID, &t.Kind, &t.Amount, &t.Reason,
			&t.ActorType, &actorID, &actorUsername,
			&t.EventKey, &gameID, &presetID, &t.ActionID,
			&t.BalanceAfter, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		if actorID.Valid {
			v := uint64(actorID.Int64)
			t.ActorID = &v
		}
		if actorUsername.Valid {
			v := actorUsername.String
			t.ActorUsername = &v
		}
		if gameID.Valid {
			v := uint64(gameID.Int64)
			t.GameID = &v
		}
		if presetID.Valid {
			v := uint64(presetID.Int64)
			t.PresetID = &v
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return txns, nil
}
