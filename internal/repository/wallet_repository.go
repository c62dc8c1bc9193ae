package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/arcade-wallet/internal/model"
)

// WalletRepo provides data access to the arcade_wallets table.  The
// balance column is only ever written through UpdateBalanceTx while
// the row is held under a FOR UPDATE lock taken by GetForUpdateTx, so
// concurrent applies against the same wallet serialize on the row.
type WalletRepo struct {
	db *sql.DB
}

// NewWalletRepo returns a new WalletRepo bound to the given database.
func NewWalletRepo(db *sql.DB) *WalletRepo { return &WalletRepo{db: db} }

// DB exposes the underlying database handle so callers can begin
// transactions spanning multiple repositories.
func (r *WalletRepo) DB() *sql.DB { return r.db }

// WalletLookupRow is the staff-facing lookup projection: a wallet
// joined with its registration, check-in state and admission plan.
// It mirrors what the gate and game screens render after a QR scan.
type WalletLookupRow struct {
	WalletID      uint64     `json:"wallet_id"`
	WalletCode    string     `json:"wallet_code"`
	Balance       int64      `json:"balance"`
	EventKey      string     `json:"event_key"`
	RegID         uint64     `json:"reg_id"`
	Name          string     `json:"name"`
	Email         *string    `json:"email,omitempty"`
	Contact       *string    `json:"contact,omitempty"`
	RegNo         string     `json:"reg_no"`
	Category      *string    `json:"category,omitempty"`
	TeamLeadRegID *uint64    `json:"team_lead_reg_id,omitempty"`
	CheckinStatus string     `json:"checkin_status"`
	CheckinAt     *time.Time `json:"checkin_at,omitempty"`
	RejectReason  *string    `json:"reject_reason,omitempty"`
	PlanCode      *string    `json:"plan_code,omitempty"`
	PlanTitle     *string    `json:"plan_title,omitempty"`
}

// LookupByCode returns the wallet with the given human-facing code
// under the event key, joined with registration and plan details.
// It returns ErrWalletNotFound when no wallet matches; a code that
// exists under another event is treated the same as a missing one.
func (r *WalletRepo) LookupByCode(ctx context.Context, eventKey, code string) (*WalletLookupRow, error) {
	const q = `SELECT w.id, w.wallet_code, w.balance, w.event_key,
                      r.id, r.name, r.email, r.contact, r.reg_no, r.category,
                      r.team_lead_reg_id, r.checkin_status, r.checkin_at, r.reject_reason,
                      p.code, p.title
               FROM arcade_wallets w
               JOIN arcade_registrations r ON r.id = w.registration_id
               LEFT JOIN arcade_plans p ON p.id = r.plan_id
               WHERE w.event_key = ? AND w.wallet_code = ?
               LIMIT 1`
	var row WalletLookupRow
	var email, contact, category, rejectReason, planCode, planTitle sql.NullString
	var teamLead sql.NullInt64
	var checkinAt sql.NullTime
	err := r.db.QueryRowContext(ctx, q, eventKey, code).Scan(
		&row.WalletID, &row.WalletCode, &row.Balance, &row.EventKey,
		&row.RegID, &row.Name, &email, &contact, &row.RegNo, &category,
		&teamLead, &row.CheckinStatus, &checkinAt, &rejectReason,
		&planCode, &planTitle,
	)
	if err == sql.ErrNoRows {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	if email.Valid {
		v := email.String
		row.Email = &v
	}
	if contact.Valid {
		v := contact.String
		row.Contact = &v
	}
	if category.Valid {
		v := category.String
		row.Category = &v
	}
	if teamLead.Valid {
		v := uint64(teamLead.Int64)
		row.TeamLeadRegID = &v
	}
	if checkinAt.Valid {
		t := checkinAt.Time.UTC()
		row.CheckinAt = &t
	}
	if rejectReason.Valid {
		v := rejectReason.String
		row.RejectReason = &v
	}
	if planCode.Valid {
		v := planCode.String
		row.PlanCode = &v
	}
	if planTitle.Valid {
		v := planTitle.String
		row.PlanTitle = &v
	}
	return &row, nil
}

// GetForUpdateTx reads a wallet by (event key, id) inside the given
// transaction and takes an exclusive row lock on it.  A concurrent
// apply against the same wallet blocks here until the lock holder
// commits or rolls back; applies on different wallets do not contend.
// Returns ErrWalletNotFound when no row matches under the event key.
func (r *WalletRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, eventKey string, walletID uint64) (*model.Wallet, error) {
	const q = `SELECT id, event_key, wallet_code, registration_id, balance, updated_at
               FROM arcade_wallets
               WHERE id = ? AND event_key = ?
               FOR UPDATE`
	var w model.Wallet
	err := tx.QueryRowContext(ctx, q, walletID, eventKey).Scan(
		&w.ID, &w.EventKey, &w.WalletCode, &w.RegistrationID, &w.Balance, &w.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// UpdateBalanceTx writes the new wallet balance inside the given
// transaction.  Callers must already hold the row lock taken by
// GetForUpdateTx within the same transaction.
func (r *WalletRepo) UpdateBalanceTx(ctx context.Context, tx *sql.Tx, eventKey string, walletID uint64, balance int64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE arcade_wallets SET balance = ?, updated_at = UTC_TIMESTAMP() WHERE id = ? AND event_key = ?`,
		balance, walletID, eventKey,
	)
	return err
}
