package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/arcade-wallet/internal/model"
)

// RegistrationRepo provides data access to arcade_registrations.  The
// check-in transitions are unconditional writes: approve and reject
// overwrite whatever status the row currently has, so a rejected
// participant can be re-admitted at the gate without extra steps.
type RegistrationRepo struct {
	db *sql.DB
}

// NewRegistrationRepo returns a new RegistrationRepo bound to the
// given database.
func NewRegistrationRepo(db *sql.DB) *RegistrationRepo { return &RegistrationRepo{db: db} }

// DB exposes the underlying database handle so handlers can begin
// transactions that span the registration and audit repositories.
func (r *RegistrationRepo) DB() *sql.DB { return r.db }

const registrationColumns = `id, event_key, name, email, contact, reg_no, category,
                             plan_id, team_lead_reg_id, checkin_status, checkin_at,
                             checkin_by_username, rejected_at, rejected_by, reject_reason,
                             created_at, updated_at`

func scanRegistration(row *sql.Row) (*model.Registration, error) {
	var reg model.Registration
	var email, contact, category, checkinBy, rejectReason sql.NullString
	var planID, teamLead, rejectedBy sql.NullInt64
	var checkinAt, rejectedAt sql.NullTime
	err := row.Scan(
		&reg.ID, &reg.EventKey, &reg.Name, &email, &contact, &reg.RegNo, &category,
		&planID, &teamLead, &reg.CheckinStatus, &checkinAt,
		&checkinBy, &rejectedAt, &rejectedBy, &rejectReason,
		&reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if email.Valid {
		v := email.String
		reg.Email = &v
	}
	if contact.Valid {
		v := contact.String
		reg.Contact = &v
	}
	if category.Valid {
		v := category.String
		reg.Category = &v
	}
	if planID.Valid {
		v := uint64(planID.Int64)
		reg.PlanID = &v
	}
	if teamLead.Valid {
		v := uint64(teamLead.Int64)
		reg.TeamLeadRegID = &v
	}
	if checkinAt.Valid {
		t := checkinAt.Time.UTC()
		reg.CheckinAt = &t
	}
	if checkinBy.Valid {
		v := checkinBy.String
		reg.CheckinBy = &v
	}
	if rejectedAt.Valid {
		t := rejectedAt.Time.UTC()
		reg.RejectedAt = &t
	}
	if rejectedBy.Valid {
		v := uint64(rejectedBy.Int64)
		reg.RejectedBy = &v
	}
	if rejectReason.Valid {
		v := rejectReason.String
		reg.RejectReason = &v
	}
	return &reg, nil
}

// ApproveTx marks a registration CHECKED_IN inside the given
// transaction, recording the approval time and the approving staff
// username, and returns the updated row.  The write is unconditional
// with respect to the previous status.  Returns
// ErrRegistrationNotFound when no row matches under the event key.
func (r *RegistrationRepo) ApproveTx(ctx context.Context, tx *sql.Tx, eventKey string, regID uint64, staffUsername string) (*model.Registration, error) {
	const q = `UPDATE arcade_registrations
               SET checkin_status = 'CHECKED_IN',
                   checkin_at = UTC_TIMESTAMP(),
                   checkin_by_username = ?,
                   updated_at = UTC_TIMESTAMP()
               WHERE id = ? AND event_key = ?`
	if _, err := tx.ExecContext(ctx, q, staffUsername, regID, eventKey); err != nil {
		return nil, err
	}
	// Select the row back instead of trusting RowsAffected: MySQL
	// reports zero affected rows for a no-op re-approval.
	reg, err := scanRegistration(tx.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM arcade_registrations WHERE id = ? AND event_key = ? LIMIT 1`,
		regID, eventKey,
	))
	if err == sql.ErrNoRows {
		return nil, ErrRegistrationNotFound
	}
	return reg, err
}

// RejectTx marks a registration REJECTED inside the given
// transaction, recording the rejection time, the rejecting staff id
// and an optional reason, and returns the updated row.  Blank
// reasons are stored as NULL rather than as empty strings.  Returns
// ErrRegistrationNotFound when no row matches under the event key.
func (r *RegistrationRepo) RejectTx(ctx context.Context, tx *sql.Tx, eventKey string, regID uint64, staffID uint64, reason string) (*model.Registration, error) {
	var reasonArg interface{}
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		reasonArg = trimmed
	}
	const q = `UPDATE arcade_registrations
               SET checkin_status = 'REJECTED',
                   reject_reason = ?,
                   rejected_at = UTC_TIMESTAMP(),
                   rejected_by = ?,
                   updated_at = UTC_TIMESTAMP()
               WHERE id = ? AND event_key = ?`
	if _, err := tx.ExecContext(ctx, q, reasonArg, staffID, regID, eventKey); err != nil {
		return nil, err
	}
	reg, err := scanRegistration(tx.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM arcade_registrations WHERE id = ? AND event_key = ? LIMIT 1`,
		regID, eventKey,
	))
	if err == sql.ErrNoRows {
		return nil, ErrRegistrationNotFound
	}
	return reg, err
}

// CheckinStatusTx reads only the check-in status of a registration
// inside the given transaction.  The ledger engine uses it to gate
// economic actions on admission state.  Returns
// ErrRegistrationNotFound when no row matches under the event key.
func (r *RegistrationRepo) CheckinStatusTx(ctx context.Context, tx *sql.Tx, eventKey string, regID uint64) (string, error) {
	var status string
	err := tx.QueryRowContext(ctx,
		`SELECT checkin_status FROM arcade_registrations WHERE id = ? AND event_key = ? LIMIT 1`,
		regID, eventKey,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return "", ErrRegistrationNotFound
	}
	return status, err
}

// TeamMemberRow is one entry of a team roster: a linked registration
// with its own wallet balance and check-in state.  Wallet fields are
// nil when a member has not been issued a wallet yet.
type TeamMemberRow struct {
	RegID         uint64  `json:"reg_id"`
	Name          string  `json:"name"`
	RegNo         string  `json:"reg_no"`
	Category      *string `json:"category,omitempty"`
	CheckinStatus string  `json:"checkin_status"`
	IsLead        bool    `json:"is_lead"`
	WalletID      *uint64 `json:"wallet_id,omitempty"`
	WalletCode    *string `json:"wallet_code,omitempty"`
	Balance       *int64  `json:"balance,omitempty"`
}

// TeamRoster returns the full roster linked to the given registration:
// the team lead plus every registration pointing at it, each with its
// own wallet balance and check-in status.  The lead is listed first,
// members follow ordered by name.  A solo registration (no team link
// in either direction) yields an empty roster.
func (r *RegistrationRepo) TeamRoster(ctx context.Context, eventKey string, regID uint64) ([]TeamMemberRow, error) {
	// Resolve the team lead: either the registration's own lead link,
	// or the registration itself when others point at it.
	var teamLead sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT team_lead_reg_id FROM arcade_registrations WHERE id = ? AND event_key = ? LIMIT 1`,
		regID, eventKey,
	).Scan(&teamLead)
	if err == sql.ErrNoRows {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, err
	}
	leadID := regID
	if teamLead.Valid {
		leadID = uint64(teamLead.Int64)
	}

	const q = `SELECT r.id, r.name, r.reg_no, r.category, r.checkin_status,
                      w.id, w.wallet_code, w.balance
               FROM arcade_registrations r
               LEFT JOIN arcade_wallets w ON w.registration_id = r.id AND w.event_key = r.event_key
               WHERE r.event_key = ? AND (r.id = ? OR r.team_lead_reg_id = ?)
               ORDER BY (r.id <> ?), r.name`
	rows, err := r.db.QueryContext(ctx, q, eventKey, leadID, leadID, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	roster := make([]TeamMemberRow, 0)
	for rows.Next() {
		var m TeamMemberRow
		var category, walletCode sql.NullString
		var walletID, balance sql.NullInt64
		if err := rows.Scan(&m.RegID, &m.Name, &m.RegNo, &category, &m.CheckinStatus,
			&walletID, &walletCode, &balance); err != nil {
			return nil, err
		}
		if category.Valid {
			v := category.String
			m.Category = &v
		}
		if walletID.Valid {
			v := uint64(walletID.Int64)
			m.WalletID = &v
		}
		if walletCode.Valid {
			v := walletCode.String
			m.WalletCode = &v
		}
		if balance.Valid {
			v := balance.Int64
			m.Balance = &v
		}
		m.IsLead = m.RegID == leadID
		roster = append(roster, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// A roster of one with no inbound or outbound team link is just a
	// solo participant; the lookup screen shows no team section then.
	if len(roster) == 1 && !teamLead.Valid {
		return []TeamMemberRow{}, nil
	}
	return roster, nil
}
