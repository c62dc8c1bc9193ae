package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/arcade-wallet/internal/model"
)

// AuditRepo appends rows to the arcade_audit_events table.  The table
// is an append-only record of administrative check-in decisions; this
// service writes it and never reads it back.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo returns a new AuditRepo bound to the given database.
func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{db: db} }

// AppendTx inserts one audit row inside the given transaction, so a
// check-in transition and its audit entry commit or roll back as one
// unit.  The generated id is populated on the provided event.
func (r *AuditRepo) AppendTx(ctx context.Context, tx *sql.Tx, ev *model.AuditEvent) error {
	const q = `INSERT INTO arcade_audit_events
               (event_key, staff_id, staff_username, action, entity_id, meta)
               VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		ev.EventKey, ev.StaffID, ev.StaffUsername, ev.Action, ev.EntityID, ev.Meta,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = uint64(id)
	return nil
}
