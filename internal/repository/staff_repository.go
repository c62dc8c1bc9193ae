package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/arcade-wallet/internal/model"
)

// StaffRepo provides read access to the arcade_staff accounts table.
// Accounts are provisioned by the organizer; this service only
// authenticates against them.
type StaffRepo struct{ DB *sql.DB }

// NewStaffRepo returns a new StaffRepo bound to the given database.
func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{DB: db} }

const staffColumns = `id, event_key, username, password_hash, role, is_active, created_at, updated_at`

// GetByUsername fetches a staff account by normalized username under
// the event key.  Returns sql.ErrNoRows when no account matches.
func (r *StaffRepo) GetByUsername(ctx context.Context, eventKey, username string) (model.Staff, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	var s model.Staff
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM arcade_staff WHERE event_key=? AND username=? LIMIT 1`,
		eventKey, username).Scan(&s.ID, &s.EventKey, &s.Username, &s.PasswordHash, &s.Role, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// GetByID fetches a staff account by id under the event key.
func (r *StaffRepo) GetByID(ctx context.Context, eventKey string, id uint64) (model.Staff, error) {
	var s model.Staff
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM arcade_staff WHERE event_key=? AND id=? LIMIT 1`,
		eventKey, id).Scan(&s.ID, &s.EventKey, &s.Username, &s.PasswordHash, &s.Role, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}
