package model

import "time"

// Staff roles.  GATE staff admit participants at the entrance; GAME
// staff run the arcade stations and the prize counter.
const (
	RoleGate = "GATE"
	RoleGame = "GAME"
)

// Staff is an operator account for the staff app.  Accounts are
// provisioned by the event organizer; this service only authenticates
// them and records their identity on mutations.
type Staff struct {
	ID           uint64    // arcade_staff.id
	EventKey     string    // arcade_staff.event_key
	Username     string    // arcade_staff.username
	PasswordHash string    // arcade_staff.password_hash
	Role         string    // arcade_staff.role
	IsActive     bool      // arcade_staff.is_active
	CreatedAt    time.Time // arcade_staff.created_at
	UpdatedAt    time.Time // arcade_staff.updated_at
}
