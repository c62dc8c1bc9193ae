package model

import "time"

// Check-in states for a registration.  PENDING is the initial state;
// gate staff move a registration to CHECKED_IN or REJECTED.  Both
// transitions are unconditional writes, so a REJECTED registration
// can later be re-approved and vice versa.
const (
	CheckinPending   = "PENDING"
	CheckinCheckedIn = "CHECKED_IN"
	CheckinRejected  = "REJECTED"
)

// Registration is a participant entry provisioned by the external
// registration flow.  This service never creates registrations; it
// only flips their check-in state and reads them when gating wallet
// transactions.
//
// Fields:
//  ID            – primary key identifier.
//  EventKey      – tenant key isolating one event's data.
//  Name          – participant display name.
//  Email         – contact email.
//  Contact       – phone or other contact string.
//  RegNo         – external registration number.
//  Category      – participant category (e.g. VISITOR, VIP).
//  PlanID        – optional admission plan.
//  TeamLeadRegID – when set, this registration belongs to the team
//                  led by the referenced registration.
//  CheckinStatus – PENDING, CHECKED_IN or REJECTED.
//  CheckinAt     – when the registration was approved.
//  CheckinBy     – username of the approving staff member.
//  RejectedAt    – when the registration was rejected.
//  RejectedBy    – id of the rejecting staff member.
//  RejectReason  – optional reason; empty reasons are stored as NULL.
type Registration struct {
	ID            uint64     `json:"id"`                         // arcade_registrations.id
	EventKey      string     `json:"event_key"`                  // arcade_registrations.event_key
	Name          string     `json:"name"`                       // arcade_registrations.name
	Email         *string    `json:"email,omitempty"`            // arcade_registrations.email (nullable)
	Contact       *string    `json:"contact,omitempty"`          // arcade_registrations.contact (nullable)
	RegNo         string     `json:"reg_no"`                     // arcade_registrations.reg_no
	Category      *string    `json:"category,omitempty"`         // arcade_registrations.category (nullable)
	PlanID        *uint64    `json:"plan_id,omitempty"`          // arcade_registrations.plan_id (nullable)
	TeamLeadRegID *uint64    `json:"team_lead_reg_id,omitempty"` // arcade_registrations.team_lead_reg_id (nullable)
	CheckinStatus string     `json:"checkin_status"`             // arcade_registrations.checkin_status
	CheckinAt     *time.Time `json:"checkin_at,omitempty"`       // arcade_registrations.checkin_at (nullable)
	CheckinBy     *string    `json:"checkin_by,omitempty"`       // arcade_registrations.checkin_by_username (nullable)
	RejectedAt    *time.Time `json:"rejected_at,omitempty"`      // arcade_registrations.rejected_at (nullable)
	RejectedBy    *uint64    `json:"rejected_by,omitempty"`      // arcade_registrations.rejected_by (nullable)
	RejectReason  *string    `json:"reject_reason,omitempty"`    // arcade_registrations.reject_reason (nullable)
	CreatedAt     time.Time  `json:"created_at"`                 // arcade_registrations.created_at
	UpdatedAt     time.Time  `json:"updated_at"`                 // arcade_registrations.updated_at
}
