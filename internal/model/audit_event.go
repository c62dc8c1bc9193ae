package model

import "time"

// Audit action kinds recorded for administrative check-in decisions.
const (
	AuditCheckinApprove = "CHECKIN_APPROVE"
	AuditCheckinReject  = "CHECKIN_REJECT"
)

// AuditEvent records one administrative decision.  Rows are
// append-only; this service only ever writes them, it exposes no
// query surface over the audit trail.
//
// Fields:
//  ID            – primary key identifier.
//  EventKey      – tenant key isolating one event's data.
//  StaffID       – acting staff account id.
//  StaffUsername – acting staff username.
//  Action        – CHECKIN_APPROVE or CHECKIN_REJECT.
//  EntityID      – target registration id.
//  Meta          – structured JSON detail payload (reg id, reason).
//  CreatedAt     – creation timestamp.
type AuditEvent struct {
	ID            uint64    // arcade_audit_events.id
	EventKey      string    // arcade_audit_events.event_key
	StaffID       uint64    // arcade_audit_events.staff_id
	StaffUsername string    // arcade_audit_events.staff_username
	Action        string    // arcade_audit_events.action
	EntityID      uint64    // arcade_audit_events.entity_id
	Meta          string    // arcade_audit_events.meta (JSON)
	CreatedAt     time.Time // arcade_audit_events.created_at
}
