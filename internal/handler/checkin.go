package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/iliyamo/arcade-wallet/internal/config"
	"github.com/iliyamo/arcade-wallet/internal/model"
	"github.com/iliyamo/arcade-wallet/internal/repository"
	"github.com/labstack/echo/v4"
)

// CheckinHandler serves the gate screen: approving and rejecting
// check-ins.  Each transition and its audit entry are written inside
// one database transaction, so an audited decision can never exist
// without its state change or vice versa.  Transitions are
// unconditional: re-approving a rejected registration is allowed.
type CheckinHandler struct {
	Cfg   config.Config
	Regs  *repository.RegistrationRepo
	Audit *repository.AuditRepo
}

// NewCheckinHandler constructs a CheckinHandler with the provided
// repositories.  All dependencies must be non-nil.
func NewCheckinHandler(cfg config.Config, regs *repository.RegistrationRepo, audit *repository.AuditRepo) *CheckinHandler {
	if regs == nil || audit == nil {
		panic("nil repository passed to NewCheckinHandler")
	}
	return &CheckinHandler{Cfg: cfg, Regs: regs, Audit: audit}
}

type checkinReq struct {
	RegID  uint64 `json:"reg_id"`
	Reason string `json:"reason"` // reject only, optional
}

// Approve handles POST /v1/checkin/approve.  It marks the
// registration CHECKED_IN, records the deciding staff member and
// appends one CHECKIN_APPROVE audit event.
func (h *CheckinHandler) Approve(c echo.Context) error {
	staffID, err := getStaffID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req checkinReq
	if err := c.Bind(&req); err != nil || req.RegID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reg_id required"})
	}
	ctx := c.Request().Context()

	tx, err := h.Regs.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	reg, err := h.Regs.ApproveTx(ctx, tx, h.Cfg.EventKey, req.RegID, getStaffUsername(c))
	if err != nil {
		if errors.Is(err, repository.ErrRegistrationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "registration not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "approve failed"})
	}

	meta, _ := json.Marshal(map[string]interface{}{"reg_id": req.RegID})
	ev := &model.AuditEvent{
		EventKey:      h.Cfg.EventKey,
		StaffID:       staffID,
		StaffUsername: getStaffUsername(c),
		Action:        model.AuditCheckinApprove,
		EntityID:      req.RegID,
		Meta:          string(meta),
	}
	if err := h.Audit.AppendTx(ctx, tx, ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "audit failed"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"item": reg})
}

// Reject handles POST /v1/checkin/reject.  It marks the registration
// REJECTED with an optional reason (blank reasons are stored as
// absent) and appends one CHECKIN_REJECT audit event.
func (h *CheckinHandler) Reject(c echo.Context) error {
	staffID, err := getStaffID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req checkinReq
	if err := c.Bind(&req); err != nil || req.RegID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reg_id required"})
	}
	reason := strings.TrimSpace(req.Reason)
	ctx := c.Request().Context()

	tx, err := h.Regs.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	reg, err := h.Regs.RejectTx(ctx, tx, h.Cfg.EventKey, req.RegID, staffID, reason)
	if err != nil {
		if errors.Is(err, repository.ErrRegistrationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "registration not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reject failed"})
	}

	detail := map[string]interface{}{"reg_id": req.RegID}
	if reason != "" {
		detail["reason"] = reason
	}
	meta, _ := json.Marshal(detail)
	ev := &model.AuditEvent{
		EventKey:      h.Cfg.EventKey,
		StaffID:       staffID,
		StaffUsername: getStaffUsername(c),
		Action:        model.AuditCheckinReject,
		EntityID:      req.RegID,
		Meta:          string(meta),
	}
	if err := h.Audit.AppendTx(ctx, tx, ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "audit failed"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"item": reg})
}
