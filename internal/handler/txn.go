package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/iliyamo/arcade-wallet/internal/config"
	"github.com/iliyamo/arcade-wallet/internal/ledger"
	"github.com/iliyamo/arcade-wallet/internal/model"
	"github.com/iliyamo/arcade-wallet/internal/queue"
	"github.com/iliyamo/arcade-wallet/internal/repository"
	queue_publisher "github.com/iliyamo/arcade-wallet/internal/service"
	"github.com/labstack/echo/v4"
)

// Default reasons applied when the staff app omits one, matching the
// two flows game staff actually perform: charging for a play and
// rewarding a winner.
const (
	defaultDebitReason  = "PLAY"
	defaultCreditReason = "REWARD"
)

// TxnHandler serves the game/prize screens: debiting tokens for play
// and crediting rewards.  All mutation goes through the ledger
// engine; the handler only shapes requests, maps errors to HTTP and
// publishes a best-effort event after the engine has committed.
type TxnHandler struct {
	Cfg    config.Config
	Engine *ledger.Engine
}

// NewTxnHandler constructs a TxnHandler.  The engine must be non-nil.
func NewTxnHandler(cfg config.Config, engine *ledger.Engine) *TxnHandler {
	if engine == nil {
		panic("nil engine passed to NewTxnHandler")
	}
	return &TxnHandler{Cfg: cfg, Engine: engine}
}

type txnReq struct {
	WalletID uint64  `json:"wallet_id"`
	Amount   int64   `json:"amount"`
	Reason   string  `json:"reason"`
	Note     string  `json:"note"`
	GameID   *uint64 `json:"game_id"`
	PresetID *uint64 `json:"preset_id"`
	ActionID string  `json:"action_id"`
}

// Debit handles POST /v1/txns/debit: spend tokens at a game station.
func (h *TxnHandler) Debit(c echo.Context) error {
	return h.apply(c, model.TxnDebit, defaultDebitReason)
}

// Credit handles POST /v1/txns/credit: reward tokens, typically via
// a game's reward preset.
func (h *TxnHandler) Credit(c echo.Context) error {
	return h.apply(c, model.TxnCredit, defaultCreditReason)
}

func (h *TxnHandler) apply(c echo.Context, kind, defaultReason string) error {
	actor, err := staffActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req txnReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = defaultReason
	}

	txn, err := h.Engine.Apply(c.Request().Context(), ledger.ApplyRequest{
		EventKey:         h.Cfg.EventKey,
		WalletID:         req.WalletID,
		Kind:             kind,
		Amount:           req.Amount,
		Reason:           reason,
		Note:             req.Note,
		ActionID:         req.ActionID,
		GameID:           req.GameID,
		PresetID:         req.PresetID,
		Actor:            actor,
		EnforceCheckedIn: true,
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidArgument):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_argument", "message": err.Error()})
		case errors.Is(err, repository.ErrWalletNotFound), errors.Is(err, repository.ErrRegistrationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": err.Error()})
		case errors.Is(err, ledger.ErrNotCheckedIn):
			return c.JSON(http.StatusConflict, echo.Map{"error": "not_checked_in", "message": err.Error()})
		case errors.Is(err, ledger.ErrInsufficientBalance):
			return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient_balance", "message": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction failed"})
	}

	// Best-effort event for downstream consumers (operations log).
	// The ledger row is already durable; a publish failure is logged
	// inside the publisher and never surfaces to the client.
	ev := queue.TxnAppliedEvent{
		TxnID:        txn.ID,
		EventKey:     txn.EventKey,
		WalletID:     txn.WalletID,
		Kind:         txn.Kind,
		Amount:       txn.Amount,
		Reason:       txn.Reason,
		BalanceAfter: txn.BalanceAfter,
		AppliedAt:    txn.CreatedAt.UTC().Format(time.RFC3339),
	}
	if txn.ActorUsername != nil {
		ev.ActorUsername = *txn.ActorUsername
	}
	_ = queue_publisher.PublishTxnApplied(c.Request().Context(), ev)

	return c.JSON(http.StatusOK, echo.Map{"item": txn})
}
