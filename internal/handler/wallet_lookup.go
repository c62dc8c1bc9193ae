package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/iliyamo/arcade-wallet/internal/config"
	"github.com/iliyamo/arcade-wallet/internal/repository"
	"github.com/labstack/echo/v4"
)

// recentTxnLimit caps how many ledger rows the lookup screen shows
// for context before staff debit or credit a wallet.
const recentTxnLimit = 3

// LookupHandler serves the staff wallet lookup: the composite view
// rendered after scanning a badge.  It is strictly read-only.
type LookupHandler struct {
	Cfg     config.Config
	Wallets *repository.WalletRepo
	Txns    *repository.TxnRepo
	Regs    *repository.RegistrationRepo
}

// NewLookupHandler constructs a LookupHandler with the provided
// repositories.  All dependencies must be non-nil.
func NewLookupHandler(cfg config.Config, wallets *repository.WalletRepo, txns *repository.TxnRepo, regs *repository.RegistrationRepo) *LookupHandler {
	if wallets == nil || txns == nil || regs == nil {
		panic("nil repository passed to NewLookupHandler")
	}
	return &LookupHandler{Cfg: cfg, Wallets: wallets, Txns: txns, Regs: regs}
}

// Lookup handles GET /v1/wallets/lookup?code=...  It returns the
// wallet joined with registration and check-in state, the most
// recent transactions (newest first) and, when the registration is
// part of a team, the full roster with each member's own balance.
// An unknown code yields {"item": null} with HTTP 200, matching what
// the staff app expects when a scan misses.
func (h *LookupHandler) Lookup(c echo.Context) error {
	code := strings.TrimSpace(c.QueryParam("code"))
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
	}
	ctx := c.Request().Context()

	item, err := h.Wallets.LookupByCode(ctx, h.Cfg.EventKey, code)
	if err != nil {
		if errors.Is(err, repository.ErrWalletNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"item": nil})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	recent, err := h.Txns.RecentByWallet(ctx, h.Cfg.EventKey, item.WalletID, recentTxnLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	roster, err := h.Regs.TeamRoster(ctx, h.Cfg.EventKey, item.RegID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"item":         item,
		"recent":       recent,
		"team_members": roster,
	})
}
