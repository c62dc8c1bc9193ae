package handler

import (
	"net/http"
	"strconv"

	"github.com/iliyamo/arcade-wallet/internal/config"
	"github.com/iliyamo/arcade-wallet/internal/repository"
	"github.com/labstack/echo/v4"
)

// CatalogHandler serves the read-only catalog projections game staff
// pick transaction parameters from: active games and the reward
// presets attached to them.  Both endpoints sit behind the response
// cache since the catalog changes rarely during an event.
type CatalogHandler struct {
	Cfg     config.Config
	Games   *repository.GameRepo
	Presets *repository.PresetRepo
}

// NewCatalogHandler constructs a CatalogHandler with the provided
// repositories.  All dependencies must be non-nil.
func NewCatalogHandler(cfg config.Config, games *repository.GameRepo, presets *repository.PresetRepo) *CatalogHandler {
	if games == nil || presets == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Cfg: cfg, Games: games, Presets: presets}
}

// ListGames handles GET /v1/games: active games ordered by name.
func (h *CatalogHandler) ListGames(c echo.Context) error {
	games, err := h.Games.ListActive(c.Request().Context(), h.Cfg.EventKey)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": games})
}

// ListPresets handles GET /v1/games/:id/presets: active reward
// presets for one game, ordered by sort order then label.
func (h *CatalogHandler) ListPresets(c echo.Context) error {
	gameID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || gameID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid game id"})
	}
	presets, err := h.Presets.ListActiveByGame(c.Request().Context(), h.Cfg.EventKey, gameID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": presets})
}
