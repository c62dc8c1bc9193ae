package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/arcade-wallet/internal/model"
)

// GameRepo provides read access to the arcade_games catalog.  Games
// are managed out of band by the organizer; this service only lists
// the active ones so game staff can pick valid debit parameters.
type GameRepo struct {
	db *sql.DB
}

// NewGameRepo returns a new GameRepo bound to the given database.
func NewGameRepo(db *sql.DB) *GameRepo { return &GameRepo{db: db} }

// ListActive returns all active games for the event ordered by name.
func (r *GameRepo) ListActive(ctx context.Context, eventKey string) ([]model.Game, error) {
	const q = `SELECT id, event_key, name, default_debit_amount, allowed_debit_amounts, is_active, created_at
               FROM arcade_games
               WHERE event_key = ? AND is_active = TRUE
               ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q, eventKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	games := make([]model.Game, 0)
	for rows.Next() {
		var g model.Game
		if err := rows.Scan(&g.ID, &g.EventKey, &g.Name, &g.DefaultDebitAmount,
			&g.AllowedDebitAmounts, &g.IsActive, &g.CreatedAt); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}
