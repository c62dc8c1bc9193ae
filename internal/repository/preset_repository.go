package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/arcade-wallet/internal/model"
)

// PresetRepo provides read access to the arcade_reward_presets
// catalog: named fixed-amount credits attached to games.
type PresetRepo struct {
	db *sql.DB
}

// NewPresetRepo returns a new PresetRepo bound to the given database.
func NewPresetRepo(db *sql.DB) *PresetRepo { return &PresetRepo{db: db} }

// ListActiveByGame returns all active presets for one game ordered by
// explicit sort order, then label.  An unknown game id simply yields
// an empty list.
func (r *PresetRepo) ListActiveByGame(ctx context.Context, eventKey string, gameID uint64) ([]model.RewardPreset, error) {
	const q = `SELECT id, event_key, game_id, label, amount, is_active, sort_order, created_at
               FROM arcade_reward_presets
               WHERE event_key = ? AND game_id = ? AND is_active = TRUE
               ORDER BY sort_order ASC, label ASC`
	rows, err := r.db.QueryContext(ctx, q, eventKey, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	presets := make([]model.RewardPreset, 0)
	for rows.Next() {
		var p model.RewardPreset
		if err := rows.Scan(&p.ID, &p.EventKey, &p.GameID, &p.Label, &p.Amount,
			&p.IsActive, &p.SortOrder, &p.CreatedAt); err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return presets, nil
}
