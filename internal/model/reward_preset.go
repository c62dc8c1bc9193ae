package model

import "time"

// RewardPreset is a named fixed-amount credit attached to a game, so
// staff can reward a winner with one tap instead of typing amounts.
//
// Fields:
//  ID        – primary key identifier.
//  EventKey  – tenant key isolating one event's data.
//  GameID    – owning game.
//  Label     – button label shown to staff (e.g. "Winner").
//  Amount    – fixed credit amount in tokens.
//  IsActive  – inactive presets are hidden from staff.
//  SortOrder – explicit display ordering among a game's presets.
type RewardPreset struct {
	ID        uint64    `json:"id"`         // arcade_reward_presets.id
	EventKey  string    `json:"event_key"`  // arcade_reward_presets.event_key
	GameID    uint64    `json:"game_id"`    // arcade_reward_presets.game_id
	Label     string    `json:"label"`      // arcade_reward_presets.label
	Amount    int64     `json:"amount"`     // arcade_reward_presets.amount
	IsActive  bool      `json:"is_active"`  // arcade_reward_presets.is_active
	SortOrder int32     `json:"sort_order"` // arcade_reward_presets.sort_order
	CreatedAt time.Time `json:"created_at"` // arcade_reward_presets.created_at
}
