package model

import "time"

// Game is an arcade station that debits tokens for play.  The set of
// allowed debit amounts is stored as a JSON array so a station can
// offer e.g. [10, 20, 50] alongside its default.
//
// Fields:
//  ID                 – primary key identifier.
//  EventKey           – tenant key isolating one event's data.
//  Name               – display name shown to game staff.
//  DefaultDebitAmount – preselected debit amount for the station.
//  AllowedDebitAmounts – JSON array of permitted debit amounts.
//  IsActive           – inactive games are hidden from staff.
type Game struct {
	ID                  uint64    `json:"id"`                    // arcade_games.id
	EventKey            string    `json:"event_key"`             // arcade_games.event_key
	Name                string    `json:"name"`                  // arcade_games.name
	DefaultDebitAmount  int64     `json:"default_debit_amount"`  // arcade_games.default_debit_amount
	AllowedDebitAmounts string    `json:"allowed_debit_amounts"` // arcade_games.allowed_debit_amounts (JSON)
	IsActive            bool      `json:"is_active"`             // arcade_games.is_active
	CreatedAt           time.Time `json:"created_at"`            // arcade_games.created_at
}
