package model

import "time"

// Transaction kinds.  Amounts are stored unsigned; the kind decides
// the sign applied to the wallet balance.
const (
	TxnCredit = "CREDIT"
	TxnDebit  = "DEBIT"
)

// Transaction is one applied balance change.  Rows are append-only:
// they are written exactly once inside the same database transaction
// that updates the wallet balance and are never updated or deleted
// afterwards.  The (EventKey, ActionID) pair is unique, which is what
// makes client retries safe.
//
// Fields:
//  ID            – primary key identifier.
//  WalletID      – wallet the change was applied to.
//  Kind          – CREDIT or DEBIT.
//  Amount        – unsigned token amount, always > 0.
//  Reason        – composed reason string ("reason — note" when a
//                  note was supplied).
//  ActorType     – who applied the change; always STAFF here.
//  ActorID       – staff account id, when known.
//  ActorUsername – staff username, when known.
//  EventKey      – tenant key isolating one event's data.
//  GameID        – optional game linkage.
//  PresetID      – optional reward preset linkage.
//  ActionID      – client-generated idempotency token.
//  BalanceAfter  – wallet balance immediately after this change.
//  CreatedAt     – creation timestamp.
type Transaction struct {
	ID            uint64    `json:"id"`                       // arcade_wallet_txns.id
	WalletID      uint64    `json:"wallet_id"`                // arcade_wallet_txns.wallet_id
	Kind          string    `json:"kind"`                     // arcade_wallet_txns.kind
	Amount        int64     `json:"amount"`                   // arcade_wallet_txns.amount
	Reason        string    `json:"reason"`                   // arcade_wallet_txns.reason
	ActorType     string    `json:"actor_type"`               // arcade_wallet_txns.actor_type
	ActorID       *uint64   `json:"actor_id,omitempty"`       // arcade_wallet_txns.actor_id (nullable)
	ActorUsername *string   `json:"actor_username,omitempty"` // arcade_wallet_txns.actor_username (nullable)
	EventKey      string    `json:"event_key"`                // arcade_wallet_txns.event_key
	GameID        *uint64   `json:"game_id,omitempty"`        // arcade_wallet_txns.game_id (nullable)
	PresetID      *uint64   `json:"preset_id,omitempty"`      // arcade_wallet_txns.preset_id (nullable)
	ActionID      string    `json:"action_id"`                // arcade_wallet_txns.action_id
	BalanceAfter  int64     `json:"balance_after"`            // arcade_wallet_txns.balance_after
	CreatedAt     time.Time `json:"created_at"`               // arcade_wallet_txns.created_at
}
