// Package queue defines message payloads exchanged over the message broker.
package queue

// TxnAppliedEvent is published after the ledger engine commits a
// balance change.  It carries enough information for downstream
// consumers to log or trigger analytics without querying the primary
// database.  Consumers must treat TxnID as the deduplication key: a
// replayed idempotent request republishes the same transaction.
type TxnAppliedEvent struct {
	TxnID         uint64 `json:"txn_id"`
	EventKey      string `json:"event_key"`
	WalletID      uint64 `json:"wallet_id"`
	Kind          string `json:"kind"`
	Amount        int64  `json:"amount"`
	Reason        string `json:"reason"`
	BalanceAfter  int64  `json:"balance_after"`
	ActorUsername string `json:"actor_username,omitempty"`
	AppliedAt     string `json:"applied_at"`
}
