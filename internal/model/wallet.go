package model

import "time"

// Wallet is a participant's prepaid token balance for one event.
// Exactly one wallet exists per registration.  The balance column is
// a denormalized view of the transaction ledger and is only ever
// mutated together with a ledger row inside the same transaction, so
// the two can never diverge.
//
// Fields:
//  ID             – primary key identifier.
//  EventKey       – tenant key isolating one event's data.
//  WalletCode     – human-facing code printed on the badge/QR.
//  RegistrationID – owning registration.
//  Balance        – current token balance; never negative.
//  UpdatedAt      – timestamp of the last balance change.
type Wallet struct {
	ID             uint64    // arcade_wallets.id
	EventKey       string    // arcade_wallets.event_key
	WalletCode     string    // arcade_wallets.wallet_code
	RegistrationID uint64    // arcade_wallets.registration_id
	Balance        int64     // arcade_wallets.balance
	UpdatedAt      time.Time // arcade_wallets.updated_at
}
