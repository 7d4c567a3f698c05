package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	ENTRY_EARN         = "earn"
	ENTRY_SPEND        = "spend"
	ENTRY_FEE          = "fee"
	ENTRY_TRANSFER_IN  = "transfer_in"
	ENTRY_TRANSFER_OUT = "transfer_out"
	ENTRY_ADMIN        = "admin"
	ENTRY_PURCHASE     = "shop_purchase"
	ENTRY_DAILY_REWARD = "daily_reward"
)

// LedgerEntry is an append-only record of one balance-affecting event.
// BalanceAfter always equals the wallet balance immediately after Amount was
// applied; rows are never edited once written.
type LedgerEntry struct {
	bun.BaseModel `bun:"table:ledger_entry"`
	ID            int64        `bun:"id,pk,autoincrement" json:"id"`
	GuildID       string       `bun:"guild_id" json:"guild_id"`
	UserID        string       `bun:"user_id" json:"user_id"`
	Currency      CurrencyKind `bun:"currency" json:"currency"`
	Kind          string       `bun:"kind" json:"kind"`
	Amount        Amount       `bun:"amount,type:numeric" json:"amount"`
	BalanceAfter  Amount       `bun:"balance_after,type:numeric" json:"balance_after"`
	RelatedUserID *string      `bun:"related_user_id" json:"related_user_id"`
	Note          string       `bun:"note" json:"note"`
	CreatedAt     time.Time    `bun:"created_at,default:current_timestamp" json:"created_at"`
}
