package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	TREASURY_SHOP_FEE     = "shop_fee"
	TREASURY_TRANSFER_FEE = "transfer_fee"
	TREASURY_TAX          = "tax"
	TREASURY_INTEREST     = "interest"
	TREASURY_DISTRIBUTE   = "admin_distribute"
)

// Treasury is the guild-wide pooled balance for one currency. It collects
// fees and taxes and funds admin distributions and monthly interest.
// Invariant: Balance = TotalCollected - TotalDistributed.
type Treasury struct {
	bun.BaseModel    `bun:"table:guild_treasury"`
	ID               int64        `bun:"id,pk,autoincrement" json:"id"`
	GuildID          string       `bun:"guild_id" json:"guild_id"`
	Currency         CurrencyKind `bun:"currency" json:"currency"`
	Balance          Amount       `bun:"balance,type:numeric" json:"balance"`
	TotalCollected   Amount       `bun:"total_collected,type:numeric" json:"total_collected"`
	TotalDistributed Amount       `bun:"total_distributed,type:numeric" json:"total_distributed"`
	CreatedAt        time.Time    `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time    `bun:"updated_at" json:"updated_at"`
}

func NewTreasury(guildID string, currency CurrencyKind, now time.Time) *Treasury {
	return &Treasury{
		GuildID:          guildID,
		Currency:         currency,
		Balance:          ZeroAmount(),
		TotalCollected:   ZeroAmount(),
		TotalDistributed: ZeroAmount(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// TreasuryEntry mirrors the wallet ledger contract for the treasury:
// append-only, BalanceAfter equal to the treasury balance after Amount.
type TreasuryEntry struct {
	bun.BaseModel `bun:"table:treasury_entry"`
	ID            int64        `bun:"id,pk,autoincrement" json:"id"`
	GuildID       string       `bun:"guild_id" json:"guild_id"`
	Currency      CurrencyKind `bun:"currency" json:"currency"`
	Kind          string       `bun:"kind" json:"kind"`
	Amount        Amount       `bun:"amount,type:numeric" json:"amount"`
	BalanceAfter  Amount       `bun:"balance_after,type:numeric" json:"balance_after"`
	RelatedUserID *string      `bun:"related_user_id" json:"related_user_id"`
	Note          string       `bun:"note" json:"note"`
	CreatedAt     time.Time    `bun:"created_at,default:current_timestamp" json:"created_at"`
}

// InterestPeriod marks one processed (guild, currency, month) interest run.
// The unique key on those columns is what makes the monthly job idempotent.
type InterestPeriod struct {
	bun.BaseModel `bun:"table:treasury_interest"`
	ID            int64        `bun:"id,pk,autoincrement" json:"id"`
	GuildID       string       `bun:"guild_id" json:"guild_id"`
	Currency      CurrencyKind `bun:"currency" json:"currency"`
	Period        string       `bun:"period" json:"period"` // YYYY-MM
	Amount        Amount       `bun:"amount,type:numeric" json:"amount"`
	CreatedAt     time.Time    `bun:"created_at,default:current_timestamp" json:"created_at"`
}
