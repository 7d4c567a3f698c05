package models

import (
	"time"

	"github.com/uptrace/bun"
)

type CurrencyKind string

const (
	CURRENCY_TOPY CurrencyKind = "topy"
	CURRENCY_RUBY CurrencyKind = "ruby"
)

func (k CurrencyKind) Valid() bool {
	return k == CURRENCY_TOPY || k == CURRENCY_RUBY
}

// Wallet holds one user's balance for one currency within one guild.
// Created lazily on the first credit; only removed by the retention sweep.
type Wallet struct {
	bun.BaseModel `bun:"table:wallet"`
	ID            int64        `bun:"id,pk,autoincrement" json:"id"`
	GuildID       string       `bun:"guild_id" json:"guild_id"`
	UserID        string       `bun:"user_id" json:"user_id"`
	Currency      CurrencyKind `bun:"currency" json:"currency"`
	Balance       Amount       `bun:"balance,type:numeric" json:"balance"`
	TotalEarned   Amount       `bun:"total_earned,type:numeric" json:"total_earned"`
	DailyEarned   Amount       `bun:"daily_earned,type:numeric" json:"daily_earned"`
	DailyResetAt  time.Time    `bun:"daily_reset_at" json:"daily_reset_at"`
	CreatedAt     time.Time    `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time    `bun:"updated_at" json:"updated_at"`
}

func NewWallet(guildID, userID string, currency CurrencyKind, now time.Time) *Wallet {
	return &Wallet{
		GuildID:      guildID,
		UserID:       userID,
		Currency:     currency,
		Balance:      ZeroAmount(),
		TotalEarned:  ZeroAmount(),
		DailyEarned:  ZeroAmount(),
		DailyResetAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
