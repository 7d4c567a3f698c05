package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	DEFAULT_SHOP_FEE_PERMILLE          = 12
	DEFAULT_TOPY_TRANSFER_FEE_PERMILLE = 50
	DEFAULT_RUBY_TRANSFER_FEE_PERMILLE = 30
)

// MarketSettings holds the per-guild fee schedule, expressed in permille to
// keep fee math integral.
type MarketSettings struct {
	bun.BaseModel           `bun:"table:market_settings"`
	GuildID                 string    `bun:"guild_id,pk" json:"guild_id"`
	ShopFeePermille         int       `bun:"shop_fee_permille" json:"shop_fee_permille"`
	TopyTransferFeePermille int       `bun:"topy_transfer_fee_permille" json:"topy_transfer_fee_permille"`
	RubyTransferFeePermille int       `bun:"ruby_transfer_fee_permille" json:"ruby_transfer_fee_permille"`
	CreatedAt               time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt               time.Time `bun:"updated_at" json:"updated_at"`
}

func DefaultMarketSettings(guildID string) *MarketSettings {
	return &MarketSettings{
		GuildID:                 guildID,
		ShopFeePermille:         DEFAULT_SHOP_FEE_PERMILLE,
		TopyTransferFeePermille: DEFAULT_TOPY_TRANSFER_FEE_PERMILLE,
		RubyTransferFeePermille: DEFAULT_RUBY_TRANSFER_FEE_PERMILLE,
	}
}

func (s *MarketSettings) TransferFeePermille(kind CurrencyKind) int {
	if kind == CURRENCY_RUBY {
		return s.RubyTransferFeePermille
	}
	return s.TopyTransferFeePermille
}
