package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ShopItem is a purchasable entry in a guild's shop. DurationDays of 0 means
// the granted entitlement is permanent; a positive value sets its expiry from
// the moment of purchase. Stock and MaxPerUser are unlimited when nil.
type ShopItem struct {
	bun.BaseModel `bun:"table:shop_item"`
	ID            int64        `bun:"id,pk,autoincrement" json:"id"`
	GuildID       string       `bun:"guild_id" json:"guild_id"`
	Name          string       `bun:"name" json:"name"`
	Description   *string      `bun:"description" json:"description"`
	Price         Amount       `bun:"price,type:numeric" json:"price"`
	Currency      CurrencyKind `bun:"currency" json:"currency"`
	DurationDays  int          `bun:"duration_days,default:0" json:"duration_days"`
	Stock         *int         `bun:"stock" json:"stock"`
	MaxPerUser    *int         `bun:"max_per_user" json:"max_per_user"`
	Enabled       bool         `bun:"enabled,default:true" json:"enabled"`
	CreatedAt     time.Time    `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time    `bun:"updated_at" json:"updated_at"`
}

func (item *ShopItem) IsPeriodItem() bool {
	return item.DurationDays > 0
}

// EntitlementExpiry returns when an entitlement granted now should lapse,
// or nil for permanent items.
func (item *ShopItem) EntitlementExpiry(now time.Time) *time.Time {
	if !item.IsPeriodItem() {
		return nil
	}
	t := now.AddDate(0, 0, item.DurationDays)
	return &t
}
