package models

import (
	"time"

	"github.com/uptrace/bun"
)

type PurchaseHistory struct {
	bun.BaseModel `bun:"table:purchase_history"`
	ID            int64        `bun:"id,pk,autoincrement" json:"id"`
	Reference     string       `bun:"reference" json:"reference"`
	GuildID       string       `bun:"guild_id" json:"guild_id"`
	UserID        string       `bun:"user_id" json:"user_id"`
	ShopItemID    int64        `bun:"shop_item_id" json:"shop_item_id"`
	ItemName      string       `bun:"item_name" json:"item_name"`
	Price         Amount       `bun:"price,type:numeric" json:"price"`
	Fee           Amount       `bun:"fee,type:numeric" json:"fee"`
	Currency      CurrencyKind `bun:"currency" json:"currency"`
	PurchasedAt   time.Time    `bun:"purchased_at,default:current_timestamp" json:"purchased_at"`
}
