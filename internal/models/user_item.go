package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserItem is a user's owned entitlement for one shop item. Two expiries
// coexist and are independent: ExpiresAt ends the entitlement itself,
// RoleExpiresAt ends only the currently applied role effect.
type UserItem struct {
	bun.BaseModel  `bun:"table:user_item"`
	ID             int64      `bun:"id,pk,autoincrement" json:"id"`
	GuildID        string     `bun:"guild_id" json:"guild_id"`
	UserID         string     `bun:"user_id" json:"user_id"`
	ShopItemID     int64      `bun:"shop_item_id" json:"shop_item_id"`
	Quantity       int        `bun:"quantity,default:0" json:"quantity"`
	ExpiresAt      *time.Time `bun:"expires_at" json:"expires_at"`
	CurrentRoleID  *string    `bun:"current_role_id" json:"current_role_id"`
	FixedRoleID    *string    `bun:"fixed_role_id" json:"fixed_role_id"`
	RoleAssignedAt *time.Time `bun:"role_assigned_at" json:"role_assigned_at"`
	RoleExpiresAt  *time.Time `bun:"role_expires_at" json:"role_expires_at"`
	CreatedAt      time.Time  `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time  `bun:"updated_at" json:"updated_at"`
}

func (item *UserItem) IsExpired(now time.Time) bool {
	return item.ExpiresAt != nil && item.ExpiresAt.Before(now)
}

func (item *UserItem) IsEffectExpired(now time.Time) bool {
	return item.RoleExpiresAt != nil && item.RoleExpiresAt.Before(now)
}

// HasActiveRole reports whether any externally granted effect is on record,
// chosen or fixed.
func (item *UserItem) HasActiveRole() bool {
	return item.CurrentRoleID != nil || item.FixedRoleID != nil
}

// IsUsable reports whether the entitlement still counts as owned: unexpired
// and either carrying quantity or period-based.
func (item *UserItem) IsUsable(now time.Time) bool {
	if item.IsExpired(now) {
		return false
	}
	return item.Quantity > 0 || item.ExpiresAt != nil
}
