package models

import (
	"time"

	"github.com/uptrace/bun"
)

// RoleTicket lets the holder of a backing shop item exchange it for one of
// several guild roles. A ticket is either consumable (each exchange burns
// ConsumeQuantity units) or period-based (PeriodDays > 0: exchanges never
// consume quantity, they only switch the active role and restart its effect
// window). The two modes are mutually exclusive.
type RoleTicket struct {
	bun.BaseModel      `bun:"table:role_ticket"`
	ID                 int64     `bun:"id,pk,autoincrement" json:"id"`
	GuildID            string    `bun:"guild_id" json:"guild_id"`
	ShopItemID         int64     `bun:"shop_item_id" json:"shop_item_id"`
	Name               string    `bun:"name" json:"name"`
	ConsumeQuantity    int       `bun:"consume_quantity,default:1" json:"consume_quantity"`
	PeriodDays         int       `bun:"period_days,default:0" json:"period_days"`
	RemovePreviousRole bool      `bun:"remove_previous_role,default:true" json:"remove_previous_role"`
	FixedRoleID        *string   `bun:"fixed_role_id" json:"fixed_role_id"`
	Enabled            bool      `bun:"enabled,default:true" json:"enabled"`
	CreatedAt          time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`

	Options []*TicketRoleOption `bun:"-" json:"options,omitempty"`
}

type TicketRoleOption struct {
	bun.BaseModel `bun:"table:ticket_role_option"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	TicketID      int64     `bun:"ticket_id" json:"ticket_id"`
	RoleID        string    `bun:"role_id" json:"role_id"`
	Name          string    `bun:"name" json:"name"`
	Description   *string   `bun:"description" json:"description"`
	DisplayOrder  int       `bun:"display_order,default:0" json:"display_order"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

func (t *RoleTicket) IsPeriod() bool {
	return t.PeriodDays > 0
}

// RoleEffectExpiry computes when the role granted by an exchange performed
// now should lapse. Consumable tickets grant until the entitlement's own
// expiry (nil when the entitlement is permanent).
func (t *RoleTicket) RoleEffectExpiry(now time.Time, itemExpiresAt *time.Time) *time.Time {
	if t.IsPeriod() {
		e := now.AddDate(0, 0, t.PeriodDays)
		return &e
	}
	return itemExpiresAt
}

func (t *RoleTicket) Option(optionID int64) *TicketRoleOption {
	for _, o := range t.Options {
		if o.ID == optionID {
			return o
		}
	}
	return nil
}

// RevokeListFor returns the role ids an exchange to chosenRoleID should ask
// the caller to revoke. Empty unless the ticket removes previous roles.
func (t *RoleTicket) RevokeListFor(chosenRoleID string) []string {
	if !t.RemovePreviousRole {
		return nil
	}
	var out []string
	for _, o := range t.Options {
		if o.RoleID != chosenRoleID {
			out = append(out, o.RoleID)
		}
	}
	return out
}
