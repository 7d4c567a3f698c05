package models

import (
	"time"

	"github.com/uptrace/bun"
)

const DEFAULT_RETENTION_DAYS = 30

// DataRetentionSettings controls how long a departed member's economy data
// is kept before the cleanup sweep purges it.
type DataRetentionSettings struct {
	bun.BaseModel `bun:"table:data_retention_settings"`
	GuildID       string    `bun:"guild_id,pk" json:"guild_id"`
	RetentionDays int       `bun:"retention_days" json:"retention_days"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`
}

// LeftMember marks a user who left the guild and the deadline after which
// their data may be purged. Rejoining before the deadline removes the mark.
type LeftMember struct {
	bun.BaseModel `bun:"table:left_member"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	GuildID       string    `bun:"guild_id" json:"guild_id"`
	UserID        string    `bun:"user_id" json:"user_id"`
	LeftAt        time.Time `bun:"left_at" json:"left_at"`
	PurgeAfter    time.Time `bun:"purge_after" json:"purge_after"`
}

func NewLeftMember(guildID, userID string, retentionDays int, now time.Time) *LeftMember {
	return &LeftMember{
		GuildID:    guildID,
		UserID:     userID,
		LeftAt:     now,
		PurgeAfter: now.AddDate(0, 0, retentionDays),
	}
}
