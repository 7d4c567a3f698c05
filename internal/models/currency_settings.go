package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ChannelCategory string

const (
	CATEGORY_CHAT  ChannelCategory = "chat"
	CATEGORY_MUSIC ChannelCategory = "music"
	CATEGORY_GAME  ChannelCategory = "game"
	CATEGORY_FORUM ChannelCategory = "forum"
	CATEGORY_VOICE ChannelCategory = "voice"
	CATEGORY_OTHER ChannelCategory = "other"
)

// DefaultCategoryMultipliers apply when a guild has not overridden a category.
var DefaultCategoryMultipliers = map[ChannelCategory]float64{
	CATEGORY_CHAT:  1.0,
	CATEGORY_MUSIC: 1.5,
	CATEGORY_GAME:  1.2,
	CATEGORY_FORUM: 1.3,
	CATEGORY_VOICE: 1.0,
	CATEGORY_OTHER: 1.0,
}

const (
	EVENT_TEXT  = "text"
	EVENT_VOICE = "voice"
	EVENT_ALL   = "all"

	TARGET_CHANNEL = "channel"
	TARGET_ROLE    = "role"
)

// ChannelCategoryConfig assigns a channel to an earning category.
type ChannelCategoryConfig struct {
	bun.BaseModel `bun:"table:channel_category"`
	ID            int64           `bun:"id,pk,autoincrement" json:"id"`
	GuildID       string          `bun:"guild_id" json:"guild_id"`
	ChannelID     string          `bun:"channel_id" json:"channel_id"`
	Category      ChannelCategory `bun:"category" json:"category"`
	CreatedAt     time.Time       `bun:"created_at,default:current_timestamp" json:"created_at"`
}

// CategoryMultiplier overrides the default multiplier of one category for a
// guild.
type CategoryMultiplier struct {
	bun.BaseModel `bun:"table:category_multiplier"`
	ID            int64           `bun:"id,pk,autoincrement" json:"id"`
	GuildID       string          `bun:"guild_id" json:"guild_id"`
	Category      ChannelCategory `bun:"category" json:"category"`
	Multiplier    float64         `bun:"multiplier" json:"multiplier"`
	CreatedAt     time.Time       `bun:"created_at,default:current_timestamp" json:"created_at"`
}

// HotTime boosts earnings during a daily time window. StartTime and EndTime
// are clock strings ("HH:MM" or "HH:MM:SS"); a window whose start is after
// its end wraps across midnight. An empty ChannelIDs list applies everywhere.
type HotTime struct {
	bun.BaseModel `bun:"table:currency_hot_time"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	GuildID       string    `bun:"guild_id" json:"guild_id"`
	EventType     string    `bun:"event_type" json:"event_type"`
	StartTime     string    `bun:"start_time" json:"start_time"`
	EndTime       string    `bun:"end_time" json:"end_time"`
	Multiplier    float64   `bun:"multiplier" json:"multiplier"`
	Enabled       bool      `bun:"enabled,default:true" json:"enabled"`
	ChannelIDs    []string  `bun:"channel_ids,array" json:"channel_ids"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

// MultiplierOverride pins a flat multiplier to one channel or role.
type MultiplierOverride struct {
	bun.BaseModel `bun:"table:currency_multiplier"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	GuildID       string    `bun:"guild_id" json:"guild_id"`
	TargetType    string    `bun:"target_type" json:"target_type"`
	TargetID      string    `bun:"target_id" json:"target_id"`
	Multiplier    float64   `bun:"multiplier" json:"multiplier"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

// CurrencyExclusion blocks earning entirely for a channel or role.
type CurrencyExclusion struct {
	bun.BaseModel `bun:"table:currency_exclusion"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	GuildID       string    `bun:"guild_id" json:"guild_id"`
	TargetType    string    `bun:"target_type" json:"target_type"`
	TargetID      string    `bun:"target_id" json:"target_id"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

func secondsOfDay(t time.Time) int {
	u := t.UTC()
	return u.Hour()*3600 + u.Minute()*60 + u.Second()
}

// parseClock converts "HH:MM" or "HH:MM:SS" to seconds since midnight.
// Malformed input parses as 0.
func parseClock(s string) int {
	if len(s) < 5 {
		return 0
	}
	digit := func(c byte) int {
		if c < '0' || c > '9' {
			return 0
		}
		return int(c - '0')
	}
	h := digit(s[0])*10 + digit(s[1])
	m := digit(s[3])*10 + digit(s[4])
	sec := 0
	if len(s) >= 8 {
		sec = digit(s[6])*10 + digit(s[7])
	}
	return h*3600 + m*60 + sec
}

// AppliesAt reports whether this hot time covers an event of the given type
// in the given channel at now. Start is inclusive, end exclusive.
func (h *HotTime) AppliesAt(eventType, channelID string, now time.Time) bool {
	if !h.Enabled {
		return false
	}
	if h.EventType != EVENT_ALL && h.EventType != eventType {
		return false
	}
	if len(h.ChannelIDs) > 0 {
		found := false
		for _, id := range h.ChannelIDs {
			if id == channelID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	at := secondsOfDay(now)
	start := parseClock(h.StartTime)
	end := parseClock(h.EndTime)
	if start <= end {
		return at >= start && at < end
	}
	return at >= start || at < end
}
