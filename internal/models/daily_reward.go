package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	REWARD_ATTENDANCE   = "attendance"
	REWARD_SUBSCRIPTION = "subscription"
)

// DailyReward tracks one user's claim streak for one reward kind. Claims are
// gated by calendar date, not a rolling 24h window: one claim per date, and
// the streak survives as long as consecutive dates are claimed.
type DailyReward struct {
	bun.BaseModel `bun:"table:daily_reward"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	GuildID       string    `bun:"guild_id" json:"guild_id"`
	UserID        string    `bun:"user_id" json:"user_id"`
	Kind          string    `bun:"kind" json:"kind"`
	LastClaimedAt time.Time `bun:"last_claimed_at" json:"last_claimed_at"`
	Streak        int       `bun:"streak,default:0" json:"streak"`
	TotalCount    int       `bun:"total_count,default:0" json:"total_count"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`
}

func SameClaimDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// NextClaimAt returns the next UTC midnight after now, the moment a claim
// becomes possible again.
func NextClaimAt(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

// CanClaim reports whether a claim at now is allowed given the last claim.
// The zero time means never claimed.
func (r *DailyReward) CanClaim(now time.Time) bool {
	if r == nil || r.LastClaimedAt.IsZero() {
		return true
	}
	return !SameClaimDate(r.LastClaimedAt, now)
}

// NextStreak computes the streak value a claim at now should record:
// continued when the last claim was exactly yesterday, otherwise back to 1.
func (r *DailyReward) NextStreak(now time.Time) int {
	if r == nil || r.LastClaimedAt.IsZero() {
		return 1
	}
	if SameClaimDate(r.LastClaimedAt, now.UTC().AddDate(0, 0, -1)) {
		return r.Streak + 1
	}
	return 1
}
