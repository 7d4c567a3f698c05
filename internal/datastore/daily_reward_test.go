package datastore

import (
	"context"
	"testing"
	"time"

	"topia/internal/models"
)

func claimAt(at time.Time, streak, total int) *models.DailyReward {
	return &models.DailyReward{
		GuildID:       "guild-1",
		UserID:        "user-1",
		Kind:          models.REWARD_ATTENDANCE,
		LastClaimedAt: at,
		Streak:        streak,
		TotalCount:    total,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
}

func TestUpsertDailyRewardRejectsSameDate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	morning := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	claimed, err := UpsertDailyReward(ctx, db, claimAt(morning, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !claimed {
		t.Fatal("first claim of the day should be accepted")
	}

	evening := time.Date(2025, 6, 1, 21, 0, 0, 0, time.UTC)
	claimed, err = UpsertDailyReward(ctx, db, claimAt(evening, 2, 2))
	if err != nil {
		t.Fatal(err)
	}
	if claimed {
		t.Fatal("second claim on the same date should be rejected by the row guard")
	}

	stored, err := FindDailyReward(ctx, db, "guild-1", "user-1", models.REWARD_ATTENDANCE)
	if err != nil {
		t.Fatal(err)
	}
	if stored.TotalCount != 1 || stored.Streak != 1 {
		t.Fatalf("rejected claim must leave the row untouched, got streak=%d total=%d", stored.Streak, stored.TotalCount)
	}
	if !stored.LastClaimedAt.Equal(morning) {
		t.Fatalf("last claim time should stay %v, got %v", morning, stored.LastClaimedAt)
	}
}

func TestUpsertDailyRewardAcceptsNextDate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	day1 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	if _, err := UpsertDailyReward(ctx, db, claimAt(day1, 1, 1)); err != nil {
		t.Fatal(err)
	}

	day2 := time.Date(2025, 6, 2, 0, 30, 0, 0, time.UTC)
	claimed, err := UpsertDailyReward(ctx, db, claimAt(day2, 2, 2))
	if err != nil {
		t.Fatal(err)
	}
	if !claimed {
		t.Fatal("a claim on the next calendar date should be accepted")
	}

	stored, err := FindDailyReward(ctx, db, "guild-1", "user-1", models.REWARD_ATTENDANCE)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Streak != 2 {
		t.Fatalf("streak should advance to 2, got %d", stored.Streak)
	}
	if stored.TotalCount != 2 {
		t.Fatalf("total count should accumulate to 2, got %d", stored.TotalCount)
	}
}
