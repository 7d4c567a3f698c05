package services

import (
	"context"
	"testing"
	"time"

	"topia/internal/datastore"
	"topia/internal/models"
)

func TestGetStatusFollowsClockAcrossMidnight(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	claimedAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	_, err := datastore.UpsertDailyReward(ctx, db, &models.DailyReward{
		GuildID:       "guild-1",
		UserID:        "user-1",
		Kind:          models.REWARD_ATTENDANCE,
		LastClaimedAt: claimedAt,
		Streak:        1,
		TotalCount:    1,
		CreatedAt:     claimedAt,
		UpdatedAt:     claimedAt,
	})
	if err != nil {
		t.Fatal(err)
	}

	clock := &clockFixed{now: time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)}
	service := &ServiceDailyReward{
		postgresDB: db,
		clock:      clock,
	}

	reward, claimable, err := service.GetStatus(ctx, "guild-1", "user-1", models.REWARD_ATTENDANCE)
	if err != nil {
		t.Fatal(err)
	}
	if claimable {
		t.Fatal("same calendar date should not be claimable")
	}
	if reward.Streak != 1 {
		t.Fatalf("streak should be 1, got %d", reward.Streak)
	}

	clock.now = time.Date(2025, 6, 2, 0, 30, 0, 0, time.UTC)
	_, claimable, err = service.GetStatus(ctx, "guild-1", "user-1", models.REWARD_ATTENDANCE)
	if err != nil {
		t.Fatal(err)
	}
	if !claimable {
		t.Fatal("the next calendar date should open a new claim")
	}
}

func TestGetStatusNeverClaimed(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	service := &ServiceDailyReward{
		postgresDB: db,
		clock:      &clockFixed{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}

	reward, claimable, err := service.GetStatus(ctx, "guild-1", "user-1", models.REWARD_ATTENDANCE)
	if err != nil {
		t.Fatal(err)
	}
	if reward != nil {
		t.Fatal("a user who never claimed has no reward row")
	}
	if !claimable {
		t.Fatal("a user who never claimed should be claimable")
	}
}
