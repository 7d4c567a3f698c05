package models

import (
	"testing"
	"time"
)

func TestCanClaim(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	var none *DailyReward
	if !none.CanClaim(now) {
		t.Fatalf("first-ever claim should be allowed")
	}

	sameDay := &DailyReward{LastClaimedAt: time.Date(2025, 3, 10, 0, 30, 0, 0, time.UTC)}
	if sameDay.CanClaim(now) {
		t.Fatalf("second claim on the same date should be blocked")
	}

	yesterday := &DailyReward{LastClaimedAt: time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC)}
	if !yesterday.CanClaim(now) {
		t.Fatalf("claim on the next calendar date should be allowed even within 24h")
	}
}

func TestNextStreak(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	var none *DailyReward
	if got := none.NextStreak(now); got != 1 {
		t.Fatalf("expected streak 1 for first claim, got %d", got)
	}

	consecutive := &DailyReward{
		LastClaimedAt: time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC),
		Streak:        4,
	}
	if got := consecutive.NextStreak(now); got != 5 {
		t.Fatalf("expected streak 5 after consecutive claim, got %d", got)
	}

	skipped := &DailyReward{
		LastClaimedAt: time.Date(2025, 3, 7, 8, 0, 0, 0, time.UTC),
		Streak:        10,
	}
	if got := skipped.NextStreak(now); got != 1 {
		t.Fatalf("expected streak reset to 1 after a gap, got %d", got)
	}
}

func TestNextClaimAt(t *testing.T) {
	now := time.Date(2025, 3, 10, 18, 45, 0, 0, time.UTC)
	want := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	if got := NextClaimAt(now); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestSameClaimDateAcrossMonths(t *testing.T) {
	a := time.Date(2025, 2, 28, 23, 0, 0, 0, time.UTC)
	b := time.Date(2025, 3, 1, 1, 0, 0, 0, time.UTC)
	if SameClaimDate(a, b) {
		t.Fatalf("different dates should not match")
	}
}
