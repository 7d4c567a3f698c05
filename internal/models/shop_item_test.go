package models

import (
	"testing"
	"time"
)

func TestEntitlementExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	permanent := &ShopItem{DurationDays: 0}
	if permanent.IsPeriodItem() {
		t.Fatalf("zero duration should mean a permanent item")
	}
	if permanent.EntitlementExpiry(now) != nil {
		t.Fatalf("permanent item should grant without expiry")
	}

	timed := &ShopItem{DurationDays: 30}
	got := timed.EntitlementExpiry(now)
	if got == nil || !got.Equal(now.AddDate(0, 0, 30)) {
		t.Fatalf("expected expiry 30 days out, got %v", got)
	}
}
