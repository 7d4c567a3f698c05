package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"topia/internal/datastore"
	"topia/internal/models"
)

func TestDistributeReturnsEntry(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if _, err := datastore.DepositTreasury(ctx, db, "guild-1", models.CURRENCY_TOPY, models.NewAmount(200), now); err != nil {
		t.Fatal(err)
	}

	service := &ServiceTreasury{
		postgresDB: db,
		clock:      &clockFixed{now: now},
	}

	treasury, entry, err := service.Distribute(ctx, "guild-1", "user-1", models.CURRENCY_TOPY, models.NewAmount(50), "event prize")
	if err != nil {
		t.Fatal(err)
	}

	if treasury.Balance.Int64() != 150 {
		t.Fatalf("balance should drop to 150, got %s", treasury.Balance)
	}
	if entry == nil {
		t.Fatal("distribute should return the recorded entry")
	}
	if entry.Kind != models.TREASURY_DISTRIBUTE {
		t.Fatalf("entry kind should be %s, got %s", models.TREASURY_DISTRIBUTE, entry.Kind)
	}
	if entry.Amount.Int64() != -50 {
		t.Fatalf("entry should record the outflow as -50, got %s", entry.Amount)
	}
	if entry.RelatedUserID == nil || *entry.RelatedUserID != "user-1" {
		t.Fatalf("entry should name the recipient, got %v", entry.RelatedUserID)
	}
	if entry.BalanceAfter.Cmp(treasury.Balance) != 0 {
		t.Fatalf("entry balance-after %s should match the treasury %s", entry.BalanceAfter, treasury.Balance)
	}

	wallet, err := datastore.FindWallet(ctx, db, "guild-1", "user-1", models.CURRENCY_TOPY)
	if err != nil {
		t.Fatal(err)
	}
	if wallet.Balance.Int64() != 50 {
		t.Fatalf("recipient should be credited 50, got %s", wallet.Balance)
	}
}

func TestDistributeFailsWithoutSideEffects(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if _, err := datastore.DepositTreasury(ctx, db, "guild-1", models.CURRENCY_TOPY, models.NewAmount(40), now); err != nil {
		t.Fatal(err)
	}

	service := &ServiceTreasury{
		postgresDB: db,
		clock:      &clockFixed{now: now},
	}

	_, _, err := service.Distribute(ctx, "guild-1", "user-1", models.CURRENCY_TOPY, models.NewAmount(100), "too much")
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("overdraft should fail with ErrInsufficientBalance, got %v", err)
	}

	treasury, err := datastore.FindTreasury(ctx, db, "guild-1", models.CURRENCY_TOPY)
	if err != nil {
		t.Fatal(err)
	}
	if treasury.Balance.Int64() != 40 {
		t.Fatalf("failed distribute must leave the balance at 40, got %s", treasury.Balance)
	}
	want := treasury.TotalCollected.Sub(treasury.TotalDistributed)
	if treasury.Balance.Cmp(want) != 0 {
		t.Fatalf("balance %s != collected %s - distributed %s",
			treasury.Balance, treasury.TotalCollected, treasury.TotalDistributed)
	}

	entries, err := datastore.ListTreasuryEntries(ctx, db, "guild-1", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if entry.Kind == models.TREASURY_DISTRIBUTE {
			t.Fatal("no distribute entry should survive a failed distribute")
		}
	}
}
