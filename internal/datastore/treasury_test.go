package datastore

import (
	"context"
	"errors"
	"testing"
	"time"

	"topia/internal/models"
)

func assertTreasuryInvariant(t *testing.T, treasury *models.Treasury) {
	t.Helper()
	want := treasury.TotalCollected.Sub(treasury.TotalDistributed)
	if treasury.Balance.Cmp(want) != 0 {
		t.Fatalf("balance %s != collected %s - distributed %s",
			treasury.Balance, treasury.TotalCollected, treasury.TotalDistributed)
	}
}

func TestTreasuryBalanceTracksCollectedAndDistributed(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	treasury, err := DepositTreasury(ctx, db, "guild-1", models.CURRENCY_TOPY, models.NewAmount(100), now)
	if err != nil {
		t.Fatal(err)
	}
	assertTreasuryInvariant(t, treasury)

	treasury, err = WithdrawTreasury(ctx, db, "guild-1", models.CURRENCY_TOPY, models.NewAmount(30), now)
	if err != nil {
		t.Fatal(err)
	}
	if treasury.Balance.Int64() != 70 {
		t.Fatalf("balance should be 70, got %s", treasury.Balance)
	}
	assertTreasuryInvariant(t, treasury)

	_, err = WithdrawTreasury(ctx, db, "guild-1", models.CURRENCY_TOPY, models.NewAmount(500), now)
	if !errors.Is(err, ErrNotEnoughBalance) {
		t.Fatalf("overdraft should fail with ErrNotEnoughBalance, got %v", err)
	}

	treasury, err = FindTreasury(ctx, db, "guild-1", models.CURRENCY_TOPY)
	if err != nil {
		t.Fatal(err)
	}
	if treasury.Balance.Int64() != 70 {
		t.Fatalf("failed withdraw must not move the balance, got %s", treasury.Balance)
	}
	if treasury.TotalDistributed.Int64() != 30 {
		t.Fatalf("failed withdraw must not count as distributed, got %s", treasury.TotalDistributed)
	}
	assertTreasuryInvariant(t, treasury)
}

func TestInsertInterestPeriodOncePerMonth(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	record := func() *models.InterestPeriod {
		return &models.InterestPeriod{
			GuildID:   "guild-1",
			Currency:  models.CURRENCY_TOPY,
			Period:    "2025-06",
			Amount:    models.NewAmount(10),
			CreatedAt: now,
		}
	}

	inserted, err := InsertInterestPeriod(ctx, db, record())
	if err != nil {
		t.Fatal(err)
	}
	if !inserted {
		t.Fatal("first accrual of the month should insert")
	}

	inserted, err = InsertInterestPeriod(ctx, db, record())
	if err != nil {
		t.Fatal(err)
	}
	if inserted {
		t.Fatal("repeat accrual within the month should be a no-op")
	}
}
