package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"topia/internal/datastore"
	"topia/internal/models"

	"github.com/uptrace/bun"
)

func testMarketSettings() *models.MarketSettings {
	return &models.MarketSettings{
		GuildID:         "guild-1",
		ShopFeePermille: 50,
	}
}

func insertTestShopItem(t *testing.T, db *bun.DB, item *models.ShopItem) *models.ShopItem {
	t.Helper()
	if _, err := datastore.CreateShopItem(context.Background(), db, item); err != nil {
		t.Fatal(err)
	}
	return item
}

func TestPurchaseStockCheckedBeforeUserLimit(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	stock := 0
	maxPerUser := 1
	item := insertTestShopItem(t, db, &models.ShopItem{
		GuildID:    "guild-1",
		Name:       "badge",
		Price:      models.NewAmount(100),
		Currency:   models.CURRENCY_TOPY,
		Stock:      &stock,
		MaxPerUser: &maxPerUser,
		Enabled:    true,
		CreatedAt:  now,
		UpdatedAt:  now,
	})

	// the user is already at their cap, but the item is also sold out
	err := datastore.InsertPurchaseHistory(ctx, db, &models.PurchaseHistory{
		Reference:   "ref-1",
		GuildID:     "guild-1",
		UserID:      "user-1",
		ShopItemID:  item.ID,
		ItemName:    item.Name,
		Price:       item.Price,
		Fee:         models.ZeroAmount(),
		Currency:    item.Currency,
		PurchasedAt: now,
	})
	if err != nil {
		t.Fatal(err)
	}

	err = db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := purchaseTx(ctx, tx, testMarketSettings(), "guild-1", "user-1", item.ID, "ref-2", now)
		return err
	})
	if !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("sold-out item should report out of stock before the user limit, got %v", err)
	}
}

func TestPurchaseDebitsFeeAndFundsTreasury(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	stock := 5
	item := insertTestShopItem(t, db, &models.ShopItem{
		GuildID:   "guild-1",
		Name:      "badge",
		Price:     models.NewAmount(100),
		Currency:  models.CURRENCY_TOPY,
		Stock:     &stock,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	})

	if _, err := datastore.CreditWallet(ctx, db, "guild-1", "user-1", models.CURRENCY_TOPY, models.NewAmount(1000), false, now); err != nil {
		t.Fatal(err)
	}

	var result *PurchaseResult
	err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		result, err = purchaseTx(ctx, tx, testMarketSettings(), "guild-1", "user-1", item.ID, "ref-1", now)
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.Fee.Int64() != 5 {
		t.Fatalf("50 permille of 100 should be 5, got %s", result.Fee)
	}
	if result.NewBalance.Int64() != 895 {
		t.Fatalf("balance should drop by price plus fee, got %s", result.NewBalance)
	}
	if result.UserItem.Quantity != 1 {
		t.Fatalf("entitlement should hold 1 unit, got %d", result.UserItem.Quantity)
	}

	reloaded, err := datastore.FindShopItem(ctx, db, "guild-1", item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Stock == nil || *reloaded.Stock != 4 {
		t.Fatalf("stock should drop to 4, got %v", reloaded.Stock)
	}

	treasury, err := datastore.FindTreasury(ctx, db, "guild-1", models.CURRENCY_TOPY)
	if err != nil {
		t.Fatal(err)
	}
	if treasury.Balance.Int64() != 5 {
		t.Fatalf("fee should land in the treasury, got %s", treasury.Balance)
	}
}

func TestPurchaseLeavesNoTraceOnFailure(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	stock := 5
	item := insertTestShopItem(t, db, &models.ShopItem{
		GuildID:   "guild-1",
		Name:      "badge",
		Price:     models.NewAmount(100),
		Currency:  models.CURRENCY_TOPY,
		Stock:     &stock,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	})

	if _, err := datastore.CreditWallet(ctx, db, "guild-1", "user-1", models.CURRENCY_TOPY, models.NewAmount(1000), false, now); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := purchaseTx(ctx, tx, testMarketSettings(), "guild-1", "user-1", item.ID, "ref-1", now); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the injected failure, got %v", err)
	}

	wallet, err := datastore.FindWallet(ctx, db, "guild-1", "user-1", models.CURRENCY_TOPY)
	if err != nil {
		t.Fatal(err)
	}
	if wallet.Balance.Int64() != 1000 {
		t.Fatalf("balance must be restored on rollback, got %s", wallet.Balance)
	}

	reloaded, err := datastore.FindShopItem(ctx, db, "guild-1", item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Stock == nil || *reloaded.Stock != 5 {
		t.Fatalf("stock must be restored on rollback, got %v", reloaded.Stock)
	}

	history, err := datastore.ListPurchaseHistory(ctx, db, "guild-1", "user-1", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 0 {
		t.Fatalf("no history rows should survive a rollback, got %d", len(history))
	}
}
