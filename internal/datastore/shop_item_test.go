package datastore

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"topia/internal/models"

	"github.com/uptrace/bun"
)

func TestDecrementStockRollsBackWithTransaction(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	stock := 3
	item := &models.ShopItem{
		GuildID:   "guild-1",
		Name:      "badge",
		Price:     models.NewAmount(100),
		Currency:  models.CURRENCY_TOPY,
		Stock:     &stock,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := CreateShopItem(ctx, db, item); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		ok, err := DecrementStock(ctx, tx, item.ID)
		if err != nil {
			return err
		}
		if !ok {
			t.Fatal("decrement should succeed inside the transaction")
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the injected failure, got %v", err)
	}

	reloaded, err := FindShopItem(ctx, db, "guild-1", item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Stock == nil || *reloaded.Stock != 3 {
		t.Fatalf("stock must be restored on rollback, got %v", reloaded.Stock)
	}
}
