package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"topia/internal/datastore"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// clockFixed pins Now so date-boundary behavior can be exercised directly.
type clockFixed struct {
	now time.Time
}

func (c *clockFixed) Now() time.Time {
	return c.now
}

var testDBSeq atomic.Int64

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:services%d?mode=memory&cache=shared", testDBSeq.Add(1))
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		t.Fatal(err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		//nolint:errcheck
		db.Close()
	})

	ctx := context.Background()
	for _, create := range []func(context.Context, *bun.DB) error{
		datastore.CreateTableWallet,
		datastore.CreateTableLedgerEntry,
		datastore.CreateTableShopItem,
		datastore.CreateTableUserItem,
		datastore.CreateTablePurchaseHistory,
		datastore.CreateTableDailyReward,
		datastore.CreateTableTreasury,
		datastore.CreateTableRoleTicket,
	} {
		if err := create(ctx, db); err != nil {
			t.Fatal(err)
		}
	}
	return db
}
