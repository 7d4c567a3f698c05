package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

var testDBSeq atomic.Int64

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:datastore%d?mode=memory&cache=shared", testDBSeq.Add(1))
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
		CreateTableWallet,
		CreateTableLedgerEntry,
		CreateTableShopItem,
		CreateTableUserItem,
		CreateTablePurchaseHistory,
		CreateTableDailyReward,
		CreateTableTreasury,
		CreateTableRoleTicket,
	} {
		if err := create(ctx, db); err != nil {
			t.Fatal(err)
		}
	}
	return db
}
