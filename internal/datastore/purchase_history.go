package datastore

import (
	"context"

	"github.com/uptrace/bun"
	"topia/internal/models"
)

func CreateTablePurchaseHistory(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.PurchaseHistory)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().
		Model((*models.PurchaseHistory)(nil)).
		Index("index_purchase_history_guild_user").
		IfNotExists().
		Column("guild_id", "user_id").
		Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func InsertPurchaseHistory(ctx context.Context, db bun.IDB, record *models.PurchaseHistory) error {
	_, err := db.NewInsert().Model(record).Exec(ctx)
	return err
}

func ListPurchaseHistory(ctx context.Context, db bun.IDB, guildID, userID string, limit, offset int) ([]*models.PurchaseHistory, error) {
	var records []*models.PurchaseHistory
	err := db.NewSelect().
		Model(&records).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Order("purchased_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CountPurchases returns how many times a user has bought one item, used to
// enforce per-user purchase limits.
func CountPurchases(ctx context.Context, db bun.IDB, guildID, userID string, itemID int64) (int, error) {
	return db.NewSelect().
		Model((*models.PurchaseHistory)(nil)).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Where("shop_item_id = ?", itemID).
		Count(ctx)
}

func DeletePurchaseHistoryByUser(ctx context.Context, db bun.IDB, guildID, userID string) error {
	_, err := db.NewDelete().
		Model((*models.PurchaseHistory)(nil)).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Exec(ctx)
	return err
}
