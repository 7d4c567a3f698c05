package datastore

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"topia/internal/models"
)

func CreateTableShopItem(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.ShopItem)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().
		Model((*models.ShopItem)(nil)).
		Index("index_shop_item_guild").
		IfNotExists().
		Column("guild_id").
		Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func FindShopItem(ctx context.Context, db bun.IDB, guildID string, itemID int64) (*models.ShopItem, error) {
	var item models.ShopItem
	err := db.NewSelect().
		Model(&item).
		Where("id = ?", itemID).
		Where("guild_id = ?", guildID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func ListShopItems(ctx context.Context, db bun.IDB, guildID string, enabledOnly bool) ([]*models.ShopItem, error) {
	var items []*models.ShopItem
	q := db.NewSelect().
		Model(&items).
		Where("guild_id = ?", guildID).
		Order("id ASC")
	if enabledOnly {
		q = q.Where("enabled = TRUE")
	}
	err := q.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func CreateShopItem(ctx context.Context, db bun.IDB, item *models.ShopItem) (*models.ShopItem, error) {
	_, err := db.NewInsert().Model(item).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func UpdateShopItem(ctx context.Context, db bun.IDB, item *models.ShopItem) (*models.ShopItem, error) {
	item.UpdatedAt = time.Now()
	_, err := db.NewUpdate().Model(item).WherePK().Exec(ctx)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func DeleteShopItem(ctx context.Context, db bun.IDB, guildID string, itemID int64) error {
	_, err := db.NewDelete().
		Model((*models.ShopItem)(nil)).
		Where("id = ?", itemID).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	return err
}

// DecrementStock takes one unit off a limited-stock item. Reports false when
// the item is out of stock; unlimited items (stock NULL) always succeed.
func DecrementStock(ctx context.Context, db bun.IDB, itemID int64) (bool, error) {
	res, err := db.NewUpdate().
		Model((*models.ShopItem)(nil)).
		Set("stock = stock - 1").
		Where("id = ?", itemID).
		Where("stock > 0").
		Exec(ctx)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
