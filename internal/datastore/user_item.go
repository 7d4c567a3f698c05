package datastore

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"topia/internal/models"
)

func CreateTableUserItem(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.UserItem)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().
		Model((*models.UserItem)(nil)).
		Index("index_user_item_guild_user_item").
		Unique().
		IfNotExists().
		Column("guild_id", "user_id", "shop_item_id").
		Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func FindUserItem(ctx context.Context, db bun.IDB, guildID, userID string, itemID int64) (*models.UserItem, error) {
	var item models.UserItem
	err := db.NewSelect().
		Model(&item).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Where("shop_item_id = ?", itemID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func ListUserItems(ctx context.Context, db bun.IDB, guildID, userID string) ([]*models.UserItem, error) {
	var items []*models.UserItem
	err := db.NewSelect().
		Model(&items).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Order("shop_item_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GrantUserItem adds one unit of the item to the user, creating the row on
// first purchase. The expiry is refreshed on every grant.
func GrantUserItem(ctx context.Context, db bun.IDB, guildID, userID string, itemID int64, expiresAt *time.Time, now time.Time) (*models.UserItem, error) {
	item := &models.UserItem{
		GuildID:    guildID,
		UserID:     userID,
		ShopItemID: itemID,
		Quantity:   1,
		ExpiresAt:  expiresAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err := db.NewInsert().
		Model(item).
		On("CONFLICT (guild_id, user_id, shop_item_id) DO UPDATE").
		Set("quantity = user_item.quantity + 1").
		Set("expires_at = EXCLUDED.expires_at").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return FindUserItem(ctx, db, guildID, userID, itemID)
}

// DecrementQuantity burns `quantity` units, guarded so it cannot go
// negative. Reports false when the user does not hold enough.
func DecrementQuantity(ctx context.Context, db bun.IDB, userItemID int64, quantity int, now time.Time) (bool, error) {
	res, err := db.NewUpdate().
		Model((*models.UserItem)(nil)).
		Set("quantity = quantity - ?", quantity).
		Set("updated_at = ?", now).
		Where("id = ?", userItemID).
		Where("quantity >= ?", quantity).
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

// UpdateCurrentRole records the outcome of a role exchange on the
// entitlement row.
func UpdateCurrentRole(ctx context.Context, db bun.IDB, userItemID int64, roleID *string, fixedRoleID *string, roleExpiresAt *time.Time, now time.Time) error {
	_, err := db.NewUpdate().
		Model((*models.UserItem)(nil)).
		Set("current_role_id = ?", roleID).
		Set("fixed_role_id = ?", fixedRoleID).
		Set("role_assigned_at = ?", now).
		Set("role_expires_at = ?", roleExpiresAt).
		Set("updated_at = ?", now).
		Where("id = ?", userItemID).
		Exec(ctx)
	return err
}

// FindExpiredWithRoles lists entitlements whose own expiry has passed while
// a role effect is still on record.
func FindExpiredWithRoles(ctx context.Context, db bun.IDB, now time.Time, limit int) ([]*models.UserItem, error) {
	var items []*models.UserItem
	err := db.NewSelect().
		Model(&items).
		Where("expires_at IS NOT NULL").
		Where("expires_at < ?", now).
		Where("current_role_id IS NOT NULL OR fixed_role_id IS NOT NULL").
		Order("expires_at ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindEffectExpired lists entitlements whose role effect window has passed.
func FindEffectExpired(ctx context.Context, db bun.IDB, now time.Time, limit int) ([]*models.UserItem, error) {
	var items []*models.UserItem
	err := db.NewSelect().
		Model(&items).
		Where("role_expires_at IS NOT NULL").
		Where("role_expires_at < ?", now).
		Where("current_role_id IS NOT NULL OR fixed_role_id IS NOT NULL").
		Order("role_expires_at ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ClearRoles nulls both role fields. seenUpdatedAt is the row version the
// sweep observed: an exchange that commits in between bumps updated_at, so
// the clear matches nothing and the fresh role survives. The same guard makes
// the sweep idempotent across concurrent runs.
func ClearRoles(ctx context.Context, db bun.IDB, userItemID int64, seenUpdatedAt, now time.Time) (bool, error) {
	res, err := db.NewUpdate().
		Model((*models.UserItem)(nil)).
		Set("current_role_id = NULL").
		Set("fixed_role_id = NULL").
		Set("role_expires_at = NULL").
		Set("updated_at = ?", now).
		Where("id = ?", userItemID).
		Where("updated_at = ?", seenUpdatedAt).
		Where("current_role_id IS NOT NULL OR fixed_role_id IS NOT NULL").
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

func DeleteUserItemsByUser(ctx context.Context, db bun.IDB, guildID, userID string) error {
	_, err := db.NewDelete().
		Model((*models.UserItem)(nil)).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Exec(ctx)
	return err
}
