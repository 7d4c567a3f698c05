package datastore

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"topia/internal/models"
)

func CreateTableRetention(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.DataRetentionSettings)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.LeftMember)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().
		Model((*models.LeftMember)(nil)).
		Index("index_left_member_guild_user").
		Unique().
		IfNotExists().
		Column("guild_id", "user_id").
		Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func FindRetentionSettings(ctx context.Context, db bun.IDB, guildID string) (*models.DataRetentionSettings, error) {
	var settings models.DataRetentionSettings
	err := db.NewSelect().Model(&settings).Where("guild_id = ?", guildID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func UpsertRetentionSettings(ctx context.Context, db bun.IDB, settings *models.DataRetentionSettings) error {
	settings.UpdatedAt = time.Now()
	_, err := db.NewInsert().
		Model(settings).
		On("CONFLICT (guild_id) DO UPDATE").
		Set("retention_days = EXCLUDED.retention_days").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// MarkMemberLeft records the departure. A stale mark from an earlier leave
// is replaced so the purge deadline restarts.
func MarkMemberLeft(ctx context.Context, db bun.IDB, member *models.LeftMember) error {
	_, err := db.NewInsert().
		Model(member).
		On("CONFLICT (guild_id, user_id) DO UPDATE").
		Set("left_at = EXCLUDED.left_at").
		Set("purge_after = EXCLUDED.purge_after").
		Exec(ctx)
	return err
}

// UnmarkMemberLeft removes the purge mark, used when a member rejoins before
// the deadline.
func UnmarkMemberLeft(ctx context.Context, db bun.IDB, guildID, userID string) error {
	_, err := db.NewDelete().
		Model((*models.LeftMember)(nil)).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Exec(ctx)
	return err
}

func FindPurgeableMembers(ctx context.Context, db bun.IDB, now time.Time, limit int) ([]*models.LeftMember, error) {
	var members []*models.LeftMember
	err := db.NewSelect().
		Model(&members).
		Where("purge_after < ?", now).
		Order("purge_after ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return members, nil
}

// DeleteUserData purges every economy row belonging to one departed member.
// Runs inside the caller's transaction so a partial purge never persists.
func DeleteUserData(ctx context.Context, db bun.IDB, guildID, userID string) error {
	if err := DeleteWalletsByUser(ctx, db, guildID, userID); err != nil {
		return err
	}
	if err := DeleteLedgerEntriesByUser(ctx, db, guildID, userID); err != nil {
		return err
	}
	if err := DeleteUserItemsByUser(ctx, db, guildID, userID); err != nil {
		return err
	}
	if err := DeletePurchaseHistoryByUser(ctx, db, guildID, userID); err != nil {
		return err
	}
	if err := DeleteDailyRewardsByUser(ctx, db, guildID, userID); err != nil {
		return err
	}
	return UnmarkMemberLeft(ctx, db, guildID, userID)
}
