package datastore

import (
	"context"

	"github.com/uptrace/bun"
	"topia/internal/models"
	"topia/internal/pkg"
)

func CreateTableDailyReward(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.DailyReward)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().
		Model((*models.DailyReward)(nil)).
		Index("index_daily_reward_guild_user_kind").
		Unique().
		IfNotExists().
		Column("guild_id", "user_id", "kind").
		Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func FindDailyReward(ctx context.Context, db bun.IDB, guildID, userID, kind string) (*models.DailyReward, error) {
	var reward models.DailyReward
	err := db.NewSelect().
		Model(&reward).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Where("kind = ?", kind).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

// UpsertDailyReward records a claim. The conflict update is guarded on the
// stored claim date still being before the claim's own calendar date, so a
// second same-date write matches nothing. Reports false when the claim was
// rejected by that guard.
func UpsertDailyReward(ctx context.Context, db bun.IDB, reward *models.DailyReward) (bool, error) {
	res, err := db.NewInsert().
		Model(reward).
		On("CONFLICT (guild_id, user_id, kind) DO UPDATE").
		Set("last_claimed_at = EXCLUDED.last_claimed_at").
		Set("streak = EXCLUDED.streak").
		Set("total_count = daily_reward.total_count + 1").
		Set("updated_at = EXCLUDED.updated_at").
		Where("daily_reward.last_claimed_at < ?", pkg.StartOfDay(reward.LastClaimedAt)).
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

func DeleteDailyRewardsByUser(ctx context.Context, db bun.IDB, guildID, userID string) error {
	_, err := db.NewDelete().
		Model((*models.DailyReward)(nil)).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Exec(ctx)
	return err
}
