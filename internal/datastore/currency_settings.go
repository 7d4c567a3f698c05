package datastore

import (
	"context"

	"github.com/uptrace/bun"
	"topia/internal/models"
)

func CreateTableCurrencySettings(ctx context.Context, db *bun.DB) error {
	for _, model := range []any{
		(*models.ChannelCategoryConfig)(nil),
		(*models.CategoryMultiplier)(nil),
		(*models.HotTime)(nil),
		(*models.MultiplierOverride)(nil),
		(*models.CurrencyExclusion)(nil),
	} {
		_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		if err != nil {
			return err
		}
	}

	_, err := db.NewCreateIndex().
		Model((*models.ChannelCategoryConfig)(nil)).
		Index("index_channel_category_guild_channel").
		Unique().
		IfNotExists().
		Column("guild_id", "channel_id").
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().
		Model((*models.CategoryMultiplier)(nil)).
		Index("index_category_multiplier_guild_category").
		Unique().
		IfNotExists().
		Column("guild_id", "category").
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().
		Model((*models.MultiplierOverride)(nil)).
		Index("index_currency_multiplier_guild_target").
		Unique().
		IfNotExists().
		Column("guild_id", "target_type", "target_id").
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().
		Model((*models.CurrencyExclusion)(nil)).
		Index("index_currency_exclusion_guild_target").
		Unique().
		IfNotExists().
		Column("guild_id", "target_type", "target_id").
		Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func ListChannelCategories(ctx context.Context, db bun.IDB, guildID string) ([]*models.ChannelCategoryConfig, error) {
	var configs []*models.ChannelCategoryConfig
	err := db.NewSelect().Model(&configs).Where("guild_id = ?", guildID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return configs, nil
}

func UpsertChannelCategory(ctx context.Context, db bun.IDB, config *models.ChannelCategoryConfig) error {
	_, err := db.NewInsert().
		Model(config).
		On("CONFLICT (guild_id, channel_id) DO UPDATE").
		Set("category = EXCLUDED.category").
		Exec(ctx)
	return err
}

func ListCategoryMultipliers(ctx context.Context, db bun.IDB, guildID string) ([]*models.CategoryMultiplier, error) {
	var multipliers []*models.CategoryMultiplier
	err := db.NewSelect().Model(&multipliers).Where("guild_id = ?", guildID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return multipliers, nil
}

func UpsertCategoryMultiplier(ctx context.Context, db bun.IDB, multiplier *models.CategoryMultiplier) error {
	_, err := db.NewInsert().
		Model(multiplier).
		On("CONFLICT (guild_id, category) DO UPDATE").
		Set("multiplier = EXCLUDED.multiplier").
		Exec(ctx)
	return err
}

func ListHotTimes(ctx context.Context, db bun.IDB, guildID string) ([]*models.HotTime, error) {
	var hotTimes []*models.HotTime
	err := db.NewSelect().Model(&hotTimes).Where("guild_id = ?", guildID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return hotTimes, nil
}

func CreateHotTime(ctx context.Context, db bun.IDB, hotTime *models.HotTime) (*models.HotTime, error) {
	_, err := db.NewInsert().Model(hotTime).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return hotTime, nil
}

func DeleteHotTime(ctx context.Context, db bun.IDB, guildID string, hotTimeID int64) error {
	_, err := db.NewDelete().
		Model((*models.HotTime)(nil)).
		Where("id = ?", hotTimeID).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	return err
}

func ListMultiplierOverrides(ctx context.Context, db bun.IDB, guildID string) ([]*models.MultiplierOverride, error) {
	var overrides []*models.MultiplierOverride
	err := db.NewSelect().Model(&overrides).Where("guild_id = ?", guildID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

func UpsertMultiplierOverride(ctx context.Context, db bun.IDB, override *models.MultiplierOverride) error {
	_, err := db.NewInsert().
		Model(override).
		On("CONFLICT (guild_id, target_type, target_id) DO UPDATE").
		Set("multiplier = EXCLUDED.multiplier").
		Exec(ctx)
	return err
}

func DeleteMultiplierOverride(ctx context.Context, db bun.IDB, guildID, targetType, targetID string) error {
	_, err := db.NewDelete().
		Model((*models.MultiplierOverride)(nil)).
		Where("guild_id = ?", guildID).
		Where("target_type = ?", targetType).
		Where("target_id = ?", targetID).
		Exec(ctx)
	return err
}

func ListCurrencyExclusions(ctx context.Context, db bun.IDB, guildID string) ([]*models.CurrencyExclusion, error) {
	var exclusions []*models.CurrencyExclusion
	err := db.NewSelect().Model(&exclusions).Where("guild_id = ?", guildID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return exclusions, nil
}

func UpsertCurrencyExclusion(ctx context.Context, db bun.IDB, exclusion *models.CurrencyExclusion) error {
	_, err := db.NewInsert().
		Model(exclusion).
		On("CONFLICT (guild_id, target_type, target_id) DO NOTHING").
		Exec(ctx)
	return err
}

func DeleteCurrencyExclusion(ctx context.Context, db bun.IDB, guildID, targetType, targetID string) error {
	_, err := db.NewDelete().
		Model((*models.CurrencyExclusion)(nil)).
		Where("guild_id = ?", guildID).
		Where("target_type = ?", targetType).
		Where("target_id = ?", targetID).
		Exec(ctx)
	return err
}
