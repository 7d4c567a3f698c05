package datastore

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"topia/internal/models"
)

func CreateTableMarketSettings(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.MarketSettings)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func FindMarketSettings(ctx context.Context, db bun.IDB, guildID string) (*models.MarketSettings, error) {
	var settings models.MarketSettings
	err := db.NewSelect().Model(&settings).Where("guild_id = ?", guildID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func UpsertMarketSettings(ctx context.Context, db bun.IDB, settings *models.MarketSettings) error {
	settings.UpdatedAt = time.Now()
	_, err := db.NewInsert().
		Model(settings).
		On("CONFLICT (guild_id) DO UPDATE").
		Set("shop_fee_permille = EXCLUDED.shop_fee_permille").
		Set("topy_transfer_fee_permille = EXCLUDED.topy_transfer_fee_permille").
		Set("ruby_transfer_fee_permille = EXCLUDED.ruby_transfer_fee_permille").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}
