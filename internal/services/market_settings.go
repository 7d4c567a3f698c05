package services

import (
	"context"
	"database/sql"
	"errors"

	"topia/internal/datastore"
	"topia/internal/models"
	"topia/internal/pkg/caching"

	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceMarketSettings struct {
	container  *do.Injector
	postgresDB *bun.DB
	cache      caching.Cache
}

func NewServiceMarketSettings(container *do.Injector) (*ServiceMarketSettings, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceMarketSettings{container, postgresDB, cache}, nil
}

// GetSettings returns the guild's fee schedule, falling back to defaults
// when the guild has never customized it.
func (service *ServiceMarketSettings) GetSettings(ctx context.Context, guildID string) (*models.MarketSettings, error) {
	callback := func() (*models.MarketSettings, error) {
		settings, err := datastore.FindMarketSettings(ctx, service.postgresDB, guildID)
		if errors.Is(err, sql.ErrNoRows) {
			return models.DefaultMarketSettings(guildID), nil
		}
		if err != nil {
			return nil, err
		}
		return settings, nil
	}

	return caching.UseCache(ctx, service.cache, DBKeyMarketSettings(guildID), CACHE_TTL_5_MINS, callback)
}

func (service *ServiceMarketSettings) UpdateSettings(ctx context.Context, settings *models.MarketSettings) error {
	err := datastore.UpsertMarketSettings(ctx, service.postgresDB, settings)
	if err != nil {
		return err
	}

	return service.cache.Delete(ctx, DBKeyMarketSettings(settings.GuildID))
}
