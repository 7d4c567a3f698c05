package services

import (
	"context"
	"time"

	"topia/internal/datastore"
	"topia/internal/models"
	"topia/internal/pkg/caching"

	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceMultiplier struct {
	container  *do.Injector
	postgresDB *bun.DB
	cache      caching.Cache
}

func NewServiceMultiplier(container *do.Injector) (*ServiceMultiplier, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceMultiplier{container, postgresDB, cache}, nil
}

// MultiplierConfig is a guild's full earning configuration, loaded in one
// shot and cached so the hot earn path does not fan out queries.
type MultiplierConfig struct {
	ChannelCategories   []*models.ChannelCategoryConfig `json:"channel_categories"`
	CategoryMultipliers []*models.CategoryMultiplier    `json:"category_multipliers"`
	HotTimes            []*models.HotTime               `json:"hot_times"`
	Overrides           []*models.MultiplierOverride    `json:"overrides"`
	Exclusions          []*models.CurrencyExclusion     `json:"exclusions"`
}

type MultiplierInput struct {
	GuildID   string
	ChannelID string
	RoleIDs   []string
	EventType string
	At        time.Time
}

func (service *ServiceMultiplier) GetConfig(ctx context.Context, guildID string) (*MultiplierConfig, error) {
	callback := func() (*MultiplierConfig, error) {
		config := &MultiplierConfig{}
		var err error
		config.ChannelCategories, err = datastore.ListChannelCategories(ctx, service.postgresDB, guildID)
		if err != nil {
			return nil, err
		}
		config.CategoryMultipliers, err = datastore.ListCategoryMultipliers(ctx, service.postgresDB, guildID)
		if err != nil {
			return nil, err
		}
		config.HotTimes, err = datastore.ListHotTimes(ctx, service.postgresDB, guildID)
		if err != nil {
			return nil, err
		}
		config.Overrides, err = datastore.ListMultiplierOverrides(ctx, service.postgresDB, guildID)
		if err != nil {
			return nil, err
		}
		config.Exclusions, err = datastore.ListCurrencyExclusions(ctx, service.postgresDB, guildID)
		if err != nil {
			return nil, err
		}
		return config, nil
	}

	return caching.UseCache(ctx, service.cache, DBKeyMultiplierConfig(guildID), CACHE_TTL_1_MIN, callback)
}

func (service *ServiceMultiplier) ClearConfigCache(ctx context.Context, guildID string) error {
	return service.cache.Delete(ctx, DBKeyMultiplierConfig(guildID))
}

func (service *ServiceMultiplier) Resolve(ctx context.Context, input MultiplierInput) (float64, error) {
	config, err := service.GetConfig(ctx, input.GuildID)
	if err != nil {
		return 0, err
	}
	return ResolveMultiplier(input, config)
}

// ResolveMultiplier computes the effective earn multiplier for one event.
// Resolution order: exclusions veto everything; the channel's category
// multiplier (guild override, else default) is the base; a flat channel
// override replaces it; the highest matching role override replaces that in
// turn; active hot times multiply on top.
func ResolveMultiplier(input MultiplierInput, config *MultiplierConfig) (float64, error) {
	for _, exclusion := range config.Exclusions {
		switch exclusion.TargetType {
		case models.TARGET_CHANNEL:
			if exclusion.TargetID == input.ChannelID {
				return 0, ErrExcludedChannel
			}
		case models.TARGET_ROLE:
			for _, roleID := range input.RoleIDs {
				if exclusion.TargetID == roleID {
					return 0, ErrExcludedRole
				}
			}
		}
	}

	category := models.CATEGORY_OTHER
	for _, cc := range config.ChannelCategories {
		if cc.ChannelID == input.ChannelID {
			category = cc.Category
			break
		}
	}

	multiplier := models.DefaultCategoryMultipliers[category]
	for _, cm := range config.CategoryMultipliers {
		if cm.Category == category {
			multiplier = cm.Multiplier
			break
		}
	}

	for _, override := range config.Overrides {
		if override.TargetType == models.TARGET_CHANNEL && override.TargetID == input.ChannelID {
			multiplier = override.Multiplier
			break
		}
	}

	// The best role wins outright rather than stacking.
	bestRole := 0.0
	for _, override := range config.Overrides {
		if override.TargetType != models.TARGET_ROLE {
			continue
		}
		for _, roleID := range input.RoleIDs {
			if override.TargetID == roleID && override.Multiplier > bestRole {
				bestRole = override.Multiplier
			}
		}
	}
	if bestRole > 0 {
		multiplier = bestRole
	}

	for _, hotTime := range config.HotTimes {
		if hotTime.AppliesAt(input.EventType, input.ChannelID, input.At) {
			multiplier *= hotTime.Multiplier
		}
	}

	return multiplier, nil
}

func (service *ServiceMultiplier) SetChannelCategory(ctx context.Context, config *models.ChannelCategoryConfig) error {
	if err := datastore.UpsertChannelCategory(ctx, service.postgresDB, config); err != nil {
		return err
	}
	return service.ClearConfigCache(ctx, config.GuildID)
}

func (service *ServiceMultiplier) SetCategoryMultiplier(ctx context.Context, multiplier *models.CategoryMultiplier) error {
	if err := datastore.UpsertCategoryMultiplier(ctx, service.postgresDB, multiplier); err != nil {
		return err
	}
	return service.ClearConfigCache(ctx, multiplier.GuildID)
}

func (service *ServiceMultiplier) AddHotTime(ctx context.Context, hotTime *models.HotTime) (*models.HotTime, error) {
	created, err := datastore.CreateHotTime(ctx, service.postgresDB, hotTime)
	if err != nil {
		return nil, err
	}
	return created, service.ClearConfigCache(ctx, hotTime.GuildID)
}

func (service *ServiceMultiplier) RemoveHotTime(ctx context.Context, guildID string, hotTimeID int64) error {
	if err := datastore.DeleteHotTime(ctx, service.postgresDB, guildID, hotTimeID); err != nil {
		return err
	}
	return service.ClearConfigCache(ctx, guildID)
}

func (service *ServiceMultiplier) SetOverride(ctx context.Context, override *models.MultiplierOverride) error {
	if err := datastore.UpsertMultiplierOverride(ctx, service.postgresDB, override); err != nil {
		return err
	}
	return service.ClearConfigCache(ctx, override.GuildID)
}

func (service *ServiceMultiplier) RemoveOverride(ctx context.Context, guildID, targetType, targetID string) error {
	if err := datastore.DeleteMultiplierOverride(ctx, service.postgresDB, guildID, targetType, targetID); err != nil {
		return err
	}
	return service.ClearConfigCache(ctx, guildID)
}

func (service *ServiceMultiplier) AddExclusion(ctx context.Context, exclusion *models.CurrencyExclusion) error {
	if err := datastore.UpsertCurrencyExclusion(ctx, service.postgresDB, exclusion); err != nil {
		return err
	}
	return service.ClearConfigCache(ctx, exclusion.GuildID)
}

func (service *ServiceMultiplier) RemoveExclusion(ctx context.Context, guildID, targetType, targetID string) error {
	if err := datastore.DeleteCurrencyExclusion(ctx, service.postgresDB, guildID, targetType, targetID); err != nil {
		return err
	}
	return service.ClearConfigCache(ctx, guildID)
}
