package services

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"topia/internal/datastore"
	"topia/internal/interfaces"
	"topia/internal/models"
	"topia/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceRetention struct {
	container  *do.Injector
	postgresDB *bun.DB
	rs         *redsync.Redsync
	cache      caching.Cache
	clock      interfaces.Clock
}

func NewServiceRetention(container *do.Injector) (*ServiceRetention, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	clock, err := do.Invoke[interfaces.Clock](container)
	if err != nil {
		return nil, err
	}

	return &ServiceRetention{container, postgresDB, rs, cache, clock}, nil
}

func (service *ServiceRetention) GetSettings(ctx context.Context, guildID string) (*models.DataRetentionSettings, error) {
	callback := func() (*models.DataRetentionSettings, error) {
		settings, err := datastore.FindRetentionSettings(ctx, service.postgresDB, guildID)
		if errors.Is(err, sql.ErrNoRows) {
			return &models.DataRetentionSettings{
				GuildID:       guildID,
				RetentionDays: models.DEFAULT_RETENTION_DAYS,
			}, nil
		}
		if err != nil {
			return nil, err
		}
		return settings, nil
	}

	return caching.UseCache(ctx, service.cache, DBKeyRetentionSettings(guildID), CACHE_TTL_5_MINS, callback)
}

func (service *ServiceRetention) UpdateSettings(ctx context.Context, settings *models.DataRetentionSettings) error {
	if err := datastore.UpsertRetentionSettings(ctx, service.postgresDB, settings); err != nil {
		return err
	}
	return service.cache.Delete(ctx, DBKeyRetentionSettings(settings.GuildID))
}

// OnMemberLeave marks the member for purge after the guild's retention
// window. Their data stays intact until the deadline passes.
func (service *ServiceRetention) OnMemberLeave(ctx context.Context, guildID, userID string) error {
	settings, err := service.GetSettings(ctx, guildID)
	if err != nil {
		return err
	}

	member := models.NewLeftMember(guildID, userID, settings.RetentionDays, service.clock.Now())
	return datastore.MarkMemberLeft(ctx, service.postgresDB, member)
}

// OnMemberJoin removes any pending purge mark so a returning member keeps
// their balances and items.
func (service *ServiceRetention) OnMemberJoin(ctx context.Context, guildID, userID string) error {
	return datastore.UnmarkMemberLeft(ctx, service.postgresDB, guildID, userID)
}

// CleanupExpired purges the data of members whose retention deadline has
// passed. Each member's rows are removed in one transaction; one failed
// purge does not stop the batch. Returns how many members were purged.
func (service *ServiceRetention) CleanupExpired(ctx context.Context) (int, error) {
	mutex := service.rs.NewMutex(LockKeyRetentionSweep())
	if err := mutex.TryLock(); err != nil {
		return 0, nil
	}
	// nolint:errcheck
	defer mutex.Unlock()

	members, err := datastore.FindPurgeableMembers(ctx, service.postgresDB, service.clock.Now(), SWEEP_BATCH_LIMIT)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, member := range members {
		err := service.postgresDB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
			return datastore.DeleteUserData(ctx, tx, member.GuildID, member.UserID)
		})
		if err != nil {
			log.Println("failed to purge member data", member.GuildID, member.UserID, err)
			continue
		}
		purged++
	}

	return purged, nil
}
