package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"topia/internal/datastore"
	"topia/internal/interfaces"
	"topia/internal/models"
	"topia/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceInventory struct {
	container  *do.Injector
	postgresDB *bun.DB
	rs         *redsync.Redsync
	cache      caching.Cache
	clock      interfaces.Clock
}

func NewServiceInventory(container *do.Injector) (*ServiceInventory, error) {
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

	return &ServiceInventory{container, postgresDB, rs, cache, clock}, nil
}

type OwnedItem struct {
	UserItem *models.UserItem `json:"user_item"`
	Usable   bool             `json:"usable"`
}

type ExchangeResult struct {
	UserItem      *models.UserItem `json:"user_item"`
	GrantedRoleID string           `json:"granted_role_id"`
	FixedRoleID   *string          `json:"fixed_role_id"`
	RevokedRoles  []string         `json:"revoked_roles"`
	RoleExpiresAt *time.Time       `json:"role_expires_at"`
}

func (service *ServiceInventory) ListOwned(ctx context.Context, guildID, userID string) ([]*OwnedItem, error) {
	items, err := datastore.ListUserItems(ctx, service.postgresDB, guildID, userID)
	if err != nil {
		return nil, err
	}

	now := service.clock.Now()
	owned := make([]*OwnedItem, 0, len(items))
	for _, item := range items {
		owned = append(owned, &OwnedItem{UserItem: item, Usable: item.IsUsable(now)})
	}
	return owned, nil
}

func (service *ServiceInventory) GetTicket(ctx context.Context, guildID string, ticketID int64) (*models.RoleTicket, error) {
	callback := func() (*models.RoleTicket, error) {
		ticket, err := datastore.FindTicketWithOptions(ctx, service.postgresDB, guildID, ticketID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return ticket, err
	}

	return caching.UseCache(ctx, service.cache, DBKeyTicket(guildID, ticketID), CACHE_TTL_1_MIN, callback)
}

func (service *ServiceInventory) ListTickets(ctx context.Context, guildID string) ([]*models.RoleTicket, error) {
	return datastore.ListEnabledTickets(ctx, service.postgresDB, guildID)
}

// ListExchangeableTickets narrows the enabled tickets to those the user can
// redeem right now: the backing entitlement is owned and unexpired, and
// consumable tickets have enough quantity left to burn.
func (service *ServiceInventory) ListExchangeableTickets(ctx context.Context, guildID, userID string) ([]*models.RoleTicket, error) {
	tickets, err := datastore.ListEnabledTickets(ctx, service.postgresDB, guildID)
	if err != nil {
		return nil, err
	}

	items, err := datastore.ListUserItems(ctx, service.postgresDB, guildID, userID)
	if err != nil {
		return nil, err
	}

	return filterExchangeable(tickets, items, service.clock.Now()), nil
}

func filterExchangeable(tickets []*models.RoleTicket, items []*models.UserItem, now time.Time) []*models.RoleTicket {
	byItem := make(map[int64]*models.UserItem, len(items))
	for _, item := range items {
		byItem[item.ShopItemID] = item
	}

	exchangeable := make([]*models.RoleTicket, 0, len(tickets))
	for _, ticket := range tickets {
		item, ok := byItem[ticket.ShopItemID]
		if !ok || item.IsExpired(now) {
			continue
		}
		if !ticket.IsPeriod() && item.Quantity < ticket.ConsumeQuantity {
			continue
		}
		exchangeable = append(exchangeable, ticket)
	}
	return exchangeable
}

func (service *ServiceInventory) CreateTicket(ctx context.Context, ticket *models.RoleTicket) (*models.RoleTicket, error) {
	created, err := datastore.CreateRoleTicket(ctx, service.postgresDB, ticket)
	if err != nil {
		return nil, err
	}
	return created, service.cache.Delete(ctx, DBKeyTicket(ticket.GuildID, ticket.ID))
}

// Exchange redeems a role ticket for one of its role options. Consumable
// tickets burn quantity; period tickets only switch the active role and
// restart its window. The role manager applies the platform-side changes
// after the database state commits.
func (service *ServiceInventory) Exchange(ctx context.Context, guildID, userID string, ticketID, optionID int64) (*ExchangeResult, error) {
	mutex := service.rs.NewMutex(LockKeyExchange(guildID, userID))
	if err := mutex.Lock(); err != nil {
		return nil, ErrExchangeLock
	}
	// nolint:errcheck
	defer mutex.Unlock()

	ticket, err := service.GetTicket(ctx, guildID, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.Enabled {
		return nil, ErrTicketNotFound
	}

	option := ticket.Option(optionID)
	if option == nil {
		return nil, ErrRoleOptionNotFound
	}

	now := service.clock.Now()

	var result *ExchangeResult
	err = service.postgresDB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		userItem, err := datastore.FindUserItem(ctx, tx, guildID, userID, ticket.ShopItemID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrItemNotOwned
		}
		if err != nil {
			return err
		}
		if userItem.IsExpired(now) {
			return ErrItemExpired
		}

		if !ticket.IsPeriod() {
			ok, err := datastore.DecrementQuantity(ctx, tx, userItem.ID, ticket.ConsumeQuantity, now)
			if err != nil {
				return err
			}
			if !ok {
				return &InsufficientQuantityError{Required: ticket.ConsumeQuantity, Available: userItem.Quantity}
			}
		}

		roleExpiresAt := ticket.RoleEffectExpiry(now, userItem.ExpiresAt)
		roleID := option.RoleID
		err = datastore.UpdateCurrentRole(ctx, tx, userItem.ID, &roleID, ticket.FixedRoleID, roleExpiresAt, now)
		if err != nil {
			return err
		}

		updated, err := datastore.FindUserItem(ctx, tx, guildID, userID, ticket.ShopItemID)
		if err != nil {
			return err
		}

		result = &ExchangeResult{
			UserItem:      updated,
			GrantedRoleID: option.RoleID,
			FixedRoleID:   ticket.FixedRoleID,
			RevokedRoles:  ticket.RevokeListFor(option.RoleID),
			RoleExpiresAt: roleExpiresAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.applyRoleChanges(ctx, guildID, userID, result)
	return result, nil
}

// applyRoleChanges mirrors the exchange outcome onto the platform. Failures
// are logged, not fatal: the sweep reconciles later.
func (service *ServiceInventory) applyRoleChanges(ctx context.Context, guildID, userID string, result *ExchangeResult) {
	roleManager, err := do.Invoke[interfaces.RoleManager](service.container)
	if err != nil {
		return
	}

	for _, roleID := range result.RevokedRoles {
		if err := roleManager.RevokeRole(ctx, guildID, userID, roleID); err != nil {
			log.Println("failed to revoke role", roleID, err)
		}
	}
	if err := roleManager.GrantRole(ctx, guildID, userID, result.GrantedRoleID); err != nil {
		log.Println("failed to grant role", result.GrantedRoleID, err)
	}
	if result.FixedRoleID != nil {
		if err := roleManager.GrantRole(ctx, guildID, userID, *result.FixedRoleID); err != nil {
			log.Println("failed to grant fixed role", *result.FixedRoleID, err)
		}
	}
}

// SweepExpiredEntitlements clears role effects whose backing entitlement has
// lapsed. Returns how many rows were cleared.
func (service *ServiceInventory) SweepExpiredEntitlements(ctx context.Context, revoke func(ctx context.Context, item *models.UserItem) error) (int, error) {
	mutex := service.rs.NewMutex(LockKeyEntitlementSweep())
	if err := mutex.TryLock(); err != nil {
		return 0, nil
	}
	// nolint:errcheck
	defer mutex.Unlock()

	now := service.clock.Now()
	expired, err := datastore.FindExpiredWithRoles(ctx, service.postgresDB, now, SWEEP_BATCH_LIMIT)
	if err != nil {
		return 0, err
	}
	return service.clearRoleEffects(ctx, expired, revoke, now), nil
}

// SweepExpiredEffects clears role effects whose own window has lapsed even
// though the entitlement is still held.
func (service *ServiceInventory) SweepExpiredEffects(ctx context.Context, revoke func(ctx context.Context, item *models.UserItem) error) (int, error) {
	mutex := service.rs.NewMutex(LockKeyEffectSweep())
	if err := mutex.TryLock(); err != nil {
		return 0, nil
	}
	// nolint:errcheck
	defer mutex.Unlock()

	now := service.clock.Now()
	expired, err := datastore.FindEffectExpired(ctx, service.postgresDB, now, SWEEP_BATCH_LIMIT)
	if err != nil {
		return 0, err
	}
	return service.clearRoleEffects(ctx, expired, revoke, now), nil
}

// clearRoleEffects revokes and clears each item. The revoke callback runs
// before the database clear, so a failed revoke is retried on the next sweep.
// The clear carries the row version the listing observed: an exchange that
// committed in between keeps its fresh role.
func (service *ServiceInventory) clearRoleEffects(ctx context.Context, items []*models.UserItem, revoke func(ctx context.Context, item *models.UserItem) error, now time.Time) int {
	cleared := 0
	for _, item := range items {
		if revoke != nil {
			if err := revoke(ctx, item); err != nil {
				log.Println("failed to revoke roles for user item", item.ID, err)
				continue
			}
		}

		ok, err := datastore.ClearRoles(ctx, service.postgresDB, item.ID, item.UpdatedAt, now)
		if err != nil {
			log.Println("failed to clear roles for user item", item.ID, err)
			continue
		}
		if ok {
			cleared++
		}
	}
	return cleared
}
