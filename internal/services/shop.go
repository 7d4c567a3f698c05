package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"topia/internal/datastore"
	"topia/internal/interfaces"
	"topia/internal/models"
	"topia/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceShop struct {
	container  *do.Injector
	postgresDB *bun.DB
	rs         *redsync.Redsync
	cache      caching.Cache
	clock      interfaces.Clock
}

func NewServiceShop(container *do.Injector) (*ServiceShop, error) {
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

	return &ServiceShop{container, postgresDB, rs, cache, clock}, nil
}

type PurchaseResult struct {
	Reference  string           `json:"reference"`
	Item       *models.ShopItem `json:"item"`
	UserItem   *models.UserItem `json:"user_item"`
	Price      models.Amount    `json:"price"`
	Fee        models.Amount    `json:"fee"`
	NewBalance models.Amount    `json:"new_balance"`
}

func (service *ServiceShop) GetItem(ctx context.Context, guildID string, itemID int64) (*models.ShopItem, error) {
	callback := func() (*models.ShopItem, error) {
		item, err := datastore.FindShopItem(ctx, service.postgresDB, guildID, itemID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return item, err
	}

	return caching.UseCache(ctx, service.cache, DBKeyShopItem(guildID, itemID), CACHE_TTL_1_MIN, callback)
}

func (service *ServiceShop) ListItems(ctx context.Context, guildID string, enabledOnly bool) ([]*models.ShopItem, error) {
	if !enabledOnly {
		return datastore.ListShopItems(ctx, service.postgresDB, guildID, false)
	}

	callback := func() ([]*models.ShopItem, error) {
		return datastore.ListShopItems(ctx, service.postgresDB, guildID, true)
	}
	return caching.UseCache(ctx, service.cache, DBKeyShopItems(guildID), CACHE_TTL_1_MIN, callback)
}

func (service *ServiceShop) CreateItem(ctx context.Context, item *models.ShopItem) (*models.ShopItem, error) {
	if !item.Currency.Valid() {
		return nil, ErrInvalidCurrency
	}
	if !item.Price.IsPositive() {
		return nil, ErrInvalidAmount
	}

	created, err := datastore.CreateShopItem(ctx, service.postgresDB, item)
	if err != nil {
		return nil, err
	}
	return created, service.clearItemCache(ctx, item.GuildID, item.ID)
}

func (service *ServiceShop) UpdateItem(ctx context.Context, item *models.ShopItem) (*models.ShopItem, error) {
	updated, err := datastore.UpdateShopItem(ctx, service.postgresDB, item)
	if err != nil {
		return nil, err
	}
	return updated, service.clearItemCache(ctx, item.GuildID, item.ID)
}

func (service *ServiceShop) DeleteItem(ctx context.Context, guildID string, itemID int64) error {
	if err := datastore.DeleteShopItem(ctx, service.postgresDB, guildID, itemID); err != nil {
		return err
	}
	return service.clearItemCache(ctx, guildID, itemID)
}

func (service *ServiceShop) clearItemCache(ctx context.Context, guildID string, itemID int64) error {
	if err := service.cache.Delete(ctx, DBKeyShopItem(guildID, itemID)); err != nil {
		return err
	}
	return service.cache.Delete(ctx, DBKeyShopItems(guildID))
}

func (service *ServiceShop) GetPurchaseHistory(ctx context.Context, guildID, userID string, limit, offset int) ([]*models.PurchaseHistory, error) {
	if limit <= 0 {
		limit = DEFAULT_LEDGER_PAGE_LIMIT
	}
	return datastore.ListPurchaseHistory(ctx, service.postgresDB, guildID, userID, limit, offset)
}

// Purchase buys one unit of a shop item. The buyer pays the price plus the
// guild's shop fee; the fee lands in the treasury. Balance debit, stock
// decrement, entitlement grant, history row and ledger entries commit in a
// single transaction, so a failed purchase leaves no trace.
func (service *ServiceShop) Purchase(ctx context.Context, guildID, userID string, itemID int64) (*PurchaseResult, error) {
	mutex := service.rs.NewMutex(LockKeyPurchase(guildID, userID))
	if err := mutex.Lock(); err != nil {
		return nil, ErrPurchaseLock
	}
	// nolint:errcheck
	defer mutex.Unlock()

	serviceMarketSettings, err := do.Invoke[*ServiceMarketSettings](service.container)
	if err != nil {
		return nil, err
	}
	settings, err := serviceMarketSettings.GetSettings(ctx, guildID)
	if err != nil {
		return nil, err
	}

	now := service.clock.Now()
	reference := uuid.NewString()

	var result *PurchaseResult
	err = service.postgresDB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		result, err = purchaseTx(ctx, tx, settings, guildID, userID, itemID, reference, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	// stock changed
	//nolint:errcheck
	service.clearItemCache(ctx, guildID, itemID)
	return result, nil
}

// purchaseTx runs the purchase inside the caller's transaction. Stock is
// claimed before the per-user limit is checked, so a sold-out item reports
// out-of-stock even to users already at their cap.
func purchaseTx(ctx context.Context, tx bun.IDB, settings *models.MarketSettings, guildID, userID string, itemID int64, reference string, now time.Time) (*PurchaseResult, error) {
	item, err := datastore.FindShopItem(ctx, tx, guildID, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	if !item.Enabled {
		return nil, ErrItemDisabled
	}

	if item.Stock != nil {
		ok, err := datastore.DecrementStock(ctx, tx, itemID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrOutOfStock
		}
	}

	if item.MaxPerUser != nil {
		count, err := datastore.CountPurchases(ctx, tx, guildID, userID, itemID)
		if err != nil {
			return nil, err
		}
		if count >= *item.MaxPerUser {
			return nil, &PurchaseLimitError{MaxPerUser: *item.MaxPerUser, CurrentCount: count}
		}
	}

	fee := item.Price.PermilleShare(int64(settings.ShopFeePermille))
	total := item.Price.Add(fee)

	wallet, err := datastore.DebitWallet(ctx, tx, guildID, userID, item.Currency, total, now)
	if errors.Is(err, datastore.ErrNotEnoughBalance) {
		available := models.ZeroAmount()
		if current, findErr := datastore.FindWallet(ctx, tx, guildID, userID, item.Currency); findErr == nil {
			available = current.Balance
		}
		return nil, &InsufficientBalanceError{Required: total, Available: available}
	}
	if err != nil {
		return nil, err
	}

	userItem, err := datastore.GrantUserItem(ctx, tx, guildID, userID, itemID, item.EntitlementExpiry(now), now)
	if err != nil {
		return nil, err
	}

	err = datastore.InsertPurchaseHistory(ctx, tx, &models.PurchaseHistory{
		Reference:   reference,
		GuildID:     guildID,
		UserID:      userID,
		ShopItemID:  itemID,
		ItemName:    item.Name,
		Price:       item.Price,
		Fee:         fee,
		Currency:    item.Currency,
		PurchasedAt: now,
	})
	if err != nil {
		return nil, err
	}

	err = datastore.InsertLedgerEntry(ctx, tx, &models.LedgerEntry{
		GuildID:      guildID,
		UserID:       userID,
		Currency:     item.Currency,
		Kind:         models.ENTRY_PURCHASE,
		Amount:       total.Neg(),
		BalanceAfter: wallet.Balance,
		Note:         item.Name,
		CreatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	if fee.IsPositive() {
		treasury, err := datastore.DepositTreasury(ctx, tx, guildID, item.Currency, fee, now)
		if err != nil {
			return nil, err
		}
		err = datastore.InsertTreasuryEntry(ctx, tx, &models.TreasuryEntry{
			GuildID:       guildID,
			Currency:      item.Currency,
			Kind:          models.TREASURY_SHOP_FEE,
			Amount:        fee,
			BalanceAfter:  treasury.Balance,
			RelatedUserID: &userID,
			Note:          reference,
			CreatedAt:     now,
		})
		if err != nil {
			return nil, err
		}
	}

	return &PurchaseResult{
		Reference:  reference,
		Item:       item,
		UserItem:   userItem,
		Price:      item.Price,
		Fee:        fee,
		NewBalance: wallet.Balance,
	}, nil
}
