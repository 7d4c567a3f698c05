package services

import (
	"context"
	"database/sql"
	"errors"

	"topia/internal/datastore"
	"topia/internal/interfaces"
	"topia/internal/models"
	"topia/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceWallet struct {
	container  *do.Injector
	postgresDB *bun.DB
	rs         *redsync.Redsync
	cache      caching.Cache
	clock      interfaces.Clock
}

func NewServiceWallet(container *do.Injector) (*ServiceWallet, error) {
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

	return &ServiceWallet{container, postgresDB, rs, cache, clock}, nil
}

// GetWallet returns the user's wallet for one currency. A user who never
// earned that currency gets a zero-balance view without a row being created.
func (service *ServiceWallet) GetWallet(ctx context.Context, guildID, userID string, currency models.CurrencyKind) (*models.Wallet, error) {
	if !currency.Valid() {
		return nil, ErrInvalidCurrency
	}

	wallet, err := datastore.FindWallet(ctx, service.postgresDB, guildID, userID, currency)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewWallet(guildID, userID, currency, service.clock.Now()), nil
	}
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

func (service *ServiceWallet) GetWallets(ctx context.Context, guildID, userID string) ([]*models.Wallet, error) {
	return datastore.ListWallets(ctx, service.postgresDB, guildID, userID)
}

func (service *ServiceWallet) GetLedger(ctx context.Context, guildID, userID string, limit, offset int) ([]*models.LedgerEntry, error) {
	if limit <= 0 {
		limit = DEFAULT_LEDGER_PAGE_LIMIT
	}
	return datastore.ListLedgerEntries(ctx, service.postgresDB, guildID, userID, limit, offset)
}

// Credit adds currency to a user, recording a ledger entry in the same
// transaction. Used by admin grants, daily rewards and treasury
// distributions; earning goes through Earn so the multiplier applies.
func (service *ServiceWallet) Credit(ctx context.Context, guildID, userID string, currency models.CurrencyKind, amount models.Amount, kind string, note string) (*models.Wallet, error) {
	if !currency.Valid() {
		return nil, ErrInvalidCurrency
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var wallet *models.Wallet
	err := service.postgresDB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		now := service.clock.Now()
		countEarned := kind == models.ENTRY_EARN || kind == models.ENTRY_DAILY_REWARD

		var err error
		wallet, err = datastore.CreditWallet(ctx, tx, guildID, userID, currency, amount, countEarned, now)
		if err != nil {
			return err
		}

		return datastore.InsertLedgerEntry(ctx, tx, &models.LedgerEntry{
			GuildID:      guildID,
			UserID:       userID,
			Currency:     currency,
			Kind:         kind,
			Amount:       amount,
			BalanceAfter: wallet.Balance,
			Note:         note,
			CreatedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

// Debit removes currency from a user, failing without side effects when the
// balance is short.
func (service *ServiceWallet) Debit(ctx context.Context, guildID, userID string, currency models.CurrencyKind, amount models.Amount, kind string, note string) (*models.Wallet, error) {
	if !currency.Valid() {
		return nil, ErrInvalidCurrency
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var wallet *models.Wallet
	err := service.postgresDB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		now := service.clock.Now()

		var err error
		wallet, err = datastore.DebitWallet(ctx, tx, guildID, userID, currency, amount, now)
		if errors.Is(err, datastore.ErrNotEnoughBalance) {
			available := models.ZeroAmount()
			if current, findErr := datastore.FindWallet(ctx, tx, guildID, userID, currency); findErr == nil {
				available = current.Balance
			}
			return &InsufficientBalanceError{Required: amount, Available: available}
		}
		if err != nil {
			return err
		}

		return datastore.InsertLedgerEntry(ctx, tx, &models.LedgerEntry{
			GuildID:      guildID,
			UserID:       userID,
			Currency:     currency,
			Kind:         kind,
			Amount:       amount.Neg(),
			BalanceAfter: wallet.Balance,
			Note:         note,
			CreatedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

// Transfer moves currency between two users. The sender pays the amount plus
// the guild's transfer fee, the fee lands in the treasury, and all mutations
// commit together or not at all.
func (service *ServiceWallet) Transfer(ctx context.Context, guildID, fromUserID, toUserID string, currency models.CurrencyKind, amount models.Amount) error {
	if !currency.Valid() {
		return ErrInvalidCurrency
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if fromUserID == toUserID {
		return ErrSelfTransfer
	}

	serviceMarketSettings, err := do.Invoke[*ServiceMarketSettings](service.container)
	if err != nil {
		return err
	}

	settings, err := serviceMarketSettings.GetSettings(ctx, guildID)
	if err != nil {
		return err
	}
	fee := amount.PermilleShare(int64(settings.TransferFeePermille(currency)))
	total := amount.Add(fee)

	mutex := service.rs.NewMutex(LockKeyTransfer(guildID, fromUserID))
	if err := mutex.Lock(); err != nil {
		return ErrTransferLock
	}
	// nolint:errcheck
	defer mutex.Unlock()

	return service.postgresDB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		now := service.clock.Now()

		sender, err := datastore.DebitWallet(ctx, tx, guildID, fromUserID, currency, total, now)
		if errors.Is(err, datastore.ErrNotEnoughBalance) {
			available := models.ZeroAmount()
			if current, findErr := datastore.FindWallet(ctx, tx, guildID, fromUserID, currency); findErr == nil {
				available = current.Balance
			}
			return &InsufficientBalanceError{Required: total, Available: available}
		}
		if err != nil {
			return err
		}

		recipient, err := datastore.CreditWallet(ctx, tx, guildID, toUserID, currency, amount, false, now)
		if err != nil {
			return err
		}

		err = datastore.InsertLedgerEntry(ctx, tx, &models.LedgerEntry{
			GuildID:       guildID,
			UserID:        fromUserID,
			Currency:      currency,
			Kind:          models.ENTRY_TRANSFER_OUT,
			Amount:        total.Neg(),
			BalanceAfter:  sender.Balance,
			RelatedUserID: &toUserID,
			CreatedAt:     now,
		})
		if err != nil {
			return err
		}

		err = datastore.InsertLedgerEntry(ctx, tx, &models.LedgerEntry{
			GuildID:       guildID,
			UserID:        toUserID,
			Currency:      currency,
			Kind:          models.ENTRY_TRANSFER_IN,
			Amount:        amount,
			BalanceAfter:  recipient.Balance,
			RelatedUserID: &fromUserID,
			CreatedAt:     now,
		})
		if err != nil {
			return err
		}

		if fee.IsPositive() {
			treasury, err := datastore.DepositTreasury(ctx, tx, guildID, currency, fee, now)
			if err != nil {
				return err
			}
			return datastore.InsertTreasuryEntry(ctx, tx, &models.TreasuryEntry{
				GuildID:       guildID,
				Currency:      currency,
				Kind:          models.TREASURY_TRANSFER_FEE,
				Amount:        fee,
				BalanceAfter:  treasury.Balance,
				RelatedUserID: &fromUserID,
				CreatedAt:     now,
			})
		}
		return nil
	})
}

// Earn credits activity income after passing it through the guild's
// multiplier pipeline. Excluded channels and roles earn nothing; that is an
// expected outcome, not an error.
func (service *ServiceWallet) Earn(ctx context.Context, input EarnInput) (*models.Wallet, error) {
	if !input.Currency.Valid() {
		return nil, ErrInvalidCurrency
	}
	if !input.BaseAmount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	serviceMultiplier, err := do.Invoke[*ServiceMultiplier](service.container)
	if err != nil {
		return nil, err
	}

	multiplier, err := serviceMultiplier.Resolve(ctx, MultiplierInput{
		GuildID:   input.GuildID,
		ChannelID: input.ChannelID,
		RoleIDs:   input.RoleIDs,
		EventType: input.EventType,
		At:        service.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	amount := input.BaseAmount.ScaleBy(multiplier)
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	return service.Credit(ctx, input.GuildID, input.UserID, input.Currency, amount, models.ENTRY_EARN, input.Note)
}

type EarnInput struct {
	GuildID    string
	UserID     string
	ChannelID  string
	RoleIDs    []string
	EventType  string
	Currency   models.CurrencyKind
	BaseAmount models.Amount
	Note       string
}
