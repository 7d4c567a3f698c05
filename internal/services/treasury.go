package services

import (
	"context"
	"database/sql"
	"errors"

	"topia/internal/datastore"
	"topia/internal/interfaces"
	"topia/internal/models"
	"topia/internal/pkg"

	"github.com/go-redsync/redsync/v4"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceTreasury struct {
	container  *do.Injector
	postgresDB *bun.DB
	rs         *redsync.Redsync
	clock      interfaces.Clock

	serviceConfig *ServiceConfig
}

func NewServiceTreasury(container *do.Injector) (*ServiceTreasury, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	clock, err := do.Invoke[interfaces.Clock](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceTreasury{container, postgresDB, rs, clock, serviceConfig}, nil
}

func (service *ServiceTreasury) GetTreasury(ctx context.Context, guildID string, currency models.CurrencyKind) (*models.Treasury, error) {
	if !currency.Valid() {
		return nil, ErrInvalidCurrency
	}

	treasury, err := datastore.FindTreasury(ctx, service.postgresDB, guildID, currency)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewTreasury(guildID, currency, service.clock.Now()), nil
	}
	if err != nil {
		return nil, err
	}
	return treasury, nil
}

func (service *ServiceTreasury) ListTransactions(ctx context.Context, guildID string, limit, offset int) ([]*models.TreasuryEntry, error) {
	if limit <= 0 {
		limit = DEFAULT_LEDGER_PAGE_LIMIT
	}
	return datastore.ListTreasuryEntries(ctx, service.postgresDB, guildID, limit, offset)
}

// Deposit adds funds to the treasury outside the fee pipeline, for taxes and
// other direct contributions.
func (service *ServiceTreasury) Deposit(ctx context.Context, guildID string, currency models.CurrencyKind, amount models.Amount, kind, note string) (*models.Treasury, error) {
	if !currency.Valid() {
		return nil, ErrInvalidCurrency
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var treasury *models.Treasury
	err := service.postgresDB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		now := service.clock.Now()

		var err error
		treasury, err = datastore.DepositTreasury(ctx, tx, guildID, currency, amount, now)
		if err != nil {
			return err
		}

		return datastore.InsertTreasuryEntry(ctx, tx, &models.TreasuryEntry{
			GuildID:      guildID,
			Currency:     currency,
			Kind:         kind,
			Amount:       amount,
			BalanceAfter: treasury.Balance,
			Note:         note,
			CreatedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}
	return treasury, nil
}

// Distribute pays treasury funds out to one user and returns the updated
// treasury with the outflow entry recorded for it. Fails without side effects
// when the treasury cannot cover the amount.
func (service *ServiceTreasury) Distribute(ctx context.Context, guildID, toUserID string, currency models.CurrencyKind, amount models.Amount, note string) (*models.Treasury, *models.TreasuryEntry, error) {
	if !currency.Valid() {
		return nil, nil, ErrInvalidCurrency
	}
	if !amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}

	var treasury *models.Treasury
	var entry *models.TreasuryEntry
	err := service.postgresDB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		now := service.clock.Now()

		var err error
		treasury, err = datastore.WithdrawTreasury(ctx, tx, guildID, currency, amount, now)
		if errors.Is(err, datastore.ErrNotEnoughBalance) {
			available := models.ZeroAmount()
			if current, findErr := datastore.FindTreasury(ctx, tx, guildID, currency); findErr == nil {
				available = current.Balance
			}
			return &InsufficientBalanceError{Required: amount, Available: available}
		}
		if err != nil {
			return err
		}

		entry = &models.TreasuryEntry{
			GuildID:       guildID,
			Currency:      currency,
			Kind:          models.TREASURY_DISTRIBUTE,
			Amount:        amount.Neg(),
			BalanceAfter:  treasury.Balance,
			RelatedUserID: &toUserID,
			Note:          note,
			CreatedAt:     now,
		}
		if err := datastore.InsertTreasuryEntry(ctx, tx, entry); err != nil {
			return err
		}

		wallet, err := datastore.CreditWallet(ctx, tx, guildID, toUserID, currency, amount, false, now)
		if err != nil {
			return err
		}

		return datastore.InsertLedgerEntry(ctx, tx, &models.LedgerEntry{
			GuildID:      guildID,
			UserID:       toUserID,
			Currency:     currency,
			Kind:         models.ENTRY_ADMIN,
			Amount:       amount,
			BalanceAfter: wallet.Balance,
			Note:         note,
			CreatedAt:    now,
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return treasury, entry, nil
}

// GetMonthlyCollected reports fee and tax inflows since the start of the
// current month.
func (service *ServiceTreasury) GetMonthlyCollected(ctx context.Context, guildID string, currency models.CurrencyKind) (models.Amount, error) {
	if !currency.Valid() {
		return models.Amount{}, ErrInvalidCurrency
	}
	return datastore.SumCollectedSince(ctx, service.postgresDB, guildID, currency, pkg.StartOfMonth(service.clock.Now()))
}

// ProcessMonthlyInterest accrues interest on the treasury balance for the
// current month. Idempotent per (guild, currency, month): repeat runs within
// the same month do nothing, so the job can fire hourly without
// double-paying.
func (service *ServiceTreasury) ProcessMonthlyInterest(ctx context.Context, guildID string) error {
	mutex := service.rs.NewMutex(LockKeyInterest(guildID))
	if err := mutex.TryLock(); err != nil {
		return nil
	}
	// nolint:errcheck
	defer mutex.Unlock()

	ratePermille, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_INTEREST_RATE_PERMILLE, DEFAULT_INTEREST_RATE_PERMILLE)
	period := pkg.MonthKey(service.clock.Now())

	for _, currency := range []models.CurrencyKind{models.CURRENCY_TOPY, models.CURRENCY_RUBY} {
		err := service.accrueInterest(ctx, guildID, currency, period, int64(ratePermille))
		if err != nil {
			return err
		}
	}
	return nil
}

func (service *ServiceTreasury) accrueInterest(ctx context.Context, guildID string, currency models.CurrencyKind, period string, ratePermille int64) error {
	return service.postgresDB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		now := service.clock.Now()

		treasury, err := datastore.FindTreasury(ctx, tx, guildID, currency)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		interest := treasury.Balance.PermilleShare(ratePermille)
		if !interest.IsPositive() {
			return nil
		}

		inserted, err := datastore.InsertInterestPeriod(ctx, tx, &models.InterestPeriod{
			GuildID:   guildID,
			Currency:  currency,
			Period:    period,
			Amount:    interest,
			CreatedAt: now,
		})
		if err != nil {
			return err
		}
		if !inserted {
			// already accrued this month
			return nil
		}

		updated, err := datastore.DepositTreasury(ctx, tx, guildID, currency, interest, now)
		if err != nil {
			return err
		}

		return datastore.InsertTreasuryEntry(ctx, tx, &models.TreasuryEntry{
			GuildID:      guildID,
			Currency:     currency,
			Kind:         models.TREASURY_INTEREST,
			Amount:       interest,
			BalanceAfter: updated.Balance,
			Note:         period,
			CreatedAt:    now,
		})
	})
}

// ListGuildsWithTreasuries returns guild ids that have any treasury row, the
// population the interest job iterates.
func (service *ServiceTreasury) ListGuildsWithTreasuries(ctx context.Context) ([]string, error) {
	var guildIDs []string
	err := service.postgresDB.NewSelect().
		Model((*models.Treasury)(nil)).
		ColumnExpr("DISTINCT guild_id").
		Scan(ctx, &guildIDs)
	if err != nil {
		return nil, err
	}
	return guildIDs, nil
}
