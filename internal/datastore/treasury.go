package datastore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"topia/internal/models"
)

func CreateTableTreasury(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Treasury)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().
		Model((*models.Treasury)(nil)).
		Index("index_treasury_guild_currency").
		Unique().
		IfNotExists().
		Column("guild_id", "currency").
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.TreasuryEntry)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.InterestPeriod)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().
		Model((*models.InterestPeriod)(nil)).
		Index("index_treasury_interest_period").
		Unique().
		IfNotExists().
		Column("guild_id", "currency", "period").
		Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func FindTreasury(ctx context.Context, db bun.IDB, guildID string, currency models.CurrencyKind) (*models.Treasury, error) {
	var treasury models.Treasury
	err := db.NewSelect().
		Model(&treasury).
		Where("guild_id = ?", guildID).
		Where("currency = ?", currency).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &treasury, nil
}

func EnsureTreasury(ctx context.Context, db bun.IDB, guildID string, currency models.CurrencyKind, now time.Time) (*models.Treasury, error) {
	treasury := models.NewTreasury(guildID, currency, now)
	_, err := db.NewInsert().
		Model(treasury).
		On("CONFLICT (guild_id, currency) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return FindTreasury(ctx, db, guildID, currency)
}

// DepositTreasury adds amount to the treasury balance and the collected
// total, creating the treasury lazily.
func DepositTreasury(ctx context.Context, db bun.IDB, guildID string, currency models.CurrencyKind, amount models.Amount, now time.Time) (*models.Treasury, error) {
	treasury := new(models.Treasury)
	err := db.NewUpdate().
		Model(treasury).
		Set("balance = balance + ?", amount).
		Set("total_collected = total_collected + ?", amount).
		Set("updated_at = ?", now).
		Where("guild_id = ?", guildID).
		Where("currency = ?", currency).
		Returning("*").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := EnsureTreasury(ctx, db, guildID, currency, now); err != nil {
			return nil, err
		}
		return DepositTreasury(ctx, db, guildID, currency, amount, now)
	}
	if err != nil {
		return nil, err
	}
	return treasury, nil
}

// WithdrawTreasury subtracts amount, guarded against overdraft, and adds it
// to the distributed total.
func WithdrawTreasury(ctx context.Context, db bun.IDB, guildID string, currency models.CurrencyKind, amount models.Amount, now time.Time) (*models.Treasury, error) {
	treasury := new(models.Treasury)
	err := db.NewUpdate().
		Model(treasury).
		Set("balance = balance - ?", amount).
		Set("total_distributed = total_distributed + ?", amount).
		Set("updated_at = ?", now).
		Where("guild_id = ?", guildID).
		Where("currency = ?", currency).
		Where("balance >= ?", amount).
		Returning("*").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotEnoughBalance
	}
	if err != nil {
		return nil, err
	}
	return treasury, nil
}

func InsertTreasuryEntry(ctx context.Context, db bun.IDB, entry *models.TreasuryEntry) error {
	_, err := db.NewInsert().Model(entry).Exec(ctx)
	return err
}

func ListTreasuryEntries(ctx context.Context, db bun.IDB, guildID string, limit, offset int) ([]*models.TreasuryEntry, error) {
	var entries []*models.TreasuryEntry
	err := db.NewSelect().
		Model(&entries).
		Where("guild_id = ?", guildID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// SumCollectedSince totals fee and tax inflows recorded since the given
// moment, used for the monthly collection report.
func SumCollectedSince(ctx context.Context, db bun.IDB, guildID string, currency models.CurrencyKind, since time.Time) (models.Amount, error) {
	var total string
	err := db.NewSelect().
		Model((*models.TreasuryEntry)(nil)).
		ColumnExpr("COALESCE(SUM(amount), 0)").
		Where("guild_id = ?", guildID).
		Where("currency = ?", currency).
		Where("kind IN (?)", bun.In([]string{models.TREASURY_SHOP_FEE, models.TREASURY_TRANSFER_FEE, models.TREASURY_TAX})).
		Where("created_at >= ?", since).
		Scan(ctx, &total)
	if err != nil {
		return models.Amount{}, err
	}
	return models.AmountFromString(total)
}

// InsertInterestPeriod records one interest accrual per (guild, currency,
// period). It reports false without error when the period was already
// recorded, which makes the monthly run idempotent.
func InsertInterestPeriod(ctx context.Context, db bun.IDB, record *models.InterestPeriod) (bool, error) {
	res, err := db.NewInsert().
		Model(record).
		On("CONFLICT (guild_id, currency, period) DO NOTHING").
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
