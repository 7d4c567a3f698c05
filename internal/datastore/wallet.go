package datastore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"topia/internal/models"
	"topia/internal/pkg"
)

// ErrNotEnoughBalance is returned by DebitWallet when the guarded update
// matched no row, either because the wallet does not exist or its balance is
// below the requested amount.
var ErrNotEnoughBalance = errors.New("not enough balance")

func CreateTableWallet(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Wallet)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().
		Model((*models.Wallet)(nil)).
		Index("index_wallet_guild_user_currency").
		Unique().
		IfNotExists().
		Column("guild_id", "user_id", "currency").
		Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func FindWallet(ctx context.Context, db bun.IDB, guildID, userID string, currency models.CurrencyKind) (*models.Wallet, error) {
	var wallet models.Wallet
	err := db.NewSelect().
		Model(&wallet).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Where("currency = ?", currency).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// EnsureWallet creates the wallet row if missing and returns the current row
// either way.
func EnsureWallet(ctx context.Context, db bun.IDB, guildID, userID string, currency models.CurrencyKind, now time.Time) (*models.Wallet, error) {
	wallet := models.NewWallet(guildID, userID, currency, now)
	_, err := db.NewInsert().
		Model(wallet).
		On("CONFLICT (guild_id, user_id, currency) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return FindWallet(ctx, db, guildID, userID, currency)
}

// CreditWallet adds amount to the wallet's balance, bumping the earned
// counters when countEarned is set, and returns the updated row. The wallet
// is created lazily on first credit.
func CreditWallet(ctx context.Context, db bun.IDB, guildID, userID string, currency models.CurrencyKind, amount models.Amount, countEarned bool, now time.Time) (*models.Wallet, error) {
	wallet := new(models.Wallet)
	q := db.NewUpdate().
		Model(wallet).
		Set("balance = balance + ?", amount).
		Set("updated_at = ?", now).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Where("currency = ?", currency).
		Returning("*")
	if countEarned {
		q = q.
			Set("total_earned = total_earned + ?", amount).
			Set("daily_earned = (CASE WHEN daily_reset_at < ? THEN ?::numeric ELSE daily_earned + ? END)",
				pkg.StartOfDay(now), amount, amount).
			Set("daily_reset_at = (CASE WHEN daily_reset_at < ? THEN ? ELSE daily_reset_at END)",
				pkg.StartOfDay(now), now)
	}
	err := q.Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := EnsureWallet(ctx, db, guildID, userID, currency, now); err != nil {
			return nil, err
		}
		return CreditWallet(ctx, db, guildID, userID, currency, amount, countEarned, now)
	}
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

// DebitWallet subtracts amount, guarded so the balance can never go
// negative. Returns ErrNotEnoughBalance when the wallet is missing or short.
func DebitWallet(ctx context.Context, db bun.IDB, guildID, userID string, currency models.CurrencyKind, amount models.Amount, now time.Time) (*models.Wallet, error) {
	wallet := new(models.Wallet)
	err := db.NewUpdate().
		Model(wallet).
		Set("balance = balance - ?", amount).
		Set("updated_at = ?", now).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
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
	return wallet, nil
}

func ListWallets(ctx context.Context, db bun.IDB, guildID, userID string) ([]*models.Wallet, error) {
	var wallets []*models.Wallet
	err := db.NewSelect().
		Model(&wallets).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Order("currency ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return wallets, nil
}

func DeleteWalletsByUser(ctx context.Context, db bun.IDB, guildID, userID string) error {
	_, err := db.NewDelete().
		Model((*models.Wallet)(nil)).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Exec(ctx)
	return err
}
