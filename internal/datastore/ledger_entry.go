package datastore

import (
	"context"

	"github.com/uptrace/bun"
	"topia/internal/models"
)

func CreateTableLedgerEntry(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.LedgerEntry)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().
		Model((*models.LedgerEntry)(nil)).
		Index("index_ledger_entry_guild_user").
		IfNotExists().
		Column("guild_id", "user_id", "created_at").
		Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func InsertLedgerEntry(ctx context.Context, db bun.IDB, entry *models.LedgerEntry) error {
	_, err := db.NewInsert().Model(entry).Exec(ctx)
	return err
}

func ListLedgerEntries(ctx context.Context, db bun.IDB, guildID, userID string, limit, offset int) ([]*models.LedgerEntry, error) {
	var entries []*models.LedgerEntry
	err := db.NewSelect().
		Model(&entries).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func DeleteLedgerEntriesByUser(ctx context.Context, db bun.IDB, guildID, userID string) error {
	_, err := db.NewDelete().
		Model((*models.LedgerEntry)(nil)).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Exec(ctx)
	return err
}
