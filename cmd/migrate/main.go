package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"

	"topia/internal/datastore"
	"topia/internal/models"
	"topia/internal/services"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandConfigMigration(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableConfig(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableWallet(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableLedgerEntry(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableTreasury(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableShopItem(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableUserItem(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableRoleTicket(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTablePurchaseHistory(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableDailyReward(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableCurrencySettings(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableMarketSettings(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableRetention(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

// insert default configs to db
func commandConfigMigration() *cli.Command {
	return &cli.Command{
		Name:        "migrate-config",
		Description: "Insert default configs to db",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			configs := []models.Config{
				{Key: services.CONFIG_SERVER_MODE, Value: "production"},
				{Key: services.CONFIG_INTEREST_RATE_PERMILLE, Value: strconv.Itoa(services.DEFAULT_INTEREST_RATE_PERMILLE)},
				{Key: services.CONFIG_ATTENDANCE_BASE_REWARD, Value: strconv.Itoa(services.DEFAULT_ATTENDANCE_BASE_REWARD)},
				{Key: services.CONFIG_ATTENDANCE_STREAK_BONUS, Value: strconv.Itoa(services.DEFAULT_ATTENDANCE_STREAK_BONUS)},
				{Key: services.CONFIG_ATTENDANCE_STREAK_BONUS_CAP, Value: strconv.Itoa(services.DEFAULT_ATTENDANCE_STREAK_BONUS_CAP)},
				{Key: services.CONFIG_SUBSCRIPTION_BASE_REWARD, Value: strconv.Itoa(services.DEFAULT_SUBSCRIPTION_BASE_REWARD)},
				{Key: services.CONFIG_CRONJOB_TIME_EXPIRY_SWEEP, Value: services.DEFAULT_CRONJOB_TIME_EXPIRY_SWEEP},
				{Key: services.CONFIG_CRONJOB_TIME_INTEREST, Value: services.DEFAULT_CRONJOB_TIME_INTEREST},
				{Key: services.CONFIG_CRONJOB_TIME_RETENTION, Value: services.DEFAULT_CRONJOB_TIME_RETENTION},
				{Key: services.CONFIG_LEDGER_PAGE_LIMIT, Value: strconv.Itoa(services.DEFAULT_LEDGER_PAGE_LIMIT)},
			}

			for _, config := range configs {
				err = datastore.UpsertConfig(ctx, db, &config)
				if err != nil {
					log.Println(err)
				}
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	return bun.NewDB(sqldb, pgdialect.New()), nil
}
