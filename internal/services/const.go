package services

import (
	"fmt"
	"strings"
	"time"
)

const (
	CONFIG_SERVER_MODE                   = "SERVER_MODE"
	CONFIG_INTEREST_RATE_PERMILLE        = "INTEREST_RATE_PERMILLE"
	CONFIG_ATTENDANCE_BASE_REWARD        = "ATTENDANCE_BASE_REWARD"
	CONFIG_ATTENDANCE_STREAK_BONUS       = "ATTENDANCE_STREAK_BONUS"
	CONFIG_ATTENDANCE_STREAK_BONUS_CAP   = "ATTENDANCE_STREAK_BONUS_CAP"
	CONFIG_SUBSCRIPTION_BASE_REWARD      = "SUBSCRIPTION_BASE_REWARD"
	CONFIG_CRONJOB_TIME_EXPIRY_SWEEP     = "CRONJOB_TIME_EXPIRY_SWEEP"
	CONFIG_CRONJOB_TIME_INTEREST         = "CRONJOB_TIME_INTEREST"
	CONFIG_CRONJOB_TIME_RETENTION        = "CRONJOB_TIME_RETENTION"
	CONFIG_LEDGER_PAGE_LIMIT             = "LEDGER_PAGE_LIMIT"

	SERVER_MODE_DEVELOPMENT = "development"
	SERVER_MODE_STAGING     = "staging"
	SERVER_MODE_PRODUCTION  = "production"

	DEFAULT_INTEREST_RATE_PERMILLE      = 10
	DEFAULT_ATTENDANCE_BASE_REWARD      = 100
	DEFAULT_ATTENDANCE_STREAK_BONUS     = 10
	DEFAULT_ATTENDANCE_STREAK_BONUS_CAP = 30
	DEFAULT_SUBSCRIPTION_BASE_REWARD    = 50
	DEFAULT_LEDGER_PAGE_LIMIT           = 20

	DEFAULT_CRONJOB_TIME_EXPIRY_SWEEP = "0 * * * *"
	DEFAULT_CRONJOB_TIME_INTEREST     = "30 * * * *"
	DEFAULT_CRONJOB_TIME_RETENTION    = "15 3 * * *"

	SWEEP_BATCH_LIMIT = 500

	PURCHASE_RATE_LIMIT_PER_MINUTE = 30
	TRANSFER_RATE_LIMIT_PER_MINUTE = 30

	CACHE_TTL_5_SECONDS = 5 * time.Second
	CACHE_TTL_1_MIN     = 1 * time.Minute
	CACHE_TTL_5_MINS    = 5 * time.Minute
	CACHE_TTL_15_MINS   = 15 * time.Minute
	CACHE_TTL_1_HOUR    = 1 * time.Hour
)

func LockKeyPurchase(guildID, userID string) string {
	return fmt.Sprintf("lock:purchase:%s:%s", guildID, userID)
}

func LockKeyExchange(guildID, userID string) string {
	return fmt.Sprintf("lock:exchange:%s:%s", guildID, userID)
}

func LockKeyDailyClaim(guildID, userID, kind string) string {
	return fmt.Sprintf("lock:daily-claim:%s:%s:%s", guildID, userID, kind)
}

func LockKeyTransfer(guildID, userID string) string {
	return fmt.Sprintf("lock:transfer:%s:%s", guildID, userID)
}

func LockKeyInterest(guildID string) string {
	return fmt.Sprintf("lock:interest:%s", guildID)
}

func LockKeyRetentionSweep() string {
	return "lock:retention-sweep"
}

func LockKeyEntitlementSweep() string {
	return "lock:entitlement-sweep"
}

func LockKeyEffectSweep() string {
	return "lock:effect-sweep"
}

// db
func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", strings.ToLower(key))
}

func DBKeyMarketSettings(guildID string) string {
	return fmt.Sprintf("market_settings:%s", guildID)
}

func DBKeyShopItems(guildID string) string {
	return fmt.Sprintf("shop_items:%s", guildID)
}

func DBKeyShopItem(guildID string, itemID int64) string {
	return fmt.Sprintf("shop_item:%s:%d", guildID, itemID)
}

func DBKeyMultiplierConfig(guildID string) string {
	return fmt.Sprintf("multiplier_config:%s", guildID)
}

func DBKeyRetentionSettings(guildID string) string {
	return fmt.Sprintf("retention_settings:%s", guildID)
}

func DBKeyTicket(guildID string, ticketID int64) string {
	return fmt.Sprintf("role_ticket:%s:%d", guildID, ticketID)
}

func LimitKeyPurchase(guildID, userID string) string {
	return fmt.Sprintf("limit:purchase:%s:%s", guildID, userID)
}

func LimitKeyTransfer(guildID, userID string) string {
	return fmt.Sprintf("limit:transfer:%s:%s", guildID, userID)
}
