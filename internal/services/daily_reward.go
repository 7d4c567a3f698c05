package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"topia/internal/datastore"
	"topia/internal/interfaces"
	"topia/internal/models"

	"github.com/go-redsync/redsync/v4"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceDailyReward struct {
	container  *do.Injector
	postgresDB *bun.DB
	rs         *redsync.Redsync
	clock      interfaces.Clock

	serviceConfig *ServiceConfig
}

func NewServiceDailyReward(container *do.Injector) (*ServiceDailyReward, error) {
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

	return &ServiceDailyReward{container, postgresDB, rs, clock, serviceConfig}, nil
}

type ClaimResult struct {
	Reward      *models.DailyReward `json:"reward"`
	Amount      models.Amount       `json:"amount"`
	NewBalance  models.Amount       `json:"new_balance"`
	NextClaimAt time.Time           `json:"next_claim_at"`
}

// GetStatus reports the user's streak and whether a claim is currently open.
func (service *ServiceDailyReward) GetStatus(ctx context.Context, guildID, userID, kind string) (*models.DailyReward, bool, error) {
	reward, err := datastore.FindDailyReward(ctx, service.postgresDB, guildID, userID, kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return reward, reward.CanClaim(service.clock.Now()), nil
}

// Claim grants the daily reward, at most once per calendar date. A repeat
// claim on the same date fails with the moment the next one opens.
func (service *ServiceDailyReward) Claim(ctx context.Context, guildID, userID, kind string) (*ClaimResult, error) {
	mutex := service.rs.NewMutex(LockKeyDailyClaim(guildID, userID, kind))
	if err := mutex.TryLock(); err != nil {
		return nil, ErrClaimLock
	}
	// nolint:errcheck
	defer mutex.Unlock()

	now := service.clock.Now()

	previous, err := datastore.FindDailyReward(ctx, service.postgresDB, guildID, userID, kind)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if !previous.CanClaim(now) {
		return nil, &AlreadyClaimedError{NextClaimAt: models.NextClaimAt(now)}
	}

	streak := previous.NextStreak(now)
	amount, err := service.rewardAmount(ctx, kind, streak)
	if err != nil {
		return nil, err
	}

	reward := &models.DailyReward{
		GuildID:       guildID,
		UserID:        userID,
		Kind:          kind,
		LastClaimedAt: now,
		Streak:        streak,
		TotalCount:    1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if previous != nil {
		reward.TotalCount = previous.TotalCount + 1
	}

	var wallet *models.Wallet
	err = service.postgresDB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		claimed, err := datastore.UpsertDailyReward(ctx, tx, reward)
		if err != nil {
			return err
		}
		if !claimed {
			return &AlreadyClaimedError{NextClaimAt: models.NextClaimAt(now)}
		}

		wallet, err = datastore.CreditWallet(ctx, tx, guildID, userID, models.CURRENCY_TOPY, amount, true, now)
		if err != nil {
			return err
		}

		return datastore.InsertLedgerEntry(ctx, tx, &models.LedgerEntry{
			GuildID:      guildID,
			UserID:       userID,
			Currency:     models.CURRENCY_TOPY,
			Kind:         models.ENTRY_DAILY_REWARD,
			Amount:       amount,
			BalanceAfter: wallet.Balance,
			Note:         kind,
			CreatedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}

	return &ClaimResult{
		Reward:      reward,
		Amount:      amount,
		NewBalance:  wallet.Balance,
		NextClaimAt: models.NextClaimAt(now),
	}, nil
}

// rewardAmount sizes the payout from config. Attendance grows with the
// streak up to a capped bonus; subscription pays a flat amount.
func (service *ServiceDailyReward) rewardAmount(ctx context.Context, kind string, streak int) (models.Amount, error) {
	switch kind {
	case models.REWARD_ATTENDANCE:
		base, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_ATTENDANCE_BASE_REWARD, DEFAULT_ATTENDANCE_BASE_REWARD)
		bonus, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_ATTENDANCE_STREAK_BONUS, DEFAULT_ATTENDANCE_STREAK_BONUS)
		cap, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_ATTENDANCE_STREAK_BONUS_CAP, DEFAULT_ATTENDANCE_STREAK_BONUS_CAP)

		bonusDays := streak - 1
		if bonusDays > cap {
			bonusDays = cap
		}
		return models.NewAmount(int64(base + bonus*bonusDays)), nil
	case models.REWARD_SUBSCRIPTION:
		base, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_SUBSCRIPTION_BASE_REWARD, DEFAULT_SUBSCRIPTION_BASE_REWARD)
		return models.NewAmount(int64(base)), nil
	default:
		return models.Amount{}, errors.New("unknown reward kind")
	}
}
