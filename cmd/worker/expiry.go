package main

import (
	"context"
	"log"
	"time"

	"topia/internal/interfaces"
	"topia/internal/models"
	"topia/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/samber/do"
)

// ExpiryJob clears lapsed entitlements and role effect windows, revoking the
// platform roles before the database rows are cleared.
type ExpiryJob struct {
	serviceInventory *services.ServiceInventory
	serviceConfig    *services.ServiceConfig
	roleManager      interfaces.RoleManager
}

func NewExpiryJob(container *do.Injector) (*ExpiryJob, error) {
	serviceInventory, err := do.Invoke[*services.ServiceInventory](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*services.ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	roleManager, err := do.Invoke[interfaces.RoleManager](container)
	if err != nil {
		return nil, err
	}

	return &ExpiryJob{serviceInventory, serviceConfig, roleManager}, nil
}

func (j *ExpiryJob) Start(cronRunner *cron.Cron) {
	spec, err := j.serviceConfig.GetStringConfig(context.Background(), services.CONFIG_CRONJOB_TIME_EXPIRY_SWEEP, services.DEFAULT_CRONJOB_TIME_EXPIRY_SWEEP)
	if err != nil {
		log.Println(err)
	}

	_, err = cronRunner.AddFunc(spec, j.run)
	log.Println("Expiry sweep cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", spec, err)
}

func (j *ExpiryJob) run() {
	ctx := context.Background()

	cleared, err := j.serviceInventory.SweepExpiredEntitlements(ctx, j.revokeRoles)
	if err != nil {
		log.Println("entitlement sweep failed:", err)
	} else if cleared > 0 {
		log.Println("entitlement sweep cleared", cleared, "role effects")
	}

	cleared, err = j.serviceInventory.SweepExpiredEffects(ctx, j.revokeRoles)
	if err != nil {
		log.Println("effect sweep failed:", err)
	} else if cleared > 0 {
		log.Println("effect sweep cleared", cleared, "role effects")
	}
}

func (j *ExpiryJob) revokeRoles(ctx context.Context, item *models.UserItem) error {
	if item.CurrentRoleID != nil {
		if err := j.roleManager.RevokeRole(ctx, item.GuildID, item.UserID, *item.CurrentRoleID); err != nil {
			return err
		}
	}
	if item.FixedRoleID != nil {
		if err := j.roleManager.RevokeRole(ctx, item.GuildID, item.UserID, *item.FixedRoleID); err != nil {
			return err
		}
	}
	return nil
}
