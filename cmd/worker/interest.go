package main

import (
	"context"
	"log"
	"time"

	"topia/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/samber/do"
)

// InterestJob accrues treasury interest. The schedule can fire hourly; the
// accrual itself is idempotent per guild and month, so only the first run of
// a month pays out.
type InterestJob struct {
	serviceTreasury *services.ServiceTreasury
	serviceConfig   *services.ServiceConfig
}

func NewInterestJob(container *do.Injector) (*InterestJob, error) {
	serviceTreasury, err := do.Invoke[*services.ServiceTreasury](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*services.ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &InterestJob{serviceTreasury, serviceConfig}, nil
}

func (j *InterestJob) Start(cronRunner *cron.Cron) {
	spec, err := j.serviceConfig.GetStringConfig(context.Background(), services.CONFIG_CRONJOB_TIME_INTEREST, services.DEFAULT_CRONJOB_TIME_INTEREST)
	if err != nil {
		log.Println(err)
	}

	_, err = cronRunner.AddFunc(spec, j.run)
	log.Println("Interest cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", spec, err)
}

func (j *InterestJob) run() {
	ctx := context.Background()

	guildIDs, err := j.serviceTreasury.ListGuildsWithTreasuries(ctx)
	if err != nil {
		log.Println("interest run failed:", err)
		return
	}

	for _, guildID := range guildIDs {
		if err := j.serviceTreasury.ProcessMonthlyInterest(ctx, guildID); err != nil {
			log.Println("interest failed for guild", guildID, err)
		}
	}
}
