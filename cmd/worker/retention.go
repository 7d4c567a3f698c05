package main

import (
	"context"
	"log"
	"time"

	"topia/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/samber/do"
)

// RetentionJob purges economy data of members whose retention deadline has
// passed.
type RetentionJob struct {
	serviceRetention *services.ServiceRetention
	serviceConfig    *services.ServiceConfig
}

func NewRetentionJob(container *do.Injector) (*RetentionJob, error) {
	serviceRetention, err := do.Invoke[*services.ServiceRetention](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*services.ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &RetentionJob{serviceRetention, serviceConfig}, nil
}

func (j *RetentionJob) Start(cronRunner *cron.Cron) {
	spec, err := j.serviceConfig.GetStringConfig(context.Background(), services.CONFIG_CRONJOB_TIME_RETENTION, services.DEFAULT_CRONJOB_TIME_RETENTION)
	if err != nil {
		log.Println(err)
	}

	_, err = cronRunner.AddFunc(spec, j.run)
	log.Println("Retention cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", spec, err)
}

func (j *RetentionJob) run() {
	ctx := context.Background()

	purged, err := j.serviceRetention.CleanupExpired(ctx)
	if err != nil {
		log.Println("retention cleanup failed:", err)
		return
	}
	if purged > 0 {
		log.Println("retention cleanup purged", purged, "members")
	}
}
