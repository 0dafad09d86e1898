package cron

import (
	"context"
	"time"

	"onetracker/services/availability"
	"onetracker/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// InitAvailabilityWarmup keeps the availability cache populated so the first
// chat turn after an idle period does not pay the full computation.
func InitAvailabilityWarmup(availSvc availability.Service) *cron.Cron {
	logger := utils.GetLogger()

	c := cron.New()
	_, err := c.AddFunc("@every 5m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := availSvc.Snapshot(ctx); err != nil {
			logger.Warn("availability warmup failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Error("failed to schedule availability warmup", zap.Error(err))
		return c
	}
	c.Start()
	return c
}
