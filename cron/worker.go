package cron

import (
	"context"
	"encoding/json"

	"onetracker/config"
	"onetracker/models"
	"onetracker/services/notification"
	"onetracker/services/tasks"
	"onetracker/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitEmailWorker runs the async email worker in the background. Confirmation
// emails are best-effort: a task that keeps failing is dropped after its
// retries, never bubbled back into the booking flow.
func InitEmailWorker(notifSvc notification.Service) *asynq.Server {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		},
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingConfirmed, handleBookingConfirmed(notifSvc))

	go func() {
		logger.Info("starting email worker")
		if err := srv.Run(mux); err != nil {
			logger.Error("email worker stopped", zap.Error(err))
		}
	}()

	return srv
}

func handleBookingConfirmed(notifSvc notification.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var b models.Booking
		if err := json.Unmarshal(task.Payload(), &b); err != nil {
			logger.Error("invalid confirmation task payload", zap.Error(err))
			return err
		}

		if err := notifSvc.SendBookingConfirmation(ctx, &b); err != nil {
			logger.Warn("confirmation email send failed",
				zap.String("booking_id", b.ID.String()), zap.Error(err))
			return err
		}

		logger.Info("confirmation email sent", zap.String("booking_id", b.ID.String()))
		return nil
	}
}
