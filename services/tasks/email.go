package tasks

import (
	"encoding/json"

	"onetracker/models"

	"github.com/hibiken/asynq"
)

const TypeBookingConfirmed = "email:booking_confirmed"

// NewBookingConfirmedTask wraps a persisted booking into the payload the
// email worker consumes.
func NewBookingConfirmedTask(b *models.Booking) (*asynq.Task, error) {
	payload, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingConfirmed, payload), nil
}
