package notification

import (
	"context"

	"onetracker/models"
)

// Service sends the post-booking emails: a confirmation to the booker and an
// internal notification to the operations address. Failures are logged by the
// caller, never surfaced to the booking flow.
type Service interface {
	SendBookingConfirmation(ctx context.Context, b *models.Booking) error
}
