package booking

import (
	"context"
	"errors"
	"time"

	"onetracker/models"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no booking exists for the given id.
	ErrNotFound = errors.New("booking not found")
	// ErrSlotTaken is returned when the requested datetime is already booked.
	ErrSlotTaken = errors.New("slot already booked")
)

// Repository contains all booking persistence operations.
type Repository interface {
	// Create inserts the booking, re-checking slot uniqueness inside the
	// same transaction as the insert. Returns ErrSlotTaken on conflict.
	Create(ctx context.Context, b *models.Booking) (*models.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns all bookings ordered by booking_datetime descending.
	List(ctx context.Context) ([]models.Booking, error)
	ListPage(ctx context.Context, offset, limit int) ([]models.Booking, int64, error)
	// BookedBetween returns the occupied instants inside [from, to).
	BookedBetween(ctx context.Context, from, to time.Time) ([]time.Time, error)
}
