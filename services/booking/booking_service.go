package booking

import (
	"context"
	"encoding/json"
	"time"

	bookingrepo "onetracker/database/repository/booking"
	"onetracker/models"
	"onetracker/services/availability"
	"onetracker/services/tasks"
	"onetracker/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	bookingsCacheKey = "bookings"
	bookingsCacheTTL = 5 * time.Minute
)

// CreateBookingInput carries a validated booking request into the store.
type CreateBookingInput struct {
	Name            string
	BusinessName    string
	WorkEmail       string
	ContactNumber   string
	BookingDatetime time.Time
	Message         *string
	Timezone        string
}

// Service exposes booking CRUD with slot-uniqueness guarantees.
type Service interface {
	Create(ctx context.Context, in CreateBookingInput) (*models.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.Booking, error)
	ListPaginated(ctx context.Context, page, limit int) (*models.PaginatedBookings, error)
}

// DefaultService is the production implementation.
type DefaultService struct {
	Repo         bookingrepo.Repository
	Availability availability.Service
	Cache        *redis.Client // optional; nil disables listing cache
	Queue        *asynq.Client // optional; nil disables email dispatch
}

// Create validates the slot, persists the booking inside one transaction and,
// on success, invalidates the caches and enqueues the confirmation email.
// Email dispatch is best-effort: its failure never fails the booking.
func (s *DefaultService) Create(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	logger := utils.GetLogger()

	if in.BookingDatetime.IsZero() {
		return nil, ErrMissingZone
	}
	at := in.BookingDatetime.UTC()
	if !at.After(time.Now().UTC()) {
		return nil, ErrPastBooking
	}
	if !availability.IsAllowedHour(at) {
		return nil, ErrInvalidSlot
	}

	tz := in.Timezone
	if tz == "" {
		tz = "UTC"
	}

	created, err := s.Repo.Create(ctx, &models.Booking{
		ID:              uuid.New(),
		Name:            in.Name,
		BusinessName:    in.BusinessName,
		WorkEmail:       in.WorkEmail,
		ContactNumber:   in.ContactNumber,
		BookingDatetime: at,
		Message:         in.Message,
		Timezone:        tz,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("booking created",
		zap.String("id", created.ID.String()),
		zap.Time("booking_datetime", created.BookingDatetime))

	s.invalidateCaches(ctx)
	s.enqueueConfirmation(created)

	return created, nil
}

func (s *DefaultService) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCaches(ctx)
	return nil
}

func (s *DefaultService) List(ctx context.Context) ([]models.Booking, error) {
	logger := utils.GetLogger()

	if s.Cache != nil {
		data, err := s.Cache.Get(ctx, bookingsCacheKey).Result()
		if err == nil {
			var cached []models.Booking
			if jsonErr := json.Unmarshal([]byte(data), &cached); jsonErr == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			logger.Warn("bookings cache read failed", zap.Error(err))
		}
	}

	bookings, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if b, err := json.Marshal(bookings); err == nil {
			if err := s.Cache.Set(ctx, bookingsCacheKey, b, bookingsCacheTTL).Err(); err != nil {
				logger.Warn("bookings cache write failed", zap.Error(err))
			}
		}
	}
	return bookings, nil
}

func (s *DefaultService) ListPaginated(ctx context.Context, page, limit int) (*models.PaginatedBookings, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	records, total, err := s.Repo.ListPage(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &models.PaginatedBookings{
		Page:    page,
		Limit:   limit,
		Total:   total,
		Records: records,
	}, nil
}

func (s *DefaultService) invalidateCaches(ctx context.Context) {
	if s.Availability != nil {
		s.Availability.Invalidate(ctx)
	}
	if s.Cache != nil {
		if err := s.Cache.Del(ctx, bookingsCacheKey).Err(); err != nil {
			utils.GetLogger().Warn("bookings cache invalidation failed", zap.Error(err))
		}
	}
}

func (s *DefaultService) enqueueConfirmation(b *models.Booking) {
	if s.Queue == nil {
		return
	}
	logger := utils.GetLogger()

	task, err := tasks.NewBookingConfirmedTask(b)
	if err != nil {
		logger.Error("failed to build confirmation task", zap.Error(err))
		return
	}
	if _, err := s.Queue.Enqueue(task, asynq.MaxRetry(3)); err != nil {
		logger.Error("failed to enqueue confirmation email", zap.Error(err),
			zap.String("booking_id", b.ID.String()))
	}
}
