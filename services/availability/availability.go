package availability

import (
	"context"
	"encoding/json"
	"time"

	bookingrepo "onetracker/database/repository/booking"
	"onetracker/models"
	"onetracker/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	// WindowDays is the number of calendar days offered, starting tomorrow.
	WindowDays = 10

	cacheKey = "availability"
	cacheTTL = 5 * time.Minute
)

// AllowedHours are the UTC hours-of-day at which demos can be scheduled.
var AllowedHours = []int{2, 3, 4, 5}

// Service computes and caches the open-slot snapshot.
type Service interface {
	// Compute derives the open slots for the window from now and the
	// current booking set. Pure apart from repository reads.
	Compute(ctx context.Context, now time.Time) ([]models.AvailabilityDay, error)
	// Snapshot is Compute behind the short-TTL cache.
	Snapshot(ctx context.Context) ([]models.AvailabilityDay, error)
	// Invalidate drops the cached snapshot so the next Snapshot recomputes.
	Invalidate(ctx context.Context)
}

// DefaultService is the production implementation.
type DefaultService struct {
	Repo  bookingrepo.Repository
	Cache *redis.Client // optional; nil disables caching
}

func (s *DefaultService) Compute(ctx context.Context, now time.Time) ([]models.AvailabilityDay, error) {
	now = now.UTC()
	startDate := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
	windowEnd := startDate.Add(WindowDays * 24 * time.Hour)

	booked, err := s.Repo.BookedBetween(ctx, startDate, windowEnd)
	if err != nil {
		return nil, err
	}
	occupied := make(map[int64]bool, len(booked))
	for _, t := range booked {
		occupied[t.Unix()] = true
	}

	days := make([]models.AvailabilityDay, 0, WindowDays)
	for i := 0; i < WindowDays; i++ {
		day := startDate.Add(time.Duration(i) * 24 * time.Hour)
		slots := []string{}

		for _, hour := range AllowedHours {
			slot := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC)
			if !slot.After(now) {
				continue
			}
			if occupied[slot.Unix()] {
				continue
			}
			slots = append(slots, slot.Format(time.RFC3339))
		}

		days = append(days, models.AvailabilityDay{
			Date:           day.Format("2006-01-02"),
			AvailableSlots: slots,
		})
	}
	return days, nil
}

func (s *DefaultService) Snapshot(ctx context.Context) ([]models.AvailabilityDay, error) {
	logger := utils.GetLogger()

	if s.Cache != nil {
		data, err := s.Cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var days []models.AvailabilityDay
			if jsonErr := json.Unmarshal([]byte(data), &days); jsonErr == nil {
				return days, nil
			}
		} else if err != redis.Nil {
			logger.Warn("availability cache read failed", zap.Error(err))
		}
	}

	days, err := s.Compute(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if b, err := json.Marshal(days); err == nil {
			if err := s.Cache.Set(ctx, cacheKey, b, cacheTTL).Err(); err != nil {
				logger.Warn("availability cache write failed", zap.Error(err))
			}
		}
	}
	return days, nil
}

func (s *DefaultService) Invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, cacheKey).Err(); err != nil {
		utils.GetLogger().Warn("availability cache invalidation failed", zap.Error(err))
	}
}

// IsAllowedHour reports whether t lands exactly on an allowed UTC slot boundary.
func IsAllowedHour(t time.Time) bool {
	t = t.UTC()
	if t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0 {
		return false
	}
	for _, h := range AllowedHours {
		if t.Hour() == h {
			return true
		}
	}
	return false
}

// Flatten collapses a snapshot into its ordered slot strings.
func Flatten(days []models.AvailabilityDay) []string {
	var slots []string
	for _, day := range days {
		slots = append(slots, day.AvailableSlots...)
	}
	return slots
}
