package repository

import (
	"context"
	"sync/atomic"
	"time"

	"travelbook/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverCalendarCache serves from the primary cache until it errors, then
// sticks to the fallback and probes the primary again after a minute.
type FailoverCalendarCache struct {
	primary   domain.CalendarCache
	fallback  domain.CalendarCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverCalendarCache(primary, fallback domain.CalendarCache, logger *zerolog.Logger) *FailoverCalendarCache {
	return &FailoverCalendarCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverCalendarCache) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary calendar cache failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck = time.Now()
}

func (r *FailoverCalendarCache) GetCalendar(ctx context.Context, vehicleID int64) ([]string, bool, error) {
	if !r.isDown.Load() {
		dates, found, err := r.primary.GetCalendar(ctx, vehicleID)
		if err == nil {
			return dates, found, nil
		}
		r.markDown(err)
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		dates, found, err := r.primary.GetCalendar(ctx, vehicleID)
		if err == nil {
			r.isDown.Store(false)
			return dates, found, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.GetCalendar(ctx, vehicleID)
}

func (r *FailoverCalendarCache) SetCalendar(ctx context.Context, vehicleID int64, dates []string) error {
	if !r.isDown.Load() {
		err := r.primary.SetCalendar(ctx, vehicleID, dates)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetCalendar(ctx, vehicleID, dates)
}

func (r *FailoverCalendarCache) Invalidate(ctx context.Context, vehicleID int64) error {
	if !r.isDown.Load() {
		err := r.primary.Invalidate(ctx, vehicleID)
		if err == nil {
			// Keep the fallback coherent too; it may hold a stale copy.
			_ = r.fallback.Invalidate(ctx, vehicleID)
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.Invalidate(ctx, vehicleID)
}
