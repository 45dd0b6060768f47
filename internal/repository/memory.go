package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryCalendarCache is the in-process fallback when redis is absent or down.
type MemoryCalendarCache struct {
	entries sync.Map
	ttl     time.Duration
}

type calendarEntry struct {
	dates     []string
	expiresAt time.Time
}

func NewMemoryCalendarCache(ttl time.Duration) *MemoryCalendarCache {
	return &MemoryCalendarCache{ttl: ttl}
}

func (r *MemoryCalendarCache) GetCalendar(_ context.Context, vehicleID int64) ([]string, bool, error) {
	val, ok := r.entries.Load(vehicleID)
	if !ok {
		return nil, false, nil
	}
	entry := val.(*calendarEntry)
	if time.Now().After(entry.expiresAt) {
		r.entries.Delete(vehicleID)
		return nil, false, nil
	}
	return entry.dates, true, nil
}

func (r *MemoryCalendarCache) SetCalendar(_ context.Context, vehicleID int64, dates []string) error {
	r.entries.Store(vehicleID, &calendarEntry{
		dates:     dates,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemoryCalendarCache) Invalidate(_ context.Context, vehicleID int64) error {
	r.entries.Delete(vehicleID)
	return nil
}
