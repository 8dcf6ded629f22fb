// Package cache keeps short-lived copies of resolved slot lists in redis so
// the public booking page does not recompute them on every poll. Entries are
// keyed by a per-doctor generation counter; any schedule edit or booking
// commit bumps the generation, orphaning every cached list for that doctor.
// Orphans age out via TTL.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medisetu/clinic-appointments/models"
	"github.com/medisetu/clinic-appointments/scheduler"
)

type SlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSlotCache(client *redis.Client, ttl time.Duration) *SlotCache {
	return &SlotCache{client: client, ttl: ttl}
}

func (c *SlotCache) genKey(doctorID uint) string {
	return fmt.Sprintf("slots:gen:%d", doctorID)
}

func (c *SlotCache) generation(ctx context.Context, doctorID uint) int64 {
	gen, err := c.client.Get(ctx, c.genKey(doctorID)).Int64()
	if err != nil {
		return 0
	}
	return gen
}

func (c *SlotCache) slotKey(ctx context.Context, doctorID uint, date time.Time, visitType models.VisitType) string {
	return fmt.Sprintf("slots:%d:%d:%s:%s",
		doctorID, c.generation(ctx, doctorID), date.Format(models.DateLayout), visitType)
}

// Get returns the cached slot list, or ok=false on miss or any redis error.
func (c *SlotCache) Get(ctx context.Context, doctorID uint, date time.Time, visitType models.VisitType) ([]scheduler.Slot, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, c.slotKey(ctx, doctorID, date, visitType)).Bytes()
	if err != nil {
		return nil, false
	}
	var slots []scheduler.Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

// Store caches a resolved slot list. Failures are ignored; the cache is an
// optimization, never a source of truth.
func (c *SlotCache) Store(ctx context.Context, doctorID uint, date time.Time, visitType models.VisitType, slots []scheduler.Slot) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.slotKey(ctx, doctorID, date, visitType), raw, c.ttl)
}

// Invalidate drops every cached list for a doctor by bumping the generation.
// Called after booking commits and schedule/override writes.
func (c *SlotCache) Invalidate(ctx context.Context, doctorID uint) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Incr(ctx, c.genKey(doctorID))
}
