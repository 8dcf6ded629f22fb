package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisetu/clinic-appointments/models"
	"github.com/medisetu/clinic-appointments/scheduler"
)

func newTestCache(t *testing.T) *SlotCache {
	t.Helper()
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	return NewSlotCache(client, time.Minute)
}

var sampleSlots = []scheduler.Slot{
	{Start: "09:00:00", End: "09:30:00", Available: true},
	{Start: "09:30:00", End: "10:00:00", Available: false},
}

func TestSlotCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	_, ok := c.Get(ctx, 1, date, models.VisitOnline)
	assert.False(t, ok, "cold cache misses")

	c.Store(ctx, 1, date, models.VisitOnline, sampleSlots)
	got, ok := c.Get(ctx, 1, date, models.VisitOnline)
	require.True(t, ok)
	assert.Equal(t, sampleSlots, got)

	// other visit type and other doctor stay cold
	_, ok = c.Get(ctx, 1, date, models.VisitPhysical)
	assert.False(t, ok)
	_, ok = c.Get(ctx, 2, date, models.VisitOnline)
	assert.False(t, ok)
}

func TestSlotCacheInvalidateBumpsGeneration(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	c.Store(ctx, 1, date, models.VisitOnline, sampleSlots)
	c.Invalidate(ctx, 1)

	_, ok := c.Get(ctx, 1, date, models.VisitOnline)
	assert.False(t, ok, "invalidation orphans the cached list")

	// a fresh store after invalidation is visible again
	c.Store(ctx, 1, date, models.VisitOnline, sampleSlots)
	_, ok = c.Get(ctx, 1, date, models.VisitOnline)
	assert.True(t, ok)
}

func TestSlotCacheNilSafe(t *testing.T) {
	var c *SlotCache
	ctx := context.Background()
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	_, ok := c.Get(ctx, 1, date, models.VisitOnline)
	assert.False(t, ok)
	c.Store(ctx, 1, date, models.VisitOnline, sampleSlots)
	c.Invalidate(ctx, 1)
}
