package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"venue-booking/internal/status"
)

// LockManager hands out short-lived Redis locks. The slot lock serializes
// the availability check-then-act sequence per venue+date; entity locks
// serialize transitions on a single record so a losing writer re-reads
// committed state instead of overwriting it. TTLs bound leakage if a holder
// crashes before releasing.
type LockManager struct {
	Redis             *redis.Client
	SlotLockTTL       time.Duration
	TransitionLockTTL time.Duration
}

func NewLockManager(redisClient *redis.Client, slotTTL, transitionTTL time.Duration) *LockManager {
	return &LockManager{
		Redis:             redisClient,
		SlotLockTTL:       slotTTL,
		TransitionLockTTL: transitionTTL,
	}
}

func slotLockKey(venueID, date string) string {
	return fmt.Sprintf("lock:slot:%s:%s", venueID, date)
}

func entityLockKey(collection, id string) string {
	return fmt.Sprintf("lock:%s:%s", collection, id)
}

func (l *LockManager) acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	ok, err := l.Redis.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, fmt.Errorf("lock %s held: %w", key, status.ErrConflict)
	}

	release := func() {
		if err := l.Redis.Del(context.Background(), key).Err(); err != nil {
			slog.Error("release lock", "key", key, "error", err)
		}
	}
	return release, nil
}

// AcquireSlot locks a venue's date for the duration of one availability
// check plus booking save. A held lock means another booking attempt is in
// flight; the caller reports Conflict and the user retries.
func (l *LockManager) AcquireSlot(ctx context.Context, venueID, date string) (func(), error) {
	return l.acquire(ctx, slotLockKey(venueID, date), l.SlotLockTTL)
}

// AcquireEntity locks a single record for one status transition.
func (l *LockManager) AcquireEntity(ctx context.Context, collection, id string) (func(), error) {
	return l.acquire(ctx, entityLockKey(collection, id), l.TransitionLockTTL)
}
