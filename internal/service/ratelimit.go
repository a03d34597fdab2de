package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Redis-backed per-user action locks. The redeem endpoint grabs one before
// touching the ledger so a user cannot fire a second payout request while
// the first is still inside its cooldown window.

func actionLockKey(userID uuid.UUID, action string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
}

// CheckAndSetRateLimit acquires the lock for the action and returns false
// when a previous request already holds it. A nil client disables limiting.
func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string, window time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	acquired, err := rdb.SetNX(ctx, actionLockKey(userID, action), "locked", window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return acquired, nil
}

// GetRateLimitTTL reports how long the current lock has left, for
// Retry-After hints on rejected requests.
func GetRateLimitTTL(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	return rdb.TTL(ctx, actionLockKey(userID, action)).Result()
}

// ClearRateLimit releases the lock early so a rejected request does not
// burn the slot.
func ClearRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, actionLockKey(userID, action)).Err()
}
