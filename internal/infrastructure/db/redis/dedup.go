package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 7 * 24 * time.Hour

// DedupChecker remembers which reminder occurrences were already emailed.
// Key format: boxwise:notified:<reminder_id>:<due_unix>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this occurrence has already been notified.
func (d *DedupChecker) IsDuplicate(ctx context.Context, reminderID string, due time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(reminderID, due)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records the occurrence as notified (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, reminderID string, due time.Time) error {
	return d.client.Set(ctx, d.key(reminderID, due), "1", dedupTTL).Err()
}

// Forget drops the key so a reopened reminder can be notified again.
func (d *DedupChecker) Forget(ctx context.Context, reminderID string, due time.Time) error {
	if err := d.client.Del(ctx, d.key(reminderID, due)).Err(); err != nil {
		return fmt.Errorf("dedup forget: %w", err)
	}
	return nil
}

// The due date is part of the key so a rescheduled reminder notifies again.
func (d *DedupChecker) key(reminderID string, due time.Time) string {
	return fmt.Sprintf("boxwise:notified:%s:%d", reminderID, due.Unix())
}
