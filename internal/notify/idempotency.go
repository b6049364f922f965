package notify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// IdempotencyStore de-duplicates confirmation emails. A retried or
// replayed purchase notice reserves the same key and is dropped instead of
// double-sending.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

func emailKey(recipient, digest string) string {
	sum := sha256.Sum256([]byte(recipient + "|" + digest))
	return "email_sent:" + hex.EncodeToString(sum[:])
}

// Reserve claims the send slot for one recipient+digest pair. Returns
// false when the email was already sent (or is being sent).
func (s *IdempotencyStore) Reserve(ctx context.Context, recipient, digest string) (bool, error) {
	ok, err := s.client.SetNX(ctx, emailKey(recipient, digest), "1", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reserving email slot: %w", err)
	}
	return ok, nil
}

// Release frees the slot after a failed send so a retry can go through.
func (s *IdempotencyStore) Release(ctx context.Context, recipient, digest string) error {
	return s.client.Del(ctx, emailKey(recipient, digest)).Err()
}
