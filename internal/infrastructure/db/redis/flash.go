package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const flashTTL = 15 * time.Minute

// Flash is a single-use user notification: shown once on the next rendered
// page, then gone.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// FlashStore keeps pending flash messages in Redis, keyed by the caller's
// flash-cookie id. Keys expire so abandoned sessions do not accumulate.
type FlashStore struct {
	client *redis.Client
}

func NewFlashStore(client *redis.Client) *FlashStore {
	return &FlashStore{client: client}
}

// Push appends a message to the pending list for key.
func (s *FlashStore) Push(ctx context.Context, key, category, message string) error {
	payload, err := json.Marshal(Flash{Category: category, Message: message})
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, s.key(key), payload)
	pipe.Expire(ctx, s.key(key), flashTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("flash push: %w", err)
	}
	return nil
}

// PopAll atomically drains and returns every pending message for key, in
// insertion order. Draining is what makes the notifications single-use.
func (s *FlashStore) PopAll(ctx context.Context, key string) ([]Flash, error) {
	pipe := s.client.TxPipeline()
	rangeCmd := pipe.LRange(ctx, s.key(key), 0, -1)
	pipe.Del(ctx, s.key(key))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("flash pop: %w", err)
	}

	raw := rangeCmd.Val()
	out := make([]Flash, 0, len(raw))
	for _, item := range raw {
		var f Flash
		if err := json.Unmarshal([]byte(item), &f); err != nil {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (s *FlashStore) key(id string) string {
	return "flash:" + id
}
