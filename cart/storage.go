package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage is the durable slot holding one serialized cart per user. A missing
// or unreadable slot always loads as an empty cart, never as an error the
// user sees.
type Storage interface {
	Load(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, userID string, c *Cart) error
	Purge(ctx context.Context, userID string) error
}

const cartTTL = 30 * 24 * time.Hour

func cartKey(userID string) string {
	return "cart:" + userID
}

// RedisStorage keeps each cart as a JSON value under cart:<userID>.
type RedisStorage struct {
	client *redis.Client
}

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

func (s *RedisStorage) Load(ctx context.Context, userID string) (*Cart, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Cart{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeCart(userID, data), nil
}

func (s *RedisStorage) Save(ctx context.Context, userID string, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKey(userID), data, cartTTL).Err()
}

func (s *RedisStorage) Purge(ctx context.Context, userID string) error {
	return s.client.Del(ctx, cartKey(userID)).Err()
}

// decodeCart treats corrupt storage as an empty cart. Losing a broken cart is
// recoverable; failing every cart request over it is not.
func decodeCart(userID string, data []byte) *Cart {
	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		log.Printf("⚠️ Corrupt cart for user %s, resetting: %v", userID, err)
		return &Cart{}
	}
	return &c
}

// MemoryStorage is the fallback when no Redis is configured; carts survive
// only for the lifetime of the process. Also used by tests.
type MemoryStorage struct {
	mu    sync.Mutex
	slots map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{slots: make(map[string][]byte)}
}

func (s *MemoryStorage) Load(ctx context.Context, userID string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.slots[cartKey(userID)]
	if !ok {
		return &Cart{}, nil
	}
	return decodeCart(userID, data), nil
}

func (s *MemoryStorage) Save(ctx context.Context, userID string, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[cartKey(userID)] = data
	return nil
}

func (s *MemoryStorage) Purge(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, cartKey(userID))
	return nil
}

// Seed writes raw bytes into a slot, bypassing serialization. Test helper for
// exercising corrupt-storage recovery.
func (s *MemoryStorage) Seed(userID string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[cartKey(userID)] = data
}
