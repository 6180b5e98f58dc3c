package storage

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"CartStoreAPI/internal/cart"
	"CartStoreAPI/internal/logger"
)

// RedisStore backs the volatile session tier. Snapshots expire with the
// session TTL; the cookie and the backing record outlive them.
type RedisStore struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewRedisStore(log *logger.Logger) (*RedisStore, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	ttl := 24 * time.Hour
	if v := os.Getenv("SESSION_TTL_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil || hours <= 0 {
			return nil, fmt.Errorf("invalid SESSION_TTL_HOURS %q", v)
		}
		ttl = time.Duration(hours) * time.Hour
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{
		log: log.With("service", "RedisStore"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// ForClient scopes the store to one client id, so each client gets its own
// session slot per cartID.
func (s *RedisStore) ForClient(clientID string) cart.KeyedStore {
	return &clientSession{store: s, clientID: clientID}
}

type clientSession struct {
	store    *RedisStore
	clientID string
}

func (s *clientSession) key(cartID string) string {
	return "cart:" + s.clientID + ":" + cartID
}

func (s *clientSession) Get(ctx context.Context, cartID string) (string, bool, error) {
	val, err := s.store.rdb.Get(ctx, s.key(cartID)).Result()
	if err == goredis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return val, true, nil
}

func (s *clientSession) Set(ctx context.Context, cartID, value string) error {
	if err := s.store.rdb.Set(ctx, s.key(cartID), value, s.store.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *clientSession) Delete(ctx context.Context, cartID string) error {
	if err := s.store.rdb.Del(ctx, s.key(cartID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
