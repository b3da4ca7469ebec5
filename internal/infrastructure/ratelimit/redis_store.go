package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "pos-analytics:ratelimit:"

var _ CounterStore = (*RedisStore)(nil)

// RedisStore contador compartido en Redis (INCR + EXPIRE en la primera llamada de la ventana).
type RedisStore struct {
	client    redis.Cmdable
	keyPrefix string
}

// RedisConfig conexión a Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore abre la conexión y verifica con PING.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ratelimit: conectar a redis: %w", err)
	}
	return NewRedisStoreWithClient(client, ""), client, nil
}

// NewRedisStoreWithClient usa un cliente existente (compartido o de pruebas).
func NewRedisStoreWithClient(client redis.Cmdable, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

// Incr implementa CounterStore.
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := s.keyPrefix + key

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		// NX: solo la primera llamada de la ventana fija el TTL
		pipe.ExpireNX(ctx, k, window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("ratelimit: incr %s: %w", key, err)
	}
	return incr.Val(), nil
}
