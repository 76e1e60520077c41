package overlay

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/mhagen/loreatlas/pkg/errors"
	"github.com/mhagen/loreatlas/pkg/observability"
)

// redisKeyPrefix namespaces overlay records inside a shared Redis instance.
const redisKeyPrefix = "loreatlas:overlay:"

// RedisStore persists override records in Redis, for deployments where the
// editor runs behind the scene server rather than against local disk.
type RedisStore struct {
	client *redis.Client
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr     string // e.g. "localhost:6379"
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to redis %s", cfg.Addr)
	}
	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Load(ctx context.Context, key string) (*State, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err == redis.Nil {
		observability.Store().OnLoad(ctx, key, false)
		return NewState(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load overlay %s", key)
	}

	observability.Store().OnLoad(ctx, key, true)
	return Decode(data), nil
}

func (r *RedisStore) Save(ctx context.Context, key string, s *State) error {
	data, err := Encode(s)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encode overlay %s", key)
	}

	// Overlay records never expire: they are user documents, not cache.
	if err := r.client.Set(ctx, redisKeyPrefix+key, data, 0).Err(); err != nil {
		observability.Store().OnSave(ctx, key, len(data), err)
		return errors.Wrap(errors.ErrCodeStore, err, "save overlay %s", key)
	}

	observability.Store().OnSave(ctx, key, len(data), nil)
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete overlay %s", key)
	}
	observability.Store().OnDelete(ctx, key)
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
