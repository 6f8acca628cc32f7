package session

import (
	"context"
	"errors"

	"github.com/klokku/cleancal/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/samber/mo"
	log "github.com/sirupsen/logrus"
)

// RedisStore keeps the token in Redis, for clients sharing a session across
// several processes on one device.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{
		client: client,
		key:    "cleancal:session:" + key,
	}
}

func NewRedisStoreFromConfig(cfg config.Redis, key string) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisStore(client, key)
}

func (r *RedisStore) Get(ctx context.Context) mo.Option[string] {
	val, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return mo.None[string]()
	}
	if err != nil {
		log.Warnf("session lookup in redis failed, treating as logged out: %v", err)
		return mo.None[string]()
	}
	return tokenOption(val)
}

func (r *RedisStore) Set(ctx context.Context, token string) error {
	return r.client.Set(ctx, r.key, token, 0).Err()
}

func (r *RedisStore) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
