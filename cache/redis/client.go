// Package redis backs the cache interface with a Redis server, which is
// what a multi-node deployment runs so sessions and leaderboards are
// shared across instances.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a key or member does not exist.
var ErrNotFound = errors.New("cache: key not found")

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// connect dials and pings so a bad address fails at startup, not on the
// first request.
func connect(cfg Config) (*goredis.Client, error) {
	cli := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cli.Ping(ctx).Err(); err != nil {
		cli.Close()
		return nil, err
	}
	return cli, nil
}

// RedisCache implements the cache interface over a Redis connection.
type RedisCache struct {
	cli *goredis.Client
}

func NewCache(cfg Config) (*RedisCache, error) {
	cli, err := connect(cfg)
	if err != nil {
		return nil, err
	}
	return &RedisCache{cli: cli}, nil
}

// notFound maps goredis.Nil onto the package sentinel.
func notFound(err error) error {
	if errors.Is(err, goredis.Nil) {
		return ErrNotFound
	}
	return err
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := r.cli.Get(ctx, key).Result()
	return v, notFound(err)
}

func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.cli.Set(ctx, key, value, ttl).Err()
}

func (r *RedisCache) Del(ctx context.Context, keys ...string) error {
	return r.cli.Del(ctx, keys...).Err()
}

func (r *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.cli.Exists(ctx, key).Result()
	return n > 0, err
}

func (r *RedisCache) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return r.cli.ZAdd(ctx, key, goredis.Z{Score: score, Member: member}).Err()
}

func (r *RedisCache) ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return r.cli.ZRevRange(ctx, key, start, stop).Result()
}

func (r *RedisCache) ZScore(ctx context.Context, key, member string) (float64, error) {
	v, err := r.cli.ZScore(ctx, key, member).Result()
	return v, notFound(err)
}

func (r *RedisCache) LPush(ctx context.Context, key string, values ...string) error {
	args := make([]interface{}, len(values))
	for i := range values {
		args[i] = values[i]
	}
	return r.cli.LPush(ctx, key, args...).Err()
}

func (r *RedisCache) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return r.cli.LRange(ctx, key, start, stop).Result()
}

func (r *RedisCache) LTrim(ctx context.Context, key string, start, stop int64) error {
	return r.cli.LTrim(ctx, key, start, stop).Err()
}

// RedisMessage is one received pub/sub payload.
type RedisMessage struct {
	Channel string
	Payload string
}

// RedisPubSub publishes and subscribes over its own connection, kept
// separate from the cache client since SUBSCRIBE takes the connection
// out of request/response mode.
type RedisPubSub struct {
	cli *goredis.Client
}

func NewPubSub(cfg Config) (*RedisPubSub, error) {
	cli, err := connect(cfg)
	if err != nil {
		return nil, err
	}
	return &RedisPubSub{cli: cli}, nil
}

func (r *RedisPubSub) Publish(ctx context.Context, channel, message string) error {
	return r.cli.Publish(ctx, channel, message).Err()
}

func (r *RedisPubSub) Subscribe(ctx context.Context, channels ...string) (<-chan *RedisMessage, func(), error) {
	sub := r.cli.Subscribe(ctx, channels...)
	out := make(chan *RedisMessage, 256)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			out <- &RedisMessage{Channel: msg.Channel, Payload: msg.Payload}
		}
	}()
	return out, func() { _ = sub.Close() }, nil
}
