package cache

import (
	"context"
	"time"

	"github.com/mistfall/emberhold/cache/local"
	cacheredis "github.com/mistfall/emberhold/cache/redis"
)

// Cache defines the KV / ZSet / List operations the game needs: session
// keys, leaderboards, and chat history. When no Redis is configured the
// in-process implementation serves the same interface, so a missing
// cache backend degrades to local-only state instead of failing.
type Cache interface {
	// KV
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// ZSet (leaderboards)
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZScore(ctx context.Context, key, member string) (float64, error)

	// List (chat history)
	LPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LTrim(ctx context.Context, key string, start, stop int64) error
}

// Message is a received pub/sub message.
type Message struct {
	Channel string
	Payload string
}

// PubSub defines channel publish/subscribe operations.
type PubSub interface {
	Publish(ctx context.Context, channel, message string) error
	Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error)
}

// Config holds configuration for both Redis and the local cache.
type Config struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
	LocalPubSubBuf  int           `mapstructure:"local_pubsub_buf"`
}

// New returns a Cache backed by Redis if RedisAddr is set, otherwise an
// in-process local cache.
func New(cfg Config) (Cache, error) {
	if cfg.RedisAddr != "" {
		return cacheredis.NewCache(cacheredis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	return local.NewCache(local.Config{GCInterval: cfg.LocalGCInterval})
}

// NewPubSub returns a PubSub backed by Redis if RedisAddr is set,
// otherwise an in-process fan-out.
func NewPubSub(cfg Config) (PubSub, error) {
	bufSize := cfg.LocalPubSubBuf
	if bufSize <= 0 {
		bufSize = 256
	}
	if cfg.RedisAddr != "" {
		rps, err := cacheredis.NewPubSub(cacheredis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return &pubSubBridge{
			publish: rps.Publish,
			subscribe: func(ctx context.Context, channels ...string) (<-chan *Message, func(), error) {
				src, cancel, err := rps.Subscribe(ctx, channels...)
				if err != nil {
					return nil, nil, err
				}
				return relay(src, func(m *cacheredis.RedisMessage) *Message {
					return &Message{Channel: m.Channel, Payload: m.Payload}
				}), cancel, nil
			},
		}, nil
	}

	lps := local.NewPubSub(bufSize)
	return &pubSubBridge{
		publish: lps.Publish,
		subscribe: func(ctx context.Context, channels ...string) (<-chan *Message, func(), error) {
			src, cancel, err := lps.Subscribe(ctx, channels...)
			if err != nil {
				return nil, nil, err
			}
			return relay(src, func(m *local.LocalMessage) *Message {
				return &Message{Channel: m.Channel, Payload: m.Payload}
			}), cancel, nil
		},
	}, nil
}

// pubSubBridge lifts a backend's message type to cache.Message so the
// rest of the code never imports a cache sub-package.
type pubSubBridge struct {
	publish   func(ctx context.Context, channel, message string) error
	subscribe func(ctx context.Context, channels ...string) (<-chan *Message, func(), error)
}

func (b *pubSubBridge) Publish(ctx context.Context, channel, message string) error {
	return b.publish(ctx, channel, message)
}

func (b *pubSubBridge) Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error) {
	return b.subscribe(ctx, channels...)
}

func relay[T any](src <-chan T, conv func(T) *Message) <-chan *Message {
	out := make(chan *Message, 256)
	go func() {
		defer close(out)
		for m := range src {
			out <- conv(m)
		}
	}()
	return out
}
