// Package local is the in-process cache and pub/sub used when no Redis
// address is configured. Single-node deployments and tests run on it;
// the semantics mirror the Redis commands the game relies on.
package local

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrNotFound is returned when a key or member does not exist.
var ErrNotFound = errors.New("cache: key not found")

// Config holds LocalCache settings.
type Config struct {
	GCInterval time.Duration
}

type kvItem struct {
	val string
	exp time.Time // zero means no expiry
}

func (it kvItem) live(now time.Time) bool {
	return it.exp.IsZero() || now.Before(it.exp)
}

// LocalCache keeps string keys, sorted sets and lists under one lock.
// Contention is not a concern at the scale a single node serves.
type LocalCache struct {
	mu    sync.Mutex
	kv    map[string]kvItem
	zsets map[string]map[string]float64
	lists map[string][]string
	done  chan struct{}
}

// NewCache creates a LocalCache and starts the expiry sweeper.
func NewCache(cfg Config) (*LocalCache, error) {
	iv := cfg.GCInterval
	if iv <= 0 {
		iv = 30 * time.Second
	}
	c := &LocalCache{
		kv:    make(map[string]kvItem),
		zsets: make(map[string]map[string]float64),
		lists: make(map[string][]string),
		done:  make(chan struct{}),
	}
	go c.sweep(iv)
	return c, nil
}

// Close stops the expiry sweeper.
func (c *LocalCache) Close() { close(c.done) }

func (c *LocalCache) sweep(iv time.Duration) {
	tk := time.NewTicker(iv)
	defer tk.Stop()
	for {
		select {
		case now := <-tk.C:
			c.mu.Lock()
			for k, it := range c.kv {
				if !it.live(now) {
					delete(c.kv, k)
				}
			}
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}

func (c *LocalCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.kv[key]
	if !ok || !it.live(time.Now()) {
		delete(c.kv, key)
		return "", ErrNotFound
	}
	return it.val, nil
}

func (c *LocalCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	it := kvItem{val: value}
	if ttl > 0 {
		it.exp = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.kv[key] = it
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.kv, k)
	}
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.kv[key]
	if !ok {
		return false, nil
	}
	if !it.live(time.Now()) {
		delete(c.kv, key)
		return false, nil
	}
	return true, nil
}

// clampRange maps Redis-style start/stop (stop may be -1 for "end")
// onto a slice of length n. ok is false when the window is empty.
func clampRange(n int64, start, stop int64) (int64, int64, bool) {
	if start >= n {
		return 0, 0, false
	}
	if stop < 0 || stop >= n {
		stop = n - 1
	}
	if stop < start {
		return 0, 0, false
	}
	return start, stop, true
}

func (c *LocalCache) ZAdd(_ context.Context, key string, score float64, member string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	z := c.zsets[key]
	if z == nil {
		z = make(map[string]float64)
		c.zsets[key] = z
	}
	z[member] = score
	return nil
}

func (c *LocalCache) ZRevRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	z := c.zsets[key]
	members := make([]string, 0, len(z))
	for m := range z {
		members = append(members, m)
	}
	// Highest score first; ties break on member name so ranges are stable.
	sort.Slice(members, func(i, j int) bool {
		si, sj := z[members[i]], z[members[j]]
		if si != sj {
			return si > sj
		}
		return members[i] < members[j]
	})

	start, stop, ok := clampRange(int64(len(members)), start, stop)
	if !ok {
		return nil, nil
	}
	return members[start : stop+1], nil
}

func (c *LocalCache) ZScore(_ context.Context, key, member string) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	score, ok := c.zsets[key][member]
	if !ok {
		return 0, ErrNotFound
	}
	return score, nil
}

func (c *LocalCache) LPush(_ context.Context, key string, values ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	l := c.lists[key]
	// Each pushed value lands at the head, so the last one ends up first.
	for _, v := range values {
		l = append(l, "")
		copy(l[1:], l)
		l[0] = v
	}
	c.lists[key] = l
	return nil
}

func (c *LocalCache) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l := c.lists[key]
	start, stop, ok := clampRange(int64(len(l)), start, stop)
	if !ok {
		return nil, nil
	}
	out := make([]string, stop-start+1)
	copy(out, l[start:stop+1])
	return out, nil
}

func (c *LocalCache) LTrim(_ context.Context, key string, start, stop int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	l := c.lists[key]
	start, stop, ok := clampRange(int64(len(l)), start, stop)
	if !ok {
		delete(c.lists, key)
		return nil
	}
	kept := make([]string, stop-start+1)
	copy(kept, l[start:stop+1])
	c.lists[key] = kept
	return nil
}
