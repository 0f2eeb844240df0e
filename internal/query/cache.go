// Package query caches backend reads and drops them when a mutation declares
// them stale.
package query

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Key names one cached read.
type Key string

const (
	Questions  Key = "questions"
	Categories Key = "categories"
)

// QuestionKey names the question+answers read for one question.
func QuestionKey(id int64) Key {
	return Key(fmt.Sprintf("question:%d", id))
}

// Mutation declares which reads a write makes stale.
type Mutation struct {
	Name        string
	Invalidates []Key
}

// Cache is safe for concurrent use.
type Cache struct {
	entries *expirable.LRU[Key, any]
	group   singleflight.Group
	// gen moves on every invalidation so loads that started earlier do not
	// store what they read.
	gen atomic.Uint64
}

// New returns a cache holding at most size entries, each for at most ttl.
// A ttl of zero keeps entries until they are invalidated or evicted.
func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = 256
	}
	return &Cache{entries: expirable.NewLRU[Key, any](size, nil, ttl)}
}

// Fetch returns the cached value for key or loads it with fn. Concurrent
// loads of the same key share one call. Errors are never cached.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error)) (T, error) {
	if v, ok := c.entries.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	v, err, _ := c.group.Do(string(key), func() (any, error) {
		gen := c.gen.Load()
		loaded, err := fn(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if c.gen.Load() == gen {
			c.entries.Add(key, loaded)
		}
		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate drops the given keys.
func (c *Cache) Invalidate(keys ...Key) {
	c.gen.Add(1)
	for _, key := range keys {
		c.entries.Remove(key)
		c.group.Forget(string(key))
	}
}

// Run performs a mutation and, only if it succeeds, invalidates the reads it
// declares.
func (c *Cache) Run(ctx context.Context, m Mutation, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	c.Invalidate(m.Invalidates...)
	return nil
}
