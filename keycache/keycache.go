package keycache

import (
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL is the expiration applied to cached external-call results.
const DefaultTTL = 6 * time.Hour

// Hash generates a deterministic 32-bit rolling hash of s, returned as a
// decimal string. Each character updates the hash as h = h*31 + ch, wrapped
// to a signed 32-bit integer. Hash("") is "0".
func Hash(s string) string {
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	return strconv.Itoa(int(h))
}

// Cache is a time-bounded string cache. The only eviction path is TTL
// expiry; there is no invalidation API.
type Cache struct {
	store *gocache.Cache
}

// NewCache returns a Cache whose entries expire after DefaultTTL unless a
// per-entry TTL is supplied to Do.
func NewCache() *Cache {
	return &Cache{
		store: gocache.New(DefaultTTL, DefaultTTL),
	}
}

// Do looks up key and returns the cached value on a hit. On a miss it invokes
// producer, stores the result under the given TTL and returns it. A producer
// error is returned as-is and nothing is stored.
func (c *Cache) Do(key string, ttl time.Duration, producer func() (string, error)) (string, error) {
	if v, ok := c.store.Get(key); ok {
		return v.(string), nil
	}
	v, err := producer()
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c.store.Set(key, v, ttl)
	return v, nil
}
