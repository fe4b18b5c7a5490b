package common

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache is an in-process read-through cache. Every Flush starts a new
// generation; SetIfCurrent drops values read during an earlier one.
type Cache struct {
	*cache.Cache

	mu         sync.Mutex
	generation uint64
}

func NewCache(expirationTime, cleanupTime time.Duration) *Cache {
	return &Cache{Cache: cache.New(expirationTime, cleanupTime)}
}

func (c *Cache) Set(key string, value interface{}, expiration ...time.Duration) {
	if len(expiration) > 0 {
		c.Cache.Set(key, value, expiration[0])
		return
	}
	c.Cache.Set(key, value, cache.DefaultExpiration)
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.Cache.Get(key)
}

// Generation returns the current generation. Take it before reading the source of a value.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// SetIfCurrent stores value only if no Flush happened since generation was taken.
func (c *Cache) SetIfCurrent(key string, value interface{}, generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		return false
	}
	c.Set(key, value)
	return true
}

func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.Cache.Flush()
}

func CacheKeyBlogBySlug(slug string) string {
	return "blog_by_slug:" + slug
}

// CacheKeyOutlines keys a listing by every filter that shapes its result.
func CacheKeyOutlines(status, search string, limit, offset int) string {
	return strings.Join([]string{
		"outlines",
		strconv.Quote(status),
		strconv.Quote(search),
		strconv.Itoa(limit),
		strconv.Itoa(offset),
	}, ":")
}
