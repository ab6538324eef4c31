package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/ppiankov/fakecheck/internal/model"
)

// Cache stores opaque values with a TTL
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

const keyPrefix = "fakecheck:v1:"

// Key derives a cache key from the analysed text. The namespace separates
// value kinds (e.g. "report", "fetch") sharing one store.
func Key(namespace, content string) string {
	hash := sha256.Sum256([]byte(content))
	return keyPrefix + namespace + ":" + hex.EncodeToString(hash[:])
}

// Noop is a Cache that stores nothing
type Noop struct{}

func (Noop) Get(string) ([]byte, bool)               { return nil, false }
func (Noop) Set(string, []byte, time.Duration) error { return nil }
func (Noop) Delete(string) error                     { return nil }
func (Noop) Clear() error                            { return nil }

// New builds the cache described by cfg; a disabled cache is a Noop
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return Noop{}
	}
	if cfg.Dir == "" {
		return NewMemoryCache(cfg.MemoryTTL, 2*cfg.MemoryTTL)
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}
