package cache

import (
	"os"
	"time"

	"ecommerce-sessions/config"

	"github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// Store is the byte-oriented cache used by the user service
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
}

// RedisStore adapts the go-utils redis cache to Store
type RedisStore struct {
	c cache.Cache
}

func InitializeCache(cfg config.RedisConfig) *RedisStore {
	c, err := cache.New(cache.Config{
		Type:          "redis",
		RedisAddr:     cfg.Addr,
		RedisPassword: cfg.Password,
		RedisDB:       cfg.DB,
	})
	if err != nil {
		logger.Error("Failed to initialize cache:", zap.Error(err))
		os.Exit(1)
	}
	return &RedisStore{c: c}
}

// Get returns the cached bytes; redis may hand values back as string or []byte
func (s *RedisStore) Get(key string) ([]byte, bool) {
	raw, err := s.c.Get(key)
	if err != nil {
		return nil, false
	}
	switch v := raw.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}

// Set stores value as a string; go-utils JSON-encodes values and a []byte would come back base64
func (s *RedisStore) Set(key string, value []byte, ttl time.Duration) {
	s.c.Set(key, string(value), ttl)
}

func (s *RedisStore) Delete(key string) {
	s.c.Delete(key)
}

func (s *RedisStore) Close() {
	s.c.Close()
}
