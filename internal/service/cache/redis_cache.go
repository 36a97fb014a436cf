package cache

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	pkgcache "LiqCast/pkg/cache"
)

// RedisConfig carries the connection settings for the shared cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisCache adapts the layered Redis/memory cache to the BytesCache API.
// Hot entries are served from the in-process layer, misses fall through to
// Redis so multiple instances share one history cache.
type RedisCache struct {
	svc pkgcache.Service
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	host, portStr, err := net.SplitHostPort(cfg.Addr)
	if err != nil {
		return nil, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Password),
		pkgcache.WithRedisDB(cfg.DB),
		pkgcache.WithRedisPrefix("liqcast"),
	)
	if err != nil {
		return nil, err
	}
	return &RedisCache{svc: pkgcache.NewLayeredCache(rc)}, nil
}

func (r *RedisCache) GetBytes(key string) ([]byte, bool, error) {
	var s string
	err := r.svc.Get(context.Background(), key, &s)
	if err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(s), true, nil
}

func (r *RedisCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	return r.svc.Set(context.Background(), key, string(value), ttl)
}
