package cache

import (
	"context"
	"errors"
	"time"

	pkgcache "SharePulse/pkg/cache"
)

// ServiceBytes adapts a pkg/cache Service (memory, Redis, or layered)
// to the BytesCache API used by the provider clients.
type ServiceBytes struct {
	svc pkgcache.Service
}

func NewServiceBytes(svc pkgcache.Service) *ServiceBytes {
	return &ServiceBytes{svc: svc}
}

func (s *ServiceBytes) GetBytes(key string) ([]byte, bool, error) {
	var b []byte
	if err := s.svc.Get(context.Background(), key, &b); err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

func (s *ServiceBytes) SetBytes(key string, value []byte, ttl time.Duration) error {
	return s.svc.Set(context.Background(), key, value, ttl)
}

var _ BytesCache = (*ServiceBytes)(nil)
