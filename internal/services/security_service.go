package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/parshjain/stockdesk/internal/models"
)

// ConnectionEnsurer yields a ready database handle, establishing the
// connection if necessary. Satisfied by db.Manager.
type ConnectionEnsurer interface {
	Ensure(ctx context.Context) (*gorm.DB, error)
}

const (
	securityNamesCacheKey = "stockdesk:security-names"
	securityNamesCacheTTL = 5 * time.Minute
)

// SecurityService serves the tradeable security name listing.
type SecurityService struct {
	dbm          ConnectionEnsurer
	cache        *redis.Client
	queryTimeout time.Duration
}

// NewSecurityService creates a SecurityService. cache may be nil, which
// disables listing caching.
func NewSecurityService(dbm ConnectionEnsurer, cache *redis.Client, queryTimeout time.Duration) *SecurityService {
	return &SecurityService{dbm: dbm, cache: cache, queryTimeout: queryTimeout}
}

// ListSecurityNames returns all distinct security names sorted ascending,
// with null and empty entries excluded.
func (s *SecurityService) ListSecurityNames(ctx context.Context) ([]string, error) {
	if names, ok := s.cachedNames(ctx); ok {
		return names, nil
	}

	conn, err := s.dbm.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var names []string
	err = conn.WithContext(queryCtx).
		Model(&models.Security{}).
		Where("security_name IS NOT NULL AND security_name <> ''").
		Order("security_name asc").
		Pluck("security_name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("querying security names: %w", err)
	}

	names = dedupeSorted(names)
	s.storeNames(ctx, names)
	return names, nil
}

func (s *SecurityService) cachedNames(ctx context.Context) ([]string, bool) {
	if s.cache == nil {
		return nil, false
	}
	payload, err := s.cache.Get(ctx, securityNamesCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var names []string
	if err := json.Unmarshal(payload, &names); err != nil {
		return nil, false
	}
	return names, true
}

func (s *SecurityService) storeNames(ctx context.Context, names []string) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(names)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, securityNamesCacheKey, payload, securityNamesCacheTTL).Err(); err != nil {
		zap.S().Warnw("failed to cache security names", "error", err)
	}
}

// dedupeSorted removes duplicates while keeping ascending order. The
// query sorts, but collation differences between stores make the Go-side
// sort authoritative.
func dedupeSorted(names []string) []string {
	sort.Strings(names)
	out := names[:0]
	var last string
	for i, name := range names {
		if i == 0 || name != last {
			out = append(out, name)
		}
		last = name
	}
	return out
}
