package db

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/parshjain/stockdesk/internal/config"
	apperrors "github.com/parshjain/stockdesk/internal/errors"
)

const (
	healthCheckTimeout = 2 * time.Second
	maxOpenConns       = 10
	maxIdleConns       = 5
	connMaxIdleTime    = 30 * time.Second
)

// ConnectFunc establishes a database connection within the given context.
type ConnectFunc func(ctx context.Context) (*gorm.DB, error)

// PingFunc checks that a cached handle is still usable.
type PingFunc func(ctx context.Context, handle *gorm.DB) error

// Manager owns the process-wide database handle. It reuses the handle
// across requests while it stays healthy, re-establishes it otherwise,
// and coalesces concurrent establishment attempts so that at most one is
// in flight at any time.
type Manager struct {
	cfg     config.DatabaseConfig
	connect ConnectFunc
	ping    PingFunc

	mu      sync.Mutex
	handle  *gorm.DB
	attempt *attempt
}

// attempt is a single in-flight connection establishment. Waiters block
// on done and then read db/err, so every concurrent caller observes the
// same outcome.
type attempt struct {
	done chan struct{}
	db   *gorm.DB
	err  error
}

// NewManager creates a Manager. No I/O happens until Ensure is called.
func NewManager(cfg config.DatabaseConfig) *Manager {
	m := &Manager{cfg: cfg}
	m.connect = m.dial
	m.ping = pingHandle
	return m
}

// Ensure returns a usable database handle, connecting if necessary.
// Connection failure is reported, not retried internally; the next call
// is an independent retry opportunity.
func (m *Manager) Ensure(ctx context.Context) (*gorm.DB, error) {
	m.mu.Lock()
	if m.handle != nil {
		handle := m.handle
		m.mu.Unlock()

		pingCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
		err := m.ping(pingCtx, handle)
		cancel()
		if err == nil {
			return handle, nil
		}

		zap.S().Warnw("cached database handle unhealthy, reconnecting", "error", err)
		m.mu.Lock()
		if m.handle == handle {
			m.handle = nil
		}
	}

	att := m.attempt
	if att == nil {
		att = &attempt{done: make(chan struct{})}
		m.attempt = att
		go m.establish(att)
	}
	m.mu.Unlock()

	select {
	case <-att.done:
		return att.db, att.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// establish runs a single connection attempt and publishes its outcome
// to every waiter.
func (m *Manager) establish(att *attempt) {
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ConnectTimeout)
	defer cancel()

	handle, err := m.connect(ctx)

	m.mu.Lock()
	if err != nil {
		m.handle = nil
		att.err = &apperrors.ConnectionError{Resource: "database", Err: err}
		zap.S().Errorw("database connection failed", "error", err)
	} else {
		m.handle = handle
		att.db = handle
		zap.S().Infow("database connected")
	}
	m.attempt = nil
	m.mu.Unlock()

	close(att.done)
}

// Teardown closes the cached handle, if any. Called on process shutdown.
func (m *Manager) Teardown() {
	m.mu.Lock()
	handle := m.handle
	m.handle = nil
	m.mu.Unlock()

	if handle == nil {
		return
	}
	if sqlDB, err := handle.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			zap.S().Warnw("error closing database handle", "error", err)
		}
	}
}

func (m *Manager) dial(ctx context.Context) (*gorm.DB, error) {
	if m.cfg.URL == "" {
		return nil, &apperrors.ConfigurationError{Message: "DATABASE_URL is not configured"}
	}

	handle, err := gorm.Open(postgres.Open(m.cfg.URL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := handle.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	// gorm.Open does not always touch the network; the ping bounds the
	// actual connection establishment by the attempt context.
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return handle, nil
}

func pingHandle(ctx context.Context, handle *gorm.DB) error {
	sqlDB, err := handle.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// ConnectRedis establishes a connection to Redis. A missing URL is not an
// error: listing caches are simply disabled without a client.
func ConnectRedis(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return client, nil
}
