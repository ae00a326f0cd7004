package lock

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/chafiq1992/order-scanner/internal/domain/shared"
	"github.com/chafiq1992/order-scanner/internal/infrastructure/config"
)

// ScanLockFactory creates scan locks based on configuration
type ScanLockFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ScanLockFactoryOption is a functional option for configuring the factory
type ScanLockFactoryOption func(*ScanLockFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ScanLockFactoryOption {
	return func(f *ScanLockFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory
// lock when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) ScanLockFactoryOption {
	return func(f *ScanLockFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewScanLockFactory creates a new factory
func NewScanLockFactory(cfg config.RedisConfig, opts ...ScanLockFactoryOption) *ScanLockFactory {
	f := &ScanLockFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateLock creates the scan lock. When Redis is enabled it is tried
// first; on failure the in-memory lock is used if fallback is allowed.
func (f *ScanLockFactory) CreateLock() (shared.ScanLock, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("using in-memory scan lock")
		return NewInMemoryScanLock(), nil
	}

	l, err := NewRedisScanLock(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("using Redis scan lock")
		return l, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for scan lock but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory scan lock. "+
		"Concurrent scans of one order are only serialized within this instance.",
		zap.Error(err),
	)
	return NewInMemoryScanLock(), nil
}
