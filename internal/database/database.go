// Package database bootstraps the PostgreSQL connection pool.
// Pooling itself is delegated to pgxpool.
package database

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"commodity-price/internal/errors"
)

// ErrInactive is returned by Start when the database is switched off
var ErrInactive = stderrors.New("database is not active")

// Config describes how to reach the database
type Config struct {
	// Active switches the database on
	Active bool `json:"active" mapstructure:"active"`

	// URL, when set, replaces the individual connection fields
	URL string `json:"url,omitempty" mapstructure:"url"`

	Host     string `json:"host" mapstructure:"host"`
	Port     int    `json:"port" mapstructure:"port"`
	User     string `json:"user" mapstructure:"user"`
	Password string `json:"-" mapstructure:"password"`
	Name     string `json:"name" mapstructure:"name"`

	// PoolMin and PoolMax bound the number of pooled connections
	PoolMin int32 `json:"pool_min" mapstructure:"pool_min"`
	PoolMax int32 `json:"pool_max" mapstructure:"pool_max"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Active:  false,
		Host:    "localhost",
		Port:    5432,
		PoolMin: 2,
		PoolMax: 10,
	}
}

// Validate checks the pool bounds and, without a URL, the connection fields
func (c Config) Validate() error {
	if c.URL == "" {
		if c.Host == "" {
			return errors.New(errors.TypeConfig, "database host is required")
		}
		if c.User == "" {
			return errors.New(errors.TypeConfig, "database user is required")
		}
		if c.Port <= 0 || c.Port > 65535 {
			return errors.Newf(errors.TypeConfig, "database port out of range: %d", c.Port)
		}
	}
	if c.PoolMax <= 0 {
		return errors.Newf(errors.TypeConfig, "database pool max must be positive, got %d", c.PoolMax)
	}
	if c.PoolMin < 0 || c.PoolMin > c.PoolMax {
		return errors.Newf(errors.TypeConfig, "database pool min must be within [0, %d], got %d", c.PoolMax, c.PoolMin)
	}
	return nil
}

// ConnString renders the postgres:// connection string
func (c Config) ConnString() string {
	if c.URL != "" {
		return c.URL
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else {
		u.User = url.User(c.User)
	}
	return u.String()
}

// poolConfig parses the connection string and applies the pool bounds
func (c Config) poolConfig() (*pgxpool.Config, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	pc, err := pgxpool.ParseConfig(c.ConnString())
	if err != nil {
		return nil, errors.Config("invalid database connection string", err)
	}
	pc.MinConns = c.PoolMin
	pc.MaxConns = c.PoolMax
	return pc, nil
}

// Manager owns the connection pool
type Manager struct {
	pool      *pgxpool.Pool
	logger    *zap.Logger
	closeOnce sync.Once
}

// Start opens the pool. Connections are established lazily by pgxpool.
func Start(ctx context.Context, cfg Config, logger *zap.Logger) (*Manager, error) {
	if !cfg.Active {
		return nil, ErrInactive
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pc, err := cfg.poolConfig()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, errors.Database("failed to start connection pool", err)
	}

	logger.Info("database pool started",
		zap.String("host", pc.ConnConfig.Host),
		zap.Uint16("port", pc.ConnConfig.Port),
		zap.String("database", pc.ConnConfig.Database),
		zap.Int32("pool_min", pc.MinConns),
		zap.Int32("pool_max", pc.MaxConns),
	)

	return &Manager{pool: pool, logger: logger}, nil
}

// Ping checks a connection can be acquired and used
func (m *Manager) Ping(ctx context.Context) error {
	if err := m.pool.Ping(ctx); err != nil {
		return errors.Database("database ping failed", err)
	}
	return nil
}

// Stats reports the pool counters
func (m *Manager) Stats() string {
	s := m.pool.Stat()
	return fmt.Sprintf("total=%d idle=%d acquired=%d max=%d",
		s.TotalConns(), s.IdleConns(), s.AcquiredConns(), s.MaxConns())
}

// Close releases every pooled connection. Safe to call more than once.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		m.pool.Close()
		m.logger.Info("database pool closed")
	})
}
