// Package postgres persists extraction snapshots in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/hwextract/internal/config"
)

// ApplicationName tags every connection so snapshot writers are visible in
// pg_stat_activity.
const ApplicationName = "hwextract"

// ConnectTimeout bounds each new connection attempt.
const ConnectTimeout = 10 * time.Second

// Pool is the connection pool snapshot repositories run on.
type Pool struct {
	pool *pgxpool.Pool
}

// PoolConfig builds the pgx pool configuration for cfg.
//
// Postcondition: connections carry ApplicationName and time out after
// ConnectTimeout; pool sizing follows cfg.
func PoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.ConnConfig.ConnectTimeout = ConnectTimeout
	poolCfg.ConnConfig.RuntimeParams["application_name"] = ApplicationName
	return poolCfg, nil
}

// NewPool connects to the database described by cfg and verifies it answers.
//
// Postcondition: Returns a connected Pool or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database %s@%s:%d/%s: %w", cfg.User, cfg.Host, cfg.Port, cfg.Name, err)
	}
	return &Pool{pool: pool}, nil
}

// Snapshots returns a SnapshotRepository on this pool.
func (p *Pool) Snapshots() *SnapshotRepository {
	return NewSnapshotRepository(p.pool)
}

// DB returns the underlying pgxpool.Pool.
func (p *Pool) DB() *pgxpool.Pool { return p.pool }

// Close releases all pool resources.
func (p *Pool) Close() { p.pool.Close() }
