// Package postgres stores accounts, player profiles and battle history in
// PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/clash/internal/config"
)

// ApplicationName tags clash connections in pg_stat_activity.
const ApplicationName = "clash"

// Tables lists the relations the repositories read and write.
var Tables = []string{"accounts", "players", "battles"}

// ErrSchemaMissing is returned by Health when a repository table does not exist.
var ErrSchemaMissing = errors.New("schema not migrated")

// Pool owns the connection pool shared by the account, player and battle repositories.
type Pool struct {
	pool *pgxpool.Pool
}

// PoolStats is a snapshot of connection usage for status logging.
type PoolStats struct {
	Total    int32
	Idle     int32
	Acquired int32
}

// NewPool connects to the clash database described by cfg.
//
// Precondition: cfg must contain valid database connection parameters.
// Postcondition: Returns a pinged Pool or a non-nil error. The schema is not
// checked; call Health or run Migrate first.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.ConnConfig.RuntimeParams["application_name"] = ApplicationName

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool for %s@%s/%s: %w", cfg.User, cfg.Host, cfg.Name, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging %s/%s: %w", cfg.Host, cfg.Name, err)
	}
	return &Pool{pool: pool}, nil
}

// Health pings the database and checks that every repository table exists,
// all within timeout.
//
// Postcondition: a reachable but unmigrated database returns an error
// wrapping ErrSchemaMissing that names the missing tables.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}
	missing, err := p.MissingTables(ctx)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrSchemaMissing, strings.Join(missing, ", "))
	}
	return nil
}

// MissingTables returns the entries of Tables absent from the current schema,
// in Tables order.
func (p *Pool) MissingTables(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT t FROM unnest($1::text[]) WITH ORDINALITY AS u(t, n)
		 WHERE to_regclass(t) IS NULL ORDER BY n`, Tables)
	if err != nil {
		return nil, fmt.Errorf("checking schema: %w", err)
	}
	defer rows.Close()

	var missing []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		missing = append(missing, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("checking schema: %w", err)
	}
	return missing, nil
}

// Stats reports current connection usage.
func (p *Pool) Stats() PoolStats {
	s := p.pool.Stat()
	return PoolStats{Total: s.TotalConns(), Idle: s.IdleConns(), Acquired: s.AcquiredConns()}
}

// Close releases all pool resources.
//
// Postcondition: The pool is no longer usable after calling Close.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the pgx pool the repositories are constructed from.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
