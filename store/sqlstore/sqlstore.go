// Package sqlstore keeps projects in a relational table reached through
// database/sql. Every scan is a keyset range query fetched in batches.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql" // mysql
	_ "github.com/jackc/pgx/v5/stdlib" // pgx
	_ "github.com/mattn/go-sqlite3"    // sqlite3

	"github.com/ncobase/scanpage/config"
	"github.com/ncobase/scanpage/paging"
	"github.com/ncobase/scanpage/project"
	"github.com/ncobase/scanpage/store"
)

// DefaultSQLiteSource is used when the sqlite driver has no source.
const DefaultSQLiteSource = "file:scanpage.db?cache=shared&mode=rwc"

// Store is a project.Store over a *sql.DB.
type Store struct {
	db        *sql.DB
	dialect   Dialect
	batchSize int
	owned     bool
	closed    atomic.Bool
}

var _ project.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithBatchSize sets how many rows each range query fetches.
func WithBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// Open connects to source with the dialect's driver, applies the pool
// settings, verifies the connection and migrates the schema. The store
// owns the connection and closes it on Close.
func Open(ctx context.Context, dialect Dialect, source string, maxOpenConns int, opts ...Option) (*Store, error) {
	if source == "" {
		return nil, fmt.Errorf("sqlstore: %s: connection source is empty", dialect.Name)
	}

	db, err := sql.Open(dialect.DriverName, source)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: %s: failed to open connection: %w", dialect.Name, err)
	}

	if maxOpenConns <= 0 {
		maxOpenConns = dialect.MaxOpenConns
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: %s: failed to ping database: %w", dialect.Name, err)
	}

	s, err := New(ctx, db, dialect, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// New wraps an existing connection and migrates the schema. The caller
// keeps ownership of db.
func New(ctx context.Context, db *sql.DB, dialect Dialect, opts ...Option) (*Store, error) {
	s := &Store{db: db, dialect: dialect, batchSize: store.DefaultBatchSize}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.Schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlstore: %s: migrate: %w", s.dialect.Name, err)
		}
	}
	return nil
}

// Put upserts projects in one transaction.
func (s *Store) Put(ctx context.Context, projects ...*project.Project) (err error) {
	if s.closed.Load() {
		return store.ErrClosed
	}
	if err := project.Validate(projects); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlstore: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, s.dialect.Placeholders(s.dialect.Upsert))
	if err != nil {
		return fmt.Errorf("sqlstore: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range projects {
		if p == nil {
			continue
		}
		if _, err = stmt.ExecContext(ctx, p.Name, p.Mtime.UnixNano()); err != nil {
			return fmt.Errorf("sqlstore: upsert %q: %w", p.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("sqlstore: commit: %w", err)
	}
	return nil
}

// Clear deletes every project.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		return fmt.Errorf("sqlstore: clear: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection if the store opened it.
func (s *Store) Close() error {
	if s.closed.Swap(true) || !s.owned {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ByName(ctx context.Context, order paging.Order) (paging.Iterator[*project.Project], error) {
	return s.scan(ctx, order, byName(order), func(last *project.Project) query {
		return byNameAfter(order, last.Name)
	})
}

func (s *Store) ByNameAfter(ctx context.Context, order paging.Order, name string) (paging.Iterator[*project.Project], error) {
	return s.scan(ctx, order, byNameAfter(order, name), func(last *project.Project) query {
		return byNameAfter(order, last.Name)
	})
}

func (s *Store) ByMtime(ctx context.Context, order paging.Order) (paging.Iterator[*project.Project], error) {
	return s.scan(ctx, order, byMtime(order), func(last *project.Project) query {
		return byMtimeAfter(order, last.Mtime.UnixNano(), last.Name)
	})
}

func (s *Store) ByMtimeAfter(ctx context.Context, order paging.Order, key project.MtimeKey) (paging.Iterator[*project.Project], error) {
	return s.scan(ctx, order, byMtimeAfter(order, key.Mtime.UnixNano(), key.Name), func(last *project.Project) query {
		return byMtimeAfter(order, last.Mtime.UnixNano(), last.Name)
	})
}

// scan runs first, then next(last item) for every following batch.
func (s *Store) scan(ctx context.Context, order paging.Order, first query, next func(*project.Project) query) (paging.Iterator[*project.Project], error) {
	if s.closed.Load() {
		return nil, store.ErrClosed
	}
	if !order.Valid() {
		return nil, paging.ErrUnsupportedMode
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return store.Batched(s.batchSize, func(ctx context.Context, last **project.Project, n int) ([]*project.Project, error) {
		q := first
		if last != nil {
			q = next(*last)
		}
		return s.fetch(ctx, q, n)
	}), nil
}

func (s *Store) fetch(ctx context.Context, q query, n int) ([]*project.Project, error) {
	if s.closed.Load() {
		return nil, store.ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, s.dialect.Placeholders(q.sql), append(q.args, n)...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: query: %w", err)
	}
	defer rows.Close()

	out := make([]*project.Project, 0, n)
	for rows.Next() {
		var (
			name  string
			mtime int64
		)
		if err := rows.Scan(&name, &mtime); err != nil {
			return nil, fmt.Errorf("sqlstore: scan: %w", err)
		}
		out = append(out, &project.Project{Name: name, Mtime: time.Unix(0, mtime).UTC()})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: rows: %w", err)
	}
	return out, nil
}

type driver struct {
	dialect Dialect
}

func (d driver) Name() string { return d.dialect.Name }

func (d driver) Open(ctx context.Context, cfg *config.Store) (project.Store, error) {
	if cfg == nil {
		return nil, errors.New("sqlstore: config is nil")
	}
	source := cfg.Source
	if source == "" && d.dialect.Name == SQLite.Name {
		source = DefaultSQLiteSource
	}
	return Open(ctx, d.dialect, source, cfg.MaxOpenConns)
}

func init() {
	for _, d := range []Dialect{SQLite, MySQL, Postgres} {
		store.Register(driver{dialect: d})
	}
}
