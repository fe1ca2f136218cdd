// Package redisstore keeps projects in Redis sorted sets scored 0 and read
// with ZRANGE BYLEX, which compares members bytewise.
//
// Keys under the prefix:
//
//	<prefix>:projects:name        members are names
//	<prefix>:projects:mtime:asc   members are hex(mtime) + name
//	<prefix>:projects:mtime:desc  members are hex(^mtime) + name
//	<prefix>:projects:mtime       hash from name to mtime nanoseconds
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ncobase/scanpage/config"
	"github.com/ncobase/scanpage/paging"
	"github.com/ncobase/scanpage/project"
	"github.com/ncobase/scanpage/store"
)

// DriverName is the store.driver value selecting this backend.
const DriverName = "redis"

// DefaultKeyPrefix prefixes every key when none is configured.
const DefaultKeyPrefix = "scanpage"

// hexWidth is the width of the mtime prefix of the mtime index members.
const hexWidth = 16

// maxWatchRetries bounds optimistic retries of Put under contention.
const maxWatchRetries = 8

// Store is a project.Store over a Redis client.
type Store struct {
	client    redis.UniversalClient
	keys      keys
	batchSize int
	owned     bool
	closed    atomic.Bool
}

type keys struct {
	names, mtimeAsc, mtimeDesc, mtimes string
}

func newKeys(prefix string) keys {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	base := prefix + ":projects"
	return keys{
		names:     base + ":name",
		mtimeAsc:  base + ":mtime:asc",
		mtimeDesc: base + ":mtime:desc",
		mtimes:    base + ":mtime",
	}
}

var _ project.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithBatchSize sets how many members each ZRANGE fetches.
func WithBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// New wraps client; the caller keeps ownership of it.
func New(client redis.UniversalClient, prefix string, opts ...Option) *Store {
	s := &Store{client: client, keys: newKeys(prefix), batchSize: store.DefaultBatchSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open connects with cfg and verifies the server answers. The store owns
// the client and closes it on Close.
func Open(ctx context.Context, cfg *config.Redis, opts ...Option) (*Store, error) {
	if cfg == nil || cfg.Addr == "" {
		return nil, errors.New("redisstore: address is empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.Db,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		DialTimeout:  cfg.DialTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redisstore: failed to ping server: %w", err)
	}

	s := New(client, cfg.KeyPrefix, opts...)
	s.owned = true
	return s, nil
}

// Put inserts or replaces projects. The name-to-mtime hash is watched so
// a concurrent replace of the same name cannot leave stale index members.
func (s *Store) Put(ctx context.Context, projects ...*project.Project) error {
	if s.closed.Load() {
		return store.ErrClosed
	}
	if err := project.Validate(projects); err != nil {
		return err
	}
	var batch []*project.Project
	for _, p := range projects {
		if p != nil {
			batch = append(batch, p)
		}
	}
	if len(batch) == 0 {
		return nil
	}
	names := make([]string, len(batch))
	for i, p := range batch {
		names[i] = p.Name
	}

	put := func(tx *redis.Tx) error {
		olds, err := tx.HMGet(ctx, s.keys.mtimes, names...).Result()
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, p := range batch {
				if raw, ok := olds[i].(string); ok {
					if nanos, err := strconv.ParseInt(raw, 10, 64); err == nil {
						pipe.ZRem(ctx, s.keys.mtimeAsc, ascMember(nanos, p.Name))
						pipe.ZRem(ctx, s.keys.mtimeDesc, descMember(nanos, p.Name))
					}
				}
				nanos := p.Mtime.UnixNano()
				pipe.ZAdd(ctx, s.keys.names, redis.Z{Member: p.Name})
				pipe.ZAdd(ctx, s.keys.mtimeAsc, redis.Z{Member: ascMember(nanos, p.Name)})
				pipe.ZAdd(ctx, s.keys.mtimeDesc, redis.Z{Member: descMember(nanos, p.Name)})
				pipe.HSet(ctx, s.keys.mtimes, p.Name, nanos)
			}
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := s.client.Watch(ctx, put, s.keys.mtimes)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("redisstore: put: %w", err)
		}
		return nil
	}
	return fmt.Errorf("redisstore: put: %w", redis.TxFailedErr)
}

// Clear deletes every key of the store.
func (s *Store) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.keys.names, s.keys.mtimeAsc, s.keys.mtimeDesc, s.keys.mtimes).Err()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client if the store opened it.
func (s *Store) Close() error {
	if s.closed.Swap(true) || !s.owned {
		return nil
	}
	return s.client.Close()
}

func (s *Store) ByName(ctx context.Context, order paging.Order) (paging.Iterator[*project.Project], error) {
	return s.byName(ctx, order, "", false)
}

func (s *Store) ByNameAfter(ctx context.Context, order paging.Order, name string) (paging.Iterator[*project.Project], error) {
	return s.byName(ctx, order, name, true)
}

func (s *Store) ByMtime(ctx context.Context, order paging.Order) (paging.Iterator[*project.Project], error) {
	return s.byMtime(ctx, order, "", false)
}

func (s *Store) ByMtimeAfter(ctx context.Context, order paging.Order, key project.MtimeKey) (paging.Iterator[*project.Project], error) {
	member := ascMember(key.Mtime.UnixNano(), key.Name)
	if order == paging.Descending {
		member = descMember(key.Mtime.UnixNano(), key.Name)
	}
	return s.byMtime(ctx, order, member, true)
}

func (s *Store) check(ctx context.Context, order paging.Order) error {
	if s.closed.Load() {
		return store.ErrClosed
	}
	if !order.Valid() {
		return paging.ErrUnsupportedMode
	}
	return ctx.Err()
}

// byName scans the name index, strictly after name when seek is set.
func (s *Store) byName(ctx context.Context, order paging.Order, name string, seek bool) (paging.Iterator[*project.Project], error) {
	if err := s.check(ctx, order); err != nil {
		return nil, err
	}
	rev := order == paging.Descending
	return store.Batched(s.batchSize, func(ctx context.Context, last **project.Project, n int) ([]*project.Project, error) {
		bound, bounded := name, seek
		if last != nil {
			bound, bounded = (*last).Name, true
		}
		members, err := s.client.ZRangeArgs(ctx, lexRange(s.keys.names, rev, bound, bounded, n)).Result()
		if err != nil {
			return nil, fmt.Errorf("redisstore: range names: %w", err)
		}
		if len(members) == 0 {
			return nil, nil
		}
		raw, err := s.client.HMGet(ctx, s.keys.mtimes, members...).Result()
		if err != nil {
			return nil, fmt.Errorf("redisstore: mtimes: %w", err)
		}
		out := make([]*project.Project, 0, len(members))
		for i, m := range members {
			str, ok := raw[i].(string)
			if !ok {
				return nil, fmt.Errorf("redisstore: %q has no mtime", m)
			}
			nanos, err := strconv.ParseInt(str, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("redisstore: mtime of %q: %w", m, err)
			}
			out = append(out, &project.Project{Name: m, Mtime: time.Unix(0, nanos).UTC()})
		}
		return out, nil
	}), nil
}

// byMtime scans one of the mtime indexes, strictly after member when seek
// is set. Both indexes are walked forwards.
func (s *Store) byMtime(ctx context.Context, order paging.Order, member string, seek bool) (paging.Iterator[*project.Project], error) {
	if err := s.check(ctx, order); err != nil {
		return nil, err
	}
	key, decode := s.keys.mtimeAsc, parseAscMember
	if order == paging.Descending {
		key, decode = s.keys.mtimeDesc, parseDescMember
	}
	return store.Batched(s.batchSize, func(ctx context.Context, last **project.Project, n int) ([]*project.Project, error) {
		bound, bounded := member, seek
		if last != nil {
			bound, bounded = encodeFor(order, *last), true
		}
		members, err := s.client.ZRangeArgs(ctx, lexRange(key, false, bound, bounded, n)).Result()
		if err != nil {
			return nil, fmt.Errorf("redisstore: range mtimes: %w", err)
		}
		out := make([]*project.Project, 0, len(members))
		for _, m := range members {
			p, err := decode(m)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
		return out, nil
	}), nil
}

// lexRange builds a ZRANGE BYLEX over key. Forward ranges start strictly
// after bound; reverse ranges start strictly before it. go-redis places
// Stop before Start on the wire when Rev is set, so Start stays the
// minimum either way.
func lexRange(key string, rev bool, bound string, bounded bool, n int) redis.ZRangeArgs {
	args := redis.ZRangeArgs{Key: key, ByLex: true, Rev: rev, Count: int64(n), Start: "-", Stop: "+"}
	if bounded {
		if rev {
			args.Stop = "(" + bound
		} else {
			args.Start = "(" + bound
		}
	}
	return args
}

func encodeFor(order paging.Order, p *project.Project) string {
	if order == paging.Descending {
		return descMember(p.Mtime.UnixNano(), p.Name)
	}
	return ascMember(p.Mtime.UnixNano(), p.Name)
}

func ascMember(nanos int64, name string) string {
	return fmt.Sprintf("%016x", uint64(nanos)^(1<<63)) + name
}

func descMember(nanos int64, name string) string {
	return fmt.Sprintf("%016x", ^(uint64(nanos) ^ (1 << 63))) + name
}

func parseAscMember(m string) (*project.Project, error) {
	prefix, name, err := splitMember(m)
	if err != nil {
		return nil, err
	}
	return &project.Project{Name: name, Mtime: time.Unix(0, int64(prefix^(1<<63))).UTC()}, nil
}

func parseDescMember(m string) (*project.Project, error) {
	prefix, name, err := splitMember(m)
	if err != nil {
		return nil, err
	}
	return &project.Project{Name: name, Mtime: time.Unix(0, int64(^prefix^(1<<63))).UTC()}, nil
}

func splitMember(m string) (uint64, string, error) {
	if len(m) < hexWidth {
		return 0, "", fmt.Errorf("redisstore: malformed index member %q", m)
	}
	prefix, err := strconv.ParseUint(m[:hexWidth], 16, 64)
	if err != nil {
		return 0, "", fmt.Errorf("redisstore: malformed index member %q: %w", m, err)
	}
	return prefix, m[hexWidth:], nil
}

type driver struct{}

func (driver) Name() string { return DriverName }

func (driver) Open(ctx context.Context, cfg *config.Store) (project.Store, error) {
	if cfg == nil {
		return nil, errors.New("redisstore: config is nil")
	}
	return Open(ctx, cfg.Redis)
}

func init() {
	store.Register(driver{})
}
