// Package mongostore keeps projects in a MongoDB collection, one document
// per project keyed by name:
//
//	{_id: <name>, mtime: <unix nanoseconds>}
//
// Scans are keyset queries sorted on (_id) or (mtime, _id), each served by
// its own index.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ncobase/scanpage/config"
	"github.com/ncobase/scanpage/paging"
	"github.com/ncobase/scanpage/project"
	"github.com/ncobase/scanpage/store"
)

// DriverName is the store.driver value selecting this backend.
const DriverName = "mongo"

const (
	DefaultDatabase   = "scanpage"
	DefaultCollection = "projects"
)

// connectTimeout bounds Connect plus the initial ping.
const connectTimeout = 10 * time.Second

type document struct {
	Name  string `bson:"_id"`
	Mtime int64  `bson:"mtime"`
}

// Store is a project.Store over a MongoDB collection.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
	batchSize  int
	owned      bool
	closed     atomic.Bool
}

var _ project.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithBatchSize sets how many documents each query fetches.
func WithBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// New uses collection and creates the mtime indexes. The caller keeps
// ownership of the client.
func New(ctx context.Context, collection *mongo.Collection, opts ...Option) (*Store, error) {
	s := &Store{
		client:     collection.Database().Client(),
		collection: collection,
		batchSize:  store.DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Open connects to uri and uses database.collection. The store owns the
// client and disconnects it on Close.
func Open(ctx context.Context, uri string, cfg *config.Mongo, opts ...Option) (*Store, error) {
	if uri == "" {
		return nil, errors.New("mongostore: uri is empty")
	}
	database, collection := DefaultDatabase, DefaultCollection
	if cfg != nil {
		if cfg.Database != "" {
			database = cfg.Database
		}
		if cfg.Collection != "" {
			collection = cfg.Collection
		}
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: failed to connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: failed to ping: %w", err)
	}

	s, err := New(ctx, client.Database(database).Collection(collection), opts...)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	s.owned = true
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "mtime", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "mtime", Value: -1}, {Key: "_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("mongostore: create indexes: %w", err)
	}
	return nil
}

// Put upserts projects in one ordered bulk write. It is not atomic across
// documents; a failed write leaves the earlier ones applied.
func (s *Store) Put(ctx context.Context, projects ...*project.Project) error {
	if s.closed.Load() {
		return store.ErrClosed
	}
	if err := project.Validate(projects); err != nil {
		return err
	}
	var models []mongo.WriteModel
	for _, p := range projects {
		if p == nil {
			continue
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "_id", Value: p.Name}}).
			SetReplacement(document{Name: p.Name, Mtime: p.Mtime.UnixNano()}).
			SetUpsert(true))
	}
	if len(models) == 0 {
		return nil
	}
	if _, err := s.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("mongostore: put: %w", err)
	}
	return nil
}

// Clear drops the collection and recreates its indexes.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.collection.Drop(ctx); err != nil {
		return fmt.Errorf("mongostore: drop: %w", err)
	}
	return s.migrate(ctx)
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client if the store opened it.
func (s *Store) Close() error {
	if s.closed.Swap(true) || !s.owned {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) ByName(ctx context.Context, order paging.Order) (paging.Iterator[*project.Project], error) {
	return s.scan(ctx, order, nil, nameSort(order), func(last *project.Project) bson.D {
		return nameAfter(order, last.Name)
	})
}

func (s *Store) ByNameAfter(ctx context.Context, order paging.Order, name string) (paging.Iterator[*project.Project], error) {
	return s.scan(ctx, order, nameAfter(order, name), nameSort(order), func(last *project.Project) bson.D {
		return nameAfter(order, last.Name)
	})
}

func (s *Store) ByMtime(ctx context.Context, order paging.Order) (paging.Iterator[*project.Project], error) {
	return s.scan(ctx, order, nil, mtimeSort(order), func(last *project.Project) bson.D {
		return mtimeAfter(order, last.Mtime.UnixNano(), last.Name)
	})
}

func (s *Store) ByMtimeAfter(ctx context.Context, order paging.Order, key project.MtimeKey) (paging.Iterator[*project.Project], error) {
	return s.scan(ctx, order, mtimeAfter(order, key.Mtime.UnixNano(), key.Name), mtimeSort(order), func(last *project.Project) bson.D {
		return mtimeAfter(order, last.Mtime.UnixNano(), last.Name)
	})
}

// scan runs first and then next(last) batch by batch; a nil first matches
// every document.
func (s *Store) scan(ctx context.Context, order paging.Order, first, sort bson.D, next func(last *project.Project) bson.D) (paging.Iterator[*project.Project], error) {
	if s.closed.Load() {
		return nil, store.ErrClosed
	}
	if !order.Valid() {
		return nil, paging.ErrUnsupportedMode
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if first == nil {
		first = bson.D{}
	}
	return store.Batched(s.batchSize, func(ctx context.Context, last **project.Project, n int) ([]*project.Project, error) {
		filter := first
		if last != nil {
			filter = next(*last)
		}
		return s.find(ctx, filter, sort, n)
	}), nil
}

func (s *Store) find(ctx context.Context, filter, sort bson.D, n int) ([]*project.Project, error) {
	if s.closed.Load() {
		return nil, store.ErrClosed
	}
	cur, err := s.collection.Find(ctx, filter, options.Find().SetSort(sort).SetLimit(int64(n)))
	if err != nil {
		return nil, fmt.Errorf("mongostore: find: %w", err)
	}
	defer cur.Close(ctx)

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongostore: decode: %w", err)
	}
	out := make([]*project.Project, len(docs))
	for i, d := range docs {
		out[i] = &project.Project{Name: d.Name, Mtime: time.Unix(0, d.Mtime).UTC()}
	}
	return out, nil
}

func direction(order paging.Order) int {
	if order == paging.Descending {
		return -1
	}
	return 1
}

func nameSort(order paging.Order) bson.D {
	return bson.D{{Key: "_id", Value: direction(order)}}
}

// mtimeSort breaks mtime ties by name ascending in both directions.
func mtimeSort(order paging.Order) bson.D {
	return bson.D{{Key: "mtime", Value: direction(order)}, {Key: "_id", Value: 1}}
}

func nameAfter(order paging.Order, name string) bson.D {
	op := "$gt"
	if order == paging.Descending {
		op = "$lt"
	}
	return bson.D{{Key: "_id", Value: bson.D{{Key: op, Value: name}}}}
}

func mtimeAfter(order paging.Order, nanos int64, name string) bson.D {
	op := "$gt"
	if order == paging.Descending {
		op = "$lt"
	}
	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "mtime", Value: bson.D{{Key: op, Value: nanos}}}},
		bson.D{{Key: "mtime", Value: nanos}, {Key: "_id", Value: bson.D{{Key: "$gt", Value: name}}}},
	}}}
}

type driver struct{}

func (driver) Name() string { return DriverName }

func (driver) Open(ctx context.Context, cfg *config.Store) (project.Store, error) {
	return Open(ctx, cfg.Source, cfg.Mongo)
}

func init() {
	store.Register(driver{})
}
