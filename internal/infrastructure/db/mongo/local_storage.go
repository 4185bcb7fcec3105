package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/work21/portal/internal/core/ports"
)

const storageCollection = "local_storage"

// StorageProvider keeps client-local storage entries as documents keyed by
// "<namespace>:<key>". A TTL index on updated_at expires idle entries.
type StorageProvider struct {
	coll *mongo.Collection
	ttl  time.Duration
}

var _ ports.StorageProvider = (*StorageProvider)(nil)

func NewStorageProvider(db *mongo.Database, ttl time.Duration) *StorageProvider {
	return &StorageProvider{coll: db.Collection(storageCollection), ttl: ttl}
}

// EnsureIndexes creates the namespace lookup index and, when a TTL is
// configured, the expiry index.
func (p *StorageProvider) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "namespace", Value: 1}}},
	}
	if p.ttl > 0 {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(p.ttl.Seconds())),
		})
	}
	if _, err := p.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create storage indexes: %w", err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (p *StorageProvider) Ping(ctx context.Context) error {
	return p.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func (p *StorageProvider) Scope(namespace string) ports.LocalStorage {
	return &scopedStorage{coll: p.coll, namespace: namespace}
}

type storageEntry struct {
	ID        string    `bson:"_id"`
	Namespace string    `bson:"namespace"`
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type scopedStorage struct {
	coll      *mongo.Collection
	namespace string
}

func (s *scopedStorage) id(key string) string {
	return s.namespace + ":" + key
}

func (s *scopedStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var e storageEntry
	if err := s.coll.FindOne(ctx, bson.M{"_id": s.id(key)}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("find storage entry: %w", err)
	}
	return e.Value, true, nil
}

func (s *scopedStorage) Set(ctx context.Context, key, value string) error {
	e := storageEntry{
		ID:        s.id(key),
		Namespace: s.namespace,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": e.ID}, e, opts); err != nil {
		return fmt.Errorf("upsert storage entry: %w", err)
	}
	return nil
}

func (s *scopedStorage) Remove(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": s.id(key)}); err != nil {
		return fmt.Errorf("delete storage entry: %w", err)
	}
	return nil
}
