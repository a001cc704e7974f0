package cache

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Defaults for [NewMongoCache] when the URL names no database.
const (
	DefaultMongoDatabase   = "cdspice"
	DefaultMongoCollection = "artifacts"
)

// MongoCache stores entries as documents in a MongoDB collection.
// A TTL index on expires_at lets the server purge expired entries; Get also
// checks expiry because the TTL monitor runs only once a minute.
type MongoCache struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoEntry struct {
	Key       string     `bson:"_id"`
	Data      []byte     `bson:"data"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// NewMongoCache connects to uri and uses the database named in its path, or
// [DefaultMongoDatabase].
func NewMongoCache(ctx context.Context, uri string) (*MongoCache, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &BackendError{Backend: "mongodb", Op: "ping", Err: err}
	}

	coll := client.Database(mongoDatabase(uri)).Collection(DefaultMongoCollection)
	c, err := NewMongoCacheFromCollection(ctx, coll)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	c.client = client
	return c, nil
}

// NewMongoCacheFromCollection uses an existing collection and ensures its
// TTL index. Close does not disconnect the collection's client.
func NewMongoCacheFromCollection(ctx context.Context, coll *mongo.Collection) (*MongoCache, error) {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return nil, fmt.Errorf("create ttl index: %w", err)
	}
	return &MongoCache{coll: coll}, nil
}

func mongoDatabase(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return DefaultMongoDatabase
	}
	if db := strings.Trim(u.Path, "/"); db != "" {
		return db
	}
	return DefaultMongoDatabase
}

// Get retrieves a value.
func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry mongoEntry
	err := c.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &BackendError{Backend: "mongodb", Op: "find", Err: err}
	}
	if entry.ExpiresAt != nil && time.Now().After(*entry.ExpiresAt) {
		_ = c.Delete(ctx, key)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set stores a value.
func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := mongoEntry{Key: key, Data: data}
	if ttl > 0 {
		exp := time.Now().Add(ttl)
		entry.ExpiresAt = &exp
	}
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": key}, entry, options.Replace().SetUpsert(true))
	if err != nil {
		return &BackendError{Backend: "mongodb", Op: "replace", Err: err}
	}
	return nil
}

// Delete removes a value.
func (c *MongoCache) Delete(ctx context.Context, key string) error {
	if _, err := c.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return &BackendError{Backend: "mongodb", Op: "delete", Err: err}
	}
	return nil
}

// Close disconnects the client created by [NewMongoCache].
func (c *MongoCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Disconnect(context.Background())
}

var _ Cache = (*MongoCache)(nil)
