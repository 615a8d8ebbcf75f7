package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/hashfx/techblog/internal/logger"
	"github.com/hashfx/techblog/config"
)

// Mongo 는 연결된 클라이언트와 블로그 데이터베이스를 묶는다.
type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongo connects, pings and ensures indexes for the blog collections.
func NewMongo(ctx context.Context, cfg config.MongoConfig) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cl, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	// Ping to verify connection
	if err := cl.Ping(ctx, readpref.Primary()); err != nil {
		_ = cl.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	d := cl.Database(cfg.Database)
	if err := EnsureIndexes(ctx, d); err != nil {
		_ = cl.Disconnect(context.Background())
		return nil, err
	}
	logger.InfoWithFields("MongoDB connected and indexes ensured", logger.Fields{"database": cfg.Database})

	return &Mongo{Client: cl, Database: d}, nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the repositories rely on. Safe to call repeatedly.
func EnsureIndexes(ctx context.Context, d *mongo.Database) error {
	// posts: slug lookup, sno lookup
	if _, err := d.Collection("posts").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName("idx_slug"),
		},
		{
			Keys:    bson.D{{Key: "sno", Value: 1}},
			Options: options.Index().SetName("uniq_sno").SetUnique(true),
		},
	}); err != nil {
		return fmt.Errorf("posts indexes: %w", err)
	}

	// contacts: unique sno
	if _, err := d.Collection("contacts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sno", Value: 1}},
		Options: options.Index().SetName("uniq_sno").SetUnique(true),
	}); err != nil {
		return fmt.Errorf("contacts indexes: %w", err)
	}
	return nil
}
