package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hashfx/techblog/models"
)

type MongoContactRepository struct {
	col      *mongo.Collection
	counters *counters
}

func NewMongoContactRepository(db *mongo.Database) *MongoContactRepository {
	return &MongoContactRepository{
		col:      db.Collection("contacts"),
		counters: newCounters(db),
	}
}

func (r *MongoContactRepository) Create(ctx context.Context, c *models.Contact) error {
	sno, err := r.counters.next(ctx, "contacts")
	if err != nil {
		return err
	}
	c.Sno = sno
	if _, err := r.col.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}
