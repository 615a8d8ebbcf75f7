package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hashfx/techblog/models"
)

// MongoPostRepository keeps posts in the "posts" collection with a numeric sno
// allocated from the counters collection.
type MongoPostRepository struct {
	col      *mongo.Collection
	counters *counters
}

func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{
		col:      db.Collection("posts"),
		counters: newCounters(db),
	}
}

// List returns every post in insertion order.
func (r *MongoPostRepository) List(ctx context.Context) ([]models.Post, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cur.Close(ctx)

	posts := make([]models.Post, 0)
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

// FindBySlug returns the first post with the slug.
func (r *MongoPostRepository) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *MongoPostRepository) FindBySno(ctx context.Context, sno int64) (*models.Post, error) {
	return r.findOne(ctx, bson.M{"sno": sno})
}

func (r *MongoPostRepository) findOne(ctx context.Context, filter bson.M) (*models.Post, error) {
	var p models.Post
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	if err := r.col.FindOne(ctx, filter, opts).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *MongoPostRepository) Create(ctx context.Context, p *models.Post) error {
	sno, err := r.counters.next(ctx, "posts")
	if err != nil {
		return err
	}
	p.Sno = sno
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *MongoPostRepository) Update(ctx context.Context, p *models.Post) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"sno": p.Sno}, bson.M{
		"$set": bson.M{
			"title":     p.Title,
			"sub_title": p.SubTitle,
			"slug":      p.Slug,
			"content":   p.Content,
			"img_file":  p.ImgFile,
		},
	})
	if err != nil {
		return fmt.Errorf("update post %d: %w", p.Sno, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPostRepository) Delete(ctx context.Context, sno int64) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"sno": sno})
	if err != nil {
		return fmt.Errorf("delete post %d: %w", sno, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
