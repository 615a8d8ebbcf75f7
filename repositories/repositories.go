package repositories

import (
	"context"
	"errors"

	"github.com/hashfx/techblog/models"
)

// ErrNotFound is returned by every implementation when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// PostRepository stores blog posts. List returns posts in the store's natural order.
type PostRepository interface {
	List(ctx context.Context) ([]models.Post, error)
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
	FindBySno(ctx context.Context, sno int64) (*models.Post, error)
	// Create assigns p.Sno.
	Create(ctx context.Context, p *models.Post) error
	// Update overwrites the editable fields of the post identified by p.Sno. Date is kept.
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, sno int64) error
}

type ContactRepository interface {
	// Create assigns c.Sno.
	Create(ctx context.Context, c *models.Contact) error
}
