package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/hashfx/techblog/models"
)

// GormPostRepository is the MySQL-backed PostRepository.
type GormPostRepository struct {
	db *gorm.DB
}

func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// List returns all posts ordered by primary key.
func (r *GormPostRepository) List(ctx context.Context) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	if err := r.db.WithContext(ctx).Order("sno ASC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (r *GormPostRepository) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var p models.Post
	err := r.db.WithContext(ctx).Where("slug = ?", slug).Order("sno ASC").First(&p).Error
	return gormResult(&p, err)
}

func (r *GormPostRepository) FindBySno(ctx context.Context, sno int64) (*models.Post, error) {
	var p models.Post
	err := r.db.WithContext(ctx).Where("sno = ?", sno).First(&p).Error
	return gormResult(&p, err)
}

func (r *GormPostRepository) Create(ctx context.Context, p *models.Post) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *GormPostRepository) Update(ctx context.Context, p *models.Post) error {
	// MySQL reports 0 affected rows for an unchanged row, so existence is checked first.
	existing, err := r.FindBySno(ctx, p.Sno)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Model(existing).Updates(map[string]any{
		"title":     p.Title,
		"sub_title": p.SubTitle,
		"slug":      p.Slug,
		"content":   p.Content,
		"img_file":  p.ImgFile,
	}).Error
	if err != nil {
		return fmt.Errorf("update post %d: %w", p.Sno, err)
	}
	return nil
}

func (r *GormPostRepository) Delete(ctx context.Context, sno int64) error {
	res := r.db.WithContext(ctx).Where("sno = ?", sno).Delete(&models.Post{})
	if res.Error != nil {
		return fmt.Errorf("delete post %d: %w", sno, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GormContactRepository is the MySQL-backed ContactRepository.
type GormContactRepository struct {
	db *gorm.DB
}

func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

func (r *GormContactRepository) Create(ctx context.Context, c *models.Contact) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func gormResult[T any](v *T, err error) (*T, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}
