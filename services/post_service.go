package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashfx/techblog/internal/logger"
	"github.com/hashfx/techblog/dto"
	"github.com/hashfx/techblog/metrics"
	"github.com/hashfx/techblog/models"
	"github.com/hashfx/techblog/pagination"
	"github.com/hashfx/techblog/repositories"
)

// ErrInvalidInput wraps form validation failures.
var ErrInvalidInput = errors.New("invalid input")

// PostService encapsulates post reads and admin edits.
type PostService struct {
	repo     repositories.PostRepository
	pager    pagination.Paginator
	pageSize int
	now      func() time.Time
}

func NewPostService(repo repositories.PostRepository, pageSize int) *PostService {
	return &PostService{
		repo:     repo,
		pager:    pagination.New(pagination.DefaultBasePath),
		pageSize: pageSize,
		now:      time.Now,
	}
}

func (s *PostService) PageSize() int { return s.pageSize }

// Home loads every post and returns the requested page of the listing.
// A numeric page outside [1, last_page] is served as computed (usually empty) and reported.
func (s *PostService) Home(ctx context.Context, rawPage string) (pagination.Page[models.Post], error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return pagination.Page[models.Post]{}, fmt.Errorf("list posts: %w", err)
	}
	page := pagination.Apply(s.pager, posts, rawPage, s.pageSize)
	if page.OutOfRange {
		metrics.PageOutOfRange.Inc()
		logger.WarnWithFields("page out of range", logger.Fields{
			"requested": rawPage,
			"page":      page.Number,
			"last_page": page.LastPage,
		})
	}
	return page, nil
}

// All returns every post, for the dashboard.
func (s *PostService) All(ctx context.Context) ([]models.Post, error) {
	return s.repo.List(ctx)
}

func (s *PostService) BySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.repo.FindBySlug(ctx, slug)
}

func (s *PostService) BySno(ctx context.Context, sno int64) (*models.Post, error) {
	return s.repo.FindBySno(ctx, sno)
}

// Save creates a post when sno is 0 and updates post sno otherwise.
func (s *PostService) Save(ctx context.Context, sno int64, form dto.PostForm) (*models.Post, error) {
	form.Normalize()
	if err := form.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	p := &models.Post{
		Sno:      sno,
		Title:    form.Title,
		SubTitle: form.SubTitle,
		Slug:     form.Slug,
		Content:  form.Content,
		ImgFile:  form.ImgFile,
	}

	if sno == 0 {
		p.Date = s.now()
		if err := s.repo.Create(ctx, p); err != nil {
			return nil, err
		}
		logger.InfoWithFields("post created", logger.Fields{"sno": p.Sno, "slug": p.Slug})
		return p, nil
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	logger.InfoWithFields("post updated", logger.Fields{"sno": p.Sno, "slug": p.Slug})
	return s.repo.FindBySno(ctx, sno)
}

func (s *PostService) Delete(ctx context.Context, sno int64) error {
	if err := s.repo.Delete(ctx, sno); err != nil {
		return err
	}
	logger.InfoWithFields("post deleted", logger.Fields{"sno": sno})
	return nil
}
