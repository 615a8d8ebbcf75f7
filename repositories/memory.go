package repositories

import (
	"context"
	"sync"

	"github.com/hashfx/techblog/models"
)

// MemoryPostRepository keeps posts in process memory (database.driver: memory).
// Data is lost on restart.
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts []models.Post
	seq   int64
}

func NewMemoryPostRepository(seed ...models.Post) *MemoryPostRepository {
	r := &MemoryPostRepository{}
	for _, p := range seed {
		p := p
		_ = r.Create(context.Background(), &p)
	}
	return r
}

func (r *MemoryPostRepository) List(context.Context) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Post, len(r.posts))
	copy(out, r.posts)
	return out, nil
}

func (r *MemoryPostRepository) FindBySlug(_ context.Context, slug string) (*models.Post, error) {
	return r.find(func(p models.Post) bool { return p.Slug == slug })
}

func (r *MemoryPostRepository) FindBySno(_ context.Context, sno int64) (*models.Post, error) {
	return r.find(func(p models.Post) bool { return p.Sno == sno })
}

func (r *MemoryPostRepository) find(match func(models.Post) bool) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.posts {
		if match(p) {
			p := p
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryPostRepository) Create(_ context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	p.Sno = r.seq
	r.posts = append(r.posts, *p)
	return nil
}

func (r *MemoryPostRepository) Update(_ context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.posts {
		if r.posts[i].Sno == p.Sno {
			date := r.posts[i].Date
			r.posts[i] = *p
			r.posts[i].Date = date
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryPostRepository) Delete(_ context.Context, sno int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.posts {
		if r.posts[i].Sno == sno {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// MemoryContactRepository keeps contacts in process memory.
type MemoryContactRepository struct {
	mu       sync.Mutex
	contacts []models.Contact
}

func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{}
}

func (r *MemoryContactRepository) Create(_ context.Context, c *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.Sno = int64(len(r.contacts) + 1)
	r.contacts = append(r.contacts, *c)
	return nil
}

// All returns a copy of the stored contacts.
func (r *MemoryContactRepository) All() []models.Contact {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Contact, len(r.contacts))
	copy(out, r.contacts)
	return out
}
