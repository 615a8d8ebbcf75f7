package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hashfx/techblog/internal/logger"
	"github.com/hashfx/techblog/dto"
	"github.com/hashfx/techblog/metrics"
	"github.com/hashfx/techblog/models"
	"github.com/hashfx/techblog/notify"
	"github.com/hashfx/techblog/repositories"
)

type ContactService struct {
	repo     repositories.ContactRepository
	notifier notify.Notifier
	now      func() time.Time
}

func NewContactService(repo repositories.ContactRepository, notifier notify.Notifier) *ContactService {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &ContactService{repo: repo, notifier: notifier, now: time.Now}
}

// Submit validates and stores the message, then notifies the owner.
// A notification failure is logged and counted; the stored contact is still returned.
func (s *ContactService) Submit(ctx context.Context, form dto.ContactForm) (*models.Contact, error) {
	form.Normalize()
	if err := form.Validate(); err != nil {
		metrics.ContactSubmissions.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	c := &models.Contact{
		Name:     form.Name,
		Email:    form.Email,
		PhoneNum: form.Phone,
		Msg:      form.Message,
		Date:     s.now(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		metrics.ContactSubmissions.WithLabelValues("store_failed").Inc()
		return nil, fmt.Errorf("store contact: %w", err)
	}
	metrics.ContactSubmissions.WithLabelValues("stored").Inc()

	if err := s.notifier.NotifyContact(ctx, *c); err != nil {
		metrics.ContactSubmissions.WithLabelValues("notify_failed").Inc()
		logger.ErrorWithFields("contact notification failed", logger.Fields{
			"contact_sno": c.Sno,
			"error":       err.Error(),
		})
		return c, nil
	}
	metrics.ContactSubmissions.WithLabelValues("notified").Inc()
	return c, nil
}
