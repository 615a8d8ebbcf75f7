package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/hashfx/techblog/models"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	ContactSubmitted EventType = "contact.submitted"
)

const schemaVersion = "1"

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// ContactSubmittedEvent 는 문의 폼이 저장된 뒤 발행된다. cmd/mailer 가 소비한다.
type ContactSubmittedEvent struct {
	BaseEvent
	ContactSno int64     `json:"contact_sno"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	PhoneNum   string    `json:"phone_num"`
	Msg        string    `json:"msg"`
	Date       time.Time `json:"date"`
}

func NewContactSubmittedEvent(c models.Contact, source string) ContactSubmittedEvent {
	return ContactSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      ContactSubmitted,
			Timestamp: time.Now().UTC(),
			Source:    source,
			Version:   schemaVersion,
		},
		ContactSno: c.Sno,
		Name:       c.Name,
		Email:      c.Email,
		PhoneNum:   c.PhoneNum,
		Msg:        c.Msg,
		Date:       c.Date,
	}
}

// Contact rebuilds the stored contact from the event.
func (e ContactSubmittedEvent) Contact() models.Contact {
	return models.Contact{
		Sno:      e.ContactSno,
		Name:     e.Name,
		Email:    e.Email,
		PhoneNum: e.PhoneNum,
		Msg:      e.Msg,
		Date:     e.Date,
	}
}
