package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationVariant string

const (
	NotificationDefault     NotificationVariant = "default"
	NotificationDestructive NotificationVariant = "destructive"
)

type Notification struct {
	ID        uuid.UUID           `json:"id"`
	Title     string              `json:"title"`
	Message   string              `json:"message"`
	Variant   NotificationVariant `json:"variant"`
	CreatedAt time.Time           `json:"created_at"`
}

// NewNotification stamps a fresh id and creation time.
func NewNotification(variant NotificationVariant, title, message string) Notification {
	return Notification{
		ID:        uuid.New(),
		Title:     title,
		Message:   message,
		Variant:   variant,
		CreatedAt: time.Now(),
	}
}
