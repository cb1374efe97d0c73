// Package announcement manages portal-wide announcements.
package announcement

import (
	"context"
	"time"

	"github.com/danuarta/hr-portal/internal"
	"github.com/danuarta/hr-portal/internal/core/common/validation"
)

// Announcement is a published notice shown to all principals.
type Announcement struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Content     string     `gorm:"not null" json:"content"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Announcement) TableName() string {
	return "announcements"
}

// AnnouncementDTO is the create/update payload.
type AnnouncementDTO struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	PublishedAt string `json:"published_at"`
}

func (d *AnnouncementDTO) Validate() error {
	if d.Title == "" {
		return internal.NewValidationFieldError("title", "title is required", internal.ErrCodeValidationFailed)
	}
	if d.Content == "" {
		return internal.NewValidationFieldError("content", "content is required", internal.ErrCodeValidationFailed)
	}
	if _, err := validation.ParseDate("published_at", d.PublishedAt); err != nil {
		return internal.NewValidationFieldError("published_at", err.Error(), internal.ErrCodeInvalidDate)
	}
	return nil
}

// Repository is the persistence contract for announcements.
type Repository interface {
	Create(ctx context.Context, a *Announcement) error
	GetByID(ctx context.Context, id int64) (*Announcement, error)
	List(ctx context.Context) ([]Announcement, error)
	Update(ctx context.Context, a *Announcement) error
	Delete(ctx context.Context, id int64) error
}
