// Package event manages company events shown on the portal calendar.
package event

import (
	"context"
	"time"

	"github.com/danuarta/hr-portal/internal"
	"github.com/danuarta/hr-portal/internal/core/common/validation"
)

// Event is a scheduled company event. Image holds a storage reference
// produced by the upload endpoint; the default image is substituted at
// render time when it is empty.
type Event struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartDate   *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate     *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	Image       *string    `json:"image,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

// EventDTO is the create/update payload. On update an empty image keeps the
// stored reference instead of clearing it.
type EventDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Image       string `json:"image"`
}

func (d *EventDTO) Validate() error {
	if d.Title == "" {
		return internal.NewValidationFieldError("title", "title is required", internal.ErrCodeValidationFailed)
	}
	if _, err := validation.ParseDate("start_date", d.StartDate); err != nil {
		return internal.NewValidationFieldError("start_date", err.Error(), internal.ErrCodeInvalidDate)
	}
	if _, err := validation.ParseDate("end_date", d.EndDate); err != nil {
		return internal.NewValidationFieldError("end_date", err.Error(), internal.ErrCodeInvalidDate)
	}
	return nil
}

// Repository is the persistence contract for events.
type Repository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context) ([]Event, error)
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id int64) error
}
