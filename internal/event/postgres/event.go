package postgres

import (
	"context"
	"errors"

	"github.com/danuarta/hr-portal/internal"
	"github.com/danuarta/hr-portal/internal/event"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) event.Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, e *event.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*event.Event, error) {
	var record event.Event
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("Event not found", internal.ErrCodeEventNotFound)
		}
		return nil, err
	}
	return &record, nil
}

func (r *Repository) List(ctx context.Context) ([]event.Event, error) {
	var records []event.Event
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error
	return records, err
}

func (r *Repository) Update(ctx context.Context, e *event.Event) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&event.Event{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("Event not found", internal.ErrCodeEventNotFound)
	}
	return nil
}
