package postgres

import (
	"context"
	"errors"

	"github.com/danuarta/hr-portal/internal"
	"github.com/danuarta/hr-portal/internal/announcement"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) announcement.Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, a *announcement.Announcement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*announcement.Announcement, error) {
	var record announcement.Announcement
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("Announcement not found", internal.ErrCodeAnnouncementNotFound)
		}
		return nil, err
	}
	return &record, nil
}

func (r *Repository) List(ctx context.Context) ([]announcement.Announcement, error) {
	var records []announcement.Announcement
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error
	return records, err
}

func (r *Repository) Update(ctx context.Context, a *announcement.Announcement) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&announcement.Announcement{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("Announcement not found", internal.ErrCodeAnnouncementNotFound)
	}
	return nil
}
