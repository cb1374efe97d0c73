package postgres

import (
	"context"
	"errors"

	"github.com/danuarta/hr-portal/internal"
	"github.com/danuarta/hr-portal/internal/performance"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) performance.Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, rv *performance.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*performance.Review, error) {
	var record performance.Review
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("Performance review not found", internal.ErrCodeReviewNotFound)
		}
		return nil, err
	}
	return &record, nil
}

func (r *Repository) ListAll(ctx context.Context) ([]performance.Review, error) {
	var records []performance.Review
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error
	return records, err
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]performance.Review, error) {
	var records []performance.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *Repository) Update(ctx context.Context, rv *performance.Review) error {
	return r.db.WithContext(ctx).Save(rv).Error
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&performance.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("Performance review not found", internal.ErrCodeReviewNotFound)
	}
	return nil
}
