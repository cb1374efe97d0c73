package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/danuarta/hr-portal/internal"
	userDatamodel "github.com/danuarta/hr-portal/internal/core/datamodel/user"
	"github.com/danuarta/hr-portal/internal/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) user.Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, u *userDatamodel.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "unique") {
		return internal.ErrEmailTaken
	}
	return err
}

func (r *Repository) GetByID(ctx context.Context, id string) (*userDatamodel.User, error) {
	var record userDatamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *Repository) List(ctx context.Context) ([]userDatamodel.User, error) {
	var records []userDatamodel.User
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&records).Error
	return records, err
}

func (r *Repository) Update(ctx context.Context, u *userDatamodel.User) error {
	err := r.db.WithContext(ctx).Save(u).Error
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "unique") {
		return internal.ErrEmailTaken
	}
	return err
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&userDatamodel.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}
