package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/danuarta/hr-portal/internal/auth"
	userDatamodel "github.com/danuarta/hr-portal/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.Repository {
	return &Repository{db: db}
}

func (r *Repository) GetCredentialsByEmail(ctx context.Context, email string) (string, string, error) {
	var record userDatamodel.User
	err := r.db.WithContext(ctx).
		Select("id", "password_hash").
		Where("email = ? AND is_active = ?", email, true).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", auth.ErrInvalidCredentials
		}
		return "", "", err
	}
	return record.ID, record.PasswordHash, nil
}

func (r *Repository) GetUserByID(ctx context.Context, userID string) (*userDatamodel.User, error) {
	var record userDatamodel.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", userID, true).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *Repository) CreateUser(ctx context.Context, u *userDatamodel.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "unique") {
		return auth.ErrEmailTaken
	}
	return err
}
