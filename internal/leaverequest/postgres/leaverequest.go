package postgres

import (
	"context"
	"errors"

	"github.com/danuarta/hr-portal/internal"
	"github.com/danuarta/hr-portal/internal/leaverequest"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) leaverequest.Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, lr *leaverequest.LeaveRequest) error {
	return r.db.WithContext(ctx).Create(lr).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*leaverequest.LeaveRequest, error) {
	var record leaverequest.LeaveRequest
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("Leave request not found", internal.ErrCodeLeaveRequestNotFound)
		}
		return nil, err
	}
	return &record, nil
}

func (r *Repository) ListAll(ctx context.Context) ([]leaverequest.LeaveRequest, error) {
	var records []leaverequest.LeaveRequest
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error
	return records, err
}

func (r *Repository) ListPending(ctx context.Context) ([]leaverequest.LeaveRequest, error) {
	var records []leaverequest.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", leaverequest.StatusPending).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]leaverequest.LeaveRequest, error) {
	var records []leaverequest.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status string, comment *string) error {
	res := r.db.WithContext(ctx).
		Model(&leaverequest.LeaveRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":  status,
			"comment": comment,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("Leave request not found", internal.ErrCodeLeaveRequestNotFound)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&leaverequest.LeaveRequest{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("Leave request not found", internal.ErrCodeLeaveRequestNotFound)
	}
	return nil
}
