// Package leaverequest handles employee-submitted leave and HR service
// requests. Employees manage their own requests; review (approve/reject)
// is reserved for the Admin role.
package leaverequest

import (
	"context"
	"time"
)

// Statuses a request moves through. The only transitions are
// pending to approved and pending to rejected.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Position classifications declared by the requester.
const (
	PositionFullTime = "full-time"
	PositionPartTime = "part-time"
	PositionIntern   = "intern"
	PositionOther    = "other"
)

// Request types.
const (
	TypeSickLeave       = "sick_leave"
	TypeServiceRequest  = "service_request"
	TypePurchaseRequest = "purchase_request"
	TypeParentalLeave   = "parental_leave"
	TypeBereavement     = "bereavement"
	TypeOther           = "other"
)

// LeaveRequest is the persisted shape of a request.
type LeaveRequest struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string     `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Name       string     `gorm:"not null" json:"name"`
	Position   string     `gorm:"not null" json:"position"`
	Type       string     `gorm:"not null" json:"type"`
	Reason     *string    `json:"reason,omitempty"`
	Status     string     `gorm:"default:pending" json:"status"`
	Attachment *string    `json:"attachment,omitempty"`
	Comment    *string    `json:"comment,omitempty"`
	StartDate  *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate    *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func ValidPosition(p string) bool {
	switch p {
	case PositionFullTime, PositionPartTime, PositionIntern, PositionOther:
		return true
	}
	return false
}

func ValidType(t string) bool {
	switch t {
	case TypeSickLeave, TypeServiceRequest, TypePurchaseRequest,
		TypeParentalLeave, TypeBereavement, TypeOther:
		return true
	}
	return false
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Repository is the persistence contract for leave requests.
type Repository interface {
	Create(ctx context.Context, lr *LeaveRequest) error
	GetByID(ctx context.Context, id int64) (*LeaveRequest, error)
	ListAll(ctx context.Context) ([]LeaveRequest, error)
	ListPending(ctx context.Context) ([]LeaveRequest, error)
	ListByUser(ctx context.Context, userID string) ([]LeaveRequest, error)
	UpdateStatus(ctx context.Context, id int64, status string, comment *string) error
	Delete(ctx context.Context, id int64) error
}
