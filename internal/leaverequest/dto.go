package leaverequest

import (
	"github.com/danuarta/hr-portal/internal"
	"github.com/danuarta/hr-portal/internal/core/common/validation"
)

// CreateLeaveRequestDTO is the submission payload. Dates arrive as
// YYYY-MM-DD strings; the attachment is a storage reference produced by the
// upload endpoint, not the file itself.
type CreateLeaveRequestDTO struct {
	Name       string `json:"name"`
	Position   string `json:"position"`
	Type       string `json:"type"`
	Reason     string `json:"reason"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Attachment string `json:"attachment"`
}

func (d *CreateLeaveRequestDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if !ValidPosition(d.Position) {
		return internal.NewValidationFieldError("position", "position must be one of full-time, part-time, intern, other", internal.ErrCodeValidationFailed)
	}
	if !ValidType(d.Type) {
		return internal.NewValidationFieldError("type", "unknown request type", internal.ErrCodeValidationFailed)
	}

	start, err := validation.ParseDate("start_date", d.StartDate)
	if err != nil {
		return internal.NewValidationFieldError("start_date", err.Error(), internal.ErrCodeInvalidDate)
	}
	end, err := validation.ParseDate("end_date", d.EndDate)
	if err != nil {
		return internal.NewValidationFieldError("end_date", err.Error(), internal.ErrCodeInvalidDate)
	}
	if start != nil && end != nil && end.Before(*start) {
		return internal.NewValidationFieldError("end_date", "end_date must be on or after start_date", internal.ErrCodeInvalidDate)
	}
	return nil
}

// UpdateStatusDTO is the review payload applied by an administrator.
type UpdateStatusDTO struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

func (d *UpdateStatusDTO) Validate() error {
	if !ValidStatus(d.Status) {
		return internal.NewValidationFieldError("status", "status must be one of pending, approved, rejected", internal.ErrCodeInvalidStatus)
	}
	if len(d.Comment) > 1000 {
		return internal.NewValidationFieldError("comment", "comment must be at most 1000 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

// ListView is the index response. Admins get the review queue plus the full
// history; everyone else gets only their own requests.
type ListView struct {
	IsAdmin         bool           `json:"is_admin"`
	Requests        []LeaveRequest `json:"requests"`
	PendingRequests []LeaveRequest `json:"pending_requests,omitempty"`
}
