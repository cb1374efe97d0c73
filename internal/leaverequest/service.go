package leaverequest

import (
	"context"
	"log/slog"

	"github.com/danuarta/hr-portal/internal"
	"github.com/danuarta/hr-portal/internal/accesspolicy"
	"github.com/danuarta/hr-portal/internal/core/common/validation"
)

// Service handles leave request business rules. Role checks go through the
// access policy evaluator and deny on evaluator error.
type Service struct {
	repo      Repository
	evaluator accesspolicy.Evaluator
	logger    *slog.Logger
}

func NewService(repo Repository, evaluator accesspolicy.Evaluator, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		evaluator: evaluator,
		logger:    logger,
	}
}

// Create files a new request owned by the acting principal, always in
// pending status.
func (s *Service) Create(ctx context.Context, userID string, dto CreateLeaveRequestDTO) (*LeaveRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	start, _ := validation.ParseDate("start_date", dto.StartDate)
	end, _ := validation.ParseDate("end_date", dto.EndDate)

	lr := &LeaveRequest{
		UserID:     userID,
		Name:       dto.Name,
		Position:   dto.Position,
		Type:       dto.Type,
		Status:     StatusPending,
		Reason:     optional(dto.Reason),
		Attachment: optional(dto.Attachment),
		StartDate:  start,
		EndDate:    end,
	}
	if err := s.repo.Create(ctx, lr); err != nil {
		s.logger.Error("failed to create leave request", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("leave request created", "request_id", lr.ID, "user_id", userID, "type", lr.Type)
	return lr, nil
}

// List returns the index view for the acting principal. Admins see the
// pending review queue plus every request; other principals see only their
// own.
func (s *Service) List(ctx context.Context, userID string) (*ListView, error) {
	isAdmin, err := s.evaluator.HasRole(ctx, userID, accesspolicy.AdminRole)
	if err != nil {
		return nil, err
	}

	if !isAdmin {
		own, err := s.repo.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &ListView{IsAdmin: false, Requests: own}, nil
	}

	pending, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return &ListView{IsAdmin: true, Requests: all, PendingRequests: pending}, nil
}

// UpdateStatus applies an administrator's review decision. Only a principal
// holding the Admin role may change status, and only a pending request may
// move.
func (s *Service) UpdateStatus(ctx context.Context, actorID string, id int64, dto UpdateStatusDTO) (*LeaveRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	isAdmin, err := s.evaluator.HasRole(ctx, actorID, accesspolicy.AdminRole)
	if err != nil || !isAdmin {
		return nil, internal.ErrPermissionDenied
	}

	lr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lr.Status != StatusPending && dto.Status != lr.Status {
		return nil, internal.NewValidationError("only pending requests can be reviewed", internal.ErrCodeInvalidStatus)
	}

	comment := optional(dto.Comment)
	if err := s.repo.UpdateStatus(ctx, id, dto.Status, comment); err != nil {
		return nil, err
	}

	lr.Status = dto.Status
	lr.Comment = comment
	s.logger.Info("leave request reviewed", "request_id", id, "status", dto.Status, "reviewer_id", actorID)
	return lr, nil
}

// Delete removes a request. The owner may delete their own; an Admin may
// delete any.
func (s *Service) Delete(ctx context.Context, actorID string, id int64) error {
	lr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if lr.UserID != actorID {
		isAdmin, err := s.evaluator.HasRole(ctx, actorID, accesspolicy.AdminRole)
		if err != nil || !isAdmin {
			return internal.ErrPermissionDenied
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("leave request deleted", "request_id", id, "actor_id", actorID)
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
