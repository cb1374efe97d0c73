package event

import (
	"context"
	"log/slog"

	"github.com/danuarta/hr-portal/internal/core/common/validation"
)

// Service handles event CRUD.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, dto EventDTO) (*Event, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	start, _ := validation.ParseDate("start_date", dto.StartDate)
	end, _ := validation.ParseDate("end_date", dto.EndDate)

	e := &Event{
		Title:       dto.Title,
		Description: optional(dto.Description),
		Location:    optional(dto.Location),
		StartDate:   start,
		EndDate:     end,
		Image:       optional(dto.Image),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("failed to create event", "error", err, "title", dto.Title)
		return nil, err
	}

	s.logger.Info("event created", "event_id", e.ID, "title", e.Title)
	return e, nil
}

func (s *Service) List(ctx context.Context) ([]Event, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id int64, dto EventDTO) (*Event, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	start, _ := validation.ParseDate("start_date", dto.StartDate)
	end, _ := validation.ParseDate("end_date", dto.EndDate)

	e.Title = dto.Title
	e.Description = optional(dto.Description)
	e.Location = optional(dto.Location)
	e.StartDate = start
	e.EndDate = end
	// an absent image keeps the stored reference
	if dto.Image != "" {
		e.Image = optional(dto.Image)
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info("event updated", "event_id", id)
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("event deleted", "event_id", id)
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
