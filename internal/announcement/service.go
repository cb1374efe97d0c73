package announcement

import (
	"context"
	"log/slog"

	"github.com/danuarta/hr-portal/internal/core/common/validation"
)

// Service handles announcement CRUD.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, dto AnnouncementDTO) (*Announcement, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	publishedAt, _ := validation.ParseDate("published_at", dto.PublishedAt)
	a := &Announcement{
		Title:       dto.Title,
		Content:     dto.Content,
		PublishedAt: publishedAt,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("failed to create announcement", "error", err, "title", dto.Title)
		return nil, err
	}

	s.logger.Info("announcement created", "announcement_id", a.ID, "title", a.Title)
	return a, nil
}

func (s *Service) List(ctx context.Context) ([]Announcement, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id int64, dto AnnouncementDTO) (*Announcement, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	publishedAt, _ := validation.ParseDate("published_at", dto.PublishedAt)
	a.Title = dto.Title
	a.Content = dto.Content
	a.PublishedAt = publishedAt

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("announcement updated", "announcement_id", id)
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("announcement deleted", "announcement_id", id)
	return nil
}
