package performance

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/danuarta/hr-portal/internal"
	"github.com/danuarta/hr-portal/internal/accesspolicy"
	"github.com/danuarta/hr-portal/internal/core/common/validation"
)

// Score thresholds used by the dashboard aggregates.
const (
	highPerformerThreshold    = 85
	needsImprovementThreshold = 60
)

// Service handles review business rules. Create, update and delete are
// restricted to the Admin role; the check denies on evaluator error.
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

// List returns the performance page view for the acting principal. Admins
// see every review; others see only reviews about themselves. Stats and
// trends are computed over whichever set is visible.
func (s *Service) List(ctx context.Context, userID string) (*ListView, error) {
	isAdmin, err := s.evaluator.HasRole(ctx, userID, accesspolicy.AdminRole)
	if err != nil {
		return nil, err
	}

	var reviews []Review
	if isAdmin {
		reviews, err = s.repo.ListAll(ctx)
	} else {
		reviews, err = s.repo.ListByUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	return &ListView{
		Reviews: reviews,
		Stats:   computeStats(reviews),
		Trends:  computeTrends(reviews),
		IsAdmin: isAdmin,
	}, nil
}

// Create writes a new review. The reviewer defaults to the acting
// administrator and the review date to today; the overall score is derived
// from the submitted category scores.
func (s *Service) Create(ctx context.Context, actorID string, dto ReviewDTO) (*Review, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if err := dto.ValidateCreate(); err != nil {
		return nil, err
	}

	reviewDate, err := validation.ParseDate("review_date", dto.ReviewDate)
	if err != nil {
		return nil, internal.NewValidationFieldError("review_date", err.Error(), internal.ErrCodeInvalidDate)
	}
	if reviewDate == nil {
		now := time.Now()
		reviewDate = &now
	}

	reviewerID := dto.ReviewerID
	if reviewerID == "" {
		reviewerID = actorID
	}
	status := dto.Status
	if status == "" {
		status = StatusPending
	}

	rv := &Review{
		UserID:              dto.UserID,
		ReviewerID:          &reviewerID,
		AttendanceScore:     dto.AttendanceScore,
		EfficiencyScore:     dto.EfficiencyScore,
		QualityScore:        dto.QualityScore,
		TeamworkScore:       dto.TeamworkScore,
		CommunicationScore:  dto.CommunicationScore,
		PunctualityScore:    dto.PunctualityScore,
		Notes:               optional(dto.Notes),
		ReviewPeriod:        optional(dto.ReviewPeriod),
		ReviewDate:          reviewDate,
		GoalsAchieved:       dto.GoalsAchieved,
		AreasForImprovement: dto.AreasForImprovement,
		Status:              status,
	}
	rv.OverallScore = ComputeOverallScore(rv)

	if err := s.repo.Create(ctx, rv); err != nil {
		s.logger.Error("failed to create performance review", "error", err, "user_id", dto.UserID)
		return nil, err
	}

	s.logger.Info("performance review created", "review_id", rv.ID, "user_id", rv.UserID, "reviewer_id", reviewerID)
	return rv, nil
}

// Update edits a review and recomputes the overall score from the submitted
// category scores.
func (s *Service) Update(ctx context.Context, actorID string, id int64, dto ReviewDTO) (*Review, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if err := dto.ValidateUpdate(); err != nil {
		return nil, err
	}

	rv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rv.AttendanceScore = dto.AttendanceScore
	rv.EfficiencyScore = dto.EfficiencyScore
	rv.QualityScore = dto.QualityScore
	rv.TeamworkScore = dto.TeamworkScore
	rv.CommunicationScore = dto.CommunicationScore
	rv.PunctualityScore = dto.PunctualityScore
	if dto.Notes != "" {
		rv.Notes = optional(dto.Notes)
	}
	if dto.ReviewPeriod != "" {
		rv.ReviewPeriod = optional(dto.ReviewPeriod)
	}
	if dto.ReviewDate != "" {
		reviewDate, err := validation.ParseDate("review_date", dto.ReviewDate)
		if err != nil {
			return nil, internal.NewValidationFieldError("review_date", err.Error(), internal.ErrCodeInvalidDate)
		}
		rv.ReviewDate = reviewDate
	}
	if dto.GoalsAchieved != nil {
		rv.GoalsAchieved = dto.GoalsAchieved
	}
	if dto.AreasForImprovement != nil {
		rv.AreasForImprovement = dto.AreasForImprovement
	}
	if dto.Status != "" {
		rv.Status = dto.Status
	}
	if overall := ComputeOverallScore(rv); overall != nil {
		rv.OverallScore = overall
	}

	if err := s.repo.Update(ctx, rv); err != nil {
		return nil, err
	}

	s.logger.Info("performance review updated", "review_id", id)
	return rv, nil
}

// Delete removes a review.
func (s *Service) Delete(ctx context.Context, actorID string, id int64) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("performance review deleted", "review_id", id)
	return nil
}

func (s *Service) requireAdmin(ctx context.Context, actorID string) error {
	isAdmin, err := s.evaluator.HasRole(ctx, actorID, accesspolicy.AdminRole)
	if err != nil || !isAdmin {
		return internal.ErrPermissionDenied
	}
	return nil
}

func computeStats(reviews []Review) Stats {
	stats := Stats{TotalReviews: len(reviews)}
	if len(reviews) == 0 {
		return stats
	}

	sum, scored := 0, 0
	for i := range reviews {
		score := reviews[i].OverallScore
		if score == nil {
			continue
		}
		sum += *score
		scored++

		if *score >= highPerformerThreshold {
			stats.HighPerformers++
		}
		if *score < needsImprovementThreshold {
			stats.NeedsImprovement++
		}

		switch {
		case *score >= 90:
			stats.ScoreDistribution.Excellent++
		case *score >= 70:
			stats.ScoreDistribution.Good++
		case *score >= 50:
			stats.ScoreDistribution.Average++
		default:
			stats.ScoreDistribution.Poor++
		}
	}
	if scored > 0 {
		stats.AverageScore = round1(float64(sum) / float64(scored))
	}
	return stats
}

func computeTrends(reviews []Review) []TrendPoint {
	if len(reviews) == 0 {
		return nil
	}

	type bucket struct {
		month time.Time
		sum   int
		n     int
		count int
	}
	buckets := make(map[string]*bucket)
	for i := range reviews {
		month := time.Date(reviews[i].CreatedAt.Year(), reviews[i].CreatedAt.Month(), 1, 0, 0, 0, 0, time.UTC)
		key := month.Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{month: month}
			buckets[key] = b
		}
		b.count++
		if reviews[i].OverallScore != nil {
			b.sum += *reviews[i].OverallScore
			b.n++
		}
	}

	points := make([]TrendPoint, 0, len(buckets))
	for _, b := range buckets {
		p := TrendPoint{Month: b.month.Format("Jan 2006"), Count: b.count}
		if b.n > 0 {
			p.AverageScore = round1(float64(b.sum) / float64(b.n))
		}
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		ti, _ := time.Parse("Jan 2006", points[i].Month)
		tj, _ := time.Parse("Jan 2006", points[j].Month)
		return ti.Before(tj)
	})
	return points
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
