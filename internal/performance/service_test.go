package performance_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/danuarta/hr-portal/internal"
	"github.com/danuarta/hr-portal/internal/performance"
)

func TestPerformance(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Performance Module Suite")
}

func intPtr(v int) *int {
	return &v
}

// Mock repository for testing
type mockReviewRepository struct {
	reviews map[int64]*performance.Review
	nextID  int64
}

func newMockReviewRepository() *mockReviewRepository {
	return &mockReviewRepository{reviews: make(map[int64]*performance.Review), nextID: 1}
}

func (m *mockReviewRepository) Create(ctx context.Context, rv *performance.Review) error {
	rv.ID = m.nextID
	m.nextID++
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = time.Now()
	}
	stored := *rv
	m.reviews[rv.ID] = &stored
	return nil
}

func (m *mockReviewRepository) GetByID(ctx context.Context, id int64) (*performance.Review, error) {
	rv, ok := m.reviews[id]
	if !ok {
		return nil, internal.NewNotFoundError("performance review not found", internal.ErrCodeReviewNotFound)
	}
	copied := *rv
	return &copied, nil
}

func (m *mockReviewRepository) ListAll(ctx context.Context) ([]performance.Review, error) {
	var out []performance.Review
	for i := int64(1); i < m.nextID; i++ {
		if rv, ok := m.reviews[i]; ok {
			out = append(out, *rv)
		}
	}
	return out, nil
}

func (m *mockReviewRepository) ListByUser(ctx context.Context, userID string) ([]performance.Review, error) {
	var out []performance.Review
	for i := int64(1); i < m.nextID; i++ {
		if rv, ok := m.reviews[i]; ok && rv.UserID == userID {
			out = append(out, *rv)
		}
	}
	return out, nil
}

func (m *mockReviewRepository) Update(ctx context.Context, rv *performance.Review) error {
	if _, ok := m.reviews[rv.ID]; !ok {
		return internal.NewNotFoundError("performance review not found", internal.ErrCodeReviewNotFound)
	}
	stored := *rv
	m.reviews[rv.ID] = &stored
	return nil
}

func (m *mockReviewRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.reviews[id]; !ok {
		return internal.NewNotFoundError("performance review not found", internal.ErrCodeReviewNotFound)
	}
	delete(m.reviews, id)
	return nil
}

// Mock evaluator granting the Admin role to a fixed set of principals.
type mockEvaluator struct {
	admins map[string]bool
	err    error
}

func (m *mockEvaluator) HasPermission(ctx context.Context, principalID, permission string) (bool, error) {
	return false, m.err
}

func (m *mockEvaluator) HasRole(ctx context.Context, principalID, roleName string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.admins[principalID], nil
}

func (m *mockEvaluator) PrincipalAccess(ctx context.Context, principalID string) ([]string, []string, error) {
	return nil, nil, m.err
}

var _ = Describe("ComputeOverallScore", func() {
	It("averages the present category scores and rounds half up", func() {
		rv := &performance.Review{
			AttendanceScore: intPtr(80),
			QualityScore:    intPtr(91),
		}
		Expect(*performance.ComputeOverallScore(rv)).To(Equal(86))
	})

	It("excludes zero scores from the average instead of counting them", func() {
		rv := &performance.Review{
			AttendanceScore: intPtr(80),
			EfficiencyScore: intPtr(0),
			QualityScore:    intPtr(90),
		}
		Expect(*performance.ComputeOverallScore(rv)).To(Equal(85))
	})

	It("returns nil when no category qualifies", func() {
		Expect(performance.ComputeOverallScore(&performance.Review{})).To(BeNil())
		Expect(performance.ComputeOverallScore(&performance.Review{
			AttendanceScore: intPtr(0),
			TeamworkScore:   intPtr(0),
		})).To(BeNil())
	})
})

var _ = Describe("Performance Service", func() {
	var (
		repo      *mockReviewRepository
		evaluator *mockEvaluator
		service   *performance.Service
		ctx       context.Context
	)

	const (
		adminID    = "2b9d4e10-0000-4000-8000-000000000001"
		employeeID = "2b9d4e10-0000-4000-8000-000000000002"
		otherID    = "2b9d4e10-0000-4000-8000-000000000003"
	)

	BeforeEach(func() {
		repo = newMockReviewRepository()
		evaluator = &mockEvaluator{admins: map[string]bool{adminID: true}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = performance.NewService(repo, evaluator, logger)
		ctx = context.Background()
	})

	seedReview := func(userID string, overall *int, createdAt time.Time) {
		rv := &performance.Review{
			UserID:       userID,
			OverallScore: overall,
			Status:       performance.StatusCompleted,
			CreatedAt:    createdAt,
		}
		Expect(repo.Create(ctx, rv)).To(Succeed())
	}

	Describe("Create", func() {
		It("derives the overall score and defaults reviewer and review date", func() {
			rv, err := service.Create(ctx, adminID, performance.ReviewDTO{
				UserID:          employeeID,
				AttendanceScore: intPtr(90),
				QualityScore:    intPtr(80),
				GoalsAchieved:   []string{"shipped onboarding flow"},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(*rv.OverallScore).To(Equal(85))
			Expect(*rv.ReviewerID).To(Equal(adminID))
			Expect(rv.ReviewDate).ToNot(BeNil())
			Expect(rv.Status).To(Equal(performance.StatusPending))
		})

		It("denies a non-admin", func() {
			_, err := service.Create(ctx, employeeID, performance.ReviewDTO{UserID: otherID})
			Expect(err).To(MatchError(internal.ErrPermissionDenied))
			Expect(repo.reviews).To(BeEmpty())
		})

		It("denies when the evaluator fails", func() {
			evaluator.err = errors.New("store down")
			_, err := service.Create(ctx, adminID, performance.ReviewDTO{UserID: employeeID})
			Expect(err).To(MatchError(internal.ErrPermissionDenied))
		})

		It("rejects a score outside 0-100", func() {
			_, err := service.Create(ctx, adminID, performance.ReviewDTO{
				UserID:          employeeID,
				AttendanceScore: intPtr(101),
			})
			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
		})
	})

	Describe("Update", func() {
		var reviewID int64

		BeforeEach(func() {
			rv, err := service.Create(ctx, adminID, performance.ReviewDTO{
				UserID:          employeeID,
				AttendanceScore: intPtr(70),
				QualityScore:    intPtr(70),
			})
			Expect(err).ToNot(HaveOccurred())
			reviewID = rv.ID
		})

		It("recomputes the overall score from the new category scores", func() {
			rv, err := service.Update(ctx, adminID, reviewID, performance.ReviewDTO{
				AttendanceScore: intPtr(95),
				QualityScore:    intPtr(90),
				Status:          performance.StatusCompleted,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(*rv.OverallScore).To(Equal(93))
			Expect(rv.Status).To(Equal(performance.StatusCompleted))
		})

		It("keeps the previous overall score when no category qualifies", func() {
			rv, err := service.Update(ctx, adminID, reviewID, performance.ReviewDTO{})
			Expect(err).ToNot(HaveOccurred())
			Expect(*rv.OverallScore).To(Equal(70))
		})

		It("denies a non-admin", func() {
			_, err := service.Update(ctx, employeeID, reviewID, performance.ReviewDTO{})
			Expect(err).To(MatchError(internal.ErrPermissionDenied))
		})
	})

	Describe("Delete", func() {
		It("removes the review for an admin and denies everyone else", func() {
			rv, err := service.Create(ctx, adminID, performance.ReviewDTO{UserID: employeeID, AttendanceScore: intPtr(75)})
			Expect(err).ToNot(HaveOccurred())

			Expect(service.Delete(ctx, employeeID, rv.ID)).To(MatchError(internal.ErrPermissionDenied))
			Expect(service.Delete(ctx, adminID, rv.ID)).To(Succeed())
			Expect(repo.reviews).To(BeEmpty())
		})

		It("surfaces not-found for a missing review", func() {
			err := service.Delete(ctx, adminID, 9999)
			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeReviewNotFound))
		})
	})

	Describe("List", func() {
		now := time.Date(2026, time.August, 10, 12, 0, 0, 0, time.UTC)

		BeforeEach(func() {
			seedReview(employeeID, intPtr(92), now)
			seedReview(employeeID, intPtr(75), now)
			seedReview(otherID, intPtr(55), now.AddDate(0, -1, 0))
			seedReview(otherID, intPtr(40), now.AddDate(0, -1, 0))
			seedReview(otherID, nil, now.AddDate(0, -1, 0))
		})

		It("scopes a non-admin to their own reviews", func() {
			view, err := service.List(ctx, employeeID)
			Expect(err).ToNot(HaveOccurred())
			Expect(view.IsAdmin).To(BeFalse())
			Expect(view.Reviews).To(HaveLen(2))
			Expect(view.Stats.TotalReviews).To(Equal(2))
		})

		It("computes dashboard stats over everything for an admin", func() {
			view, err := service.List(ctx, adminID)
			Expect(err).ToNot(HaveOccurred())
			Expect(view.IsAdmin).To(BeTrue())
			Expect(view.Reviews).To(HaveLen(5))

			stats := view.Stats
			Expect(stats.TotalReviews).To(Equal(5))
			Expect(stats.AverageScore).To(Equal(65.5))
			Expect(stats.HighPerformers).To(Equal(1))
			Expect(stats.NeedsImprovement).To(Equal(2))
			Expect(stats.ScoreDistribution.Excellent).To(Equal(1))
			Expect(stats.ScoreDistribution.Good).To(Equal(1))
			Expect(stats.ScoreDistribution.Average).To(Equal(1))
			Expect(stats.ScoreDistribution.Poor).To(Equal(1))
		})

		It("groups trends by creation month in chronological order", func() {
			view, err := service.List(ctx, adminID)
			Expect(err).ToNot(HaveOccurred())

			Expect(view.Trends).To(HaveLen(2))
			Expect(view.Trends[0].Month).To(Equal("Jul 2026"))
			Expect(view.Trends[0].Count).To(Equal(3))
			Expect(view.Trends[0].AverageScore).To(Equal(47.5))
			Expect(view.Trends[1].Month).To(Equal("Aug 2026"))
			Expect(view.Trends[1].Count).To(Equal(2))
			Expect(view.Trends[1].AverageScore).To(Equal(83.5))
		})

		It("fails when the evaluator fails rather than guessing scope", func() {
			evaluator.err = errors.New("store down")
			_, err := service.List(ctx, adminID)
			Expect(err).To(HaveOccurred())
		})
	})
})
