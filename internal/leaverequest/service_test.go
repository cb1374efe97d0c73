package leaverequest_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/danuarta/hr-portal/internal"
	"github.com/danuarta/hr-portal/internal/leaverequest"
)

func TestLeaveRequest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "LeaveRequest Module Suite")
}

// Mock repository for testing
type mockLeaveRepository struct {
	requests map[int64]*leaverequest.LeaveRequest
	nextID   int64
}

func newMockLeaveRepository() *mockLeaveRepository {
	return &mockLeaveRepository{requests: make(map[int64]*leaverequest.LeaveRequest), nextID: 1}
}

func (m *mockLeaveRepository) Create(ctx context.Context, lr *leaverequest.LeaveRequest) error {
	lr.ID = m.nextID
	m.nextID++
	stored := *lr
	m.requests[lr.ID] = &stored
	return nil
}

func (m *mockLeaveRepository) GetByID(ctx context.Context, id int64) (*leaverequest.LeaveRequest, error) {
	lr, ok := m.requests[id]
	if !ok {
		return nil, internal.NewNotFoundError("leave request not found", internal.ErrCodeLeaveRequestNotFound)
	}
	copied := *lr
	return &copied, nil
}

func (m *mockLeaveRepository) ListAll(ctx context.Context) ([]leaverequest.LeaveRequest, error) {
	var out []leaverequest.LeaveRequest
	for i := int64(1); i < m.nextID; i++ {
		if lr, ok := m.requests[i]; ok {
			out = append(out, *lr)
		}
	}
	return out, nil
}

func (m *mockLeaveRepository) ListPending(ctx context.Context) ([]leaverequest.LeaveRequest, error) {
	var out []leaverequest.LeaveRequest
	for i := int64(1); i < m.nextID; i++ {
		if lr, ok := m.requests[i]; ok && lr.Status == leaverequest.StatusPending {
			out = append(out, *lr)
		}
	}
	return out, nil
}

func (m *mockLeaveRepository) ListByUser(ctx context.Context, userID string) ([]leaverequest.LeaveRequest, error) {
	var out []leaverequest.LeaveRequest
	for i := int64(1); i < m.nextID; i++ {
		if lr, ok := m.requests[i]; ok && lr.UserID == userID {
			out = append(out, *lr)
		}
	}
	return out, nil
}

func (m *mockLeaveRepository) UpdateStatus(ctx context.Context, id int64, status string, comment *string) error {
	lr, ok := m.requests[id]
	if !ok {
		return internal.NewNotFoundError("leave request not found", internal.ErrCodeLeaveRequestNotFound)
	}
	lr.Status = status
	lr.Comment = comment
	return nil
}

func (m *mockLeaveRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.requests[id]; !ok {
		return internal.NewNotFoundError("leave request not found", internal.ErrCodeLeaveRequestNotFound)
	}
	delete(m.requests, id)
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

var _ = Describe("LeaveRequest Service", func() {
	var (
		repo      *mockLeaveRepository
		evaluator *mockEvaluator
		service   *leaverequest.Service
		ctx       context.Context
	)

	const (
		adminID    = "6f1c8a52-0000-4000-8000-000000000001"
		employeeID = "6f1c8a52-0000-4000-8000-000000000002"
		otherID    = "6f1c8a52-0000-4000-8000-000000000003"
	)

	validDTO := leaverequest.CreateLeaveRequestDTO{
		Name:      "Jamie Employee",
		Position:  leaverequest.PositionFullTime,
		Type:      leaverequest.TypeSickLeave,
		Reason:    "flu",
		StartDate: "2026-09-01",
		EndDate:   "2026-09-03",
	}

	BeforeEach(func() {
		repo = newMockLeaveRepository()
		evaluator = &mockEvaluator{admins: map[string]bool{adminID: true}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = leaverequest.NewService(repo, evaluator, logger)
		ctx = context.Background()
	})

	Describe("Create", func() {
		It("files the request as pending and owned by the caller", func() {
			lr, err := service.Create(ctx, employeeID, validDTO)
			Expect(err).ToNot(HaveOccurred())
			Expect(lr.Status).To(Equal(leaverequest.StatusPending))
			Expect(lr.UserID).To(Equal(employeeID))
			Expect(lr.StartDate).ToNot(BeNil())
		})

		It("rejects an end date before the start date", func() {
			dto := validDTO
			dto.StartDate = "2026-09-03"
			dto.EndDate = "2026-09-01"

			_, err := service.Create(ctx, employeeID, dto)
			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			details := appErr.Details.(internal.ValidationErrors)
			Expect(details.Errors[0].Field).To(Equal("end_date"))
			Expect(details.Errors[0].Code).To(Equal(string(internal.ErrCodeInvalidDate)))
		})

		It("rejects an unknown request type", func() {
			dto := validDTO
			dto.Type = "vacation!!"

			_, err := service.Create(ctx, employeeID, dto)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			_, err := service.Create(ctx, employeeID, validDTO)
			Expect(err).ToNot(HaveOccurred())
			_, err = service.Create(ctx, otherID, validDTO)
			Expect(err).ToNot(HaveOccurred())
		})

		It("shows a non-admin only their own requests", func() {
			view, err := service.List(ctx, employeeID)
			Expect(err).ToNot(HaveOccurred())
			Expect(view.IsAdmin).To(BeFalse())
			Expect(view.Requests).To(HaveLen(1))
			Expect(view.PendingRequests).To(BeEmpty())
		})

		It("shows an admin the full history plus the pending queue", func() {
			view, err := service.List(ctx, adminID)
			Expect(err).ToNot(HaveOccurred())
			Expect(view.IsAdmin).To(BeTrue())
			Expect(view.Requests).To(HaveLen(2))
			Expect(view.PendingRequests).To(HaveLen(2))
		})
	})

	Describe("UpdateStatus", func() {
		var requestID int64

		BeforeEach(func() {
			lr, err := service.Create(ctx, employeeID, validDTO)
			Expect(err).ToNot(HaveOccurred())
			requestID = lr.ID
		})

		It("lets an admin approve a pending request with a comment", func() {
			lr, err := service.UpdateStatus(ctx, adminID, requestID, leaverequest.UpdateStatusDTO{
				Status:  leaverequest.StatusApproved,
				Comment: "get well soon",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(lr.Status).To(Equal(leaverequest.StatusApproved))
			Expect(*lr.Comment).To(Equal("get well soon"))

			stored, err := repo.GetByID(ctx, requestID)
			Expect(err).ToNot(HaveOccurred())
			Expect(stored.Status).To(Equal(leaverequest.StatusApproved))
		})

		It("denies a non-admin and leaves the request untouched", func() {
			_, err := service.UpdateStatus(ctx, employeeID, requestID, leaverequest.UpdateStatusDTO{
				Status: leaverequest.StatusApproved,
			})
			Expect(err).To(MatchError(internal.ErrPermissionDenied))

			stored, err := repo.GetByID(ctx, requestID)
			Expect(err).ToNot(HaveOccurred())
			Expect(stored.Status).To(Equal(leaverequest.StatusPending))
		})

		It("denies when the evaluator fails, even for an admin", func() {
			evaluator.err = errors.New("store down")

			_, err := service.UpdateStatus(ctx, adminID, requestID, leaverequest.UpdateStatusDTO{
				Status: leaverequest.StatusApproved,
			})
			Expect(err).To(MatchError(internal.ErrPermissionDenied))
		})

		It("refuses to move a request that already left pending", func() {
			_, err := service.UpdateStatus(ctx, adminID, requestID, leaverequest.UpdateStatusDTO{
				Status: leaverequest.StatusRejected,
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.UpdateStatus(ctx, adminID, requestID, leaverequest.UpdateStatusDTO{
				Status: leaverequest.StatusApproved,
			})
			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidStatus))
		})

		It("rejects an invalid target status", func() {
			_, err := service.UpdateStatus(ctx, adminID, requestID, leaverequest.UpdateStatusDTO{
				Status: "archived",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Delete", func() {
		var requestID int64

		BeforeEach(func() {
			lr, err := service.Create(ctx, employeeID, validDTO)
			Expect(err).ToNot(HaveOccurred())
			requestID = lr.ID
		})

		It("lets the owner delete their own request", func() {
			Expect(service.Delete(ctx, employeeID, requestID)).To(Succeed())

			_, err := repo.GetByID(ctx, requestID)
			Expect(err).To(HaveOccurred())
		})

		It("lets an admin delete any request", func() {
			Expect(service.Delete(ctx, adminID, requestID)).To(Succeed())
		})

		It("denies another non-admin principal", func() {
			err := service.Delete(ctx, otherID, requestID)
			Expect(err).To(MatchError(internal.ErrPermissionDenied))

			_, err = repo.GetByID(ctx, requestID)
			Expect(err).ToNot(HaveOccurred())
		})

		It("propagates not-found for a missing request", func() {
			err := service.Delete(ctx, employeeID, 9999)
			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeLeaveRequestNotFound))
		})
	})
})
