package auth_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/danuarta/hr-portal/internal/auth"
	userDatamodel "github.com/danuarta/hr-portal/internal/core/datamodel/user"
	"github.com/danuarta/hr-portal/internal/core/events"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Module Suite")
}

// Mock repository for testing
type mockAuthRepository struct {
	usersByEmail map[string]*userDatamodel.User
	usersByID    map[string]*userDatamodel.User
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		usersByEmail: make(map[string]*userDatamodel.User),
		usersByID:    make(map[string]*userDatamodel.User),
	}
}

func (m *mockAuthRepository) add(u *userDatamodel.User) {
	m.usersByEmail[u.Email] = u
	m.usersByID[u.ID] = u
}

func (m *mockAuthRepository) GetCredentialsByEmail(ctx context.Context, email string) (string, string, error) {
	u, ok := m.usersByEmail[email]
	if !ok || !u.IsActive {
		return "", "", auth.ErrInvalidCredentials
	}
	return u.ID, u.PasswordHash, nil
}

func (m *mockAuthRepository) GetUserByID(ctx context.Context, userID string) (*userDatamodel.User, error) {
	u, ok := m.usersByID[userID]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (m *mockAuthRepository) CreateUser(ctx context.Context, u *userDatamodel.User) error {
	if _, exists := m.usersByEmail[u.Email]; exists {
		return auth.ErrEmailTaken
	}
	m.add(u)
	return nil
}

// Mock evaluator for testing
type mockEvaluator struct {
	roles       []string
	permissions []string
	err         error
}

func (m *mockEvaluator) HasPermission(ctx context.Context, principalID, permission string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, p := range m.permissions {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEvaluator) HasRole(ctx context.Context, principalID, roleName string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, r := range m.roles {
		if r == roleName {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEvaluator) PrincipalAccess(ctx context.Context, principalID string) ([]string, []string, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.roles, m.permissions, nil
}

var _ = Describe("Auth Service", func() {
	var (
		repo      *mockAuthRepository
		evaluator *mockEvaluator
		bus       *events.EventBus
		service   *auth.Service
		ctx       context.Context
		published chan events.Event
	)

	subscribeCapture := func(eventType string) {
		bus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			published <- event
			return nil
		})
	}

	addUser := func(id, email, password string) {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		Expect(err).ToNot(HaveOccurred())
		repo.add(&userDatamodel.User{
			ID:           id,
			Name:         "Test User",
			Email:        email,
			PasswordHash: string(hash),
			IsActive:     true,
		})
	}

	BeforeEach(func() {
		repo = newMockAuthRepository()
		evaluator = &mockEvaluator{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(logger)
		published = make(chan events.Event, 4)
		tokens := auth.NewJWTTokenGenerator("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
		service = auth.NewService(repo, evaluator, tokens, bus, bcrypt.MinCost, logger)
		ctx = context.Background()
	})

	Describe("Authenticate", func() {
		It("returns a token pair for valid credentials and publishes a login event", func() {
			addUser("user-1", "user@example.test", "correct-horse")
			subscribeCapture(events.AuthLogin)

			tokens, err := service.Authenticate(ctx, auth.LoginDTO{Email: "user@example.test", Password: "correct-horse"}, auth.RequestMeta{IPAddress: "10.0.0.1"})
			Expect(err).ToNot(HaveOccurred())
			Expect(tokens.AccessToken).ToNot(BeEmpty())
			Expect(tokens.RefreshToken).ToNot(BeEmpty())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal("user-1"))

			Eventually(published).Should(Receive())
		})

		It("rejects a wrong password and publishes a failed-login event with the attempted email", func() {
			addUser("user-1", "user@example.test", "correct-horse")
			subscribeCapture(events.AuthLoginFailed)

			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "user@example.test", Password: "wrong"}, auth.RequestMeta{})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))

			var event events.Event
			Eventually(published).Should(Receive(&event))
			payload := event.Payload().(map[string]interface{})
			Expect(payload).To(HaveKeyWithValue("email", "user@example.test"))
			Expect(payload).To(HaveKeyWithValue("user_id", ""))
		})

		It("delivers lifecycle events on a context the request can no longer cancel", func() {
			addUser("user-1", "user@example.test", "correct-horse")

			subscriberCtxErr := make(chan error, 1)
			bus.Subscribe(events.AuthLogin, func(ctx context.Context, event events.Event) error {
				subscriberCtxErr <- ctx.Err()
				return nil
			})

			// the request context is cancelled by the time subscribers run
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := service.Authenticate(cancelled, auth.LoginDTO{Email: "user@example.test", Password: "correct-horse"}, auth.RequestMeta{})
			Expect(err).ToNot(HaveOccurred())

			Eventually(subscriberCtxErr).Should(Receive(BeNil()))
		})

		It("rejects an unknown email with the same error as a wrong password", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "ghost@example.test", Password: "whatever"}, auth.RequestMeta{})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})
	})

	Describe("Register", func() {
		It("creates an employee principal with a UUID identity", func() {
			subscribeCapture(events.AuthRegistered)

			u, err := service.Register(ctx, auth.RegisterDTO{
				Name:                 "New Hire",
				Email:                "new@example.test",
				Password:             "longenough",
				PasswordConfirmation: "longenough",
			}, auth.RequestMeta{})
			Expect(err).ToNot(HaveOccurred())
			Expect(u.ID).To(HaveLen(36))

			stored := repo.usersByEmail["new@example.test"]
			Expect(stored.EmploymentType).To(Equal(userDatamodel.EmploymentEmployee))
			Expect(stored.PasswordHash).ToNot(Equal("longenough"))

			Eventually(published).Should(Receive())
		})

		It("rejects a duplicate email", func() {
			addUser("user-1", "taken@example.test", "correct-horse")

			_, err := service.Register(ctx, auth.RegisterDTO{
				Name:                 "Imposter",
				Email:                "taken@example.test",
				Password:             "longenough",
				PasswordConfirmation: "longenough",
			}, auth.RequestMeta{})
			Expect(err).To(MatchError(auth.ErrEmailTaken))
		})

		It("rejects a mismatched confirmation", func() {
			_, err := service.Register(ctx, auth.RegisterDTO{
				Name:                 "New Hire",
				Email:                "new@example.test",
				Password:             "longenough",
				PasswordConfirmation: "different",
			}, auth.RequestMeta{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("RefreshTokens", func() {
		It("exchanges a valid refresh token for a new pair", func() {
			addUser("user-1", "user@example.test", "correct-horse")
			tokens, err := service.Authenticate(ctx, auth.LoginDTO{Email: "user@example.test", Password: "correct-horse"}, auth.RequestMeta{})
			Expect(err).ToNot(HaveOccurred())

			renewed, err := service.RefreshTokens(ctx, tokens.RefreshToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(renewed.AccessToken).ToNot(BeEmpty())
		})

		It("rejects garbage tokens", func() {
			_, err := service.RefreshTokens(ctx, "not-a-token")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("LoadUser", func() {
		It("resolves the principal with roles and permissions", func() {
			addUser("user-1", "user@example.test", "correct-horse")
			evaluator.roles = []string{"Admin"}
			evaluator.permissions = []string{"View_user_list"}

			u, err := service.LoadUser(ctx, "user-1")
			Expect(err).ToNot(HaveOccurred())
			Expect(u.HasRole("Admin")).To(BeTrue())
			Expect(u.HasPermission("View_user_list")).To(BeTrue())
		})

		It("propagates evaluator errors so the middleware denies", func() {
			addUser("user-1", "user@example.test", "correct-horse")
			evaluator.err = errors.New("store down")

			_, err := service.LoadUser(ctx, "user-1")
			Expect(err).To(HaveOccurred())
		})
	})
})
