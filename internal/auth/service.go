package auth

import (
	"context"
	"log/slog"

	"github.com/danuarta/hr-portal/internal/accesspolicy"
	userDatamodel "github.com/danuarta/hr-portal/internal/core/datamodel/user"
	"github.com/danuarta/hr-portal/internal/core/events"
	"github.com/google/uuid"
)

// Repository is the persistence contract for authentication lookups.
type Repository interface {
	GetCredentialsByEmail(ctx context.Context, email string) (userID, passwordHash string, err error)
	GetUserByID(ctx context.Context, userID string) (*userDatamodel.User, error)
	CreateUser(ctx context.Context, u *userDatamodel.User) error
}

// RequestMeta carries the request attributes published with each
// authentication lifecycle event so the audit recorder can attribute it.
type RequestMeta struct {
	IPAddress string
	UserAgent string
	RouteName string
	Method    string
	URL       string
}

// Service performs authentication and publishes the four lifecycle events
// (login, logout, login_failed, registered) consumed by the audit recorder.
// Publishing is fire-and-forget: a subscriber failure never affects the
// authentication outcome.
type Service struct {
	repo       Repository
	evaluator  accesspolicy.Evaluator
	tokens     TokenGenerator
	bus        *events.EventBus
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, evaluator accesspolicy.Evaluator, tokens TokenGenerator, bus *events.EventBus, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		evaluator:  evaluator,
		tokens:     tokens,
		bus:        bus,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Authenticate validates credentials and returns a token pair.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO, meta RequestMeta) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	userID, storedHash, err := s.repo.GetCredentialsByEmail(ctx, dto.Email)
	if err != nil {
		s.publishAuthEvent(ctx, events.AuthLoginFailed, "", dto.Email, meta)
		return AuthTokens{}, ErrInvalidCredentials
	}

	if err := VerifyPassword(storedHash, dto.Password); err != nil {
		s.publishAuthEvent(ctx, events.AuthLoginFailed, "", dto.Email, meta)
		return AuthTokens{}, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.GenerateAccessToken(userID, dto.Email)
	if err != nil {
		return AuthTokens{}, err
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(userID, dto.Email)
	if err != nil {
		return AuthTokens{}, err
	}

	s.publishAuthEvent(ctx, events.AuthLogin, userID, dto.Email, meta)

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Register creates a self-registered principal with the employee
// classification and no roles.
func (s *Service) Register(ctx context.Context, dto RegisterDTO, meta RequestMeta) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	record := &userDatamodel.User{
		ID:             uuid.NewString(),
		Name:           dto.Name,
		Email:          dto.Email,
		PasswordHash:   hash,
		EmploymentType: userDatamodel.EmploymentEmployee,
		IsActive:       true,
	}
	if err := s.repo.CreateUser(ctx, record); err != nil {
		return nil, err
	}

	s.publishAuthEvent(ctx, events.AuthRegistered, record.ID, record.Email, meta)

	return &User{ID: record.ID, Email: record.Email, Name: record.Name}, nil
}

// Logout publishes the logout lifecycle event. Token invalidation is client
// side; the audit trail still records the action.
func (s *Service) Logout(ctx context.Context, userID, email string, meta RequestMeta) {
	s.publishAuthEvent(ctx, events.AuthLogout, userID, email, meta)
}

// RefreshTokens validates a refresh token and returns a new pair.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	accessToken, err := s.tokens.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		return AuthTokens{}, err
	}
	newRefreshToken, err := s.tokens.GenerateRefreshToken(claims.UserID, claims.Email)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateToken(tokenString)
}

// LoadUser resolves the principal plus its roles and permissions for the
// request context. Evaluator errors propagate so the middleware denies.
func (s *Service) LoadUser(ctx context.Context, userID string) (*User, error) {
	record, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	roles, perms, err := s.evaluator.PrincipalAccess(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &User{
		ID:          record.ID,
		Email:       record.Email,
		Name:        record.Name,
		Roles:       roles,
		Permissions: perms,
	}, nil
}

func (s *Service) publishAuthEvent(ctx context.Context, eventType, userID, email string, meta RequestMeta) {
	event := events.NewAuthEvent(eventType, events.AuthEventData{
		UserID:    userID,
		Email:     email,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		RouteName: meta.RouteName,
		Method:    meta.Method,
		URL:       meta.URL,
	})
	// Subscribers run after the handler returns; the request context is
	// cancelled by then, so hand them a detached one or the audit insert
	// loses the race against the response write.
	if err := s.bus.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Error("failed to publish auth event", "error", err, "event_type", eventType)
	}
}
