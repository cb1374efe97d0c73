package user

import (
	"context"
	"log/slog"

	"github.com/danuarta/hr-portal/internal/accesspolicy"
	"github.com/danuarta/hr-portal/internal/auth"
	userDatamodel "github.com/danuarta/hr-portal/internal/core/datamodel/user"
	"github.com/google/uuid"
)

// Service handles account management. Role membership goes through the
// access policy service so its permission cache is invalidated on every
// change.
type Service struct {
	repo       Repository
	policy     *accesspolicy.Service
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, policy *accesspolicy.Service, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		policy:     policy,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Create provisions an account and assigns the submitted roles.
func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, err
	}

	employmentType := dto.EmploymentType
	if employmentType == "" {
		employmentType = userDatamodel.EmploymentEmployee
	}

	u := &userDatamodel.User{
		ID:             uuid.NewString(),
		Name:           dto.Name,
		Email:          dto.Email,
		PasswordHash:   hash,
		EmploymentType: employmentType,
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	if len(dto.RoleIDs) > 0 {
		if err := s.policy.SyncRolesByID(ctx, u.ID, dto.RoleIDs); err != nil {
			s.logger.Error("failed to assign roles to new user", "error", err, "user_id", u.ID)
			return nil, err
		}
	}

	s.logger.Info("user created", "user_id", u.ID, "email", u.Email)
	return s.view(ctx, u)
}

// Update edits an account. A blank password keeps the stored hash; the
// submitted role set replaces the previous assignments.
func (s *Service) Update(ctx context.Context, id string, dto UpdateUserDTO) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.Name = dto.Name
	u.Email = dto.Email
	if dto.EmploymentType != "" {
		u.EmploymentType = dto.EmploymentType
	}
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}
	if dto.Password != "" {
		hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
		if err != nil {
			s.logger.Error("failed to hash password", "error", err, "user_id", id)
			return nil, err
		}
		u.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	if dto.RoleIDs != nil {
		if err := s.policy.SyncRolesByID(ctx, id, dto.RoleIDs); err != nil {
			return nil, err
		}
	}

	s.logger.Info("user updated", "user_id", id)
	return s.view(ctx, u)
}

// Delete removes an account and revokes all of its role assignments.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.policy.SyncRolesByID(ctx, id, nil); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", "user_id", id)
	return nil
}

// Get returns a single account with its role names.
func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, u)
}

// List returns every account with its role names.
func (s *Service) List(ctx context.Context) ([]View, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(users))
	for i := range users {
		v, err := s.view(ctx, &users[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

func (s *Service) view(ctx context.Context, u *userDatamodel.User) (*View, error) {
	roles, _, err := s.policy.PrincipalAccess(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &View{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		EmploymentType: u.EmploymentType,
		IsActive:       u.IsActive,
		Roles:          roles,
		CreatedAt:      u.CreatedAt,
	}, nil
}
