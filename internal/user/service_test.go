package user_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/danuarta/hr-portal/internal"
	"github.com/danuarta/hr-portal/internal/accesspolicy"
	"github.com/danuarta/hr-portal/internal/core/datamodel/rbac"
	userDatamodel "github.com/danuarta/hr-portal/internal/core/datamodel/user"
	"github.com/danuarta/hr-portal/internal/user"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Module Suite")
}

// Mock account repository for testing
type mockUserRepository struct {
	users map[string]*userDatamodel.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*userDatamodel.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return internal.ErrEmailTaken
		}
	}
	stored := *u
	m.users[u.ID] = &stored
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*userDatamodel.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepository) List(ctx context.Context) ([]userDatamodel.User, error) {
	out := make([]userDatamodel.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserRepository) Update(ctx context.Context, u *userDatamodel.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return internal.ErrUserNotFound
	}
	stored := *u
	m.users[u.ID] = &stored
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return internal.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

// Mock role store backing the access policy service.
type mockRBACRepository struct {
	roles       map[int64]*rbac.Role
	assignments map[string][]int64
}

func newMockRBACRepository() *mockRBACRepository {
	return &mockRBACRepository{
		roles:       make(map[int64]*rbac.Role),
		assignments: make(map[string][]int64),
	}
}

func (m *mockRBACRepository) addRole(id int64, name string) {
	m.roles[id] = &rbac.Role{ID: id, Name: name}
}

func (m *mockRBACRepository) GetRoleByName(ctx context.Context, name string) (*rbac.Role, error) {
	for _, r := range m.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, accesspolicy.ErrRoleNotFound
}

func (m *mockRBACRepository) GetRoleByID(ctx context.Context, id int64) (*rbac.Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, accesspolicy.ErrRoleNotFound
	}
	return r, nil
}

func (m *mockRBACRepository) ListRoles(ctx context.Context) ([]rbac.Role, error) {
	var out []rbac.Role
	for _, r := range m.roles {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockRBACRepository) ListPermissions(ctx context.Context) ([]rbac.Permission, error) {
	return nil, nil
}

func (m *mockRBACRepository) CreateRole(ctx context.Context, name string, permissionIDs []int64) (*rbac.Role, error) {
	id := int64(len(m.roles) + 1)
	m.addRole(id, name)
	return m.roles[id], nil
}

func (m *mockRBACRepository) UpdateRole(ctx context.Context, id int64, name string, permissionIDs []int64) (*rbac.Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, accesspolicy.ErrRoleNotFound
	}
	r.Name = name
	return r, nil
}

func (m *mockRBACRepository) DeleteRole(ctx context.Context, id int64) error {
	delete(m.roles, id)
	return nil
}

func (m *mockRBACRepository) RolesForPrincipal(ctx context.Context, principalID string) ([]rbac.Role, error) {
	var out []rbac.Role
	for _, id := range m.assignments[principalID] {
		if r, ok := m.roles[id]; ok {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockRBACRepository) AssignRole(ctx context.Context, principalID string, roleID int64) error {
	m.assignments[principalID] = append(m.assignments[principalID], roleID)
	return nil
}

func (m *mockRBACRepository) SyncRoles(ctx context.Context, principalID string, roleIDs []int64) error {
	m.assignments[principalID] = roleIDs
	return nil
}

var _ = Describe("User Service", func() {
	var (
		repo     *mockUserRepository
		rbacRepo *mockRBACRepository
		service  *user.Service
		ctx      context.Context
	)

	validDTO := user.CreateUserDTO{
		Name:                 "Alex Staff",
		Email:                "alex@example.test",
		Password:             "longenough",
		PasswordConfirmation: "longenough",
	}

	BeforeEach(func() {
		repo = newMockUserRepository()
		rbacRepo = newMockRBACRepository()
		rbacRepo.addRole(1, "Admin")
		rbacRepo.addRole(2, "HR")
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		policy := accesspolicy.NewService(rbacRepo, accesspolicy.NewPermissionCache(), logger)
		service = user.NewService(repo, policy, bcrypt.MinCost, logger)
		ctx = context.Background()
	})

	Describe("Create", func() {
		It("provisions an active employee account with a hashed password", func() {
			v, err := service.Create(ctx, validDTO)
			Expect(err).ToNot(HaveOccurred())
			Expect(v.ID).To(HaveLen(36))
			Expect(v.IsActive).To(BeTrue())
			Expect(v.EmploymentType).To(Equal(userDatamodel.EmploymentEmployee))

			stored := repo.users[v.ID]
			Expect(stored.PasswordHash).ToNot(Equal("longenough"))
			Expect(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("longenough"))).To(Succeed())
		})

		It("assigns the submitted roles through the policy layer", func() {
			dto := validDTO
			dto.RoleIDs = []int64{2}

			v, err := service.Create(ctx, dto)
			Expect(err).ToNot(HaveOccurred())
			Expect(v.Roles).To(ConsistOf("HR"))
		})

		It("rejects an unknown role id before touching assignments", func() {
			dto := validDTO
			dto.RoleIDs = []int64{99}

			_, err := service.Create(ctx, dto)
			Expect(err).To(MatchError(accesspolicy.ErrUnknownRole))
		})

		It("surfaces a duplicate email", func() {
			_, err := service.Create(ctx, validDTO)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Create(ctx, validDTO)
			Expect(err).To(MatchError(internal.ErrEmailTaken))
		})

		It("rejects a short password", func() {
			dto := validDTO
			dto.Password = "short"
			dto.PasswordConfirmation = "short"

			_, err := service.Create(ctx, dto)
			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
		})
	})

	Describe("Update", func() {
		var userID string

		BeforeEach(func() {
			dto := validDTO
			dto.RoleIDs = []int64{2}
			v, err := service.Create(ctx, dto)
			Expect(err).ToNot(HaveOccurred())
			userID = v.ID
		})

		It("keeps the stored password when the submitted one is blank", func() {
			before := repo.users[userID].PasswordHash

			_, err := service.Update(ctx, userID, user.UpdateUserDTO{
				Name:  "Alex Renamed",
				Email: "alex@example.test",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.users[userID].PasswordHash).To(Equal(before))
			Expect(repo.users[userID].Name).To(Equal("Alex Renamed"))
		})

		It("replaces the role set when role ids are submitted", func() {
			v, err := service.Update(ctx, userID, user.UpdateUserDTO{
				Name:    "Alex Staff",
				Email:   "alex@example.test",
				RoleIDs: []int64{1},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(v.Roles).To(ConsistOf("Admin"))
		})

		It("returns not-found for a missing account", func() {
			_, err := service.Update(ctx, "ghost", user.UpdateUserDTO{Name: "x", Email: "x@example.test"})
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})

	Describe("Delete", func() {
		It("removes the account and revokes its role assignments", func() {
			dto := validDTO
			dto.RoleIDs = []int64{1, 2}
			v, err := service.Create(ctx, dto)
			Expect(err).ToNot(HaveOccurred())

			Expect(service.Delete(ctx, v.ID)).To(Succeed())
			Expect(repo.users).To(BeEmpty())
			Expect(rbacRepo.assignments[v.ID]).To(BeEmpty())
		})
	})

	Describe("List", func() {
		It("returns every account enriched with role names", func() {
			first := validDTO
			first.RoleIDs = []int64{1}
			_, err := service.Create(ctx, first)
			Expect(err).ToNot(HaveOccurred())

			second := validDTO
			second.Email = "sam@example.test"
			second.Name = "Sam Staff"
			_, err = service.Create(ctx, second)
			Expect(err).ToNot(HaveOccurred())

			views, err := service.List(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(views).To(HaveLen(2))
		})
	})
})
