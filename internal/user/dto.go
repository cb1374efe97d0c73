package user

import (
	"net/mail"
	"time"

	"github.com/danuarta/hr-portal/internal"
	userDatamodel "github.com/danuarta/hr-portal/internal/core/datamodel/user"
)

// CreateUserDTO is the payload for an administrator creating an account.
// Role membership is submitted as role ids, matching the role editor.
type CreateUserDTO struct {
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Password             string  `json:"password"`
	PasswordConfirmation string  `json:"password_confirmation"`
	EmploymentType       string  `json:"employment_type"`
	RoleIDs              []int64 `json:"role_ids"`
}

func (d *CreateUserDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if _, err := mail.ParseAddress(d.Email); err != nil {
		return internal.NewValidationFieldError("email", "a valid email address is required", internal.ErrCodeValidationFailed)
	}
	if len(d.Password) < 8 {
		return internal.NewValidationFieldError("password", "password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	if d.Password != d.PasswordConfirmation {
		return internal.NewValidationFieldError("password_confirmation", "password confirmation does not match", internal.ErrCodeValidationFailed)
	}
	if d.EmploymentType != "" && !userDatamodel.ValidEmploymentType(d.EmploymentType) {
		return internal.NewValidationFieldError("employment_type", "employment_type must be one of employee, intern, manager", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateUserDTO is the payload for editing an account. The password is
// optional: when blank the stored hash is kept.
type UpdateUserDTO struct {
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Password             string  `json:"password"`
	PasswordConfirmation string  `json:"password_confirmation"`
	EmploymentType       string  `json:"employment_type"`
	IsActive             *bool   `json:"is_active"`
	RoleIDs              []int64 `json:"role_ids"`
}

func (d *UpdateUserDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if _, err := mail.ParseAddress(d.Email); err != nil {
		return internal.NewValidationFieldError("email", "a valid email address is required", internal.ErrCodeValidationFailed)
	}
	if d.Password != "" {
		if len(d.Password) < 8 {
			return internal.NewValidationFieldError("password", "password must be at least 8 characters", internal.ErrCodeValidationFailed)
		}
		if d.Password != d.PasswordConfirmation {
			return internal.NewValidationFieldError("password_confirmation", "password confirmation does not match", internal.ErrCodeValidationFailed)
		}
	}
	if d.EmploymentType != "" && !userDatamodel.ValidEmploymentType(d.EmploymentType) {
		return internal.NewValidationFieldError("employment_type", "employment_type must be one of employee, intern, manager", internal.ErrCodeValidationFailed)
	}
	return nil
}

// View is the read shape returned by the account endpoints, enriched with
// the principal's role names.
type View struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	EmploymentType string    `json:"employment_type"`
	IsActive       bool      `json:"is_active"`
	Roles          []string  `json:"roles"`
	CreatedAt      time.Time `json:"created_at"`
}
