// Package user manages principal accounts: listing, creation by an
// administrator, profile updates and deactivating deletes. Role membership
// is delegated to the access policy service so the permission cache stays
// coherent with every change made here.
package user

import (
	"context"

	userDatamodel "github.com/danuarta/hr-portal/internal/core/datamodel/user"
)

// Repository is the persistence contract for principal accounts.
type Repository interface {
	Create(ctx context.Context, u *userDatamodel.User) error
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	List(ctx context.Context) ([]userDatamodel.User, error)
	Update(ctx context.Context, u *userDatamodel.User) error
	Delete(ctx context.Context, id string) error
}
