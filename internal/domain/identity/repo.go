package identity

import (
	"context"

	"github.com/dentalportal/portal/internal/platform/store"
)

type UserRepository interface {
	List(ctx context.Context) ([]*User, error)
	// GetByEmail returns store.ErrNotFound when no user has that email.
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) (*store.InsertResult, error)
	// PromoteToAdmin sets role=admin on the user with id, creating a bare
	// admin record if none exists. An unparseable id matches nothing.
	PromoteToAdmin(ctx context.Context, id string) (*store.UpdateResult, error)
}

type DoctorRepository interface {
	List(ctx context.Context) ([]*Doctor, error)
	Create(ctx context.Context, d *Doctor) (*store.InsertResult, error)
	// Delete of an unknown or unparseable id reports zero deletions.
	Delete(ctx context.Context, id string) (*store.DeleteResult, error)
}
