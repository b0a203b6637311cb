package repository

import (
	"context"
	"errors"

	"github.com/stacksapp/stacks-api/internal/domain/entity"
)

// ErrNotFound is returned by repositories when a read matched no record or a
// conditional write affected zero rows. Ownership-scoped writes return it for
// both "missing" and "not owned" so callers cannot tell the two apart.
var ErrNotFound = errors.New("not found")

// UserProfileUpdate carries the allow-listed profile fields. Nil pointers
// leave the stored value untouched.
type UserProfileUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// UserRepository defines user-related database operations.
//
// AddHeldDeal, RedeemDeal and DismissDeal must each be a single atomic
// read-modify-write: the deal id is removed from the other two relationship
// sets in the same statement that adds it, so the sets stay pairwise disjoint
// even under concurrent sessions of the same user.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id string, upd UserProfileUpdate) (*entity.User, error)
	Delete(ctx context.Context, id string) error

	AddHeldDeal(ctx context.Context, userID, dealID string) (*entity.User, error)
	RedeemDeal(ctx context.Context, userID, dealID string) (*entity.User, error)
	DismissDeal(ctx context.Context, userID, dealID string) (*entity.User, error)
}
