package repository

import (
	"context"

	"github.com/stacksapp/stacks-api/internal/domain/entity"
)

// MerchantUpdate carries the allow-listed merchant fields. Nil pointers leave
// the stored value untouched. Email is not here: it belongs to the owning
// user record and is applied through UserRepository.
type MerchantUpdate struct {
	Name     *string
	Category *string
	LogoURL  *string
	Address  *string
	Phone    *string
	Lat      *float64
	Lng      *float64
}

// MerchantRepository defines merchant-related database operations.
//
// UpdateOwned scopes the write by {id, owner_id} in one conditional statement
// and returns ErrNotFound when zero rows matched, whether the merchant does
// not exist or belongs to someone else.
type MerchantRepository interface {
	Create(ctx context.Context, m *entity.Merchant) error
	GetByID(ctx context.Context, id string) (*entity.Merchant, error)
	GetByOwner(ctx context.Context, ownerID string) (*entity.Merchant, error)
	UpdateOwned(ctx context.Context, id, ownerID string, upd MerchantUpdate) (*entity.Merchant, error)
}
