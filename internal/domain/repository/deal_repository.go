package repository

import (
	"context"

	"github.com/stacksapp/stacks-api/internal/domain/entity"
)

// DealUpdate carries the allow-listed deal fields. Nil pointers leave the
// stored value untouched.
type DealUpdate struct {
	Name        *string
	Description *string
	Barcode     *string
}

// DealRepository defines deal-related database operations.
//
// ListPopulated returns every deal inner-joined to its merchant in a stable
// load order (published_at, then id). Deals whose merchant row is gone are
// excluded by the join rather than surfacing as an error.
//
// UpdateOwned and DeleteOwned scope the write by {id, merchant_id} in one
// conditional statement; zero rows affected is reported as ErrNotFound so
// "missing" and "not owned" are indistinguishable to callers.
type DealRepository interface {
	Create(ctx context.Context, d *entity.Deal) error
	GetPopulated(ctx context.Context, id string) (*entity.PopulatedDeal, error)
	ListPopulated(ctx context.Context) ([]entity.PopulatedDeal, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]entity.Deal, error)
	ListPopulatedByIDs(ctx context.Context, ids []string) ([]entity.PopulatedDeal, error)
	UpdateOwned(ctx context.Context, id, merchantID string, upd DealUpdate) (*entity.Deal, error)
	DeleteOwned(ctx context.Context, id, merchantID string) error
}
