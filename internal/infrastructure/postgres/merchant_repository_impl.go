package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stacksapp/stacks-api/internal/domain/entity"
	"github.com/stacksapp/stacks-api/internal/domain/repository"
)

const merchantColumns = `id, owner_id, name, category, logo_url, address, phone, lat, lng, published_at`

type MerchantRepository struct {
	pool *pgxpool.Pool
}

func NewMerchantRepository(pool *pgxpool.Pool) *MerchantRepository {
	return &MerchantRepository{pool: pool}
}

func scanMerchant(row pgx.Row) (*entity.Merchant, error) {
	m := &entity.Merchant{}
	if err := row.Scan(&m.ID, &m.OwnerID, &m.Name, &m.Category, &m.LogoURL,
		&m.Address, &m.Phone, &m.Lat, &m.Lng, &m.PublishedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *MerchantRepository) Create(ctx context.Context, m *entity.Merchant) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO merchants (owner_id, name, category, logo_url, address, phone, lat, lng)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, published_at
	`, m.OwnerID, m.Name, m.Category, m.LogoURL, m.Address, m.Phone, m.Lat, m.Lng)

	return row.Scan(&m.ID, &m.PublishedAt)
}

func (r *MerchantRepository) GetByID(ctx context.Context, id string) (*entity.Merchant, error) {
	return scanMerchant(r.pool.QueryRow(ctx, `
		SELECT `+merchantColumns+`
		FROM merchants
		WHERE id = $1
	`, id))
}

func (r *MerchantRepository) GetByOwner(ctx context.Context, ownerID string) (*entity.Merchant, error) {
	return scanMerchant(r.pool.QueryRow(ctx, `
		SELECT `+merchantColumns+`
		FROM merchants
		WHERE owner_id = $1
	`, ownerID))
}

// UpdateOwned is the ownership guard for merchant mutation: the WHERE clause
// scopes the write by owner in the same statement, so there is no window
// between checking ownership and applying the change. Zero rows matched is
// ErrNotFound whether the merchant is missing or owned by someone else.
func (r *MerchantRepository) UpdateOwned(ctx context.Context, id, ownerID string, upd repository.MerchantUpdate) (*entity.Merchant, error) {
	return scanMerchant(r.pool.QueryRow(ctx, `
		UPDATE merchants
		SET name     = COALESCE($3, name),
		    category = COALESCE($4, category),
		    logo_url = COALESCE($5, logo_url),
		    address  = COALESCE($6, address),
		    phone    = COALESCE($7, phone),
		    lat      = COALESCE($8, lat),
		    lng      = COALESCE($9, lng)
		WHERE id = $1 AND owner_id = $2
		RETURNING `+merchantColumns+`
	`, id, ownerID, upd.Name, upd.Category, upd.LogoURL, upd.Address, upd.Phone, upd.Lat, upd.Lng))
}

var _ repository.MerchantRepository = (*MerchantRepository)(nil)
