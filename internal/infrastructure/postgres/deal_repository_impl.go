package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stacksapp/stacks-api/internal/domain/entity"
	"github.com/stacksapp/stacks-api/internal/domain/repository"
)

const populatedSelect = `
	SELECT d.id, d.merchant_id, d.name, d.description, d.barcode, d.active, d.published_at,
	       m.name, m.category, m.logo_url, m.address, m.phone, m.lat, m.lng
	FROM deals d
	JOIN merchants m ON m.id = d.merchant_id`

type DealRepository struct {
	pool *pgxpool.Pool
}

func NewDealRepository(pool *pgxpool.Pool) *DealRepository {
	return &DealRepository{pool: pool}
}

func scanPopulated(row pgx.Row) (*entity.PopulatedDeal, error) {
	d := &entity.PopulatedDeal{}
	if err := row.Scan(&d.ID, &d.MerchantID, &d.Name, &d.Description, &d.Barcode, &d.Active, &d.PublishedAt,
		&d.MerchantName, &d.Category, &d.LogoURL, &d.Address, &d.Phone, &d.Lat, &d.Lng); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func collectPopulated(rows pgx.Rows) ([]entity.PopulatedDeal, error) {
	defer rows.Close()
	var out []entity.PopulatedDeal
	for rows.Next() {
		d, err := scanPopulated(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *DealRepository) Create(ctx context.Context, d *entity.Deal) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO deals (merchant_id, name, description, barcode)
		VALUES ($1, $2, $3, $4)
		RETURNING id, active, published_at
	`, d.MerchantID, d.Name, d.Description, d.Barcode)

	return row.Scan(&d.ID, &d.Active, &d.PublishedAt)
}

func (r *DealRepository) GetPopulated(ctx context.Context, id string) (*entity.PopulatedDeal, error) {
	return scanPopulated(r.pool.QueryRow(ctx, populatedSelect+`
		WHERE d.id = $1
	`, id))
}

// ListPopulated loads every deal with its merchant in publication order. The
// inner join silently drops deals whose merchant has been deleted; an orphan
// is not resolvable and must not break the listing.
func (r *DealRepository) ListPopulated(ctx context.Context) ([]entity.PopulatedDeal, error) {
	rows, err := r.pool.Query(ctx, populatedSelect+`
		ORDER BY d.published_at, d.id
	`)
	if err != nil {
		return nil, err
	}
	return collectPopulated(rows)
}

func (r *DealRepository) ListPopulatedByIDs(ctx context.Context, ids []string) ([]entity.PopulatedDeal, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, populatedSelect+`
		WHERE d.id = ANY($1)
		ORDER BY d.published_at, d.id
	`, ids)
	if err != nil {
		return nil, err
	}
	return collectPopulated(rows)
}

func (r *DealRepository) ListByMerchant(ctx context.Context, merchantID string) ([]entity.Deal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, merchant_id, name, description, barcode, active, published_at
		FROM deals
		WHERE merchant_id = $1
		ORDER BY published_at, id
	`, merchantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []entity.Deal
	for rows.Next() {
		var d entity.Deal
		if err := rows.Scan(&d.ID, &d.MerchantID, &d.Name, &d.Description, &d.Barcode, &d.Active, &d.PublishedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateOwned is the ownership guard for deal mutation: the write is scoped
// by {id, merchant_id} in one conditional statement, so ownership cannot
// change between check and write. Zero rows matched is ErrNotFound whether
// the deal is missing or belongs to another merchant.
func (r *DealRepository) UpdateOwned(ctx context.Context, id, merchantID string, upd repository.DealUpdate) (*entity.Deal, error) {
	d := &entity.Deal{}
	err := r.pool.QueryRow(ctx, `
		UPDATE deals
		SET name        = COALESCE($3, name),
		    description = COALESCE($4, description),
		    barcode     = COALESCE($5, barcode)
		WHERE id = $1 AND merchant_id = $2
		RETURNING id, merchant_id, name, description, barcode, active, published_at
	`, id, merchantID, upd.Name, upd.Description, upd.Barcode).Scan(
		&d.ID, &d.MerchantID, &d.Name, &d.Description, &d.Barcode, &d.Active, &d.PublishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *DealRepository) DeleteOwned(ctx context.Context, id, merchantID string) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM deals
		WHERE id = $1 AND merchant_id = $2
	`, id, merchantID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.DealRepository = (*DealRepository)(nil)
