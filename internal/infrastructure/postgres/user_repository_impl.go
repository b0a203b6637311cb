package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stacksapp/stacks-api/internal/domain/entity"
	"github.com/stacksapp/stacks-api/internal/domain/repository"
)

const userColumns = `id, email, password_hash, first_name, last_name, is_merchant,
		held_deals, redeemed_deals, dismissed_deals, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.IsMerchant,
		&u.HeldDeals, &u.RedeemedDeals, &u.DismissedDeals, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, is_merchant)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.FirstName, u.LastName, u.IsMerchant)

	return row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email))
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
	`, email).Scan(&exists)
	return exists, err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, upd repository.UserProfileUpdate) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users
		SET email      = COALESCE($2, email),
		    first_name = COALESCE($3, first_name),
		    last_name  = COALESCE($4, last_name),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id, upd.Email, upd.FirstName, upd.LastName))
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddHeldDeal moves the deal into held_deals. Re-adding a held deal is a
// replace, not a duplicate, and the id is dropped from the other two sets in
// the same statement so the three arrays stay disjoint.
func (r *UserRepository) AddHeldDeal(ctx context.Context, userID, dealID string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users
		SET held_deals      = array_append(array_remove(held_deals, $2), $2),
		    redeemed_deals  = array_remove(redeemed_deals, $2),
		    dismissed_deals = array_remove(dismissed_deals, $2),
		    updated_at      = now()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, userID, dealID))
}

func (r *UserRepository) RedeemDeal(ctx context.Context, userID, dealID string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users
		SET held_deals      = array_remove(held_deals, $2),
		    redeemed_deals  = array_append(array_remove(redeemed_deals, $2), $2),
		    dismissed_deals = array_remove(dismissed_deals, $2),
		    updated_at      = now()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, userID, dealID))
}

func (r *UserRepository) DismissDeal(ctx context.Context, userID, dealID string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users
		SET held_deals      = array_remove(held_deals, $2),
		    redeemed_deals  = array_remove(redeemed_deals, $2),
		    dismissed_deals = array_append(array_remove(dismissed_deals, $2), $2),
		    updated_at      = now()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, userID, dealID))
}

var _ repository.UserRepository = (*UserRepository)(nil)
