package application

import (
	"context"
	"strconv"
	"time"

	"github.com/stacksapp/stacks-api/internal/domain/entity"
	repo "github.com/stacksapp/stacks-api/internal/domain/repository"
)

// In-memory repositories for service tests. They implement the same
// contracts as the postgres implementations, including zero-rows-as-
// ErrNotFound on ownership-scoped writes and atomic set transitions.

type memUserRepo struct {
	users  map[string]*entity.User
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

var _ repo.UserRepository = (*memUserRepo)(nil)

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.nextID++
	u.ID = "u" + itoa(r.nextID)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) UpdateProfile(_ context.Context, id string, upd repo.UserProfileUpdate) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) AddHeldDeal(_ context.Context, userID, dealID string) (*entity.User, error) {
	return r.transition(userID, dealID, func(u *entity.User) {
		u.HeldDeals = appendUnique(u.HeldDeals, dealID)
	})
}

func (r *memUserRepo) RedeemDeal(_ context.Context, userID, dealID string) (*entity.User, error) {
	return r.transition(userID, dealID, func(u *entity.User) {
		u.RedeemedDeals = appendUnique(u.RedeemedDeals, dealID)
	})
}

func (r *memUserRepo) DismissDeal(_ context.Context, userID, dealID string) (*entity.User, error) {
	return r.transition(userID, dealID, func(u *entity.User) {
		u.DismissedDeals = appendUnique(u.DismissedDeals, dealID)
	})
}

// transition mirrors the single-statement store update: remove from all
// three sets first, then add to the target set.
func (r *memUserRepo) transition(userID, dealID string, add func(*entity.User)) (*entity.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	u.HeldDeals = removeStr(u.HeldDeals, dealID)
	u.RedeemedDeals = removeStr(u.RedeemedDeals, dealID)
	u.DismissedDeals = removeStr(u.DismissedDeals, dealID)
	add(u)
	cp := *u
	return &cp, nil
}

type memMerchantRepo struct {
	merchants map[string]*entity.Merchant
	nextID    int
}

func newMemMerchantRepo() *memMerchantRepo {
	return &memMerchantRepo{merchants: map[string]*entity.Merchant{}}
}

var _ repo.MerchantRepository = (*memMerchantRepo)(nil)

func (r *memMerchantRepo) Create(_ context.Context, m *entity.Merchant) error {
	r.nextID++
	m.ID = "m" + itoa(r.nextID)
	m.PublishedAt = time.Now()
	cp := *m
	r.merchants[m.ID] = &cp
	return nil
}

func (r *memMerchantRepo) GetByID(_ context.Context, id string) (*entity.Merchant, error) {
	m, ok := r.merchants[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memMerchantRepo) GetByOwner(_ context.Context, ownerID string) (*entity.Merchant, error) {
	for _, m := range r.merchants {
		if m.OwnerID == ownerID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memMerchantRepo) UpdateOwned(_ context.Context, id, ownerID string, upd repo.MerchantUpdate) (*entity.Merchant, error) {
	m, ok := r.merchants[id]
	if !ok || m.OwnerID != ownerID {
		return nil, repo.ErrNotFound
	}
	if upd.Name != nil {
		m.Name = *upd.Name
	}
	if upd.Category != nil {
		m.Category = *upd.Category
	}
	if upd.LogoURL != nil {
		m.LogoURL = *upd.LogoURL
	}
	if upd.Address != nil {
		m.Address = *upd.Address
	}
	if upd.Phone != nil {
		m.Phone = *upd.Phone
	}
	if upd.Lat != nil {
		m.Lat = *upd.Lat
	}
	if upd.Lng != nil {
		m.Lng = *upd.Lng
	}
	cp := *m
	return &cp, nil
}

type memDealRepo struct {
	deals     []*entity.Deal
	merchants *memMerchantRepo
	nextID    int
}

func newMemDealRepo(merchants *memMerchantRepo) *memDealRepo {
	return &memDealRepo{merchants: merchants}
}

var _ repo.DealRepository = (*memDealRepo)(nil)

func (r *memDealRepo) Create(_ context.Context, d *entity.Deal) error {
	r.nextID++
	d.ID = "d" + itoa(r.nextID)
	d.Active = true
	d.PublishedAt = time.Now().Add(time.Duration(r.nextID) * time.Second)
	cp := *d
	r.deals = append(r.deals, &cp)
	return nil
}

func (r *memDealRepo) populate(d *entity.Deal) (entity.PopulatedDeal, bool) {
	m, ok := r.merchants.merchants[d.MerchantID]
	if !ok {
		return entity.PopulatedDeal{}, false
	}
	return entity.PopulatedDeal{
		Deal:         *d,
		MerchantName: m.Name,
		Category:     m.Category,
		LogoURL:      m.LogoURL,
		Address:      m.Address,
		Phone:        m.Phone,
		Lat:          m.Lat,
		Lng:          m.Lng,
	}, true
}

func (r *memDealRepo) GetPopulated(_ context.Context, id string) (*entity.PopulatedDeal, error) {
	for _, d := range r.deals {
		if d.ID == id {
			if p, ok := r.populate(d); ok {
				return &p, nil
			}
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memDealRepo) ListPopulated(_ context.Context) ([]entity.PopulatedDeal, error) {
	out := make([]entity.PopulatedDeal, 0, len(r.deals))
	for _, d := range r.deals {
		if p, ok := r.populate(d); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memDealRepo) ListByMerchant(_ context.Context, merchantID string) ([]entity.Deal, error) {
	var out []entity.Deal
	for _, d := range r.deals {
		if d.MerchantID == merchantID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *memDealRepo) ListPopulatedByIDs(_ context.Context, ids []string) ([]entity.PopulatedDeal, error) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []entity.PopulatedDeal
	for _, d := range r.deals {
		if want[d.ID] {
			if p, ok := r.populate(d); ok {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (r *memDealRepo) UpdateOwned(_ context.Context, id, merchantID string, upd repo.DealUpdate) (*entity.Deal, error) {
	for _, d := range r.deals {
		if d.ID == id && d.MerchantID == merchantID {
			if upd.Name != nil {
				d.Name = *upd.Name
			}
			if upd.Description != nil {
				d.Description = *upd.Description
			}
			if upd.Barcode != nil {
				d.Barcode = *upd.Barcode
			}
			cp := *d
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memDealRepo) DeleteOwned(_ context.Context, id, merchantID string) error {
	for i, d := range r.deals {
		if d.ID == id && d.MerchantID == merchantID {
			r.deals = append(r.deals[:i], r.deals[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func appendUnique(s []string, v string) []string {
	for _, e := range s {
		if e == v {
			return s
		}
	}
	return append(s, v)
}

func removeStr(s []string, v string) []string {
	out := s[:0]
	for _, e := range s {
		if e != v {
			out = append(out, e)
		}
	}
	return out
}
