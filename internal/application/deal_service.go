package application

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/stacksapp/stacks-api/internal/domain/entity"
	repo "github.com/stacksapp/stacks-api/internal/domain/repository"
)

// Coordinate is a geographic origin supplied with a listing request. Lat and
// Lng always travel together; a partial coordinate is rejected at the
// boundary before it reaches this package.
type Coordinate struct {
	Lat float64
	Lng float64
}

// DealService owns deal reads and mutations, including the visibility and
// ranking pipeline behind the public listing.
type DealService struct {
	Deals        repo.DealRepository
	Merchants    repo.MerchantRepository
	Users        repo.UserRepository
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESDealsIndex string
}

func NewDealService(deals repo.DealRepository, merchants repo.MerchantRepository, users repo.UserRepository, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *DealService {
	return &DealService{
		Deals:        deals,
		Merchants:    merchants,
		Users:        users,
		Logger:       logger,
		ES:           es,
		ESDealsIndex: esIndex,
	}
}

var dealUpdateAllowed = map[string]bool{
	"name":        true,
	"description": true,
	"barcode":     true,
}

// ListVisible computes the ordered list of deals the user is eligible to see.
// The pipeline runs over a single snapshot read:
//
//  1. every deal joined to its merchant, in stable publication order
//  2. minus deals the user holds or has redeemed (dismissed deals stay
//     visible again; that is the product behavior, not an oversight)
//  3. minus inactive deals
//  4. minus deals outside the requested categories
//  5. if an origin is given, stable-sorted by Manhattan distance
//
// At least one category is required; an empty filter is a client error.
func (s *DealService) ListVisible(ctx context.Context, userID string, categories []string, origin *Coordinate) ([]entity.PopulatedDeal, error) {
	if len(categories) == 0 {
		return nil, ErrMissingFilter
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, maskNotFound(err)
	}
	rows, err := s.Deals.ListPopulated(ctx)
	if err != nil {
		return nil, err
	}
	return rankVisible(rows, u, categories, origin), nil
}

// rankVisible is the filter-sort pipeline over one consistent snapshot. The
// sort compares raw latitude/longitude differences (Manhattan distance in
// degree space), and ties keep the load order: sort.SliceStable is part of
// the contract, so equal-distance deals order deterministically across
// repeated calls on unchanged data.
func rankVisible(rows []entity.PopulatedDeal, u *entity.User, categories []string, origin *Coordinate) []entity.PopulatedDeal {
	allowed := make(map[string]bool, len(categories))
	for _, c := range categories {
		allowed[c] = true
	}

	out := make([]entity.PopulatedDeal, 0, len(rows))
	for _, d := range rows {
		if u.HasTaken(d.ID) {
			continue
		}
		if !d.Active {
			continue
		}
		if !allowed[d.Category] {
			continue
		}
		out = append(out, d)
	}

	if origin != nil {
		sort.SliceStable(out, func(i, j int) bool {
			return manhattan(&out[i], *origin) < manhattan(&out[j], *origin)
		})
	}
	return out
}

func manhattan(d *entity.PopulatedDeal, o Coordinate) float64 {
	return math.Abs(d.Lat-o.Lat) + math.Abs(d.Lng-o.Lng)
}

// Get returns one populated deal. No ownership applies to a direct read, so
// an absent deal is a plain not-found rather than an ownership denial.
func (s *DealService) Get(ctx context.Context, id string) (*entity.PopulatedDeal, error) {
	d, err := s.Deals.GetPopulated(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// ListForOwner returns the requesting merchant's own deals, active or not.
func (s *DealService) ListForOwner(ctx context.Context, userID string) ([]entity.Deal, error) {
	m, err := s.Merchants.GetByOwner(ctx, userID)
	if err != nil {
		return nil, maskNotFound(err)
	}
	return s.Deals.ListByMerchant(ctx, m.ID)
}

// HeldDeals returns the user's held deals as populated views.
func (s *DealService) HeldDeals(ctx context.Context, userID string) ([]entity.PopulatedDeal, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, maskNotFound(err)
	}
	return s.Deals.ListPopulatedByIDs(ctx, u.HeldDeals)
}

type CreateDealInput struct {
	Name        string
	Description string
	Barcode     string
}

// Create publishes a deal under the merchant owned by the requesting user.
// A user without a merchant gets the same generic denial as a failed
// ownership check.
func (s *DealService) Create(ctx context.Context, userID string, in CreateDealInput) (*entity.Deal, error) {
	m, err := s.Merchants.GetByOwner(ctx, userID)
	if err != nil {
		return nil, maskNotFound(err)
	}
	d := &entity.Deal{
		MerchantID:  m.ID,
		Name:        in.Name,
		Description: in.Description,
		Barcode:     in.Barcode,
	}
	if err := s.Deals.Create(ctx, d); err != nil {
		return nil, err
	}
	s.indexDeal(ctx, d, m)
	return d, nil
}

// Update mutates an allow-listed field set on a deal owned by the requesting
// user's merchant. The allow-list gate runs first; the ownership check is the
// conditional write itself.
func (s *DealService) Update(ctx context.Context, userID, dealID string, fields []Field) (*entity.Deal, error) {
	if err := checkAllowed(fields, dealUpdateAllowed); err != nil {
		return nil, err
	}
	var upd repo.DealUpdate
	for _, f := range fields {
		v, err := stringValue(f)
		if err != nil {
			return nil, err
		}
		switch f.Name {
		case "name":
			upd.Name = &v
		case "description":
			upd.Description = &v
		case "barcode":
			upd.Barcode = &v
		}
	}

	m, err := s.Merchants.GetByOwner(ctx, userID)
	if err != nil {
		return nil, maskNotFound(err)
	}
	d, err := s.Deals.UpdateOwned(ctx, dealID, m.ID, upd)
	if err != nil {
		return nil, maskNotFound(err)
	}
	s.indexDeal(ctx, d, m)
	return d, nil
}

// Delete removes a deal owned by the requesting user's merchant, with the
// same zero-rows-means-deny contract as Update.
func (s *DealService) Delete(ctx context.Context, userID, dealID string) error {
	m, err := s.Merchants.GetByOwner(ctx, userID)
	if err != nil {
		return maskNotFound(err)
	}
	if err := s.Deals.DeleteOwned(ctx, dealID, m.ID); err != nil {
		return maskNotFound(err)
	}
	s.unindexDeal(ctx, dealID)
	return nil
}

// indexDeal mirrors the deal into Elasticsearch for text search. Indexing is
// best effort: a failure is logged and never fails the write path.
func (s *DealService) indexDeal(ctx context.Context, d *entity.Deal, m *entity.Merchant) {
	if s.ES == nil || s.ESDealsIndex == "" {
		return
	}
	doc := map[string]any{
		"id":           d.ID,
		"name":         d.Name,
		"description":  d.Description,
		"active":       d.Active,
		"merchant":     m.Name,
		"category":     m.Category,
		"address":      m.Address,
		"published_at": d.PublishedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESDealsIndex, DocumentID: d.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("deal_id", d.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("deal_id", d.ID).Warn("es index response error")
	}
}

func (s *DealService) unindexDeal(ctx context.Context, dealID string) {
	if s.ES == nil || s.ESDealsIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESDealsIndex, DocumentID: dealID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("deal_id", dealID).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match query over the deals index.
func (s *DealService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESDealsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "description", "merchant", "category"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESDealsIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
