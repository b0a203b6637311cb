package entity

import "time"

// Merchant is a business profile owned by exactly one User. The one-per-owner
// rule is enforced by the application plus a unique index on owner_id.
type Merchant struct {
	ID          string
	OwnerID     string
	Name        string
	Category    string
	LogoURL     string
	Address     string
	Phone       string
	Lat         float64
	Lng         float64
	PublishedAt time.Time
}
