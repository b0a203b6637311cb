package entity

import "time"

// Deal is a published offer belonging to a Merchant.
type Deal struct {
	ID          string
	MerchantID  string
	Name        string
	Description string
	Barcode     string
	Active      bool
	PublishedAt time.Time
}

// PopulatedDeal is a Deal merged with its owning merchant's display fields.
// Read endpoints return this shape instead of the bare stored record.
type PopulatedDeal struct {
	Deal
	MerchantName string
	Category     string
	LogoURL      string
	Address      string
	Phone        string
	Lat          float64
	Lng          float64
}
