package entity

import (
	"time"
)

// User is the aggregate root for the identity domain. Passwords are stored
// as bcrypt hashes in Password.
//
// HeldDeals, RedeemedDeals and DismissedDeals are pairwise disjoint: a deal
// id lives in at most one of the three sets, and every transition between
// them is a single atomic store update.
type User struct {
	ID             string
	Email          string
	Password       string
	FirstName      string
	LastName       string
	IsMerchant     bool
	HeldDeals      []string
	RedeemedDeals  []string
	DismissedDeals []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasTaken reports whether the user currently holds or has redeemed the deal.
// Dismissed deals are intentionally not counted: they become visible again.
func (u *User) HasTaken(dealID string) bool {
	for _, id := range u.HeldDeals {
		if id == dealID {
			return true
		}
	}
	for _, id := range u.RedeemedDeals {
		if id == dealID {
			return true
		}
	}
	return false
}
