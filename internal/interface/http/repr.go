package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/stacksapp/stacks-api/internal/application"
	"github.com/stacksapp/stacks-api/internal/domain/entity"
)

// Wire representations. Entities stay tag-free; the shapes clients see are
// assembled here so storage changes never leak into the API by accident.

func userRepr(u *entity.User) gin.H {
	return gin.H{
		"id":             u.ID,
		"email":          u.Email,
		"first_name":     u.FirstName,
		"last_name":      u.LastName,
		"merchant":       u.IsMerchant,
		"deals":          strSlice(u.HeldDeals),
		"redeemed_deals": strSlice(u.RedeemedDeals),
	}
}

func dealRepr(d *entity.Deal) gin.H {
	return gin.H{
		"id":           d.ID,
		"name":         d.Name,
		"description":  d.Description,
		"barcode":      d.Barcode,
		"active":       d.Active,
		"published_at": d.PublishedAt,
	}
}

func populatedDealRepr(d *entity.PopulatedDeal) gin.H {
	return gin.H{
		"id":          d.ID,
		"name":        d.Name,
		"description": d.Description,
		"barcode":     d.Barcode,
		"active":      d.Active,
		"merchant":    d.MerchantName,
		"category":    d.Category,
		"logo":        d.LogoURL,
		"address":     d.Address,
		"phone":       d.Phone,
		"lat":         d.Lat,
		"lng":         d.Lng,
	}
}

func populatedDealReprs(ds []entity.PopulatedDeal) []gin.H {
	out := make([]gin.H, 0, len(ds))
	for i := range ds {
		out = append(out, populatedDealRepr(&ds[i]))
	}
	return out
}

func dealReprs(ds []entity.Deal) []gin.H {
	out := make([]gin.H, 0, len(ds))
	for i := range ds {
		out = append(out, dealRepr(&ds[i]))
	}
	return out
}

func merchantRepr(m *entity.Merchant) gin.H {
	return gin.H{
		"id":       m.ID,
		"user":     m.OwnerID,
		"name":     m.Name,
		"category": m.Category,
		"logo":     m.LogoURL,
		"address":  m.Address,
		"phone":    m.Phone,
		"lat":      m.Lat,
		"lng":      m.Lng,
	}
}

func tokenRepr(pair application.TokenPair) gin.H {
	return gin.H{
		"access_token":         pair.AccessToken,
		"access_token_expiry":  pair.AccessTokenExpiry,
		"refresh_token":        pair.RefreshToken,
		"refresh_token_expiry": pair.RefreshTokenExpiry,
		"token_type":           "Bearer",
	}
}

// strSlice keeps empty sets as [] instead of null on the wire.
func strSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
