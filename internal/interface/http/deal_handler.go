package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stacksapp/stacks-api/internal/application"
	"github.com/stacksapp/stacks-api/internal/interface/middleware"
	"github.com/stacksapp/stacks-api/pkg/response"
	"github.com/stacksapp/stacks-api/pkg/validation"
)

type DealHandler struct {
	Deals  *application.DealService
	Logger *logrus.Logger
}

func NewDealHandler(deals *application.DealService, logger *logrus.Logger) *DealHandler {
	return &DealHandler{Deals: deals, Logger: logger}
}

// List returns the deals visible to the authenticated user, filtered by the
// repeated category query parameter and optionally ranked by distance from
// lat/lng. lat and lng travel together; providing only one is a client error.
func (h *DealHandler) List(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	categories := c.QueryArray("category")

	latS, hasLat := c.GetQuery("lat")
	lngS, hasLng := c.GetQuery("lng")
	if hasLat != hasLng {
		response.Error[any](c, http.StatusBadRequest, "lat and lng must be provided together", nil)
		return
	}
	var origin *application.Coordinate
	if hasLat {
		lat, latErr := strconv.ParseFloat(latS, 64)
		lng, lngErr := strconv.ParseFloat(lngS, 64)
		if latErr != nil || lngErr != nil {
			response.Error[any](c, http.StatusBadRequest, "lat and lng must be numbers", nil)
			return
		}
		origin = &application.Coordinate{Lat: lat, Lng: lng}
	}

	deals, err := h.Deals.ListVisible(c.Request.Context(), userID, categories, origin)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, populatedDealReprs(deals), "visible deals", gin.H{"count": len(deals)})
}

// Get returns one populated deal by id.
func (h *DealHandler) Get(c *gin.Context) {
	d, err := h.Deals.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, populatedDealRepr(d), "deal", nil)
}

// Mine lists the authenticated merchant's own deals, active or not.
func (h *DealHandler) Mine(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	deals, err := h.Deals.ListForOwner(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, dealReprs(deals), "merchant deals", nil)
}

// Search runs a text query over the deals index.
func (h *DealHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Deals.Search(c.Request.Context(), q, size)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}

type createDealRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Barcode     string `json:"barcode"`
}

// Create publishes a deal under the authenticated user's merchant.
func (h *DealHandler) Create(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	var req createDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid request body", validation.ToDetails(err))
		return
	}
	d, err := h.Deals.Create(c.Request.Context(), userID, application.CreateDealInput{
		Name:        req.Name,
		Description: req.Description,
		Barcode:     req.Barcode,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, dealRepr(d), "deal created", nil)
}

// Update applies a partial update to an owned deal. The field allow-list runs
// before the write; ownership is the conditional write itself.
func (h *DealHandler) Update(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	fields, err := validation.DecodeOrderedFields(c.Request.Body)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	d, err := h.Deals.Update(c.Request.Context(), userID, c.Param("id"), toAppFields(fields))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, dealRepr(d), "deal updated", nil)
}

// Delete removes an owned deal.
func (h *DealHandler) Delete(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if err := h.Deals.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "deal deleted", nil)
}
