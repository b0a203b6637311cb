package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stacksapp/stacks-api/internal/application"
	"github.com/stacksapp/stacks-api/internal/interface/middleware"
	"github.com/stacksapp/stacks-api/pkg/response"
	"github.com/stacksapp/stacks-api/pkg/validation"
)

type UserHandler struct {
	Users  *application.UserService
	Deals  *application.DealService
	Logger *logrus.Logger
}

func NewUserHandler(users *application.UserService, deals *application.DealService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Users: users, Deals: deals, Logger: logger}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,pwd"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// Register creates a consumer account and logs it straight in.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid request body", validation.ToDetails(err))
		return
	}
	u, err := h.Users.Register(c.Request.Context(), application.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	pair, err := h.Users.IssueTokens(c.Request.Context(), u)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"user":   userRepr(u),
		"tokens": tokenRepr(pair),
	}, "account created", nil)
}

// UpdateProfile applies a partial update to the authenticated user's own
// record. The body is decoded in key order so a disallowed field rejects the
// request deterministically, before anything is written.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	fields, err := validation.DecodeOrderedFields(c.Request.Body)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	u, err := h.Users.UpdateProfile(c.Request.Context(), userID, toAppFields(fields))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, userRepr(u), "profile updated", nil)
}

// HeldDeals lists the authenticated user's held deals as populated views.
func (h *UserHandler) HeldDeals(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	deals, err := h.Deals.HeldDeals(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, populatedDealReprs(deals), "held deals", nil)
}

// AddDeal puts the deal into the user's held set.
func (h *UserHandler) AddDeal(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Users.AddDeal(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, userRepr(u), "deal added", nil)
}

// RedeemDeal moves the deal from held to redeemed.
func (h *UserHandler) RedeemDeal(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Users.RedeemDeal(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, userRepr(u), "deal redeemed", nil)
}

// DismissDeal moves the deal from held to dismissed.
func (h *UserHandler) DismissDeal(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Users.DismissDeal(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, userRepr(u), "deal dismissed", nil)
}

func toAppFields(fields []validation.OrderedField) []application.Field {
	out := make([]application.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, application.Field{Name: f.Name, Value: f.Value})
	}
	return out
}
