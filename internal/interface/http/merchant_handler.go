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

type MerchantHandler struct {
	Merchants *application.MerchantService
	Users     *application.UserService
	Logger    *logrus.Logger
}

func NewMerchantHandler(merchants *application.MerchantService, users *application.UserService, logger *logrus.Logger) *MerchantHandler {
	return &MerchantHandler{Merchants: merchants, Users: users, Logger: logger}
}

type merchantSignupRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,pwd"`
	Name     string  `json:"name" binding:"required"`
	Category string  `json:"category" binding:"required"`
	Address  string  `json:"address"`
	Phone    string  `json:"phone"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// Signup provisions a merchant account (owning user plus merchant profile)
// and logs the new owner in.
func (h *MerchantHandler) Signup(c *gin.Context) {
	var req merchantSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid request body", validation.ToDetails(err))
		return
	}
	m, err := h.Merchants.Signup(c.Request.Context(), application.MerchantSignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Category: req.Category,
		Address:  req.Address,
		Phone:    req.Phone,
		Lat:      req.Lat,
		Lng:      req.Lng,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	_, pair, err := h.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"merchant": merchantRepr(m),
		"tokens":   tokenRepr(pair),
	}, "merchant account created", nil)
}

// Me returns the merchant owned by the authenticated user.
func (h *MerchantHandler) Me(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	m, err := h.Merchants.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, merchantRepr(m), "merchant profile", nil)
}

// Update applies a partial update to the addressed merchant. Ownership is
// enforced by the store write, never by a prior existence check.
func (h *MerchantHandler) Update(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	fields, err := validation.DecodeOrderedFields(c.Request.Body)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	m, err := h.Merchants.Update(c.Request.Context(), userID, c.Param("id"), toAppFields(fields))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, merchantRepr(m), "merchant updated", nil)
}

// UploadURL returns a signed PUT URL for a logo upload.
func (h *MerchantHandler) UploadURL(c *gin.Context) {
	filename := c.Query("file_name")
	contentType := c.Query("file_type")
	if filename == "" || contentType == "" {
		response.Error[any](c, http.StatusBadRequest, "file_name and file_type are required", nil)
		return
	}
	u, err := h.Merchants.SignLogoUpload(filename, contentType)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "upload url", nil)
}
