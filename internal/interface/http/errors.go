package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stacksapp/stacks-api/internal/application"
	"github.com/stacksapp/stacks-api/pkg/response"
)

// respondError maps application errors onto the HTTP surface. Denials from
// the ownership guard and bad credentials both come out as 401 with no body
// detail, so a caller cannot probe for resource existence.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var fe *application.FieldError
	switch {
	case errors.As(err, &fe):
		response.Error[any](c, http.StatusBadRequest, fe.Reason, gin.H{"field": fe.Field})
	case errors.Is(err, application.ErrMissingFilter):
		response.Error[any](c, http.StatusBadRequest, "at least one category filter is required", nil)
	case errors.Is(err, application.ErrEmailTaken):
		response.Error[any](c, http.StatusUnprocessableEntity, "email already in use", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "incorrect email or password", nil)
	case errors.Is(err, application.ErrCannotMutate):
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	default:
		if logger != nil {
			logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}
