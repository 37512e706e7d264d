package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fernpay/payments-backend/internal/http/response"
	pkgerrors "github.com/fernpay/payments-backend/internal/pkg/errors"
	"github.com/fernpay/payments-backend/internal/pkg/logger"
)

// respondServiceError maps service-layer error kinds onto HTTP statuses.
// Lock faults deliberately land in the 500 bucket: the unit of work was
// rolled back and the caller may retry.
func respondServiceError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, pkgerrors.ErrDuplicateKey):
		response.RespondError(c, http.StatusConflict, "duplicate_account_number", err)
	case errors.Is(err, pkgerrors.ErrInvalidInput):
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
	default:
		if log != nil {
			log.Error("request failed", "path", c.FullPath(), "error", err)
		}
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
