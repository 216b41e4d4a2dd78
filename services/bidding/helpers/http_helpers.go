package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"auction-coordinator/internal/biddingerrors"
	"auction-coordinator/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// ParseIDParam reads a positive integer path parameter. On failure it writes
// a 400 response and returns false.
func ParseIDParam(c *gin.Context, handlerName, param string) (int, bool) {
	raw := c.Param(param)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		wrappedErr := fmt.Errorf("%w - %s must be a positive integer, got %q", biddingerrors.ErrInvalidInput, param, raw)
		utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid "+param)
		utils.Warn(handlerName+": invalid path parameter", map[string]any{"param": param, "value": raw})
		return 0, false
	}
	return id, true
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, biddingerrors.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, biddingerrors.ErrConflict):
		return http.StatusConflict, "user name already exists"
	case errors.Is(err, biddingerrors.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, biddingerrors.ErrItemNotFound):
		return http.StatusNotFound, "item not found"
	case errors.Is(err, biddingerrors.ErrAuctionClosed):
		return http.StatusForbidden, "auction is closed"
	case errors.Is(err, biddingerrors.ErrAlreadyOpen):
		return http.StatusBadRequest, "auction is already open"
	case errors.Is(err, biddingerrors.ErrAlreadyClosed):
		return http.StatusBadRequest, "auction is already closed"
	case errors.Is(err, biddingerrors.ErrInvalidBid):
		return http.StatusBadRequest, "bid must exceed current highest bid"
	case errors.Is(err, biddingerrors.ErrInsufficientFunds):
		return http.StatusBadRequest, "insufficient funds"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondError maps err, writes the error response and logs it
func RespondError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["status"] = status
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
