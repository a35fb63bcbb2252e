package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/smallbiznis/taller/internal/customer/domain"
	publictokendomain "github.com/smallbiznis/taller/internal/publictoken/domain"
	quotedomain "github.com/smallbiznis/taller/internal/quote/domain"
	sequencedomain "github.com/smallbiznis/taller/internal/sequence/domain"
	serviceorderdomain "github.com/smallbiznis/taller/internal/serviceorder/domain"
	trackingdomain "github.com/smallbiznis/taller/internal/tracking/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrRateLimited    = errors.New("rate_limited")
	ErrInternal       = errors.New("internal_error")
)

// ErrorHandlingMiddleware converts errors attached to the gin context
// into a uniform JSON error body.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, sequencedomain.ErrUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, quotedomain.ErrInvalidQuote) ||
		errors.Is(err, quotedomain.ErrInvalidQuoteID) ||
		errors.Is(err, quotedomain.ErrInvalidOrganization) ||
		errors.Is(err, serviceorderdomain.ErrInvalidOrder) ||
		errors.Is(err, serviceorderdomain.ErrInvalidOrderID) ||
		errors.Is(err, serviceorderdomain.ErrInvalidOrganization) ||
		errors.Is(err, customerdomain.ErrInvalidCustomer) ||
		errors.Is(err, customerdomain.ErrInvalidCustomerID) ||
		errors.Is(err, customerdomain.ErrInvalidOrganization) ||
		errors.Is(err, publictokendomain.ErrInvalidOrder) ||
		errors.Is(err, sequencedomain.ErrInvalidScope)
}

func isConflictError(err error) bool {
	return errors.Is(err, quotedomain.ErrInvalidTransition) ||
		errors.Is(err, serviceorderdomain.ErrInvalidTransition)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, quotedomain.ErrNotFound) ||
		errors.Is(err, serviceorderdomain.ErrNotFound) ||
		errors.Is(err, customerdomain.ErrNotFound) ||
		errors.Is(err, publictokendomain.ErrNotFound) ||
		errors.Is(err, trackingdomain.ErrNotFound) ||
		errors.Is(err, gorm.ErrRecordNotFound)
}

func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error", payload.Type
	case status >= http.StatusBadRequest:
		return "client_error", payload.Type
	default:
		return "", payload.Type
	}
}

func invalidRequestError() error {
	return ErrInvalidRequest
}
