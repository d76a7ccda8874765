package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pazarhub/backend/internal/domain/marketplace"
	"github.com/pazarhub/backend/internal/domain/outbox"
	"github.com/pazarhub/backend/internal/domain/syncrun"
	"github.com/pazarhub/backend/internal/interfaces/http/dto"
)

// RequestIDKey is the context key for request ID
const RequestIDKey = "request_id"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return ""
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Accepted sends a 202 accepted response, used when a sync starts in the
// background
func (h *BaseHandler) Accepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(data))
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Conflict sends a 409 conflict response
func (h *BaseHandler) Conflict(c *gin.Context, code, message string) {
	h.Error(c, http.StatusConflict, code, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	requestID := getRequestID(c)
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		requestID,
		details,
	))
}

// HandleError converts domain errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, syncrun.ErrRunNotFound):
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Sync run not found")
	case errors.Is(err, syncrun.ErrRunActive):
		h.Error(c, http.StatusConflict, dto.ErrCodeRunActive, "A sync is already running for this marketplace and entity")
	case errors.Is(err, marketplace.ErrAdapterNotFound):
		h.Error(c, http.StatusNotFound, dto.ErrCodeMarketplaceUnknown, "Unknown marketplace")
	case errors.Is(err, marketplace.ErrCapabilityAbsent):
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeCapabilityAbsent, "This marketplace does not provide the requested records")
	case errors.Is(err, marketplace.ErrNotConfigured):
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeNotConfigured, "Marketplace connection is not configured")
	case errors.Is(err, marketplace.ErrRecordNotFound):
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Record not found")
	case errors.Is(err, outbox.ErrEntryNotFound):
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Outbox entry not found")
	case errors.Is(err, outbox.ErrNotExhausted):
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, "Only exhausted entries can be reset")
	case marketplace.IsUnauthorized(err):
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Marketplace rejected the configured credentials")
	case marketplace.IsRateLimited(err):
		h.Error(c, http.StatusTooManyRequests, dto.ErrCodeRateLimited, "Marketplace rate limit hit, try again later")
	default:
		h.InternalError(c, "An unexpected error occurred")
	}
}
