package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pazarhub/backend/internal/application/dispatch"
	"github.com/pazarhub/backend/internal/domain/outbox"
	"github.com/pazarhub/backend/internal/interfaces/http/dto"
)

// dispatchBatchSize bounds how many due entries one manual dispatch sends.
const dispatchBatchSize = 50

// OutboxHandler handles forwarding outbox HTTP requests
type OutboxHandler struct {
	BaseHandler
	service *dispatch.Service
}

// NewOutboxHandler creates a new outbox handler
func NewOutboxHandler(service *dispatch.Service) *OutboxHandler {
	return &OutboxHandler{service: service}
}

// OutboxEntryResponse is the API representation of an outbox entry
type OutboxEntryResponse struct {
	ID             string     `json:"id"`
	IdempotencyKey string     `json:"idempotency_key"`
	Marketplace    string     `json:"marketplace"`
	ExternalID     string     `json:"external_id"`
	Target         string     `json:"target"`
	State          string     `json:"state"`
	AttemptCount   int        `json:"attempt_count"`
	MaxAttempts    int        `json:"max_attempts"`
	LastError      string     `json:"last_error,omitempty"`
	NextAttemptAt  time.Time  `json:"next_attempt_at"`
	Reference      string     `json:"reference,omitempty"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func toOutboxEntryResponse(e *outbox.Entry) OutboxEntryResponse {
	return OutboxEntryResponse{
		ID:             e.ID.String(),
		IdempotencyKey: e.IdempotencyKey,
		Marketplace:    e.Marketplace.String(),
		ExternalID:     e.ExternalID,
		Target:         e.Target,
		State:          e.State.String(),
		AttemptCount:   e.AttemptCount,
		MaxAttempts:    e.MaxAttempts,
		LastError:      e.LastError,
		NextAttemptAt:  e.NextAttemptAt,
		Reference:      e.Reference,
		SentAt:         e.SentAt,
		CreatedAt:      e.CreatedAt,
	}
}

// ListExhausted returns entries that burned through their retry budget.
// GET /api/v1/outbox/exhausted
func (h *OutboxHandler) ListExhausted(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	req.Normalize()

	entries, total, err := h.service.ListExhausted(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]OutboxEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toOutboxEntryResponse(e))
	}

	h.SuccessWithMeta(c, out, total, req.Page, req.PageSize)
}

// Retry resets an exhausted entry so the dispatcher picks it up again.
// POST /api/v1/outbox/:key/retry
func (h *OutboxHandler) Retry(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		h.BadRequest(c, "Idempotency key required")
		return
	}

	entry, err := h.service.Reset(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOutboxEntryResponse(entry))
}

// Dispatch runs one dispatch pass immediately instead of waiting for the
// next poll interval.
// POST /api/v1/outbox/dispatch
func (h *OutboxHandler) Dispatch(c *gin.Context) {
	sent, err := h.service.DispatchDue(c.Request.Context(), dispatchBatchSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"sent": sent})
}

// Stats returns entry counts grouped by state.
// GET /api/v1/outbox/stats
func (h *OutboxHandler) Stats(c *gin.Context) {
	counts, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make(map[string]int64, len(counts))
	for state, n := range counts {
		out[state.String()] = n
	}

	h.Success(c, out)
}

// RegisterRoutes wires the outbox endpoints into the API group.
func (h *OutboxHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ob := rg.Group("/outbox")
	{
		ob.GET("/exhausted", h.ListExhausted)
		ob.GET("/stats", h.Stats)
		ob.POST("/:key/retry", h.Retry)
		ob.POST("/dispatch", h.Dispatch)
	}
}
