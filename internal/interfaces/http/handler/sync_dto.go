package handler

import (
	"strings"
	"time"

	"github.com/pazarhub/backend/internal/domain/marketplace"
	"github.com/pazarhub/backend/internal/domain/syncrun"
)

// StartSyncRequest carries the optional window and status filter for a crawl
type StartSyncRequest struct {
	Status    string     `json:"status"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

// ToFilter converts the request to a domain listing filter
func (r *StartSyncRequest) ToFilter() marketplace.ListFilter {
	f := marketplace.ListFilter{Status: r.Status}
	if r.StartTime != nil {
		f.StartTime = *r.StartTime
	}
	if r.EndTime != nil {
		f.EndTime = *r.EndTime
	}
	return f
}

// ListRunsRequest carries the run listing query parameters
type ListRunsRequest struct {
	Marketplace string `form:"marketplace"`
	Entity      string `form:"entity"`
	State       string `form:"state"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// RunResponse is the API representation of a sync run
type RunResponse struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"owner_id"`
	Marketplace  string     `json:"marketplace"`
	Entity       string     `json:"entity"`
	State        string     `json:"state"`
	Error        string     `json:"error,omitempty"`
	PagesFetched int        `json:"pages_fetched"`
	ItemsSeen    int        `json:"items_seen"`
	ItemsFailed  int        `json:"items_failed"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toRunResponse(r *syncrun.Run) RunResponse {
	resp := RunResponse{
		ID:           r.ID.String(),
		OwnerID:      r.OwnerID.String(),
		Marketplace:  r.Marketplace.String(),
		Entity:       r.Entity.String(),
		State:        r.State.String(),
		Error:        r.Error,
		PagesFetched: r.PagesFetched,
		ItemsSeen:    r.ItemsSeen,
		ItemsFailed:  r.ItemsFailed,
		FinishedAt:   r.FinishedAt,
		CreatedAt:    r.CreatedAt,
	}
	if !r.StartedAt.IsZero() {
		started := r.StartedAt
		resp.StartedAt = &started
	}
	return resp
}

// ItemLogResponse is the API representation of one item outcome
type ItemLogResponse struct {
	ID             string    `json:"id"`
	ItemExternalID string    `json:"item_external_id"`
	Outcome        string    `json:"outcome"`
	ErrorDetail    string    `json:"error_detail,omitempty"`
	Warning        string    `json:"warning,omitempty"`
	AttemptedAt    time.Time `json:"attempted_at"`
}

func toItemLogResponse(l *syncrun.ItemLog) ItemLogResponse {
	return ItemLogResponse{
		ID:             l.ID.String(),
		ItemExternalID: l.ItemExternalID,
		Outcome:        l.Outcome.String(),
		ErrorDetail:    l.ErrorDetail,
		Warning:        l.Warning,
		AttemptedAt:    l.AttemptedAt,
	}
}

// StartResultResponse reports the outcome of one marketplace in a sync-all
type StartResultResponse struct {
	Marketplace string `json:"marketplace"`
	RunID       string `json:"run_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

// MarketplaceResponse describes one registered adapter
type MarketplaceResponse struct {
	Code         string   `json:"code"`
	Enabled      bool     `json:"enabled"`
	Capabilities []string `json:"capabilities"`
}

// parseEntity maps a path segment like "orders" to its entity type.
func parseEntity(raw string) (marketplace.EntityType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "order", "orders":
		return marketplace.EntityOrder, true
	case "product", "products":
		return marketplace.EntityProduct, true
	case "question", "questions":
		return marketplace.EntityQuestion, true
	case "return", "returns":
		return marketplace.EntityReturn, true
	default:
		return "", false
	}
}

// parseMarketplace maps a path segment to a marketplace code.
func parseMarketplace(raw string) (marketplace.Code, bool) {
	code := marketplace.Code(strings.ToUpper(strings.TrimSpace(raw)))
	return code, code.IsValid()
}
