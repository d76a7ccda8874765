package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pazarhub/backend/internal/application/sync"
	"github.com/pazarhub/backend/internal/domain/marketplace"
	"github.com/pazarhub/backend/internal/domain/syncrun"
	"github.com/pazarhub/backend/internal/interfaces/http/dto"
)

// AccountResolver hands out the configured connection for a marketplace.
type AccountResolver interface {
	Account(code marketplace.Code) (marketplace.Account, bool)
	Enabled() []marketplace.Code
	DefaultOwner() uuid.UUID
}

// SyncHandler handles sync run HTTP requests
type SyncHandler struct {
	BaseHandler
	orchestrator *sync.Orchestrator
	registry     marketplace.Registry
	accounts     AccountResolver
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(orchestrator *sync.Orchestrator, registry marketplace.Registry, accounts AccountResolver) *SyncHandler {
	return &SyncHandler{
		orchestrator: orchestrator,
		registry:     registry,
		accounts:     accounts,
	}
}

// StartSync launches a crawl for one marketplace and entity.
// POST /api/v1/sync/:marketplace/:entity
func (h *SyncHandler) StartSync(c *gin.Context) {
	code, ok := parseMarketplace(c.Param("marketplace"))
	if !ok {
		h.Error(c, http.StatusNotFound, dto.ErrCodeMarketplaceUnknown, "Unknown marketplace")
		return
	}
	entity, ok := parseEntity(c.Param("entity"))
	if !ok {
		h.BadRequest(c, "Unknown entity type")
		return
	}

	var req StartSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BadRequest(c, "Invalid request body")
		return
	}

	acct, ok := h.accounts.Account(code)
	if !ok {
		h.HandleError(c, marketplace.ErrNotConfigured)
		return
	}

	run, err := h.orchestrator.StartSync(c.Request.Context(), acct, code, entity, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Accepted(c, toRunResponse(run))
}

// StartSyncAll launches a crawl for every enabled marketplace that offers
// the entity.
// POST /api/v1/sync/:entity
func (h *SyncHandler) StartSyncAll(c *gin.Context) {
	entity, ok := parseEntity(c.Param("entity"))
	if !ok {
		h.BadRequest(c, "Unknown entity type")
		return
	}

	var targets []sync.SyncTarget
	for _, code := range h.accounts.Enabled() {
		acct, ok := h.accounts.Account(code)
		if !ok {
			continue
		}
		targets = append(targets, sync.SyncTarget{Code: code, Account: acct})
	}
	if len(targets) == 0 {
		h.HandleError(c, marketplace.ErrNotConfigured)
		return
	}

	results := h.orchestrator.StartSyncAll(c.Request.Context(), targets, entity)

	out := make([]StartResultResponse, 0, len(results))
	for _, r := range results {
		item := StartResultResponse{Marketplace: r.Code.String()}
		if r.Err != nil {
			item.Error = r.Err.Error()
		} else {
			item.RunID = r.RunID.String()
		}
		out = append(out, item)
	}

	h.Accepted(c, out)
}

// GetRun returns one sync run.
// GET /api/v1/runs/:id
func (h *SyncHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid run ID")
		return
	}

	run, err := h.orchestrator.GetRun(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toRunResponse(run))
}

// ListRuns returns runs for the configured owner, newest first.
// GET /api/v1/runs
func (h *SyncHandler) ListRuns(c *gin.Context) {
	var req ListRunsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	filter := syncrun.RunFilter{Page: req.Page, PageSize: req.PageSize}
	if req.Marketplace != "" {
		code, ok := parseMarketplace(req.Marketplace)
		if !ok {
			h.BadRequest(c, "Unknown marketplace filter")
			return
		}
		filter.Marketplace = &code
	}
	if req.Entity != "" {
		entity, ok := parseEntity(req.Entity)
		if !ok {
			h.BadRequest(c, "Unknown entity filter")
			return
		}
		filter.Entity = &entity
	}
	if req.State != "" {
		state := syncrun.State(req.State)
		if !state.IsValid() {
			h.BadRequest(c, "Unknown state filter")
			return
		}
		filter.State = &state
	}

	ownerID := h.accounts.DefaultOwner()
	if raw := c.Query("owner_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid owner ID")
			return
		}
		ownerID = id
	}

	runs, total, err := h.orchestrator.ListRuns(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]RunResponse, 0, len(runs))
	for i := range runs {
		out = append(out, toRunResponse(&runs[i]))
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, out, total, page, pageSize)
}

// GetRunItems returns the per-item audit trail for a run.
// GET /api/v1/runs/:id/items
func (h *SyncHandler) GetRunItems(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid run ID")
		return
	}

	items, err := h.orchestrator.GetRunItems(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]ItemLogResponse, 0, len(items))
	for i := range items {
		out = append(out, toItemLogResponse(&items[i]))
	}

	h.Success(c, out)
}

// ListMarketplaces returns every registered adapter with its capabilities.
// GET /api/v1/marketplaces
func (h *SyncHandler) ListMarketplaces(c *gin.Context) {
	enabled := make(map[marketplace.Code]bool)
	for _, code := range h.accounts.Enabled() {
		enabled[code] = true
	}

	adapters := h.registry.List()
	out := make([]MarketplaceResponse, 0, len(adapters))
	for _, a := range adapters {
		var caps []string
		for _, entity := range marketplace.AllEntityTypes() {
			if _, ok := marketplace.Capability(a, entity); ok {
				caps = append(caps, entity.String())
			}
		}
		out = append(out, MarketplaceResponse{
			Code:         a.Code().String(),
			Enabled:      enabled[a.Code()],
			Capabilities: caps,
		})
	}

	h.Success(c, out)
}

// CheckConnection verifies the configured credentials against the live
// marketplace API.
// GET /api/v1/marketplaces/:marketplace/connection
func (h *SyncHandler) CheckConnection(c *gin.Context) {
	code, ok := parseMarketplace(c.Param("marketplace"))
	if !ok {
		h.Error(c, http.StatusNotFound, dto.ErrCodeMarketplaceUnknown, "Unknown marketplace")
		return
	}

	acct, ok := h.accounts.Account(code)
	if !ok {
		h.HandleError(c, marketplace.ErrNotConfigured)
		return
	}

	if err := h.orchestrator.CheckConnection(c.Request.Context(), acct, code); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"marketplace": code.String(), "status": "ok"})
}

// RegisterRoutes wires the sync endpoints into the API group.
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sync/:marketplace/:entity", h.StartSync)
	rg.POST("/sync-all/:entity", h.StartSyncAll)

	runs := rg.Group("/runs")
	{
		runs.GET("", h.ListRuns)
		runs.GET("/:id", h.GetRun)
		runs.GET("/:id/items", h.GetRunItems)
	}

	marketplaces := rg.Group("/marketplaces")
	{
		marketplaces.GET("", h.ListMarketplaces)
		marketplaces.GET("/:marketplace/connection", h.CheckConnection)
	}
}
