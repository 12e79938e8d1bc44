package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rateyourbarber/trustengine/internal/services"
	"github.com/rateyourbarber/trustengine/pkg/response"
)

type EnrichmentHandler struct {
	enrichmentService *services.EnrichmentService
}

func NewEnrichmentHandler(enrichmentService *services.EnrichmentService) *EnrichmentHandler {
	return &EnrichmentHandler{enrichmentService: enrichmentService}
}

// Status reports enrichment progress
// GET /api/enrichment/status
func (h *EnrichmentHandler) Status(c *gin.Context) {
	status, err := h.enrichmentService.Status()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, status)
}

type runRequest struct {
	Kind  string `json:"kind"` // review, image, or empty for both
	Async bool   `json:"async"`
}

// Run triggers an enrichment pass over pending items
// POST /api/enrichment/run
func (h *EnrichmentHandler) Run(c *gin.Context) {
	h.runPass(c, false)
}

// Reenrich re-runs enrichment over items done by a different provider
// POST /api/enrichment/re-enrich
func (h *EnrichmentHandler) Reenrich(c *gin.Context) {
	h.runPass(c, true)
}

func (h *EnrichmentHandler) runPass(c *gin.Context, reenrich bool) {
	var req runRequest
	_ = c.ShouldBindJSON(&req)

	if req.Async {
		queue := services.GetTaskQueue()
		if queue == nil {
			response.ServerError(c, "task queue not initialized")
			return
		}
		enqueued, err := h.enrichmentService.EnqueuePending(queue, reenrich)
		if err != nil {
			response.ServerError(c, err.Error())
			return
		}
		response.Success(c, gin.H{"enqueued": enqueued, "async": queue.IsAsync()})
		return
	}

	switch req.Kind {
	case services.KindReview, services.KindImage:
		summary, err := h.enrichmentService.RunPass(c.Request.Context(), req.Kind, reenrich)
		if err != nil {
			response.ServerError(c, err.Error())
			return
		}
		response.Success(c, summary)
	case "":
		summaries, err := h.enrichmentService.RunFullPass(c.Request.Context(), reenrich)
		if err != nil {
			response.ServerError(c, err.Error())
			return
		}
		response.Success(c, summaries)
	default:
		response.BadRequest(c, "kind must be review or image")
	}
}
