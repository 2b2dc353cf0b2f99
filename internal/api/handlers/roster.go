package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ff-lineup-engine/internal/fantasy"
	"ff-lineup-engine/internal/providers"
	"ff-lineup-engine/internal/services"
	"ff-lineup-engine/pkg/utils"
)

// rosterRequest accepts either pre-parsed player records or a raw provider
// roster payload. Exactly one of the two must be present.
type rosterRequest struct {
	TeamKey string                  `json:"team_key"`
	Week    int                     `json:"week"`
	Players []fantasy.PrimaryRecord `json:"players"`
	Payload json.RawMessage         `json:"roster_payload"`
}

// records parses the raw payload when present, preferring explicit records.
func (r *rosterRequest) records() ([]fantasy.PrimaryRecord, error) {
	if len(r.Players) > 0 {
		return r.Players, nil
	}
	if len(r.Payload) > 0 {
		return providers.ParseTeamRoster(r.Payload)
	}
	return nil, nil
}

type RosterHandler struct {
	enrichment *services.EnrichmentService
	cache      responseCache
	logger     *logrus.Logger
}

func NewRosterHandler(enrichment *services.EnrichmentService, cache responseCache, logger *logrus.Logger) *RosterHandler {
	return &RosterHandler{
		enrichment: enrichment,
		cache:      cache,
		logger:     logger,
	}
}

// AnalyzeRoster runs the full enrichment pipeline over a roster and returns
// the composite-scored players.
func (h *RosterHandler) AnalyzeRoster(c *gin.Context) {
	var req rosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	records, err := req.records()
	if err != nil {
		utils.SendError(c, 400, utils.NewAppError(utils.ErrCodeParse, "Failed to parse roster payload", err.Error()))
		return
	}
	if len(records) == 0 {
		utils.SendValidationError(c, "No players supplied", "provide players or roster_payload")
		return
	}

	cacheKey := services.RosterAnalysisCacheKey(req.TeamKey, req.Week)
	if h.cache != nil && req.TeamKey != "" {
		var cached services.EnrichmentResult
		if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
			utils.SendSuccess(c, &cached)
			return
		}
	}

	result, err := h.enrichment.EnrichRoster(c.Request.Context(), records, req.Week)
	if err != nil {
		utils.SendInternalError(c, "Roster analysis failed")
		return
	}

	if h.cache != nil && req.TeamKey != "" {
		if err := h.cache.Set(c.Request.Context(), cacheKey, result, analysisCacheTTL); err != nil {
			h.logger.Warnf("Failed to cache roster analysis for %s: %v", req.TeamKey, err)
		}
	}

	utils.SendSuccess(c, result)
}
