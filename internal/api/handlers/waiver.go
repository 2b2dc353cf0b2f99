package handlers

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ff-lineup-engine/internal/fantasy"
	"ff-lineup-engine/internal/providers"
	"ff-lineup-engine/internal/services"
	"ff-lineup-engine/pkg/utils"
)

type WaiverHandler struct {
	enrichment *services.EnrichmentService
	cache      responseCache
	logger     *logrus.Logger
}

func NewWaiverHandler(enrichment *services.EnrichmentService, cache responseCache, logger *logrus.Logger) *WaiverHandler {
	return &WaiverHandler{
		enrichment: enrichment,
		cache:      cache,
		logger:     logger,
	}
}

type waiverRequest struct {
	LeagueKey  string                  `json:"league_key"`
	Week       int                     `json:"week"`
	Candidates []fantasy.PrimaryRecord `json:"candidates"`
	Payload    json.RawMessage         `json:"players_payload"`
}

// AnalyzeWaivers enriches free-agent candidates and returns them ordered
// by waiver priority.
func (h *WaiverHandler) AnalyzeWaivers(c *gin.Context) {
	var req waiverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	candidates := req.Candidates
	if len(candidates) == 0 && len(req.Payload) > 0 {
		parsed, err := providers.ParseFreeAgents(req.Payload)
		if err != nil {
			utils.SendError(c, http.StatusBadRequest, utils.NewAppError(utils.ErrCodeParse, "Failed to parse players payload", err.Error()))
			return
		}
		candidates = parsed
	}
	if len(candidates) == 0 {
		utils.SendValidationError(c, "No candidates supplied", "provide candidates or players_payload")
		return
	}

	cacheKey := services.WaiverCacheKey(req.LeagueKey, req.Week)
	if h.cache != nil && req.LeagueKey != "" {
		var cached services.EnrichmentResult
		if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
			utils.SendSuccess(c, &cached)
			return
		}
	}

	result, err := h.enrichment.AnalyzeWaivers(c.Request.Context(), candidates, req.Week)
	if err != nil {
		utils.SendInternalError(c, "Waiver analysis failed")
		return
	}

	sort.SliceStable(result.Players, func(i, j int) bool {
		return result.Players[i].WaiverPriority > result.Players[j].WaiverPriority
	})

	if h.cache != nil && req.LeagueKey != "" {
		if err := h.cache.Set(c.Request.Context(), cacheKey, result, analysisCacheTTL); err != nil {
			h.logger.Warnf("Failed to cache waiver analysis for %s: %v", req.LeagueKey, err)
		}
	}

	utils.SendSuccess(c, result)
}
