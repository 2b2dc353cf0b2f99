package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ff-lineup-engine/internal/fantasy"
	"ff-lineup-engine/internal/models"
	"ff-lineup-engine/internal/optimizer"
	"ff-lineup-engine/internal/providers"
	"ff-lineup-engine/internal/services"
	"ff-lineup-engine/pkg/database"
	"ff-lineup-engine/pkg/utils"
)

type LineupHandler struct {
	db         *database.DB
	enrichment *services.EnrichmentService
	cache      responseCache
	logger     *logrus.Logger
}

func NewLineupHandler(db *database.DB, enrichment *services.EnrichmentService, cache responseCache, logger *logrus.Logger) *LineupHandler {
	return &LineupHandler{
		db:         db,
		enrichment: enrichment,
		cache:      cache,
		logger:     logger,
	}
}

type optimizeRequest struct {
	TeamKey  string                  `json:"team_key"`
	Week     int                     `json:"week"`
	Strategy string                  `json:"strategy"`
	Save     bool                    `json:"save"`
	Players  []fantasy.PrimaryRecord `json:"players"`
	Payload  json.RawMessage         `json:"roster_payload"`
}

type optimizeResponse struct {
	*optimizer.Result
	Season   int                  `json:"season"`
	Week     int                  `json:"week"`
	Layers   services.LayerStatus `json:"layers"`
	LineupID *uuid.UUID           `json:"lineup_id,omitempty"`
}

// OptimizeLineup enriches the roster and assigns the best starters per
// slot. Unknown strategies fall back to balanced with a warning rather
// than failing the request.
func (h *LineupHandler) OptimizeLineup(c *gin.Context) {
	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	records := req.Players
	if len(records) == 0 && len(req.Payload) > 0 {
		parsed, err := providers.ParseTeamRoster(req.Payload)
		if err != nil {
			utils.SendError(c, http.StatusBadRequest, utils.NewAppError(utils.ErrCodeParse, "Failed to parse roster payload", err.Error()))
			return
		}
		records = parsed
	}
	if len(records) == 0 {
		utils.SendValidationError(c, "No players supplied", "provide players or roster_payload")
		return
	}

	strategy, known := fantasy.NormalizeStrategy(req.Strategy)
	if !known {
		h.logger.Warnf("Unknown strategy %q, falling back to balanced", req.Strategy)
	}

	// Save requests always recompute so the persisted lineup reflects
	// current data.
	cacheKey := services.LineupCacheKey(req.TeamKey, req.Week, string(strategy))
	useCache := h.cache != nil && req.TeamKey != "" && !req.Save
	if useCache {
		var cached optimizeResponse
		if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
			utils.SendSuccess(c, &cached)
			return
		}
	}

	enriched, err := h.enrichment.EnrichRoster(c.Request.Context(), records, req.Week)
	if err != nil {
		utils.SendInternalError(c, "Roster enrichment failed")
		return
	}

	result, err := optimizer.Optimize(enriched.Players, fantasy.StandardSlots(), strategy)
	if err != nil {
		var noPlayers *optimizer.ErrNoValidPlayers
		if errors.As(err, &noPlayers) {
			utils.SendError(c, http.StatusUnprocessableEntity,
				utils.NewAppError(utils.ErrCodeOptimization, "No valid players to optimize"))
			return
		}
		utils.SendInternalError(c, "Lineup optimization failed")
		return
	}

	resp := optimizeResponse{
		Result: result,
		Season: enriched.Season,
		Week:   enriched.Week,
		Layers: enriched.Layers,
	}

	if req.Save {
		saved, err := h.saveLineup(req.TeamKey, enriched.Season, enriched.Week, result)
		if err != nil {
			h.logger.Errorf("Failed to save lineup: %v", err)
		} else {
			resp.LineupID = &saved.ExternalID
		}
	}

	if useCache {
		if err := h.cache.Set(c.Request.Context(), cacheKey, resp, analysisCacheTTL); err != nil {
			h.logger.Warnf("Failed to cache lineup for %s: %v", req.TeamKey, err)
		}
	}

	utils.SendSuccess(c, resp)
}

func (h *LineupHandler) saveLineup(teamKey string, season, week int, result *optimizer.Result) (*models.SavedLineup, error) {
	lineup := &models.SavedLineup{
		TeamKey:  teamKey,
		Season:   season,
		Week:     week,
		Strategy: string(result.Strategy),
	}

	for _, slot := range result.SlotOrder {
		p, ok := result.Starters[slot]
		if !ok {
			continue
		}
		projection := 0.0
		if p.AdjustedProjection != nil {
			projection = *p.AdjustedProjection
		}
		lineup.Slots = append(lineup.Slots, models.SavedLineupSlot{
			Slot:       slot,
			PlayerName: p.Name,
			Position:   string(p.Position),
			Team:       p.Team,
			Projection: projection,
			Composite:  p.CompositeScore,
			Tier:       string(p.Tier),
			OnBye:      p.OnBye,
		})
	}
	lineup.ProjectedPoints = lineup.TotalProjection()

	if err := h.db.Create(lineup).Error; err != nil {
		return nil, err
	}
	return lineup, nil
}

// GetLineups returns saved lineup history, newest first, optionally
// filtered by team and week.
func (h *LineupHandler) GetLineups(c *gin.Context) {
	query := h.db.Model(&models.SavedLineup{}).Preload("Slots").Order("created_at DESC")

	if teamKey := c.Query("team_key"); teamKey != "" {
		query = query.Where("team_key = ?", teamKey)
	}
	if weekStr := c.Query("week"); weekStr != "" {
		week, err := strconv.Atoi(weekStr)
		if err != nil {
			utils.SendValidationError(c, "Invalid week", weekStr)
			return
		}
		query = query.Where("week = ?", week)
	}

	var lineups []models.SavedLineup
	if err := query.Limit(50).Find(&lineups).Error; err != nil {
		utils.SendInternalError(c, "Failed to fetch lineups")
		return
	}

	utils.SendSuccess(c, lineups)
}

// GetLineup returns one saved lineup by external id.
func (h *LineupHandler) GetLineup(c *gin.Context) {
	externalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid lineup id", c.Param("id"))
		return
	}

	var lineup models.SavedLineup
	err = h.db.Preload("Slots").Where("external_id = ?", externalID).First(&lineup).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendNotFound(c, "Lineup not found")
			return
		}
		utils.SendInternalError(c, "Failed to fetch lineup")
		return
	}

	utils.SendSuccess(c, lineup)
}
