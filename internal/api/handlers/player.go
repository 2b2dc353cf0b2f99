package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ff-lineup-engine/internal/fantasy"
	"ff-lineup-engine/internal/matchup"
	"ff-lineup-engine/internal/providers"
	"ff-lineup-engine/internal/resolver"
	"ff-lineup-engine/internal/services"
	"ff-lineup-engine/pkg/utils"
)

type PlayerHandler struct {
	sleeper  *providers.SleeperClient
	schedule *services.ScheduleService
	logger   *logrus.Logger
}

func NewPlayerHandler(sleeper *providers.SleeperClient, schedule *services.ScheduleService, logger *logrus.Logger) *PlayerHandler {
	return &PlayerHandler{
		sleeper:  sleeper,
		schedule: schedule,
		logger:   logger,
	}
}

type resolveRequest struct {
	Name     string `json:"name" binding:"required"`
	Team     string `json:"team"`
	Position string `json:"position"`
}

type resolveResponse struct {
	Matched bool                    `json:"matched"`
	Method  string                  `json:"method,omitempty"`
	Score   float64                 `json:"score,omitempty"`
	Player  *fantasy.SecondaryRecord `json:"player,omitempty"`
}

// ResolvePlayer matches a player name against the secondary provider's
// pool and reports how the match was made.
func (h *PlayerHandler) ResolvePlayer(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	candidates, err := h.sleeper.SecondaryRecords(c.Request.Context())
	if err != nil {
		utils.SendUpstreamError(c, "Player pool unavailable")
		return
	}

	record := fantasy.PrimaryRecord{
		Name:     req.Name,
		Team:     req.Team,
		Position: fantasy.Position(strings.ToUpper(req.Position)),
	}

	match, ok := resolver.Resolve(record, candidates)
	if !ok {
		utils.SendSuccess(c, resolveResponse{Matched: false})
		return
	}

	utils.SendSuccess(c, resolveResponse{
		Matched: true,
		Method:  string(match.Method),
		Score:   match.Score,
		Player:  &match.Record,
	})
}

// GetMatchup scores a single opponent/position matchup from the current
// defensive rank table.
func (h *PlayerHandler) GetMatchup(c *gin.Context) {
	opponent := c.Query("opponent")
	position := strings.ToUpper(c.Query("position"))
	if opponent == "" || position == "" {
		utils.SendValidationError(c, "Missing query parameters", "opponent and position are required")
		return
	}

	score, description := matchup.Score(opponent, fantasy.Position(position), h.schedule.DefensiveRanks())

	utils.SendSuccess(c, gin.H{
		"opponent":    opponent,
		"position":    position,
		"score":       score,
		"description": description,
	})
}

// GetTrending returns the currently most-added players.
func (h *PlayerHandler) GetTrending(c *gin.Context) {
	trending, err := h.sleeper.GetTrendingAdds(c.Request.Context(), 24, 25)
	if err != nil {
		utils.SendUpstreamError(c, "Trending data unavailable")
		return
	}
	utils.SendSuccess(c, trending)
}
