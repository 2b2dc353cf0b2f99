package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ff-lineup-engine/internal/api/handlers"
	"ff-lineup-engine/internal/providers"
	"ff-lineup-engine/internal/services"
	"ff-lineup-engine/pkg/database"
)

// SetupRoutes configures all API routes on the given router group.
func SetupRoutes(group *gin.RouterGroup, db *database.DB, sleeper *providers.SleeperClient, schedule *services.ScheduleService, enrichment *services.EnrichmentService, cache *services.CacheService, logger *logrus.Logger) {
	rosterHandler := handlers.NewRosterHandler(enrichment, cache, logger)
	lineupHandler := handlers.NewLineupHandler(db, enrichment, cache, logger)
	waiverHandler := handlers.NewWaiverHandler(enrichment, cache, logger)
	playerHandler := handlers.NewPlayerHandler(sleeper, schedule, logger)

	// Roster analysis
	group.POST("/roster/analyze", rosterHandler.AnalyzeRoster)

	// Lineup optimization and history
	group.POST("/lineup/optimize", lineupHandler.OptimizeLineup)
	group.GET("/lineups", lineupHandler.GetLineups)
	group.GET("/lineups/:id", lineupHandler.GetLineup)

	// Waiver wire
	group.POST("/waivers/analyze", waiverHandler.AnalyzeWaivers)

	// Player utilities
	group.POST("/players/resolve", playerHandler.ResolvePlayer)
	group.GET("/players/trending", playerHandler.GetTrending)
	group.GET("/matchup", playerHandler.GetMatchup)
}
