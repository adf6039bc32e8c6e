package handlers

import (
	"net/http"
	"strconv"

	"rtladder/api/services"

	"github.com/gin-gonic/gin"
)

// Ladder handler.
type LadderHandler struct {
	ladderService *services.LadderService
}

// Create a new instance of the ladder handler.
func NewLadderHandler(ladderService *services.LadderService) *LadderHandler {
	return &LadderHandler{
		ladderService: ladderService,
	}
}

// Handler for getting the ladder standings.
func (h *LadderHandler) GetStandings(c *gin.Context) {
	limit := parseLimit(c, 50)

	result, err := h.ladderService.GetStandings(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// Handler for getting the recent decided games.
func (h *LadderHandler) GetRecentGames(c *gin.Context) {
	limit := parseLimit(c, 10)

	result, err := h.ladderService.GetRecentGames(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// parseLimit reads the limit query param with a fallback.
func parseLimit(c *gin.Context, fallback int) int {
	raw := c.Query("limit")
	if raw == "" {
		return fallback
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}

	return limit
}
