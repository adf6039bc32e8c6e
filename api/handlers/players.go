package handlers

import (
	"errors"
	"net/http"

	"rtladder/api/services"

	"github.com/gin-gonic/gin"
)

// Player handler.
type PlayerHandler struct {
	ladderService *services.LadderService
}

// Create a new instance of the player handler.
func NewPlayerHandler(ladderService *services.LadderService) *PlayerHandler {
	return &PlayerHandler{
		ladderService: ladderService,
	}
}

type linkPlayerRequest struct {
	DiscordID int64  `json:"discordId" binding:"required"`
	PlayerID  int64  `json:"playerId" binding:"required"`
	Name      string `json:"name" binding:"required"`
}

// Handler consuming the result of the external account-link exchange.
func (h *PlayerHandler) LinkPlayer(c *gin.Context) {
	var req linkPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := h.ladderService.LinkPlayer(c.Request.Context(), req.DiscordID, req.PlayerID, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrPlayerBlacklisted) || errors.Is(err, services.ErrMissingTemplateAccess) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": player})
}

type setActivityRequest struct {
	DiscordID  int64 `json:"discordId" binding:"required"`
	Active     bool  `json:"active"`
	SingleGame bool  `json:"singleGame"`
}

// Handler for joining or leaving the active pool.
func (h *PlayerHandler) SetActivity(c *gin.Context) {
	var req setActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := h.ladderService.SetActivity(c.Request.Context(), req.DiscordID, req.Active, req.SingleGame)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if player == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no player linked to this account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": player})
}
