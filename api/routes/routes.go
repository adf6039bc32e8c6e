package routes

import (
	"rtladder/api/handlers"

	"github.com/gin-gonic/gin"
)

type Router struct {
	engine *gin.Engine
	api    *gin.RouterGroup
}

func NewRouter(engine *gin.Engine) *Router {
	return &Router{
		api:    engine.Group("/api/v1"),
		engine: engine,
	}
}

func (r *Router) SetupRoutes(handlerList ...any) {
	for _, h := range handlerList {
		switch handler := h.(type) {
		case *handlers.LadderHandler:
			r.registerLadderHandler(handler)
		case *handlers.PlayerHandler:
			r.registerPlayerHandler(handler)
		}
	}
}

// Register the ladder handler.
func (r *Router) registerLadderHandler(handler *handlers.LadderHandler) {
	ladder := r.api.Group("/ladder")
	{
		ladder.GET("/standings", handler.GetStandings)
		ladder.GET("/games/recent", handler.GetRecentGames)
	}
}

// Register the player handler.
func (r *Router) registerPlayerHandler(handler *handlers.PlayerHandler) {
	players := r.api.Group("/players")
	{
		players.POST("/link", handler.LinkPlayer)
		players.POST("/activity", handler.SetActivity)
	}
}

// Start the router.
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
