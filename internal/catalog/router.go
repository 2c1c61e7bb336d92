package catalog

import (
	"bookmyseat/internal/shared/config"
	"bookmyseat/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles catalog routes
type Router struct {
	controller *Controller
	config     *config.Config
}

// NewRouter creates a new catalog router
func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers all catalog routes
func (catalogRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	movies := rg.Group("/movies")
	{
		movies.GET("", catalogRouter.controller.ListMovies)
		movies.GET("/:id", catalogRouter.controller.GetMovie)
		movies.GET("/:id/theaters", catalogRouter.controller.ListTheaters)
	}

	rg.GET("/genres", catalogRouter.controller.ListGenres)
	rg.GET("/languages", catalogRouter.controller.ListLanguages)

	// Admin catalog management
	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuthWithConfig(catalogRouter.config), middleware.RequireAdmin())
	{
		admin.POST("/genres", catalogRouter.controller.CreateGenre)
		admin.POST("/languages", catalogRouter.controller.CreateLanguage)
		admin.POST("/movies", catalogRouter.controller.CreateMovie)
		admin.PUT("/movies/:id", catalogRouter.controller.UpdateMovie)
		admin.DELETE("/movies/:id", catalogRouter.controller.DeleteMovie)
		admin.POST("/theaters", catalogRouter.controller.CreateTheater)
	}
}
