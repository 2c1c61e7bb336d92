package seats

import (
	"bookmyseat/internal/shared/config"
	"bookmyseat/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles seat routes
type Router struct {
	controller *Controller
	config     *config.Config
}

// NewRouter creates a new seats router
func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers all seat routes
func (seatsRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	rg.GET("/theaters/:id/seats", seatsRouter.controller.ListSeats)

	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuthWithConfig(seatsRouter.config), middleware.RequireAdmin())
	{
		admin.POST("/theaters/:id/seats", seatsRouter.controller.GenerateSeats)
	}
}
