package reporting

import (
	"bookmyseat/internal/shared/config"
	"bookmyseat/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles reporting routes
type Router struct {
	controller *Controller
	config     *config.Config
}

// NewRouter creates a new reporting router
func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers all reporting routes
func (reportingRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuthWithConfig(reportingRouter.config), middleware.RequireAdmin())
	{
		admin.GET("/dashboard", reportingRouter.controller.Dashboard)
	}
}
