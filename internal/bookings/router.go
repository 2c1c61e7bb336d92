package bookings

import (
	"bookmyseat/internal/shared/config"
	"bookmyseat/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles booking routes
type Router struct {
	controller *Controller
	config     *config.Config
}

// NewRouter creates a new bookings router
func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers all booking routes
func (bookingRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	// Gateway callbacks carry the booking reference, not a session.
	rg.GET("/payments/success/:bookingID", bookingRouter.controller.PaymentSuccess)
	rg.GET("/payments/failed", bookingRouter.controller.PaymentFailed)

	authed := rg.Group("")
	authed.Use(middleware.JWTAuthWithConfig(bookingRouter.config))
	{
		authed.POST("/theaters/:id/book", bookingRouter.controller.SelectSeats)
		authed.POST("/bookings/:id/checkout", bookingRouter.controller.Checkout)
		authed.POST("/bookings/:id/cancel", bookingRouter.controller.Cancel)
		authed.GET("/users/bookings", bookingRouter.controller.ListMine)
	}
}
