package routes

import (
	"net/http"
	"time"

	"bookmyseat/internal/auth"
	"bookmyseat/internal/bookings"
	"bookmyseat/internal/catalog"
	"bookmyseat/internal/notifications"
	"bookmyseat/internal/payments"
	"bookmyseat/internal/reporting"
	"bookmyseat/internal/seats"
	"bookmyseat/internal/shared/config"
	"bookmyseat/internal/shared/database"
	"bookmyseat/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB
	sender notifications.Sender

	// shared between domains during setup
	cacheService   cache.Service
	catalogService catalog.Service
	seatLedger     seats.Ledger
	userDirectory  *auth.UserDirectory
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, sender notifications.Sender) *Router {
	return &Router{
		config: cfg,
		db:     db,
		sender: sender,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	if r.db.Redis != nil {
		r.cacheService = cache.NewService(r.db.Redis)
	}

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupCatalogRoutes(api)
		r.setupSeatRoutes(api)
		r.setupBookingRoutes(api)
		r.setupReportingRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "bookmyseat-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "bookmyseat-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController)

	// The booking engine resolves notification recipients through the
	// same repository.
	r.userDirectory = auth.NewUserDirectory(authRepo)

	authRouter.SetupRoutes(rg)
}

// setupCatalogRoutes configures movie browsing and admin catalog routes
func (r *Router) setupCatalogRoutes(rg *gin.RouterGroup) {
	catalogRepo := catalog.NewRepository(r.db.GetPostgreSQL())
	r.catalogService = catalog.NewService(catalogRepo, r.cacheService, r.config)
	catalogController := catalog.NewController(r.catalogService)
	catalogRouter := catalog.NewRouter(catalogController, r.config)

	catalogRouter.SetupRoutes(rg)
}

// setupSeatRoutes configures the seat map and admin seat grid routes
func (r *Router) setupSeatRoutes(rg *gin.RouterGroup) {
	seatRepo := seats.NewRepository(r.db.GetPostgreSQL())

	opts := []seats.Option{
		seats.WithHoldTTL(r.config.Booking.SeatHoldTTL),
	}
	if r.cacheService != nil {
		opts = append(opts, seats.WithSeatMapCache(r.cacheService, r.config.Redis.SeatMapTTL))
	}
	r.seatLedger = seats.NewLedger(seatRepo, opts...)

	seatController := seats.NewController(r.seatLedger)
	seatRouter := seats.NewRouter(seatController, r.config)

	seatRouter.SetupRoutes(rg)
}

// setupBookingRoutes configures the booking lifecycle and payment callbacks
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	provider := payments.NewHostedProvider(r.config.Payment)

	engine := bookings.NewEngine(
		bookingRepo,
		r.seatLedger,
		provider,
		r.catalogService,
		r.userDirectory,
		r.sender,
		r.config,
	)

	bookingController := bookings.NewController(engine)
	bookingRouter := bookings.NewRouter(bookingController, r.config)

	bookingRouter.SetupRoutes(rg)
}

// setupReportingRoutes configures the admin dashboard
func (r *Router) setupReportingRoutes(rg *gin.RouterGroup) {
	reportingRepo := reporting.NewRepository(r.db.GetPostgreSQL())
	reportingService := reporting.NewService(reportingRepo, r.config)
	reportingController := reporting.NewController(reportingService)
	reportingRouter := reporting.NewRouter(reportingController, r.config)

	reportingRouter.SetupRoutes(rg)
}
