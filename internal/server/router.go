// Package server wires services, handlers and middleware into the HTTP router.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"advisoriq/internal/config"
	apperrors "advisoriq/internal/errors"
	"advisoriq/internal/handlers"
	"advisoriq/internal/middleware"
	"advisoriq/internal/models"
	"advisoriq/internal/services"

	_ "advisoriq/internal/docs" // Import swagger docs
)

// Services bundles the business services shared by the router and the
// background scheduler.
type Services struct {
	Users           services.UserServicer
	Advisors        services.AdvisorServicer
	Recommendations services.RecommendationServicer
	Performance     services.PerformanceServicer
	Search          services.SearchServicer
	Snapshots       services.SnapshotServicer
	Audit           services.AuditServicer
}

// NewServices builds every service on top of db.
func NewServices(db *gorm.DB) *Services {
	return &Services{
		Users:           services.NewUserService(db),
		Advisors:        services.NewAdvisorService(db),
		Recommendations: services.NewRecommendationService(db),
		Performance:     services.NewPerformanceService(db),
		Search:          services.NewSearchService(db),
		Snapshots:       services.NewSnapshotService(db),
		Audit:           services.NewAuditService(db),
	}
}

// NewRouter builds the gin engine serving the AdvisorIQ API.
func NewRouter(cfg *config.Config, svc *Services) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Users, svc.Advisors, svc.Audit)
	advisorHandler := handlers.NewAdvisorHandler(svc.Advisors, svc.Performance, svc.Audit)
	recommendationHandler := handlers.NewRecommendationHandler(svc.Recommendations, svc.Advisors, svc.Audit)
	performanceHandler := handlers.NewPerformanceHandler(svc.Performance, svc.Advisors)
	searchHandler := handlers.NewSearchHandler(svc.Search, svc.Advisors)
	snapshotHandler := handlers.NewSnapshotHandler(svc.Snapshots)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors(cfg.CORSOrigin))
	router.NoRoute(func(c *gin.Context) { _ = c.Error(apperrors.ErrNotFound) })

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Pipeline routes authenticate with X-API-Key instead of a user token
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(cfg.PipelineAPIKey))
	pipeline.POST("/snapshots", snapshotHandler.ComputeSnapshots)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())
	staffOnly := middleware.RequireRole(models.RoleOperations, models.RoleAdmin)

	protected.GET("/profile", authHandler.GetProfile)
	protected.GET("/timeframes", performanceHandler.GetTimeframes)

	advisors := protected.Group("/advisors")
	advisors.GET("", staffOnly, advisorHandler.GetAdvisors)
	advisors.POST("", staffOnly, advisorHandler.CreateAdvisor)
	advisors.GET("/:id", advisorHandler.GetAdvisor)
	advisors.PUT("/:id", advisorHandler.UpdateAdvisor)
	advisors.DELETE("/:id", staffOnly, advisorHandler.DeactivateAdvisor)
	advisors.GET("/:id/performance", advisorHandler.GetAdvisorPerformance)
	advisors.GET("/:id/performance/trend", advisorHandler.GetAdvisorTrend)

	me := protected.Group("/me")
	me.GET("/performance", advisorHandler.GetMyPerformance)
	me.GET("/performance/trend", advisorHandler.GetMyTrend)

	recommendations := protected.Group("/recommendations")
	recommendations.POST("", recommendationHandler.CreateRecommendation)
	recommendations.GET("", recommendationHandler.GetRecommendations)
	recommendations.GET("/:id", recommendationHandler.GetRecommendation)
	recommendations.PUT("/:id", recommendationHandler.UpdateRecommendation)
	recommendations.DELETE("/:id", recommendationHandler.DeleteRecommendation)

	// Network-wide analytics
	staff := protected.Group("/")
	staff.Use(staffOnly)
	staff.GET("/dashboard", performanceHandler.GetDashboard)
	staff.GET("/leaderboard", performanceHandler.GetLeaderboard)
	staff.GET("/performance", performanceHandler.GetAdvisorMetrics)
	staff.GET("/performance/trend", performanceHandler.GetNetworkTrend)
	staff.GET("/performance/snapshots", snapshotHandler.GetSnapshots)

	search := protected.Group("/search")
	search.GET("", searchHandler.Search)
	search.GET("/export", searchHandler.Export)

	return router
}

func cors(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
