package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/bizreview-backend/config"
	"github.com/ikkim/bizreview-backend/internal/app/controller"
	"github.com/ikkim/bizreview-backend/internal/middleware"
	"github.com/ikkim/bizreview-backend/internal/validation"
	"github.com/ikkim/bizreview-backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Controllers groups every HTTP handler set the router mounts.
type Controllers struct {
	Registration  *controller.RegistrationController
	Review        *controller.ReviewController
	Location      *controller.LocationController
	Promotion     *controller.PromotionController
	LocationAdmin *controller.LocationAdminController
	Company       *controller.CompanyController
	Business      *controller.BusinessController
	Upload        *controller.UploadController
	Realtime      *controller.RealtimeController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	metrics        *metrics.ReviewMetrics
	gatherer       prometheus.Gatherer
	config         *config.Config
}

func NewRouter(
	controllers Controllers,
	authMiddleware *middleware.AuthMiddleware,
	reviewMetrics *metrics.ReviewMetrics,
	gatherer prometheus.Gatherer,
	cfg *config.Config,
) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		metrics:        reviewMetrics,
		gatherer:       gatherer,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)
	validation.RegisterGinValidators()

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware(r.metrics))
	router.Use(cors.New(corsConfig(r.config.CORS.AllowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "business review API is running",
		})
	})
	if r.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))
	}

	ctrl := r.controllers
	admin := r.authMiddleware.RequireRole(middleware.RoleAdmin)

	v1 := router.Group("/api/v1")
	v1.Use(r.authMiddleware.Authenticate())
	{
		registrations := v1.Group("/registrations")
		{
			registrations.POST("", ctrl.Registration.SubmitRegistration)
			registrations.GET("/:id", ctrl.Registration.GetRegistration)

			registrations.POST("/:id/locations", ctrl.Location.CreateLocation)
			registrations.GET("/:id/locations", ctrl.Location.ListLocations)
			registrations.GET("/:id/locations/:lid", ctrl.Location.GetLocation)
			registrations.PUT("/:id/locations/:lid", ctrl.Location.UpdateLocation)
			registrations.POST("/:id/locations/:lid/primary", ctrl.Location.SetPrimary)
			registrations.DELETE("/:id/locations/:lid", ctrl.Location.DeleteLocation)

			registrations.POST("/:id/promotions", ctrl.Promotion.CreatePromotion)
			registrations.GET("/:id/promotions", ctrl.Promotion.ListPromotions)
			registrations.GET("/:id/promotions/:pid", ctrl.Promotion.GetPromotion)
			registrations.PUT("/:id/promotions/:pid", ctrl.Promotion.UpdatePromotion)
			registrations.DELETE("/:id/promotions/:pid", ctrl.Promotion.DeletePromotion)
			registrations.POST("/:id/promotions/:pid/share", ctrl.Promotion.SharePromotion)
		}

		users := v1.Group("/users/:user_id")
		{
			users.GET("/registrations", ctrl.Registration.ListForUser)
			users.GET("/registrations/latest", ctrl.Registration.GetLatestForUser)
			users.GET("/companies", ctrl.Company.ListForOwner)
			users.GET("/businesses", ctrl.Business.ListForOwner)
		}

		reviews := v1.Group("/reviews")
		reviews.Use(admin)
		{
			reviews.GET("/pending", ctrl.Review.ListPending)
			reviews.GET("/stats", ctrl.Review.GetStats)
			reviews.GET("/export", ctrl.Review.Export)
			reviews.GET("/:id", ctrl.Review.GetReview)
			reviews.GET("/:id/events", ctrl.Review.ListEvents)
			reviews.POST("/:id/action", ctrl.Review.SubmitAction)
		}

		locations := v1.Group("/locations/:lid")
		{
			locations.GET("/promotions", ctrl.Promotion.ListLocationPromotions)
			locations.POST("/admins", ctrl.LocationAdmin.AddAdmin)
			locations.GET("/admins", ctrl.LocationAdmin.ListAdmins)
			locations.DELETE("/admins/:uid", ctrl.LocationAdmin.RemoveAdmin)
		}

		companies := v1.Group("/companies")
		{
			companies.POST("", ctrl.Company.CreateCompany)
			companies.GET("/:cid", ctrl.Company.GetCompany)
			companies.PUT("/:cid", ctrl.Company.UpdateCompany)
			companies.DELETE("/:cid", ctrl.Company.DeleteCompany)
			companies.GET("/:cid/units", ctrl.Company.ListUnits)
			companies.POST("/:cid/units", ctrl.Company.CreateUnit)
			companies.POST("/:cid/units/:uid/primary", ctrl.Company.SetPrimaryUnit)
		}

		units := v1.Group("/units/:uid")
		{
			units.GET("", ctrl.Company.GetUnit)
			units.GET("/detail", ctrl.Company.GetUnitDetail)
			units.PUT("", ctrl.Company.UpdateUnit)
			units.DELETE("", ctrl.Company.DeleteUnit)
		}

		v1.GET("/businesses/:bid", ctrl.Business.GetBusiness)

		v1.POST("/uploads/documents/presigned-url", ctrl.Upload.GenerateDocumentURL)

		if ctrl.Realtime != nil {
			v1.GET("/ws/reviews", admin, ctrl.Realtime.ReviewFeed)
		}
	}

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowCredentials = true
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", middleware.RequestIDHeader}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader, "Content-Disposition"}

	for _, origin := range allowedOrigins {
		if origin == "*" {
			cfg.AllowOriginFunc = func(string) bool { return true }
			return cfg
		}
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
		return cfg
	}
	cfg.AllowOrigins = allowedOrigins
	return cfg
}
