package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/prodtrackhq/prodtrack-api/internal/handler"
	"github.com/prodtrackhq/prodtrack-api/internal/middleware"
	"github.com/prodtrackhq/prodtrack-api/internal/models"
	"github.com/prodtrackhq/prodtrack-api/internal/service"
	"github.com/prodtrackhq/prodtrack-api/pkg/config"
	appErrors "github.com/prodtrackhq/prodtrack-api/pkg/errors"
	"github.com/prodtrackhq/prodtrack-api/pkg/logger"
	corsmiddleware "github.com/prodtrackhq/prodtrack-api/pkg/middleware/cors"
	reqidmiddleware "github.com/prodtrackhq/prodtrack-api/pkg/middleware/requestid"
	"github.com/prodtrackhq/prodtrack-api/pkg/response"
)

// Params groups everything the router needs.
type Params struct {
	Config  *config.Config
	Logger  *zap.Logger
	Auth    *service.AuthService
	Metrics *service.MetricsService

	AuthHandler       *handler.AuthHandler
	AssignmentHandler *handler.AssignmentHandler
	TaskHandler       *handler.TaskHandler
	DashboardHandler  *handler.DashboardHandler
	ReportHandler     *handler.ReportHandler
	MetricsHandler    *handler.MetricsHandler
}

// New assembles the gin engine with middleware and all routes.
func New(p Params) *gin.Engine {
	if p.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(p.Logger))
	r.Use(corsmiddleware.New(p.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(p.Metrics))
	r.Use(middleware.ResponseMeta())

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
	})

	r.GET("/health", p.MetricsHandler.Health)
	r.GET("/ready", p.MetricsHandler.Health)
	r.GET("/metrics", p.MetricsHandler.Prometheus)

	if p.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(p.Config.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", p.AuthHandler.Login)
		auth.POST("/refresh", p.AuthHandler.Refresh)
		auth.POST("/logout", middleware.JWT(p.Auth), p.AuthHandler.Logout)
		auth.POST("/change-password", middleware.JWT(p.Auth), p.AuthHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(p.Auth), p.AuthHandler.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(p.Auth))
	{
		protected.GET("/dashboard", p.DashboardHandler.Show)
		protected.GET("/options/:kind", p.AssignmentHandler.Options)

		supervisor := protected.Group("")
		supervisor.Use(middleware.RequireRoles(models.RoleSupervisor, models.RoleAdmin))
		{
			supervisor.POST("/assignments", p.AssignmentHandler.Create)
			supervisor.GET("/assignments", p.AssignmentHandler.List)
			supervisor.GET("/employees", p.AssignmentHandler.Employees)
			supervisor.GET("/reports/export", p.ReportHandler.Export)
			supervisor.POST("/reports", p.ReportHandler.CreateJob)
			supervisor.GET("/reports/:id", p.ReportHandler.Status)
		}

		employee := protected.Group("")
		employee.Use(middleware.RequireRoles(models.RoleEmployee))
		{
			employee.GET("/tasks", p.TaskHandler.List)
			employee.PUT("/tasks/:id/complete", p.TaskHandler.Complete)
		}
	}

	// Download authenticates through the signed token, not a session.
	api.GET("/reports/download", p.ReportHandler.Download)

	return r
}
