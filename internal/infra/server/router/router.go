// Package router sets up the HTTP routing for the application.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartwallet/backend/internal/integration/entrypoint/controller"
	"github.com/smartwallet/backend/internal/integration/entrypoint/middleware"
)

// Controllers groups the HTTP handlers served by the router.
type Controllers struct {
	Health      *controller.HealthController
	Auth        *controller.AuthController
	Interpret   *controller.InterpretController
	Transaction *controller.TransactionController
	Category    *controller.CategoryController
	Budget      *controller.BudgetController
	Recurring   *controller.RecurringController
	Insight     *controller.InsightController
}

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine           *gin.Engine
	controllers      Controllers
	loginRateLimiter *middleware.RateLimiter
	authMiddleware   *middleware.AuthMiddleware
	metricsHandler   http.Handler
}

// NewRouter creates a new router instance with all dependencies.
// metricsHandler may be nil.
func NewRouter(
	controllers Controllers,
	loginRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
	metricsHandler http.Handler,
) *Router {
	return &Router{
		controllers:      controllers,
		loginRateLimiter: loginRateLimiter,
		authMiddleware:   authMiddleware,
		metricsHandler:   metricsHandler,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	switch environment {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.New()
	r.engine.Use(gin.Recovery())
	if environment != "test" {
		r.engine.Use(gin.Logger())
	}

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check and metrics endpoints.
func (r *Router) setupHealthRoutes() {
	if r.controllers.Health != nil {
		r.engine.GET("/health", r.controllers.Health.Check)
	}
	if r.metricsHandler != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metricsHandler))
	}
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	c := r.controllers
	v1 := r.engine.Group("/api/v1")

	if c.Auth != nil {
		auth := v1.Group("/auth")
		login := []gin.HandlerFunc{c.Auth.Login}
		if r.loginRateLimiter != nil {
			login = append([]gin.HandlerFunc{r.loginRateLimiter.Middleware()}, login...)
		}
		{
			auth.POST("/register", c.Auth.Register)
			auth.POST("/login", login...)
			auth.POST("/refresh", c.Auth.RefreshToken)
			auth.POST("/logout", c.Auth.Logout)
		}
	}

	if c.Insight != nil {
		v1.GET("/rates", c.Insight.Rates)
	}

	if r.authMiddleware == nil {
		return
	}
	protected := v1.Group("")
	protected.Use(r.authMiddleware.Authenticate())

	if c.Insight != nil {
		protected.GET("/coach", c.Insight.Coach)
	}

	if c.Interpret != nil {
		protected.POST("/interpret", c.Interpret.Interpret)
		protected.POST("/transactions/text", c.Interpret.RecordText)
		protected.POST("/transactions/audio", c.Interpret.RecordAudio)
	}

	if c.Transaction != nil {
		transactions := protected.Group("/transactions")
		{
			transactions.GET("", c.Transaction.List)
			transactions.POST("", c.Transaction.Create)
			transactions.DELETE("", c.Transaction.Purge)
			transactions.GET("/summary", c.Transaction.Summary)
			transactions.GET("/investments", c.Transaction.Investments)
			transactions.POST("/import/ofx", c.Transaction.ImportOFX)
			transactions.DELETE("/:id", c.Transaction.Delete)
		}
	}

	if c.Category != nil {
		categories := protected.Group("/categories")
		{
			categories.GET("", c.Category.List)
			categories.POST("", c.Category.Create)
			categories.DELETE("/:name", c.Category.Delete)
		}
	}

	if c.Budget != nil {
		budgets := protected.Group("/budgets")
		{
			budgets.GET("", c.Budget.List)
			budgets.PUT("", c.Budget.Set)
			budgets.PUT("/:category", c.Budget.Set)
			budgets.DELETE("/:category", c.Budget.Delete)
		}
	}

	if c.Recurring != nil {
		items := protected.Group("/recurring")
		{
			items.GET("", c.Recurring.List)
			items.POST("", c.Recurring.Create)
			items.POST("/process", c.Recurring.Process)
			items.DELETE("/:id", c.Recurring.Delete)
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
