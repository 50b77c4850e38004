// Package server assembles the HTTP API and the scheduled jobs from the
// shared storage and notification components.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"flesk/internal/handlers"
	"flesk/internal/middleware"
	"flesk/internal/notify"
	"flesk/internal/services"
	"flesk/internal/spending"
)

// Deps holds everything the router is built from.
type Deps struct {
	DB       *gorm.DB
	Location *time.Location
	Emitter  *notify.Emitter
	Jobs     handlers.JobRunner

	// OpsAPIKey guards /api/jobs. Empty disables the ops endpoints.
	OpsAPIKey string
	// RequestLogging enables per-request access logs.
	RequestLogging bool
}

// NewRouter wires services and handlers onto a gin engine.
func NewRouter(d Deps) *gin.Engine {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	emitter := d.Emitter
	if emitter == nil {
		emitter = notify.NewEmitter(d.DB)
	}
	agg := spending.NewAggregator(d.DB)

	// Services
	userService := services.NewUserService(d.DB)
	transactionService := services.NewTransactionService(d.DB)
	budgetService := services.NewBudgetService(d.DB, agg, loc)
	subscriptionService := services.NewSubscriptionService(d.DB)
	goalService := services.NewGoalService(d.DB, emitter)
	notificationService := services.NewNotificationService(d.DB, emitter)
	analyticsService := services.NewAnalyticsService(agg, loc)
	auditService := services.NewAuditService(d.DB)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, auditService)
	goalHandler := handlers.NewGoalHandler(goalService, auditService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	router := gin.New()
	router.Use(gin.Recovery())
	if d.RequestLogging {
		router.Use(middleware.RequestLogging())
	}
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+middleware.OpsKeyHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Ops routes
	if d.Jobs != nil {
		jobsHandler := handlers.NewJobsHandler(d.Jobs)
		ops := router.Group("/api/jobs")
		ops.Use(middleware.OpsAuthMiddleware(d.OpsAPIKey))
		ops.GET("", jobsHandler.ListJobs)
		ops.POST("/:name/run", jobsHandler.RunJob)
	}

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	subscriptions := protected.Group("/subscriptions")
	subscriptions.POST("", subscriptionHandler.CreateSubscription)
	subscriptions.GET("", subscriptionHandler.GetSubscriptions)
	subscriptions.GET("/upcoming", subscriptionHandler.GetUpcomingRenewals)
	subscriptions.GET("/:id", subscriptionHandler.GetSubscription)
	subscriptions.PUT("/:id", subscriptionHandler.UpdateSubscription)
	subscriptions.DELETE("/:id", subscriptionHandler.DeleteSubscription)

	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/contribute", goalHandler.Contribute)

	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
	notifications.POST("", notificationHandler.CreateNotification)
	notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
	notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
	notifications.PUT("/:id/archive", notificationHandler.ArchiveNotification)
	notifications.DELETE("/:id", notificationHandler.DeleteNotification)

	analytics := protected.Group("/analytics")
	analytics.GET("/categories", analyticsHandler.GetCategorySummary)
	analytics.GET("/prediction", analyticsHandler.GetPrediction)

	return router
}
