// Package server wires handlers and middleware into the HTTP router.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"finbot/internal/config"
	_ "finbot/internal/docs" // swagger docs
	"finbot/internal/handlers"
	"finbot/internal/middleware"
	"finbot/internal/services"
)

// Dependencies are the components the router serves.
type Dependencies struct {
	Config       config.Config
	Tokens       *middleware.TokenManager
	Users        services.UserServicer
	Transactions services.TransactionServicer
	Messages     services.MessageServicer
	Reports      services.ReportServicer
	// Events may be nil.
	Events    services.EventPublisher
	Ping      func(ctx context.Context) error
	AIEnabled bool
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Dependencies) *gin.Engine {
	cfg := d.Config

	internalHandler := handlers.NewInternalHandler(d.Messages, d.Users, d.Tokens, cfg.CurrencySymbol)
	transactionHandler := handlers.NewTransactionHandler(d.Transactions, d.Events, cfg.CurrencySymbol)
	reportHandler := handlers.NewReportHandler(d.Transactions, d.Reports, cfg.CurrencySymbol)
	adminHandler := handlers.NewAdminHandler(d.Users)
	healthHandler := handlers.NewHealthHandler(d.Ping, d.AIEnabled)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", healthHandler.Health)

	v1 := router.Group("/api/v1")

	// Chat frontend routes
	internal := v1.Group("/internal")
	internal.Use(middleware.APIKeyMiddleware(cfg.PipelineAPIKey))
	internal.POST("/messages", internalHandler.RecordMessage)
	internal.POST("/users", internalHandler.RegisterUser)
	internal.POST("/users/:user_id/token", internalHandler.IssueToken)

	// User routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(d.Tokens))
	if cfg.RequireRegistration {
		protected.Use(middleware.RequireRegistration(d.Users.IsRegistered))
	}

	protected.GET("/balance", reportHandler.GetBalance)
	protected.GET("/stats", reportHandler.GetStats)
	protected.GET("/reports", reportHandler.ListPeriods)
	protected.GET("/reports/:period", reportHandler.GetReport)

	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/last", transactionHandler.GetLastTransaction)
	transactions.GET("/recent", transactionHandler.GetRecentTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	admin := protected.Group("/admin")
	admin.Use(middleware.AdminOnly(cfg.IsAdmin))
	admin.GET("/stats", adminHandler.GetUserStats)
	admin.GET("/users", adminHandler.ListUsers)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
