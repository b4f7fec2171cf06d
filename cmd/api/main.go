package main

import (
	"fmt"
	"net/http"
	"os"

	"divitrack/internal/config"
	"divitrack/internal/database"
	"divitrack/internal/handlers"
	"divitrack/internal/hub"
	"divitrack/internal/logger"
	"divitrack/internal/middleware"
	"divitrack/internal/services"
	"divitrack/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "divitrack/internal/docs" // Import swagger docs
)

// @title           DiviTrack API
// @version         1.0
// @description     DiviTrack tracks household stock holdings and dividend income and computes portfolio statistics per member.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig := database.NewConfig(appConfig)

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services. The hub is constructed first so the collection
	// services can publish into it; its snapshot source is bound after the
	// stats service exists.
	db := dbManager.DB()
	liveHub := hub.New(log)
	userService := services.NewUserService(db)
	memberService := services.NewMemberService(db, liveHub)
	symbolService := services.NewSymbolService(db, liveHub)
	transactionService := services.NewTransactionService(db, liveHub)
	dividendService := services.NewDividendService(db, liveHub)
	statsService := services.NewStatsService(db)
	liveHub.BindSource(statsService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, appConfig)
	memberHandler := handlers.NewMemberHandler(memberService)
	symbolHandler := handlers.NewSymbolHandler(symbolService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	dividendHandler := handlers.NewDividendHandler(dividendService)
	statsHandler := handlers.NewStatsHandler(statsService)
	wsHandler := handlers.NewWSHandler(liveHub, statsService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(appConfig))

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Member routes
	members := protected.Group("/members")
	members.POST("", memberHandler.CreateMember)
	members.GET("", memberHandler.GetUserMembers)
	members.GET("/:id", memberHandler.GetMemberByID)
	members.DELETE("/:id", memberHandler.DeleteMember)

	// Symbol routes
	symbols := protected.Group("/symbols")
	symbols.POST("", symbolHandler.CreateSymbol)
	symbols.GET("", symbolHandler.GetUserSymbols)
	symbols.GET("/:id", symbolHandler.GetSymbolByID)
	symbols.PUT("/:id/price", symbolHandler.UpdateSymbolPrice)
	symbols.DELETE("/:id", symbolHandler.DeleteSymbol)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Dividend routes
	dividends := protected.Group("/dividends")
	dividends.POST("", dividendHandler.CreateDividend)
	dividends.GET("", dividendHandler.GetUserDividends)
	dividends.GET("/:id", dividendHandler.GetDividendByID)
	dividends.PUT("/:id", dividendHandler.UpdateDividend)
	dividends.DELETE("/:id", dividendHandler.DeleteDividend)

	// Portfolio statistics
	protected.GET("/stats", statsHandler.GetStats)

	// Live updates. The websocket auth middleware also accepts the token
	// as a query parameter since browser websocket clients cannot set
	// headers.
	ws := v1.Group("/ws")
	ws.Use(middleware.WSAuthMiddleware(appConfig))
	ws.GET("", wsHandler.Subscribe)

	log.Infof("Starting DiviTrack backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
