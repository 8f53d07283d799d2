package main

import (
	"fmt"
	"net/http"
	"os"

	"famledger/internal/config"
	"famledger/internal/database"
	"famledger/internal/handlers"
	"famledger/internal/logger"
	"famledger/internal/middleware"
	"famledger/internal/services"
	"famledger/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "famledger/internal/docs" // Import swagger docs
)

// @title           Famledger API
// @version         1.0
// @description     Famledger lets a household track income, expenses, budgets, and credit-card invoices under multiple family member profiles.

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
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	accountService := services.NewAccountService(db)
	profileService := services.NewProfileService(db)
	categoryService := services.NewCategoryService(db)
	ledgerService := services.NewLedgerService(db, profileService)
	budgetService := services.NewBudgetService(db)
	cardService := services.NewCardService(db)
	invoiceService := services.NewInvoiceService(db, cardService)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(accountService, profileService)
	profileHandler := handlers.NewProfileHandler(profileService, accountService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	expenseHandler := handlers.NewExpenseHandler(ledgerService, auditService)
	incomeHandler := handlers.NewIncomeHandler(ledgerService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	cardHandler := handlers.NewCardHandler(cardService, auditService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, cardService, auditService)
	auditHandler := handlers.NewAuditHandler(auditService)

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
	v1.POST("/accounts", authHandler.CreateAccount)
	v1.POST("/profiles/first", profileHandler.CreateFirstProfile)

	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/profile-login", authHandler.ProfileLogin)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// Profile routes
	protected.GET("/accounts/:id/profiles", profileHandler.ListProfiles)
	profiles := protected.Group("/profiles")
	profiles.POST("", profileHandler.CreateProfile)
	profiles.PUT("/:id", profileHandler.UpdateProfile)
	profiles.DELETE("/:id", profileHandler.DeleteProfile)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Ledger routes
	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.ListExpenses)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	incomes := protected.Group("/incomes")
	incomes.POST("", incomeHandler.CreateIncome)
	incomes.GET("", incomeHandler.ListIncomes)
	incomes.DELETE("/:id", incomeHandler.DeleteIncome)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.ListBudgets)
	budgets.GET("/evaluation", budgetHandler.EvaluateBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)

	// Card routes
	cards := protected.Group("/cards")
	cards.POST("", cardHandler.CreateCard)
	cards.GET("", cardHandler.ListCards)
	cards.PUT("/:id", cardHandler.UpdateCard)
	cards.DELETE("/:id", cardHandler.DeleteCard)
	cards.POST("/:id/spend", cardHandler.RegisterSpend)

	// Invoice routes
	invoices := protected.Group("/invoices")
	invoices.POST("", invoiceHandler.CloseInvoice)
	invoices.GET("", invoiceHandler.ListInvoices)
	invoices.PUT("/:id/pay", invoiceHandler.ApplyPayment)

	// Audit routes
	protected.GET("/audit", auditHandler.ListAuditEntries)

	log.Infof("Starting famledger backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
