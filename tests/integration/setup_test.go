package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"famledger/internal/handlers"
	"famledger/internal/logger"
	"famledger/internal/middleware"
	"famledger/internal/models"
	"famledger/internal/services"
	"famledger/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.FamilyAccount{},
		&models.Profile{},
		&models.Permission{},
		&models.Category{},
		&models.Expense{},
		&models.Income{},
		&models.Budget{},
		&models.CreditCard{},
		&models.Invoice{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	accountService := services.NewAccountService(db)
	profileService := services.NewProfileService(db)
	categoryService := services.NewCategoryService(db)
	ledgerService := services.NewLedgerService(db, profileService)
	budgetService := services.NewBudgetService(db)
	cardService := services.NewCardService(db)
	invoiceService := services.NewInvoiceService(db, cardService)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(accountService, profileService)
	profileHandler := handlers.NewProfileHandler(profileService, accountService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	expenseHandler := handlers.NewExpenseHandler(ledgerService, auditService)
	incomeHandler := handlers.NewIncomeHandler(ledgerService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	cardHandler := handlers.NewCardHandler(cardService, auditService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, cardService, auditService)
	auditHandler := handlers.NewAuditHandler(auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

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

	protected.GET("/accounts/:id/profiles", profileHandler.ListProfiles)

	profiles := protected.Group("/profiles")
	profiles.POST("", profileHandler.CreateProfile)
	profiles.PUT("/:id", profileHandler.UpdateProfile)
	profiles.DELETE("/:id", profileHandler.DeleteProfile)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.ListExpenses)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	incomes := protected.Group("/incomes")
	incomes.POST("", incomeHandler.CreateIncome)
	incomes.GET("", incomeHandler.ListIncomes)
	incomes.DELETE("/:id", incomeHandler.DeleteIncome)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.ListBudgets)
	budgets.GET("/evaluation", budgetHandler.EvaluateBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)

	cards := protected.Group("/cards")
	cards.POST("", cardHandler.CreateCard)
	cards.GET("", cardHandler.ListCards)
	cards.PUT("/:id", cardHandler.UpdateCard)
	cards.DELETE("/:id", cardHandler.DeleteCard)
	cards.POST("/:id/spend", cardHandler.RegisterSpend)

	invoices := protected.Group("/invoices")
	invoices.POST("", invoiceHandler.CloseInvoice)
	invoices.GET("", invoiceHandler.ListInvoices)
	invoices.PUT("/:id/pay", invoiceHandler.ApplyPayment)

	protected.GET("/audit", auditHandler.ListAuditEntries)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerAccount creates a family account and returns its ID.
func (app *testApp) registerAccount(t *testing.T, name, email, password string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"email":%q,"password":%q}`, name, email, password)
	rec := app.request("POST", "/api/v1/accounts", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("account registration failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	account := result["account"].(map[string]interface{})
	return account["id"].(float64)
}

// loginAccount logs the family account in and returns its token.
func (app *testApp) loginAccount(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("account login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["token"].(string)
}

// createFirstProfile creates the account's admin profile and returns it.
func (app *testApp) createFirstProfile(t *testing.T, accountID float64, name, role, password string) map[string]interface{} {
	t.Helper()
	body := fmt.Sprintf(`{"account_id":%.0f,"name":%q,"role":%q,"password":%q}`, accountID, name, role, password)
	rec := app.request("POST", "/api/v1/profiles/first", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("first profile creation failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["profile"].(map[string]interface{})
}

// loginProfile logs a profile in by its short code and returns its token.
func (app *testApp) loginProfile(t *testing.T, code, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"code":%q,"password":%q}`, code, password)
	rec := app.request("POST", "/api/v1/auth/profile-login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("profile login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["token"].(string)
}

// setupHousehold registers an account, logs it in, and creates the admin
// profile. Returns the account token, the account ID, and the admin profile.
func (app *testApp) setupHousehold(t *testing.T) (token string, accountID float64, admin map[string]interface{}) {
	t.Helper()
	accountID = app.registerAccount(t, "Família Silva", "silva@example.com", "password123")
	admin = app.createFirstProfile(t, accountID, "Jose", "Pai", "password123")
	token = app.loginAccount(t, "silva@example.com", "password123")
	return token, accountID, admin
}

// createCategory creates a category and returns its ID.
func (app *testApp) createCategory(t *testing.T, token, name, kind string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"kind":%q}`, name, kind)
	rec := app.request("POST", "/api/v1/categories", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("category creation failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	category := result["category"].(map[string]interface{})
	return category["id"].(float64)
}

// errorCode extracts the error code from an error response body.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	result := parseJSON(t, rec)
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no error object: %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}
