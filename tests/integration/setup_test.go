package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"divitrack/internal/config"
	"divitrack/internal/handlers"
	"divitrack/internal/hub"
	"divitrack/internal/logger"
	"divitrack/internal/middleware"
	"divitrack/internal/models"
	"divitrack/internal/services"
	"divitrack/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Hub    *hub.Hub
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "integration-test-secret",
		JWTExpirationDur: time.Hour,
	}
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Member{},
		&models.Symbol{},
		&models.Transaction{},
		&models.Dividend{},
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
	cfg := testConfig()

	// Services publish into the hub; the stats service is bound as the
	// hub's snapshot source afterwards, mirroring the production wiring.
	liveHub := hub.New(logger.Get())
	userService := services.NewUserService(db)
	memberService := services.NewMemberService(db, liveHub)
	symbolService := services.NewSymbolService(db, liveHub)
	transactionService := services.NewTransactionService(db, liveHub)
	dividendService := services.NewDividendService(db, liveHub)
	statsService := services.NewStatsService(db)
	liveHub.BindSource(statsService)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, cfg)
	memberHandler := handlers.NewMemberHandler(memberService)
	symbolHandler := handlers.NewSymbolHandler(symbolService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	dividendHandler := handlers.NewDividendHandler(dividendService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg))

	protected.GET("/profile", authHandler.GetProfile)

	members := protected.Group("/members")
	members.POST("", memberHandler.CreateMember)
	members.GET("", memberHandler.GetUserMembers)
	members.GET("/:id", memberHandler.GetMemberByID)
	members.DELETE("/:id", memberHandler.DeleteMember)

	symbols := protected.Group("/symbols")
	symbols.POST("", symbolHandler.CreateSymbol)
	symbols.GET("", symbolHandler.GetUserSymbols)
	symbols.GET("/:id", symbolHandler.GetSymbolByID)
	symbols.PUT("/:id/price", symbolHandler.UpdateSymbolPrice)
	symbols.DELETE("/:id", symbolHandler.DeleteSymbol)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	dividends := protected.Group("/dividends")
	dividends.POST("", dividendHandler.CreateDividend)
	dividends.GET("", dividendHandler.GetUserDividends)
	dividends.GET("/:id", dividendHandler.GetDividendByID)
	dividends.PUT("/:id", dividendHandler.UpdateDividend)
	dividends.DELETE("/:id", dividendHandler.DeleteDividend)

	protected.GET("/stats", statsHandler.GetStats)

	return &testApp{DB: db, Router: router, Hub: liveHub}
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

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}

// loginUser logs in and returns the token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["token"].(string)
}

// createJSON posts a body to a collection endpoint and returns the created
// record from the response envelope under the given key.
func (app *testApp) createJSON(t *testing.T, path, body, token, key string) map[string]interface{} {
	t.Helper()
	rec := app.request("POST", path, body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create %s failed: %d %s", path, rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	record, ok := result[key].(map[string]interface{})
	if !ok {
		t.Fatalf("expected %q object in response, got %v", key, result)
	}
	return record
}
