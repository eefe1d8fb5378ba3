package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"finbot/internal/categories"
	"finbot/internal/classifier"
	"finbot/internal/config"
	"finbot/internal/logger"
	"finbot/internal/middleware"
	"finbot/internal/services"
	"finbot/internal/testutil"
	"finbot/internal/validator"
)

const testAPIKey = "frontend-key"

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// testApp holds the full application stack backed by an in-memory database.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func setupApp(t *testing.T, mutate func(*config.Config)) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	cfg := config.Config{
		AutoRegistration: true,
		CurrencySymbol:   "₸",
		PipelineAPIKey:   testAPIKey,
		JWTSecret:        "router-test-secret",
		JWTExpirationDur: time.Hour,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	cls := classifier.New(nil, categories.Default(), classifier.Options{Currency: cfg.CurrencySymbol})
	transactions := services.NewTransactionService(db)
	users := services.NewUserService(db, transactions)
	policy := services.AccessPolicy{Admins: cfg.AdminUsers, AutoRegistration: cfg.AutoRegistration}

	router := NewRouter(Dependencies{
		Config:       cfg,
		Tokens:       middleware.NewTokenManager(cfg.JWTSecret, cfg.JWTExpirationDur),
		Users:        users,
		Transactions: transactions,
		Messages:     services.NewMessageService(users, transactions, cls, nil, policy),
		Reports:      services.NewReportService(transactions, cls, cfg.CurrencySymbol),
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		AIEnabled: cls.AIEnabled(),
	})

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request with an optional bearer token.
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

// internal makes an HTTP request authenticated as the chat frontend.
func (app *testApp) internal(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) sendMessage(t *testing.T, userID int64, text string) map[string]interface{} {
	t.Helper()
	body := fmt.Sprintf(`{"user_id":%d,"first_name":"Test","text":%q}`, userID, text)
	rec := app.internal("POST", "/api/v1/internal/messages", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record message failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)
}

func (app *testApp) issueToken(t *testing.T, userID int64) string {
	t.Helper()
	rec := app.internal("POST", fmt.Sprintf("/api/v1/internal/users/%d/token", userID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("issue token failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(result map[string]interface{}) string {
	errObj, _ := result["error"].(map[string]interface{})
	code, _ := errObj["code"].(string)
	return code
}

func TestHealth(t *testing.T) {
	app := setupApp(t, nil)

	rec := app.request("GET", "/api/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["status"] != "ok" {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestRecordAndReviewFlow(t *testing.T) {
	app := setupApp(t, nil)
	userID := testutil.NextUserID()

	salary := app.sendMessage(t, userID, "150000 зарплата")
	if salary["new_user"] != true {
		t.Error("expected the first message to register the user")
	}
	salaryTx := salary["transaction"].(map[string]interface{})
	if salaryTx["type"] != "income" || salaryTx["category"] != "доход" {
		t.Errorf("unexpected salary transaction %v", salaryTx)
	}

	lunch := app.sendMessage(t, userID, "обед 2500")
	lunchTx := lunch["transaction"].(map[string]interface{})
	if lunchTx["type"] != "expense" || lunchTx["category"] != "еда" || lunchTx["description"] != "обед" {
		t.Errorf("unexpected lunch transaction %v", lunchTx)
	}
	if !strings.Contains(lunch["reply"].(string), "147,500 ₸") {
		t.Errorf("expected balance in reply, got %q", lunch["reply"])
	}

	token := app.issueToken(t, userID)

	t.Run("balance", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/balance", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got := parseJSON(t, rec)["formatted"]; got != "147,500 ₸" {
			t.Errorf("expected formatted balance, got %v", got)
		}
	})

	t.Run("list", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/transactions?days=30", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 2 {
			t.Fatalf("expected 2 transactions, got %d", len(data))
		}
		if data[0].(map[string]interface{})["description"] != "обед" {
			t.Errorf("expected newest transaction first, got %v", data[0])
		}
	})

	t.Run("last", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/transactions/last", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if parseJSON(t, rec)["id"] != lunchTx["id"] {
			t.Errorf("expected last transaction %v", lunchTx["id"])
		}
	})

	t.Run("report", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/reports/30", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Header().Get("Content-Disposition"), "financial_report_") {
			t.Errorf("expected attachment, got %q", rec.Header().Get("Content-Disposition"))
		}
		if !strings.Contains(rec.Body.String(), "обед") {
			t.Errorf("expected report to list transactions:\n%s", rec.Body.String())
		}
	})

	t.Run("unknown_report_period", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/reports/14", "", token)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if code := errorCode(parseJSON(t, rec)); code != "INVALID_PERIOD" {
			t.Errorf("expected INVALID_PERIOD, got %q", code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/transactions/%v", lunchTx["id"])
		rec := app.request("DELETE", path, "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(parseJSON(t, rec)["reply"].(string), "150,000 ₸") {
			t.Errorf("expected new balance in reply, got %s", rec.Body.String())
		}

		rec = app.request("GET", path, "", token)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected deleted transaction to be gone, got %d", rec.Code)
		}
	})
}

func TestOwnershipIsolation(t *testing.T) {
	app := setupApp(t, nil)
	owner := testutil.NextUserID()
	other := testutil.NextUserID()

	tx := app.sendMessage(t, owner, "такси 1200")["transaction"].(map[string]interface{})
	app.sendMessage(t, other, "кофе 500")
	otherToken := app.issueToken(t, other)

	path := fmt.Sprintf("/api/v1/transactions/%v", tx["id"])
	if rec := app.request("GET", path, "", otherToken); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 reading another user's transaction, got %d", rec.Code)
	}
	if rec := app.request("DELETE", path, "", otherToken); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 deleting another user's transaction, got %d", rec.Code)
	}
}

func TestAuthentication(t *testing.T) {
	app := setupApp(t, nil)

	t.Run("missing_api_key", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/internal/messages", `{"user_id":1,"text":"обед 100"}`, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("missing_token", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/balance", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("token_for_unknown_user", func(t *testing.T) {
		rec := app.internal("POST", "/api/v1/internal/users/12345/token", "")
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		if code := errorCode(parseJSON(t, rec)); code != "REGISTRATION_REQUIRED" {
			t.Errorf("expected REGISTRATION_REQUIRED, got %q", code)
		}
	})
}

func TestClosedRegistration(t *testing.T) {
	adminID := testutil.NextUserID()
	app := setupApp(t, func(cfg *config.Config) {
		cfg.AutoRegistration = false
		cfg.AdminUsers = []int64{adminID}
	})

	rec := app.internal("POST", "/api/v1/internal/messages", `{"user_id":5,"text":"обед 2500"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.internal("POST", "/api/v1/internal/users", fmt.Sprintf(`{"user_id":%d,"username":"boss"}`, adminID))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected admin to be admitted, got %d: %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["new_user"] != true {
		t.Error("expected admin to be registered")
	}
}

func TestAdminRoutes(t *testing.T) {
	adminID := testutil.NextUserID()
	app := setupApp(t, func(cfg *config.Config) {
		cfg.AdminUsers = []int64{adminID}
	})
	userID := testutil.NextUserID()

	app.sendMessage(t, adminID, "обед 2500")
	app.sendMessage(t, userID, "такси 1200")

	t.Run("admin", func(t *testing.T) {
		token := app.issueToken(t, adminID)
		rec := app.request("GET", "/api/v1/admin/stats", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got := parseJSON(t, rec)["total_users"]; got != float64(2) {
			t.Errorf("expected 2 users, got %v", got)
		}

		rec = app.request("GET", "/api/v1/admin/users", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got := parseJSON(t, rec)["total_items"]; got != float64(2) {
			t.Errorf("expected 2 listed users, got %v", got)
		}
	})

	t.Run("regular_user", func(t *testing.T) {
		token := app.issueToken(t, userID)
		rec := app.request("GET", "/api/v1/admin/stats", "", token)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		if code := errorCode(parseJSON(t, rec)); code != "FORBIDDEN" {
			t.Errorf("expected FORBIDDEN, got %q", code)
		}
	})
}
