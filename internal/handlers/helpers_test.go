package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"finbot/internal/middleware"
	"finbot/internal/models"
	"finbot/internal/pagination"
	"finbot/internal/services"
	"finbot/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectUserID(uid int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetUserID(c, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- mock transaction service ---

type mockTransactionService struct {
	getBalanceFn           func(userID int64) (decimal.Decimal, error)
	listSincePageFn        func(userID int64, days int, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	getLastTransactionFn   func(userID int64) (*models.Transaction, error)
	getRecentForDeletionFn func(userID int64, limit int) ([]models.Transaction, error)
	getTransactionByIDFn   func(userID int64, transactionID uint) (*models.Transaction, error)
	deleteTransactionFn    func(userID int64, transactionID uint) (*models.Transaction, error)
}

func (m *mockTransactionService) CreateTransaction(_ context.Context, userID int64, amount decimal.Decimal, description, category string, transactionType models.TransactionType) (*models.Transaction, error) {
	return &models.Transaction{UserID: userID, Amount: amount, Description: description, Category: category, Type: transactionType}, nil
}

func (m *mockTransactionService) GetBalance(_ context.Context, userID int64) (decimal.Decimal, error) {
	if m.getBalanceFn != nil {
		return m.getBalanceFn(userID)
	}
	return decimal.Zero, nil
}

func (m *mockTransactionService) ListSince(_ context.Context, _ int64, _ int) ([]models.Transaction, error) {
	return nil, nil
}

func (m *mockTransactionService) ListSincePage(_ context.Context, userID int64, days int, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if m.listSincePageFn != nil {
		return m.listSincePageFn(userID, days, page)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) CategoryAggregate(_ context.Context, _ int64, _ int) (map[string]services.CategorySummary, error) {
	return map[string]services.CategorySummary{}, nil
}

func (m *mockTransactionService) GetLastTransaction(_ context.Context, userID int64) (*models.Transaction, error) {
	if m.getLastTransactionFn != nil {
		return m.getLastTransactionFn(userID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetRecentForDeletion(_ context.Context, userID int64, limit int) ([]models.Transaction, error) {
	if m.getRecentForDeletionFn != nil {
		return m.getRecentForDeletionFn(userID, limit)
	}
	return nil, nil
}

func (m *mockTransactionService) GetTransactionByID(_ context.Context, userID int64, transactionID uint) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(userID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(_ context.Context, userID int64, transactionID uint) (*models.Transaction, error) {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, transactionID)
	}
	return &models.Transaction{ID: transactionID, UserID: userID}, nil
}

func (m *mockTransactionService) GetUserTransactionStats(_ context.Context, _ int64) (*services.TransactionStats, error) {
	return &services.TransactionStats{}, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

// --- mock user service ---

type mockUserService struct {
	registerFn     func(info services.UserInfo) (*models.User, bool, error)
	getUserFn      func(userID int64) (*models.User, error)
	isRegisteredFn func(userID int64) (bool, error)
	statsFn        func() (*models.UserStats, error)
	listDetailedFn func(page pagination.PageRequest) (*pagination.PageResponse[services.UserDetail], error)
}

func (m *mockUserService) Register(_ context.Context, info services.UserInfo) (*models.User, bool, error) {
	if m.registerFn != nil {
		return m.registerFn(info)
	}
	return &models.User{UserID: info.UserID}, true, nil
}

func (m *mockUserService) GetUser(_ context.Context, userID int64) (*models.User, error) {
	if m.getUserFn != nil {
		return m.getUserFn(userID)
	}
	return &models.User{UserID: userID, IsActive: true}, nil
}

func (m *mockUserService) IsRegistered(_ context.Context, userID int64) (bool, error) {
	if m.isRegisteredFn != nil {
		return m.isRegisteredFn(userID)
	}
	return true, nil
}

func (m *mockUserService) TouchActivity(_ context.Context, _ services.UserInfo) error {
	return nil
}

func (m *mockUserService) Stats(_ context.Context) (*models.UserStats, error) {
	if m.statsFn != nil {
		return m.statsFn()
	}
	return &models.UserStats{}, nil
}

func (m *mockUserService) ListDetailed(_ context.Context, page pagination.PageRequest) (*pagination.PageResponse[services.UserDetail], error) {
	if m.listDetailedFn != nil {
		return m.listDetailedFn(page)
	}
	resp := pagination.NewPageResponse([]services.UserDetail{}, 1, 20, 0)
	return &resp, nil
}

var _ services.UserServicer = (*mockUserService)(nil)

// --- mock message service ---

type mockMessageService struct {
	checkAccessFn func(user services.UserInfo) (bool, error)
	handleTextFn  func(user services.UserInfo, text string) (*services.MessageResult, error)
}

func (m *mockMessageService) CheckAccess(_ context.Context, user services.UserInfo) (bool, error) {
	if m.checkAccessFn != nil {
		return m.checkAccessFn(user)
	}
	return false, nil
}

func (m *mockMessageService) HandleText(_ context.Context, user services.UserInfo, text string) (*services.MessageResult, error) {
	if m.handleTextFn != nil {
		return m.handleTextFn(user, text)
	}
	return &services.MessageResult{Transaction: &models.Transaction{}}, nil
}

var _ services.MessageServicer = (*mockMessageService)(nil)

// --- mock report service ---

type mockReportService struct {
	generateFn func(userID int64, periodDays int) (*services.ReportFile, error)
	statsFn    func(userID int64) (*services.QuickStats, error)
}

func (m *mockReportService) Generate(_ context.Context, userID int64, periodDays int) (*services.ReportFile, error) {
	if m.generateFn != nil {
		return m.generateFn(userID, periodDays)
	}
	return &services.ReportFile{}, nil
}

func (m *mockReportService) Stats(_ context.Context, userID int64) (*services.QuickStats, error) {
	if m.statsFn != nil {
		return m.statsFn(userID)
	}
	return &services.QuickStats{}, nil
}

var _ services.ReportServicer = (*mockReportService)(nil)

// --- mock event publisher ---

type mockPublisher struct {
	deleted []*models.Transaction
}

func (m *mockPublisher) PublishRecorded(_ context.Context, _ *models.Transaction) {}

func (m *mockPublisher) PublishDeleted(_ context.Context, tx *models.Transaction) {
	m.deleted = append(m.deleted, tx)
}

var _ services.EventPublisher = (*mockPublisher)(nil)
