package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finbot/internal/errors"
	"finbot/internal/services"
)

func setupReportRouter(handler *ReportHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.GET("/balance", handler.GetBalance)
	auth.GET("/stats", handler.GetStats)
	auth.GET("/reports", handler.ListPeriods)
	auth.GET("/reports/:period", handler.GetReport)
	return r
}

func TestReportHandler_GetBalance(t *testing.T) {
	txSvc := &mockTransactionService{
		getBalanceFn: func(int64) (decimal.Decimal, error) { return decimal.RequireFromString("-1234567.4"), nil },
	}
	r := setupReportRouter(NewReportHandler(txSvc, &mockReportService{}, "₸"))

	rec := doRequest(r, "GET", "/balance", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	if result["formatted"] != "-1,234,567 ₸" {
		t.Errorf("unexpected formatted balance %v", result["formatted"])
	}
}

func TestReportHandler_GetStats(t *testing.T) {
	t.Run("returns stats", func(t *testing.T) {
		reportSvc := &mockReportService{
			statsFn: func(int64) (*services.QuickStats, error) {
				return &services.QuickStats{PeriodDays: 30, Transactions: 4}, nil
			},
		}
		r := setupReportRouter(NewReportHandler(&mockTransactionService{}, reportSvc, "₸"))

		rec := doRequest(r, "GET", "/stats", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["transactions"].(float64) != 4 {
			t.Error("expected transaction count")
		}
	})

	t.Run("returns 404 without recent transactions", func(t *testing.T) {
		reportSvc := &mockReportService{
			statsFn: func(int64) (*services.QuickStats, error) { return nil, apperrors.ErrNoTransactions },
		}
		r := setupReportRouter(NewReportHandler(&mockTransactionService{}, reportSvc, "₸"))

		rec := doRequest(r, "GET", "/stats", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestReportHandler_GetReport(t *testing.T) {
	t.Run("returns attachment", func(t *testing.T) {
		var gotDays = -1
		reportSvc := &mockReportService{
			generateFn: func(_ int64, days int) (*services.ReportFile, error) {
				gotDays = days
				return &services.ReportFile{Filename: "financial_report_1_20261019_080503.txt", Content: "ФИНАНСОВЫЙ ОТЧЕТ"}, nil
			},
		}
		r := setupReportRouter(NewReportHandler(&mockTransactionService{}, reportSvc, "₸"))

		rec := doRequest(r, "GET", "/reports/all", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotDays != 0 {
			t.Errorf("expected all-time report, got %d days", gotDays)
		}
		if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain") {
			t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
		}
		if !strings.Contains(rec.Header().Get("Content-Disposition"), "financial_report_1_20261019_080503.txt") {
			t.Errorf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
		}
		if rec.Body.String() != "ФИНАНСОВЫЙ ОТЧЕТ" {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
	})

	t.Run("maps period keys to days", func(t *testing.T) {
		var gotDays int
		reportSvc := &mockReportService{
			generateFn: func(_ int64, days int) (*services.ReportFile, error) {
				gotDays = days
				return &services.ReportFile{}, nil
			},
		}
		r := setupReportRouter(NewReportHandler(&mockTransactionService{}, reportSvc, "₸"))

		doRequest(r, "GET", "/reports/90", "")
		if gotDays != 90 {
			t.Errorf("expected 90 days, got %d", gotDays)
		}
	})

	t.Run("returns 400 on unknown period", func(t *testing.T) {
		r := setupReportRouter(NewReportHandler(&mockTransactionService{}, &mockReportService{}, "₸"))

		rec := doRequest(r, "GET", "/reports/365", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_PERIOD")
	})

	t.Run("returns 404 for empty period", func(t *testing.T) {
		reportSvc := &mockReportService{
			generateFn: func(int64, int) (*services.ReportFile, error) { return nil, apperrors.ErrNoTransactions },
		}
		r := setupReportRouter(NewReportHandler(&mockTransactionService{}, reportSvc, "₸"))

		rec := doRequest(r, "GET", "/reports/7", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestReportHandler_ListPeriods(t *testing.T) {
	r := setupReportRouter(NewReportHandler(&mockTransactionService{}, &mockReportService{}, "₸"))

	rec := doRequest(r, "GET", "/reports", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"key":"all"`) {
		t.Errorf("expected all-time period, got %s", rec.Body.String())
	}
}
