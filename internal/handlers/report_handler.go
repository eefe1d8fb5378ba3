package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finbot/internal/errors"
	"finbot/internal/money"
	"finbot/internal/report"
	"finbot/internal/services"
)

// ReportHandler serves balances, statistics and statements.
type ReportHandler struct {
	transactionService services.TransactionServicer
	reportService      services.ReportServicer
	currency           string
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(transactionService services.TransactionServicer, reportService services.ReportServicer, currency string) *ReportHandler {
	return &ReportHandler{transactionService: transactionService, reportService: reportService, currency: currency}
}

// BalanceResponse is the user's running balance.
type BalanceResponse struct {
	Balance   decimal.Decimal `json:"balance"`
	Formatted string          `json:"formatted"`
}

// GetBalance returns the user's balance over all transactions
// @Summary     Current balance
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} BalanceResponse "Balance"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /balance [get]
func (h *ReportHandler) GetBalance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	balance, err := h.transactionService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, BalanceResponse{Balance: balance, Formatted: money.FormatWith(balance, h.currency)})
}

// GetStats returns the 30-day overview
// @Summary     Monthly statistics
// @Description Income, expense, balance and the top five expense categories of the last 30 days
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.QuickStats "Statistics"
// @Failure     404 {object} ErrorResponse "No transactions in the last 30 days"
// @Router      /stats [get]
func (h *ReportHandler) GetStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.reportService.Stats(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListPeriods lists the report periods
// @Summary     Report periods
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} report.Period "Periods"
// @Router      /reports [get]
func (h *ReportHandler) ListPeriods(c *gin.Context) {
	c.JSON(http.StatusOK, report.Periods)
}

// PeriodURI selects a report period.
type PeriodURI struct {
	Period string `uri:"period" binding:"required,report_period"`
}

// GetReport renders the plain-text statement for a period
// @Summary     Financial statement
// @Description Download the plain-text statement for the last 7, 30 or 90 days or for all time
// @Tags        reports
// @Produce     plain
// @Security    BearerAuth
// @Param       period path string true "Period" Enums(7, 30, 90, all)
// @Success     200 {string} string "Statement"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     404 {object} ErrorResponse "No transactions for the period"
// @Router      /reports/{period} [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var uri PeriodURI
	if err := c.ShouldBindUri(&uri); err != nil {
		respondWithError(c, apperrors.ErrInvalidPeriod)
		return
	}
	period, err := report.ParsePeriod(uri.Period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	file, err := h.reportService.Generate(c.Request.Context(), userID, period.Days)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(file.Content))
}
