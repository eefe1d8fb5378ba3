package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finbot/internal/errors"
	"finbot/internal/logger"
	"finbot/internal/models"
	"finbot/internal/pagination"
	"finbot/internal/services"
)

const defaultRecentLimit = 10

// TransactionHandler serves the authenticated user's ledger.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	events             services.EventPublisher
	currency           string
}

// NewTransactionHandler creates a new TransactionHandler. events may be nil.
func NewTransactionHandler(transactionService services.TransactionServicer, events services.EventPublisher, currency string) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, events: events, currency: currency}
}

// ListTransactionsQuery filters the transaction list.
type ListTransactionsQuery struct {
	pagination.PageRequest
	Days int `form:"days" binding:"omitempty,min=0,max=36500"`
}

// ListTransactions lists the user's transactions
// @Summary     List transactions
// @Description List the user's transactions, most recent first, optionally limited to the last N days
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       days      query int false "Only the last N days (0 for all time)"
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Page size (max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ListTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	page, err := h.transactionService.ListSincePage(c.Request.Context(), userID, query.Days, query.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetLastTransaction returns the user's most recent transaction
// @Summary     Last transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     404 {object} ErrorResponse "No transactions"
// @Router      /transactions/last [get]
func (h *TransactionHandler) GetLastTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.GetLastTransaction(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// RecentQuery bounds the recent transactions list.
type RecentQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

// GetRecentTransactions lists the newest transactions offered for deletion
// @Summary     Recent transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Number of transactions (default 10, max 50)"
// @Success     200 {array} models.Transaction "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions/recent [get]
func (h *TransactionHandler) GetRecentTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query RecentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if query.Limit == 0 {
		query.Limit = defaultRecentLimit
	}

	txs, err := h.transactionService.GetRecentForDeletion(c.Request.Context(), userID, query.Limit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	c.JSON(http.StatusOK, txs)
}

// GetTransaction returns one of the user's transactions
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.GetTransactionByID(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// DeleteTransactionResponse reports a deleted transaction and the new balance.
type DeleteTransactionResponse struct {
	Transaction *models.Transaction `json:"transaction"`
	Balance     decimal.Decimal     `json:"balance"`
	Reply       string              `json:"reply"`
}

// DeleteTransaction deletes one of the user's transactions
// @Summary     Delete a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} DeleteTransactionResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	tx, err := h.transactionService.DeleteTransaction(ctx, userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	balance, err := h.transactionService.GetBalance(ctx, userID)
	if err != nil {
		logger.Get().Warnw("Failed to read balance after delete", "user_id", userID, "error", err)
		balance = decimal.Zero
	}

	if h.events != nil {
		h.events.PublishDeleted(ctx, tx)
	}

	c.JSON(http.StatusOK, DeleteTransactionResponse{
		Transaction: tx,
		Balance:     balance,
		Reply:       deletedReply(tx, balance, h.currency),
	})
}
