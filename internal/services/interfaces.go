package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"finbot/internal/classifier"
	"finbot/internal/models"
	"finbot/internal/pagination"
)

// UserInfo identifies the chat user behind a request.
type UserInfo struct {
	UserID    int64  `json:"user_id" binding:"required"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// TransactionStats summarizes one user's ledger.
type TransactionStats struct {
	Count             int64           `json:"count"`
	Income            decimal.Decimal `json:"income"`
	Expense           decimal.Decimal `json:"expense"`
	Balance           decimal.Decimal `json:"balance"`
	LastTransactionAt *time.Time      `json:"last_transaction_at,omitempty"`
}

// CategorySummary aggregates one category over a period.
type CategorySummary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Count   int64           `json:"count"`
}

// UserDetail is a user with their ledger statistics.
type UserDetail struct {
	models.User
	Stats TransactionStats `json:"stats"`
}

// UserServicer manages chat users.
type UserServicer interface {
	Register(ctx context.Context, info UserInfo) (*models.User, bool, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	IsRegistered(ctx context.Context, userID int64) (bool, error)
	TouchActivity(ctx context.Context, info UserInfo) error
	Stats(ctx context.Context) (*models.UserStats, error)
	ListDetailed(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[UserDetail], error)
}

// TransactionServicer is the owner-scoped ledger. days <= 0 means no lower bound.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, userID int64, amount decimal.Decimal, description, category string, transactionType models.TransactionType) (*models.Transaction, error)
	GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
	ListSince(ctx context.Context, userID int64, days int) ([]models.Transaction, error)
	ListSincePage(ctx context.Context, userID int64, days int, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	CategoryAggregate(ctx context.Context, userID int64, days int) (map[string]CategorySummary, error)
	GetLastTransaction(ctx context.Context, userID int64) (*models.Transaction, error)
	GetRecentForDeletion(ctx context.Context, userID int64, limit int) ([]models.Transaction, error)
	GetTransactionByID(ctx context.Context, userID int64, transactionID uint) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID int64, transactionID uint) (*models.Transaction, error)
	GetUserTransactionStats(ctx context.Context, userID int64) (*TransactionStats, error)
}

// Classifier types and categorizes parsed messages.
type Classifier interface {
	Classify(ctx context.Context, description string, amount decimal.Decimal) classifier.Result
	SpendingAdvice(ctx context.Context, description string, amount, balance decimal.Decimal) string
}

// Summarizer writes the analysis block of reports.
type Summarizer interface {
	Summarize(ctx context.Context, txs []models.Transaction, periodDays int) string
}

// EventPublisher receives ledger change notifications. Implementations are best-effort.
type EventPublisher interface {
	PublishRecorded(ctx context.Context, tx *models.Transaction)
	PublishDeleted(ctx context.Context, tx *models.Transaction)
}

// MessageResult is the outcome of recording a free-text message.
type MessageResult struct {
	Transaction *models.Transaction `json:"transaction"`
	Balance     decimal.Decimal     `json:"balance"`
	Advice      string              `json:"advice,omitempty"`
	NewUser     bool                `json:"new_user"`
}

// MessageServicer turns chat messages into ledger entries.
type MessageServicer interface {
	CheckAccess(ctx context.Context, user UserInfo) (bool, error)
	HandleText(ctx context.Context, user UserInfo, text string) (*MessageResult, error)
}

// QuickStats is the 30-day overview.
type QuickStats struct {
	PeriodDays     int               `json:"period_days"`
	Income         decimal.Decimal   `json:"income"`
	Expense        decimal.Decimal   `json:"expense"`
	CurrentBalance decimal.Decimal   `json:"current_balance"`
	TopExpenses    []CategoryPercent `json:"top_expenses"`
	Transactions   int               `json:"transactions"`
}

// CategoryPercent is a category's share of a period total.
type CategoryPercent struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Percent  decimal.Decimal `json:"percent"`
}

// ReportFile is a rendered statement.
type ReportFile struct {
	Filename string
	Content  string
}

// ReportServicer builds statements and statistics.
type ReportServicer interface {
	Generate(ctx context.Context, userID int64, periodDays int) (*ReportFile, error)
	Stats(ctx context.Context, userID int64) (*QuickStats, error)
}
