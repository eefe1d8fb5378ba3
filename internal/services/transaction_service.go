package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finbot/internal/errors"
	"finbot/internal/models"
	"finbot/internal/pagination"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 50
)

// transactionService is the gorm-backed ledger.
type transactionService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db, now: time.Now}
}

// CreateTransaction records a classified transaction.
func (s *transactionService) CreateTransaction(
	ctx context.Context,
	userID int64,
	amount decimal.Decimal,
	description string,
	category string,
	transactionType models.TransactionType,
) (*models.Transaction, error) {
	description = strings.TrimSpace(description)
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if !transactionType.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Amount:      amount,
		Description: description,
		Category:    category,
		Type:        transactionType,
	}
	if err := s.db.WithContext(ctx).Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}
	return transaction, nil
}

// GetBalance returns income minus expense over all of the user's transactions.
func (s *transactionService) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	totals, err := s.totals(s.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID))
	if err != nil {
		return decimal.Zero, err
	}
	return totals.Income.Sub(totals.Expense), nil
}

type incomeExpense struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Count   int64
}

func (s *transactionService) totals(q *gorm.DB) (incomeExpense, error) {
	var row incomeExpense
	err := q.Select(
		"COALESCE(SUM(CASE WHEN transaction_type = ? THEN amount ELSE 0 END), 0) AS income, "+
			"COALESCE(SUM(CASE WHEN transaction_type = ? THEN amount ELSE 0 END), 0) AS expense, "+
			"COUNT(*) AS count",
		models.TransactionTypeIncome, models.TransactionTypeExpense,
	).Scan(&row).Error
	if err != nil {
		return incomeExpense{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	row.Income = row.Income.Round(2)
	row.Expense = row.Expense.Round(2)
	return row, nil
}

// since scopes a query to the last days days. days <= 0 leaves it unbounded.
func (s *transactionService) since(days int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if days <= 0 {
			return db
		}
		return db.Where("created_at >= ?", s.now().UTC().AddDate(0, 0, -days))
	}
}

// ListSince returns the user's transactions of the last days days, most recent first.
func (s *transactionService) ListSince(ctx context.Context, userID int64, days int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Scopes(s.since(days)).
		Order("created_at DESC, id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// ListSincePage is the paginated form of ListSince.
func (s *transactionService) ListSincePage(ctx context.Context, userID int64, days int, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Scopes(s.since(days))

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC, id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// CategoryAggregate sums the user's transactions of the last days days per category.
func (s *transactionService) CategoryAggregate(ctx context.Context, userID int64, days int) (map[string]CategorySummary, error) {
	var rows []struct {
		Category string
		Type     models.TransactionType
		Total    decimal.Decimal
		Count    int64
	}
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("category, transaction_type AS type, SUM(amount) AS total, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Scopes(s.since(days)).
		Group("category, transaction_type").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := make(map[string]CategorySummary, len(rows))
	for _, r := range rows {
		summary, ok := result[r.Category]
		if !ok {
			summary = CategorySummary{Income: decimal.Zero, Expense: decimal.Zero}
		}
		switch r.Type {
		case models.TransactionTypeIncome:
			summary.Income = summary.Income.Add(r.Total.Round(2))
		case models.TransactionTypeExpense:
			summary.Expense = summary.Expense.Add(r.Total.Round(2))
		}
		summary.Count += r.Count
		result[r.Category] = summary
	}
	return result, nil
}

// GetLastTransaction returns the user's most recent transaction.
func (s *transactionService) GetLastTransaction(ctx context.Context, userID int64) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoTransactions
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// GetRecentForDeletion returns up to limit of the user's newest transactions.
// limit defaults to 10 and is capped at 50.
func (s *transactionService) GetRecentForDeletion(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	switch {
	case limit <= 0:
		limit = defaultRecentLimit
	case limit > maxRecentLimit:
		limit = maxRecentLimit
	}
	var transactions []models.Transaction
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(ctx context.Context, userID int64, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// DeleteTransaction removes one of the user's transactions and returns it.
// A missing or foreign id yields ErrTransactionNotFound and deletes nothing.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID int64, transactionID uint) (*models.Transaction, error) {
	var deleted *models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var transaction models.Transaction
		if err := tx.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTransactionNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		res := tx.Where("id = ? AND user_id = ?", transactionID, userID).Delete(&models.Transaction{})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrPersistence, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrTransactionNotFound
		}
		deleted = &transaction
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// GetUserTransactionStats summarizes the user's whole ledger.
func (s *transactionService) GetUserTransactionStats(ctx context.Context, userID int64) (*TransactionStats, error) {
	totals, err := s.totals(s.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID))
	if err != nil {
		return nil, err
	}

	stats := &TransactionStats{
		Count:   totals.Count,
		Income:  totals.Income,
		Expense: totals.Expense,
		Balance: totals.Income.Sub(totals.Expense),
	}
	if totals.Count > 0 {
		last, err := s.GetLastTransaction(ctx, userID)
		if err != nil {
			return nil, err
		}
		stats.LastTransactionAt = &last.CreatedAt
	}
	return stats, nil
}
