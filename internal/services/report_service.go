package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"finbot/internal/classifier"
	apperrors "finbot/internal/errors"
	"finbot/internal/models"
	"finbot/internal/money"
	"finbot/internal/report"
)

const (
	statsPeriodDays = 30
	statsTopLimit   = 5
)

// reportService assembles statements from the ledger and the summarizer.
type reportService struct {
	transactions TransactionServicer
	summarizer   Summarizer
	currency     string
	now          func() time.Time
}

// NewReportService creates a new ReportServicer.
func NewReportService(transactions TransactionServicer, summarizer Summarizer, currency string) ReportServicer {
	return &reportService{
		transactions: transactions,
		summarizer:   summarizer,
		currency:     currency,
		now:          time.Now,
	}
}

// periodData loads the period's transactions and the current balance concurrently.
func (s *reportService) periodData(ctx context.Context, userID int64, days int) ([]models.Transaction, decimal.Decimal, error) {
	var (
		txs     []models.Transaction
		balance decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.transactions.ListSince(gctx, userID, days)
		return err
	})
	g.Go(func() error {
		var err error
		balance, err = s.transactions.GetBalance(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, decimal.Zero, err
	}
	return txs, balance, nil
}

// Generate renders the statement for the last periodDays days (zero for all time).
func (s *reportService) Generate(ctx context.Context, userID int64, periodDays int) (*ReportFile, error) {
	txs, balance, err := s.periodData(ctx, userID, periodDays)
	if err != nil {
		return nil, err
	}
	period := report.PeriodForDays(periodDays)
	if len(txs) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrNoTransactions, "Нет транзакций за "+period.Name)
	}

	now := s.now().UTC()
	content := report.Render(report.Input{
		UserID:         userID,
		Period:         period,
		GeneratedAt:    now,
		Transactions:   txs,
		CurrentBalance: balance,
		Analysis:       s.summarizer.Summarize(ctx, txs, periodDays),
		Currency:       s.currency,
	})

	return &ReportFile{
		Filename: report.Filename(userID, now),
		Content:  content,
	}, nil
}

// Stats returns the 30-day overview with the top expense categories.
func (s *reportService) Stats(ctx context.Context, userID int64) (*QuickStats, error) {
	txs, balance, err := s.periodData(ctx, userID, statsPeriodDays)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrNoTransactions, "Нет транзакций за последний месяц")
	}

	// Totals and category shares are computed from the same rows.
	totals := classifier.Aggregate(txs, statsTopLimit)
	stats := &QuickStats{
		PeriodDays:     statsPeriodDays,
		Income:         totals.Income,
		Expense:        totals.Expense,
		CurrentBalance: balance,
		Transactions:   len(txs),
	}
	for _, top := range totals.TopExpenses {
		stats.TopExpenses = append(stats.TopExpenses, CategoryPercent{
			Category: top.Category,
			Amount:   top.Amount,
			Percent:  money.Percent(top.Amount, totals.Expense),
		})
	}
	return stats, nil
}
