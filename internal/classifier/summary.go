package classifier

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"finbot/internal/logger"
	"finbot/internal/models"
	"finbot/internal/money"

	"github.com/shopspring/decimal"
)

// NotEnoughData is returned by Summarize for an empty period.
const NotEnoughData = "📊 Недостаточно данных для анализа. Добавьте больше транзакций!"

// CategoryAmount is a category with its summed amount.
type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
}

// Totals aggregates a set of transactions.
type Totals struct {
	Income      decimal.Decimal
	Expense     decimal.Decimal
	TopExpenses []CategoryAmount
}

// Balance is income minus expense.
func (t Totals) Balance() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// Aggregate sums txs and ranks expense categories by amount, descending,
// keeping at most limit entries (all when limit <= 0).
func Aggregate(txs []models.Transaction, limit int) Totals {
	totals := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	byCategory := map[string]decimal.Decimal{}

	for _, tx := range txs {
		switch tx.Type {
		case models.TransactionTypeIncome:
			totals.Income = totals.Income.Add(tx.Amount)
		case models.TransactionTypeExpense:
			totals.Expense = totals.Expense.Add(tx.Amount)
			byCategory[tx.Category] = byCategory[tx.Category].Add(tx.Amount)
		}
	}

	for category, amount := range byCategory {
		totals.TopExpenses = append(totals.TopExpenses, CategoryAmount{Category: category, Amount: amount})
	}
	sort.Slice(totals.TopExpenses, func(i, j int) bool {
		a, b := totals.TopExpenses[i], totals.TopExpenses[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Category < b.Category
	})
	if limit > 0 && len(totals.TopExpenses) > limit {
		totals.TopExpenses = totals.TopExpenses[:limit]
	}
	return totals
}

// PeriodLabel renders a period length for headings. Zero or less means all time.
func PeriodLabel(days int) string {
	if days <= 0 {
		return "ВСЕ ВРЕМЯ"
	}
	return fmt.Sprintf("%d ДНЕЙ", days)
}

// Summarize writes a free-text analysis of txs over a period of periodDays
// (zero for all time). It falls back to a fixed template when the generator
// is disabled or fails.
func (c *Classifier) Summarize(ctx context.Context, txs []models.Transaction, periodDays int) string {
	if len(txs) == 0 {
		return NotEnoughData
	}

	totals := Aggregate(txs, topCategories)
	if c.gen == nil {
		return c.simpleSummary(totals, periodDays)
	}

	text, err := c.generate(ctx, c.summaryPrompt(totals, periodDays), summaryMaxTokens)
	if err != nil || text == "" {
		logger.Get().Warnw("Summary degraded to template", "provider", c.gen.Name(), "error", err)
		return c.simpleSummary(totals, periodDays)
	}
	return text
}

func (c *Classifier) summaryPrompt(totals Totals, periodDays int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Проанализируй финансовые данные пользователя за период: %s\n\n", strings.ToLower(PeriodLabel(periodDays)))
	sb.WriteString("💰 ОБЩАЯ СТАТИСТИКА:\n")
	fmt.Fprintf(&sb, "- Доходы: %s\n", money.FormatWith(totals.Income, c.currency))
	fmt.Fprintf(&sb, "- Расходы: %s\n", money.FormatWith(totals.Expense, c.currency))
	fmt.Fprintf(&sb, "- Баланс: %s\n\n", money.FormatWith(totals.Balance(), c.currency))
	sb.WriteString("📊 ТОП КАТЕГОРИИ РАСХОДОВ:\n")
	for _, ca := range totals.TopExpenses {
		fmt.Fprintf(&sb, "- %s: %s\n", ca.Category, money.FormatWith(ca.Amount, c.currency))
	}
	sb.WriteString("\n🎯 ЗАДАЧИ:\n")
	sb.WriteString("1. Дай краткий анализ (2-3 предложения)\n")
	sb.WriteString("2. Найди проблемные зоны трат\n")
	sb.WriteString("3. Дай 3 конкретных совета по экономии\n")
	sb.WriteString("4. Спрогнозируй траты на следующий месяц\n\n")
	sb.WriteString("Отвечай на русском языке, структурированно и полезно для пользователя.")
	return sb.String()
}

func (c *Classifier) simpleSummary(totals Totals, periodDays int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 АНАЛИЗ ЗА %s\n\n", PeriodLabel(periodDays))
	fmt.Fprintf(&sb, "💰 Ваши доходы составили %s\n", money.FormatWith(totals.Income, c.currency))
	fmt.Fprintf(&sb, "💸 Расходы: %s\n", money.FormatWith(totals.Expense, c.currency))
	fmt.Fprintf(&sb, "📈 Итоговый баланс: %s\n\n", money.FormatWith(totals.Balance(), c.currency))

	switch totals.Balance().Sign() {
	case 1:
		sb.WriteString("✅ Отлично! Вы тратите меньше, чем зарабатываете.\n")
	case 0:
		sb.WriteString("⚖️ Вы тратите ровно столько, сколько зарабатываете.\n")
	default:
		sb.WriteString("⚠️ Внимание! Расходы превышают доходы.\n")
	}

	if len(totals.TopExpenses) > 0 {
		top := totals.TopExpenses[0]
		fmt.Fprintf(&sb, "\n📊 Больше всего тратите на: %s (%s)\n", top.Category, money.FormatWith(top.Amount, c.currency))
	}

	sb.WriteString("\n💡 СОВЕТЫ:\n")
	sb.WriteString("• Ведите ежедневный учет трат\n")
	sb.WriteString("• Планируйте бюджет на месяц\n")
	sb.WriteString("• Откладывайте 10% от доходов\n")
	return sb.String()
}
