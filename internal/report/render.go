package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finbot/internal/models"
	"finbot/internal/money"
)

// RecentLimit is the number of transactions listed in a statement.
const RecentLimit = 20

const (
	heavyRule = "═══════════════════════════════════════════════════════════════"
	lightRule = "───────────────────────────────────────────────────────────────"
)

// Input carries everything a statement shows.
type Input struct {
	UserID         int64
	Period         Period
	GeneratedAt    time.Time
	Transactions   []models.Transaction
	CurrentBalance decimal.Decimal
	Analysis       string
	Currency       string
	// Location is used for displayed times. Nil means UTC.
	Location *time.Location
}

// Line is one category row.
type Line struct {
	Category string
	Amount   decimal.Decimal
	Percent  decimal.Decimal
}

// Breakdown groups transactions of one type by category, sorted by amount
// descending (ties by name), with each category's share of total.
func Breakdown(txs []models.Transaction, txType models.TransactionType) ([]Line, decimal.Decimal) {
	total := decimal.Zero
	sums := map[string]decimal.Decimal{}
	for _, tx := range txs {
		if tx.Type != txType {
			continue
		}
		total = total.Add(tx.Amount)
		sums[tx.Category] = sums[tx.Category].Add(tx.Amount)
	}

	lines := make([]Line, 0, len(sums))
	for category, amount := range sums {
		lines = append(lines, Line{Category: category, Amount: amount, Percent: money.Percent(amount, total)})
	}
	sort.Slice(lines, func(i, j int) bool {
		if !lines[i].Amount.Equal(lines[j].Amount) {
			return lines[i].Amount.GreaterThan(lines[j].Amount)
		}
		return lines[i].Category < lines[j].Category
	})
	return lines, total
}

// Filename names the statement file for a user and time.
func Filename(userID int64, at time.Time) string {
	return fmt.Sprintf("financial_report_%d_%s.txt", userID, at.Format("20060102_150405"))
}

// Render writes the statement: header, totals, income and expense by
// category, recent transactions and the analysis block, in that order.
func Render(in Input) string {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	cur := in.Currency

	incomeLines, income := Breakdown(in.Transactions, models.TransactionTypeIncome)
	expenseLines, expense := Breakdown(in.Transactions, models.TransactionTypeExpense)

	var sb strings.Builder
	sb.WriteString(heavyRule + "\n")
	fmt.Fprintf(&sb, "                    ФИНАНСОВЫЙ ОТЧЕТ ЗА %s\n", strings.ToUpper(in.Period.Name))
	sb.WriteString(heavyRule + "\n")
	fmt.Fprintf(&sb, "Дата создания: %s\n\n", in.GeneratedAt.In(loc).Format("02.01.2006 15:04"))

	section(&sb, "📊 ОБЩАЯ СТАТИСТИКА")
	fmt.Fprintf(&sb, "💰 Общие доходы:     %15s %s\n", money.Format(income), cur)
	fmt.Fprintf(&sb, "💸 Общие расходы:    %15s %s\n", money.Format(expense), cur)
	fmt.Fprintf(&sb, "📈 Баланс за период: %15s %s\n", money.Format(income.Sub(expense)), cur)
	fmt.Fprintf(&sb, "💳 Текущий баланс:   %15s %s\n\n", money.Format(in.CurrentBalance), cur)

	section(&sb, "💰 ДОХОДЫ ПО КАТЕГОРИЯМ")
	categoryLines(&sb, incomeLines, cur, "Доходов не найдено")
	sb.WriteString("\n")

	section(&sb, "💸 РАСХОДЫ ПО КАТЕГОРИЯМ")
	categoryLines(&sb, expenseLines, cur, "Расходов не найдено")
	sb.WriteString("\n")

	section(&sb, "📋 ПОСЛЕДНИЕ ТРАНЗАКЦИИ")
	for _, tx := range recent(in.Transactions) {
		fmt.Fprintf(&sb, "%s | %s | %-25s | %s\n",
			tx.CreatedAt.In(loc).Format("02.01 15:04"),
			fmt.Sprintf("%9s %s", money.Signed(tx.Amount, tx.Type == models.TransactionTypeIncome, ""), cur),
			tx.Description,
			tx.Category,
		)
	}
	sb.WriteString("\n")

	section(&sb, "🤖 AI АНАЛИЗ И РЕКОМЕНДАЦИИ")
	sb.WriteString(strings.TrimSpace(in.Analysis) + "\n\n")

	sb.WriteString(heavyRule + "\n")
	sb.WriteString("                        КОНЕЦ ОТЧЕТА\n")
	sb.WriteString(heavyRule + "\n")
	return sb.String()
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(title + "\n")
	sb.WriteString(lightRule + "\n")
}

func categoryLines(sb *strings.Builder, lines []Line, cur, empty string) {
	if len(lines) == 0 {
		sb.WriteString(empty + "\n")
		return
	}
	for _, l := range lines {
		fmt.Fprintf(sb, "%-20s %12s %s (%5s%%)\n", l.Category, money.Format(l.Amount), cur, l.Percent.StringFixed(1))
	}
}

// recent returns at most RecentLimit transactions, newest first.
func recent(txs []models.Transaction) []models.Transaction {
	sorted := make([]models.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})
	if len(sorted) > RecentLimit {
		sorted = sorted[:RecentLimit]
	}
	return sorted
}
