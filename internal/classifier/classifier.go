// Package classifier assigns a type and category to a parsed transaction and
// writes the free-text analysis shown in reports. Every operation has a
// deterministic path that is used when no text generator is configured or
// when the generator fails.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"finbot/internal/ai"
	"finbot/internal/categories"
	"finbot/internal/logger"
	"finbot/internal/models"
	"finbot/internal/money"

	"github.com/shopspring/decimal"
)

const (
	// LargeIncomeThreshold: unmatched amounts above it default to income.
	LargeIncomeThreshold = 50000
	// AdviceThreshold: expenses at or below it get no advice.
	AdviceThreshold = 1000

	classifyMaxTokens = 100
	summaryMaxTokens  = 500
	adviceMaxTokens   = 100
	topCategories     = 5
)

// Result is a transaction's type and category. Both are always set.
type Result struct {
	Type     models.TransactionType `json:"type"`
	Category string                 `json:"category"`
}

// Options tunes a Classifier.
type Options struct {
	// Timeout bounds each generator call. Zero means 30 seconds.
	Timeout time.Duration
	// Currency is the symbol used in prompts and summaries.
	Currency string
}

// Classifier combines a text generator with the keyword table.
type Classifier struct {
	gen      ai.Generator
	table    categories.Table
	timeout  time.Duration
	currency string
}

// New creates a Classifier. gen may be nil, which disables the generator path.
func New(gen ai.Generator, table categories.Table, opts Options) *Classifier {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Classifier{
		gen:      gen,
		table:    table,
		timeout:  opts.Timeout,
		currency: opts.Currency,
	}
}

// AIEnabled reports whether a generator is configured.
func (c *Classifier) AIEnabled() bool {
	return c.gen != nil
}

// Classify never fails: generator errors degrade to the keyword fallback.
func (c *Classifier) Classify(ctx context.Context, description string, amount decimal.Decimal) Result {
	if c.gen == nil {
		return c.Fallback(description, amount)
	}

	res, err := c.tryPrimary(ctx, description, amount)
	if err != nil {
		logger.Get().Warnw("Classification degraded to keyword fallback",
			"provider", c.gen.Name(),
			"error", err,
		)
		return c.Fallback(description, amount)
	}
	return res
}

func (c *Classifier) tryPrimary(ctx context.Context, description string, amount decimal.Decimal) (Result, error) {
	raw, err := c.generate(ctx, c.classifyPrompt(description, amount), classifyMaxTokens)
	if err != nil {
		return Result{}, err
	}
	return c.decode(raw)
}

// decode strictly parses a model response. Unknown types and categories
// outside the table are rejected.
func (c *Classifier) decode(raw string) (Result, error) {
	var payload struct {
		Type     *string `json:"type"`
		Category *string `json:"category"`
	}
	if err := json.Unmarshal([]byte(ai.StripCodeFence(raw)), &payload); err != nil {
		return Result{}, fmt.Errorf("decode classification %q: %w", raw, err)
	}
	if payload.Type == nil || payload.Category == nil {
		return Result{}, fmt.Errorf("classification %q is missing fields", raw)
	}

	res := Result{
		Type:     models.TransactionType(strings.ToLower(strings.TrimSpace(*payload.Type))),
		Category: strings.ToLower(strings.TrimSpace(*payload.Category)),
	}
	switch res.Type {
	case models.TransactionTypeIncome:
		if !c.table.AllowsIncome(res.Category) {
			return Result{}, fmt.Errorf("unknown income category %q", res.Category)
		}
	case models.TransactionTypeExpense:
		if !c.table.AllowsExpense(res.Category) {
			return Result{}, fmt.Errorf("unknown expense category %q", res.Category)
		}
	default:
		return Result{}, fmt.Errorf("unknown transaction type %q", res.Type)
	}
	return res, nil
}

// Fallback is the deterministic keyword decision procedure:
// income keywords, then expense rules in order, then the magnitude default.
func (c *Classifier) Fallback(description string, amount decimal.Decimal) Result {
	lowered := strings.ToLower(description)

	if c.table.MatchIncome(lowered) {
		return Result{Type: models.TransactionTypeIncome, Category: c.table.IncomeDefault}
	}
	if category, ok := c.table.MatchExpense(lowered); ok {
		return Result{Type: models.TransactionTypeExpense, Category: category}
	}
	if amount.GreaterThan(decimal.NewFromInt(LargeIncomeThreshold)) {
		return Result{Type: models.TransactionTypeIncome, Category: c.table.IncomeDefault}
	}
	return Result{Type: models.TransactionTypeExpense, Category: c.table.ExpenseDefault}
}

// SpendingAdvice returns a short tip for a large expense, or "" when the
// generator is disabled, the amount is small, or the call fails.
func (c *Classifier) SpendingAdvice(ctx context.Context, description string, amount, balance decimal.Decimal) string {
	if c.gen == nil || amount.LessThanOrEqual(decimal.NewFromInt(AdviceThreshold)) {
		return ""
	}

	text, err := c.generate(ctx, c.advicePrompt(description, amount, balance), adviceMaxTokens)
	if err != nil {
		logger.Get().Warnw("Spending advice unavailable", "provider", c.gen.Name(), "error", err)
		return ""
	}
	if text == "" {
		return ""
	}
	return "🤖 " + text
}

func (c *Classifier) generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.gen.Generate(ctx, prompt, maxTokens)
}

func (c *Classifier) classifyPrompt(description string, amount decimal.Decimal) string {
	var sb strings.Builder
	sb.WriteString("Проанализируй транзакцию и определи тип и категорию:\n\n")
	fmt.Fprintf(&sb, "Описание: %q\n", description)
	fmt.Fprintf(&sb, "Сумма: %s %s\n\n", amount.String(), c.currency)
	sb.WriteString("ПРАВИЛА:\n")
	sb.WriteString("- Кредит, займ, долг, выплата по кредиту = РАСХОД (expense), категория \"финансы\"\n")
	sb.WriteString("- Возврат долга ТЕБЕ, зарплата, премия = ДОХОД (income)\n")
	sb.WriteString("- Еда, транспорт, покупки = РАСХОД (expense)\n\n")
	fmt.Fprintf(&sb, "Категории доходов: %s\n", strings.Join(c.table.IncomeCategories, ", "))
	fmt.Fprintf(&sb, "Категории расходов: %s\n\n", strings.Join(c.table.ExpenseCategories(), ", "))
	sb.WriteString("Ответь ТОЛЬКО JSON:\n")
	sb.WriteString(`{"type": "income/expense", "category": "категория"}`)
	return sb.String()
}

func (c *Classifier) advicePrompt(description string, amount, balance decimal.Decimal) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Пользователь потратил %s на %q.\n", money.FormatWith(amount, c.currency), description)
	fmt.Fprintf(&sb, "Текущий баланс: %s\n\n", money.FormatWith(balance, c.currency))
	sb.WriteString("Дай КОРОТКИЙ совет (1-2 предложения) на русском языке:\n")
	sb.WriteString("- Если трата разумная - поддержи\n")
	sb.WriteString("- Если трата большая - дай совет по экономии\n")
	sb.WriteString("- Учитывай баланс пользователя")
	return sb.String()
}
