package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finbot/internal/models"
	"finbot/internal/testutil"
)

func tx(id uint, txType models.TransactionType, category, amount, desc string, at time.Time) models.Transaction {
	return models.Transaction{
		ID:          id,
		Amount:      decimal.RequireFromString(amount),
		Description: desc,
		Category:    category,
		Type:        txType,
		CreatedAt:   at,
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		key  string
		days int
	}{
		{"7", 7}, {"30", 30}, {"90", 90}, {"all", 0},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			p, err := ParsePeriod(tt.key)
			testutil.AssertNoError(t, err)
			if p.Days != tt.days {
				t.Errorf("expected %d days, got %d", tt.days, p.Days)
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := ParsePeriod("365")
		testutil.AssertAppError(t, err, "INVALID_PERIOD")
	})
}

func TestBreakdown(t *testing.T) {
	now := time.Now()
	txs := []models.Transaction{
		tx(1, models.TransactionTypeExpense, "еда", "100", "обед", now),
		tx(2, models.TransactionTypeExpense, "жилье", "300", "аренда", now),
		tx(3, models.TransactionTypeExpense, "еда", "100", "ужин", now),
		tx(4, models.TransactionTypeIncome, "доход", "1000", "зарплата", now),
	}

	lines, total := Breakdown(txs, models.TransactionTypeExpense)
	testutil.AssertDecimal(t, total, "500")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Category != "жилье" || lines[0].Percent.String() != "60" {
		t.Errorf("unexpected first line %+v", lines[0])
	}
	if lines[1].Category != "еда" || lines[1].Percent.String() != "40" {
		t.Errorf("unexpected second line %+v", lines[1])
	}
}

func TestRender(t *testing.T) {
	base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		tx(3, models.TransactionTypeIncome, "доход", "150000", "зарплата", base),
		tx(2, models.TransactionTypeExpense, "еда", "2500", "обед", base.Add(-time.Hour)),
		tx(1, models.TransactionTypeExpense, "транспорт", "7500", "такси", base.Add(-2*time.Hour)),
	}

	out := Render(Input{
		UserID:         42,
		Period:         Periods[1],
		GeneratedAt:    base,
		Transactions:   txs,
		CurrentBalance: decimal.NewFromInt(200000),
		Analysis:       "  Всё хорошо.  ",
		Currency:       "₸",
	})

	t.Run("sections in order", func(t *testing.T) {
		order := []string{
			"ФИНАНСОВЫЙ ОТЧЕТ ЗА 30 ДНЕЙ",
			"Дата создания: 19.10.2026 12:00",
			"📊 ОБЩАЯ СТАТИСТИКА",
			"💰 ДОХОДЫ ПО КАТЕГОРИЯМ",
			"💸 РАСХОДЫ ПО КАТЕГОРИЯМ",
			"📋 ПОСЛЕДНИЕ ТРАНЗАКЦИИ",
			"🤖 AI АНАЛИЗ И РЕКОМЕНДАЦИИ",
			"Всё хорошо.",
			"КОНЕЦ ОТЧЕТА",
		}
		pos := 0
		for _, marker := range order {
			idx := strings.Index(out[pos:], marker)
			if idx < 0 {
				t.Fatalf("marker %q missing or out of order in:\n%s", marker, out)
			}
			pos += idx + len(marker)
		}
	})

	t.Run("totals", func(t *testing.T) {
		for _, want := range []string{"150,000 ₸", "10,000 ₸", "140,000 ₸", "200,000 ₸"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in report", want)
			}
		}
	})

	t.Run("expense percentages sorted descending", func(t *testing.T) {
		transport := strings.Index(out, "транспорт ")
		food := strings.Index(out, "еда ")
		if transport < 0 || food < 0 || transport > food {
			t.Errorf("expected транспорт before еда:\n%s", out)
		}
		if !strings.Contains(out, "( 75.0%)") || !strings.Contains(out, "( 25.0%)") {
			t.Errorf("expected 75/25 split:\n%s", out)
		}
	})

	t.Run("recent transactions newest first", func(t *testing.T) {
		salary := strings.Index(out, "| зарплата")
		lunch := strings.Index(out, "| обед")
		if salary < 0 || lunch < 0 || salary > lunch {
			t.Errorf("expected зарплата listed before обед:\n%s", out)
		}
		if !strings.Contains(out, "+150,000 ₸") || !strings.Contains(out, "-2,500 ₸") {
			t.Errorf("expected signed amounts:\n%s", out)
		}
	})
}

func TestRender_EmptySectionsAndLimit(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var txs []models.Transaction
	for i := 0; i < 25; i++ {
		txs = append(txs, tx(uint(i+1), models.TransactionTypeExpense, "еда", "10", fmt.Sprintf("item-%02d", i), base.Add(time.Duration(i)*time.Minute)))
	}

	out := Render(Input{Period: Periods[3], GeneratedAt: base, Transactions: txs, Currency: "₸"})

	if !strings.Contains(out, "Доходов не найдено") {
		t.Error("expected empty income section")
	}
	if !strings.Contains(out, "ФИНАНСОВЫЙ ОТЧЕТ ЗА ВЕСЬ ПЕРИОД") {
		t.Error("expected all-time header")
	}
	if strings.Contains(out, "item-04") {
		t.Error("oldest transactions beyond the limit must be omitted")
	}
	if !strings.Contains(out, "item-24") || !strings.Contains(out, "item-05") {
		t.Error("expected the newest 20 transactions")
	}
}

func TestFilename(t *testing.T) {
	at := time.Date(2026, 10, 19, 8, 5, 3, 0, time.UTC)
	if got := Filename(42, at); got != "financial_report_42_20261019_080503.txt" {
		t.Errorf("unexpected filename %q", got)
	}
}
