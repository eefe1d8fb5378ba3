// Package categories holds the ordered keyword table used to classify
// transactions without a language model.
package categories

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule maps a category to the keywords that select it.
type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Table is the read-only category configuration. Expense rules are matched in
// declaration order, so earlier rules take priority.
type Table struct {
	IncomeKeywords   []string `yaml:"income_keywords"`
	IncomeCategories []string `yaml:"income_categories"`
	IncomeDefault    string   `yaml:"income_default"`
	Expense          []Rule   `yaml:"expense"`
	ExpenseDefault   string   `yaml:"expense_default"`
}

// Default returns the built-in table.
func Default() Table {
	return Table{
		IncomeKeywords: []string{
			"зарплата", "фриланс", "возврат", "долг вернули", "премия",
			"подарок", "инвестиции", "продажа", "аванс", "доход",
		},
		IncomeCategories: []string{"зарплата", "фриланс", "возврат", "премия", "подарок", "инвестиции"},
		IncomeDefault:    "доход",
		Expense: []Rule{
			{Category: "еда", Keywords: []string{"обед", "ужин", "завтрак", "кафе", "ресторан", "продукты", "доставка", "мак"}},
			{Category: "транспорт", Keywords: []string{"бензин", "такси", "автобус", "метро", "парковка", "штраф", "заправка"}},
			{Category: "жилье", Keywords: []string{"аренда", "коммунальные", "ремонт", "мебель", "электричество", "квартплата"}},
			{Category: "развлечения", Keywords: []string{"кино", "игры", "концерт", "бар", "клуб", "развлечения"}},
			{Category: "здоровье", Keywords: []string{"аптека", "врач", "лекарства", "больница", "анализы"}},
			{Category: "одежда", Keywords: []string{"одежда", "обувь", "магазин", "торговый центр"}},
			{Category: "образование", Keywords: []string{"курсы", "книги", "обучение", "семинар"}},
			{Category: "финансы", Keywords: []string{"кредит", "займ", "долг", "проценты", "комиссия", "банк", "выплата"}},
			{Category: "другое"},
		},
		ExpenseDefault: "другое",
	}
}

// Load reads a YAML table from path. An empty path yields the built-in table.
func Load(path string) (Table, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read categories file: %w", err)
	}

	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("parse categories file %s: %w", path, err)
	}
	t.normalize()
	if err := t.Validate(); err != nil {
		return Table{}, fmt.Errorf("categories file %s: %w", path, err)
	}
	return t, nil
}

// Validate checks that both defaults are present.
func (t Table) Validate() error {
	if t.IncomeDefault == "" {
		return fmt.Errorf("income_default is required")
	}
	if t.ExpenseDefault == "" {
		return fmt.Errorf("expense_default is required")
	}
	for i, r := range t.Expense {
		if r.Category == "" {
			return fmt.Errorf("expense rule %d has no category", i)
		}
	}
	return nil
}

// normalize lowercases keywords so matching against a lowercased description works.
func (t *Table) normalize() {
	for i, kw := range t.IncomeKeywords {
		t.IncomeKeywords[i] = strings.ToLower(kw)
	}
	for i := range t.Expense {
		for j, kw := range t.Expense[i].Keywords {
			t.Expense[i].Keywords[j] = strings.ToLower(kw)
		}
	}
}

// MatchIncome reports whether the lowercased description contains an income keyword.
func (t Table) MatchIncome(lowered string) bool {
	for _, kw := range t.IncomeKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// MatchExpense returns the first expense category whose keywords match.
func (t Table) MatchExpense(lowered string) (string, bool) {
	for _, r := range t.Expense {
		for _, kw := range r.Keywords {
			if strings.Contains(lowered, kw) {
				return r.Category, true
			}
		}
	}
	return "", false
}

// ExpenseCategories lists expense categories in declaration order, including the default.
func (t Table) ExpenseCategories() []string {
	out := make([]string, 0, len(t.Expense)+1)
	seen := map[string]bool{}
	for _, r := range t.Expense {
		if !seen[r.Category] {
			seen[r.Category] = true
			out = append(out, r.Category)
		}
	}
	if !seen[t.ExpenseDefault] {
		out = append(out, t.ExpenseDefault)
	}
	return out
}

// AllowsIncome reports whether category is an accepted income category.
func (t Table) AllowsIncome(category string) bool {
	if category == t.IncomeDefault {
		return true
	}
	for _, c := range t.IncomeCategories {
		if c == category {
			return true
		}
	}
	return false
}

// AllowsExpense reports whether category is an accepted expense category.
func (t Table) AllowsExpense(category string) bool {
	for _, c := range t.ExpenseCategories() {
		if c == category {
			return true
		}
	}
	return false
}
