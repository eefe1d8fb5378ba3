// Package report renders the plain-text financial statement.
package report

import (
	"fmt"

	apperrors "finbot/internal/errors"
)

// Period is one of the report windows offered to users.
type Period struct {
	Key  string `json:"key"`
	Days int    `json:"days"` // zero means all time
	Name string `json:"name"`
}

// Periods lists the supported windows in menu order.
var Periods = []Period{
	{Key: "7", Days: 7, Name: "7 дней"},
	{Key: "30", Days: 30, Name: "30 дней"},
	{Key: "90", Days: 90, Name: "90 дней"},
	{Key: "all", Days: 0, Name: "весь период"},
}

// ParsePeriod resolves a period key ("7", "30", "90", "all").
func ParsePeriod(key string) (Period, error) {
	for _, p := range Periods {
		if p.Key == key {
			return p, nil
		}
	}
	return Period{}, apperrors.WithMessage(apperrors.ErrInvalidPeriod, fmt.Sprintf("unknown period %q: use 7, 30, 90 or all", key))
}

// PeriodForDays returns the menu entry for days, or a generic one.
func PeriodForDays(days int) Period {
	for _, p := range Periods {
		if p.Days == days {
			return p
		}
	}
	return Period{Key: fmt.Sprint(days), Days: days, Name: fmt.Sprintf("%d дней", days)}
}
