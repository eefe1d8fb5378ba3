// Package parser extracts a description and an amount from a free-text
// transaction message such as "обед 2500", "1 500,50 такси" or
// "ordered 2 coffees 1500".
package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// number matches an integer with optional space-separated digit groups and
// an optional fractional part using "." or ",".
const number = `\d+(?:\s+\d+)*(?:[.,]\d+)?`

var (
	trailingAmount = regexp.MustCompile(`^(.+?)\s+(` + number + `)$`)
	leadingAmount  = regexp.MustCompile(`^(` + number + `)\s+(.+)$`)
	anyAmount      = regexp.MustCompile(number)
	whitespace     = regexp.MustCompile(`\s+`)

	nbsp = strings.NewReplacer("\u00a0", " ", "\u202f", " ")
)

// Result is a successfully parsed message.
type Result struct {
	Description string
	Amount      decimal.Decimal
}

// Parse returns the description and a strictly positive amount found in text.
// The second return value is false when no usable amount or description exists.
func Parse(text string) (Result, bool) {
	text = strings.TrimSpace(nbsp.Replace(text))
	if text == "" {
		return Result{}, false
	}

	if m := trailingAmount.FindStringSubmatch(text); m != nil {
		if r, ok := build(m[1], m[2]); ok {
			return r, true
		}
	}

	if m := leadingAmount.FindStringSubmatch(text); m != nil {
		if r, ok := build(m[2], m[1]); ok {
			return r, true
		}
	}

	return parseEmbedded(text)
}

// parseEmbedded picks the longest number in text (the first one on ties) and
// treats everything else as the description.
func parseEmbedded(text string) (Result, bool) {
	locs := anyAmount.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return Result{}, false
	}

	best := locs[0]
	for _, loc := range locs[1:] {
		if loc[1]-loc[0] > best[1]-best[0] {
			best = loc
		}
	}

	desc := whitespace.ReplaceAllString(text[:best[0]]+" "+text[best[1]:], " ")
	return build(desc, text[best[0]:best[1]])
}

// build keeps the description as written apart from surrounding whitespace.
func build(desc, raw string) (Result, bool) {
	amount, ok := ParseAmount(raw)
	if !ok {
		return Result{}, false
	}
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return Result{}, false
	}
	return Result{Description: desc, Amount: amount}, true
}

// ParseAmount normalizes a captured number ("1 500,50" -> 1500.50) and
// rejects anything that is not strictly positive.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	clean := strings.ReplaceAll(whitespace.ReplaceAllString(raw, ""), ",", ".")
	amount, err := decimal.NewFromString(clean)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, false
	}
	return amount, true
}
