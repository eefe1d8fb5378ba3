// Command classify runs chat messages through the parser and classifier
// without touching the database. Messages come from the arguments or, one
// per line, from stdin.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"finbot/internal/ai"
	"finbot/internal/categories"
	"finbot/internal/classifier"
	"finbot/internal/config"
	"finbot/internal/logger"
	"finbot/internal/models"
	"finbot/internal/money"
	"finbot/internal/parser"
)

var (
	offline = flag.Bool("offline", false, "Use only the keyword rules, even when an AI provider is configured.")
	catFile = flag.String("categories", "", "YAML category table. Defaults to CATEGORIES_FILE or the built-in table.")
)

func main() {
	flag.Parse()
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(context.Background(), flag.Args(), os.Stdin, os.Stdout); err != nil {
		logger.Get().Fatalf("Classify error: %v", err)
	}
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if *catFile != "" {
		cfg.CategoriesFile = *catFile
	}
	if *offline {
		cfg.DisableAI = true
	}

	table, err := categories.Load(cfg.CategoriesFile)
	if err != nil {
		return err
	}
	gen, err := ai.New(ctx, cfg, nil)
	if err != nil {
		return err
	}
	cls := classifier.New(gen, table, classifier.Options{Timeout: cfg.AIRequestTimeout, Currency: cfg.CurrencySymbol})

	if len(args) > 0 {
		for _, text := range args {
			classifyLine(ctx, cls, cfg.CurrencySymbol, text, out)
		}
		return nil
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		classifyLine(ctx, cls, cfg.CurrencySymbol, text, out)
	}
	return scanner.Err()
}

func classifyLine(ctx context.Context, cls *classifier.Classifier, currency, text string, out io.Writer) {
	parsed, ok := parser.Parse(text)
	if !ok {
		color.New(color.BgRed, color.FgWhite).Fprintf(out, " %-8s ", "SKIP")
		fmt.Fprintf(out, " %s\n", text)
		return
	}

	res := cls.Classify(ctx, parsed.Description, parsed.Amount)
	income := res.Type == models.TransactionTypeIncome
	if income {
		color.New(color.BgGreen, color.FgBlack).Fprintf(out, " %-8s ", res.Type)
	} else {
		color.New(color.BgYellow, color.FgBlack).Fprintf(out, " %-8s ", res.Type)
	}
	color.New(color.BgWhite, color.FgBlack).Fprintf(out, " %-14s ", res.Category)
	fmt.Fprintf(out, " %14s  %s\n", money.Signed(parsed.Amount, income, currency), parsed.Description)
}
