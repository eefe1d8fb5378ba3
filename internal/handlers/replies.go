package handlers

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"finbot/internal/models"
	"finbot/internal/money"
	"finbot/internal/services"
)

// recordedReply is the chat confirmation for a recorded transaction.
func recordedReply(res *services.MessageResult, currency string) string {
	tx := res.Transaction
	emoji := "💸"
	if tx.Type == models.TransactionTypeIncome {
		emoji = "💰"
	}

	var sb strings.Builder
	sb.WriteString("✅ Транзакция добавлена!\n\n")
	fmt.Fprintf(&sb, "%s %s\n", emoji, money.Signed(tx.Amount, tx.Type == models.TransactionTypeIncome, currency))
	fmt.Fprintf(&sb, "📝 %s\n", tx.Description)
	fmt.Fprintf(&sb, "📂 Категория: %s\n", tx.Category)
	fmt.Fprintf(&sb, "💳 Баланс: %s", money.FormatWith(res.Balance, currency))
	if res.Advice != "" {
		sb.WriteString("\n\n" + res.Advice)
	}
	return sb.String()
}

// deletedReply is the chat confirmation for a deleted transaction.
func deletedReply(tx *models.Transaction, balance decimal.Decimal, currency string) string {
	return fmt.Sprintf("✅ Транзакция удалена!\n\n💰 %s - %s\n💳 Новый баланс: %s",
		money.Signed(tx.Amount, tx.Type == models.TransactionTypeIncome, currency),
		tx.Description,
		money.FormatWith(balance, currency),
	)
}
