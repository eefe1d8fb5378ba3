package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"finbot/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NextUserID returns a chat user id that no other fixture has used.
func NextUserID() int64 {
	return 1_000_000 + nextID()
}

// CreateTestUser registers an active user with a unique chat id.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	now := time.Now().UTC()
	id := NextUserID()
	user := &models.User{
		UserID:           id,
		Username:         fmt.Sprintf("user%d", id),
		FirstName:        "Test",
		IsActive:         true,
		RegistrationDate: now,
		LastActivity:     now,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTransaction inserts a transaction created now.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID int64, txType models.TransactionType, category, amount string) *models.Transaction {
	t.Helper()
	return CreateTestTransactionAt(t, db, userID, txType, category, amount, time.Now().UTC())
}

// CreateTestTransactionAt inserts a transaction with an explicit creation time.
func CreateTestTransactionAt(t *testing.T, db *gorm.DB, userID int64, txType models.TransactionType, category, amount string, at time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		Amount:      decimal.RequireFromString(amount),
		Description: fmt.Sprintf("Test %s %d", category, nextID()),
		Category:    category,
		Type:        txType,
		CreatedAt:   at.UTC(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
