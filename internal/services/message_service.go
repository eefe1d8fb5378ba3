package services

import (
	"context"

	"github.com/shopspring/decimal"

	apperrors "finbot/internal/errors"
	"finbot/internal/logger"
	"finbot/internal/models"
	"finbot/internal/parser"
)

// AccessPolicy decides who may record transactions.
type AccessPolicy struct {
	Admins           []int64
	AutoRegistration bool
}

func (p AccessPolicy) isAdmin(userID int64) bool {
	for _, id := range p.Admins {
		if id == userID {
			return true
		}
	}
	return false
}

// messageService records free-text messages: access check, parse, classify,
// insert, balance and advice.
type messageService struct {
	users        UserServicer
	transactions TransactionServicer
	classifier   Classifier
	events       EventPublisher
	policy       AccessPolicy
}

// NewMessageService creates a new MessageServicer. events may be nil.
func NewMessageService(users UserServicer, transactions TransactionServicer, classifier Classifier, events EventPublisher, policy AccessPolicy) MessageServicer {
	return &messageService{
		users:        users,
		transactions: transactions,
		classifier:   classifier,
		events:       events,
		policy:       policy,
	}
}

// CheckAccess admits admins and registered users, registering admins and,
// with auto-registration on, newcomers. The boolean reports a new registration.
func (s *messageService) CheckAccess(ctx context.Context, user UserInfo) (bool, error) {
	registered, err := s.users.IsRegistered(ctx, user.UserID)
	if err != nil {
		return false, err
	}
	if registered {
		return false, nil
	}

	if !s.policy.isAdmin(user.UserID) && !s.policy.AutoRegistration {
		return false, apperrors.ErrRegistrationRequired
	}

	_, created, err := s.users.Register(ctx, user)
	if err != nil {
		return false, err
	}
	return created, nil
}

// HandleText records text as a transaction for user.
func (s *messageService) HandleText(ctx context.Context, user UserInfo, text string) (*MessageResult, error) {
	newUser, err := s.CheckAccess(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.users.TouchActivity(ctx, user); err != nil {
		logger.Get().Warnw("Failed to update user activity", "user_id", user.UserID, "error", err)
	}

	parsed, ok := parser.Parse(text)
	if !ok {
		return nil, apperrors.ErrUnparseableTransaction
	}

	class := s.classifier.Classify(ctx, parsed.Description, parsed.Amount)

	tx, err := s.transactions.CreateTransaction(ctx, user.UserID, parsed.Amount, parsed.Description, class.Category, class.Type)
	if err != nil {
		return nil, err
	}

	balance, err := s.transactions.GetBalance(ctx, user.UserID)
	if err != nil {
		logger.Get().Warnw("Failed to read balance after insert", "user_id", user.UserID, "error", err)
		balance = decimal.Zero
	}

	result := &MessageResult{
		Transaction: tx,
		Balance:     balance,
		NewUser:     newUser,
	}
	if tx.Type == models.TransactionTypeExpense {
		result.Advice = s.classifier.SpendingAdvice(ctx, tx.Description, tx.Amount, balance)
	}

	if s.events != nil {
		s.events.PublishRecorded(ctx, tx)
	}

	logger.Get().Infow("Transaction recorded",
		"user_id", user.UserID,
		"transaction_id", tx.ID,
		"type", tx.Type,
		"category", tx.Category,
	)
	return result, nil
}
