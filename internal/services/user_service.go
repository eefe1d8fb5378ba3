package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "finbot/internal/errors"
	"finbot/internal/models"
	"finbot/internal/pagination"
)

// userService handles user-related business logic.
type userService struct {
	db           *gorm.DB
	transactions TransactionServicer
	now          func() time.Time
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB, transactions TransactionServicer) UserServicer {
	return &userService{db: db, transactions: transactions, now: time.Now}
}

// Register creates the user or reactivates and refreshes an existing one.
// The boolean reports whether a new user was created.
func (s *userService) Register(ctx context.Context, info UserInfo) (*models.User, bool, error) {
	if info.UserID == 0 {
		return nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "user id is required")
	}

	now := s.now().UTC()
	var (
		user    models.User
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", info.UserID).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = models.User{
				UserID:           info.UserID,
				Username:         info.Username,
				FirstName:        info.FirstName,
				IsActive:         true,
				RegistrationDate: now,
				LastActivity:     now,
			}
			created = true
			return tx.Create(&user).Error
		}
		if err != nil {
			return err
		}

		user.IsActive = true
		user.LastActivity = now
		if info.Username != "" {
			user.Username = info.Username
		}
		if info.FirstName != "" {
			user.FirstName = info.FirstName
		}
		return tx.Model(&models.User{}).Where("user_id = ?", info.UserID).Updates(map[string]interface{}{
			"is_active":     true,
			"last_activity": now,
			"username":      user.Username,
			"first_name":    user.FirstName,
		}).Error
	})
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrPersistence, err)
	}
	return &user, created, nil
}

// GetUser retrieves a user by chat id.
func (s *userService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// IsRegistered reports whether an active user with userID exists.
func (s *userService) IsRegistered(ctx context.Context, userID int64) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// TouchActivity records the user's last activity and refreshes their names.
func (s *userService) TouchActivity(ctx context.Context, info UserInfo) error {
	updates := map[string]interface{}{"last_activity": s.now().UTC()}
	if info.Username != "" {
		updates["username"] = info.Username
	}
	if info.FirstName != "" {
		updates["first_name"] = info.FirstName
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", info.UserID).
		Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrPersistence, err)
	}
	return nil
}

// Stats counts active users, users active in the last 7 days and users
// registered in the last 30 days.
func (s *userService) Stats(ctx context.Context) (*models.UserStats, error) {
	now := s.now().UTC()
	db := s.db.WithContext(ctx)
	stats := &models.UserStats{}

	if err := db.Model(&models.User{}).Where("is_active = ?", true).
		Count(&stats.TotalUsers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := db.Model(&models.User{}).Where("is_active = ? AND last_activity >= ?", true, now.AddDate(0, 0, -7)).
		Count(&stats.ActiveUsers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := db.Model(&models.User{}).Where("is_active = ? AND registration_date >= ?", true, now.AddDate(0, 0, -30)).
		Count(&stats.NewUsers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return stats, nil
}

// ListDetailed lists users, most recently active first, with ledger statistics.
func (s *userService) ListDetailed(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[UserDetail], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.User{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var users []models.User
	if err := base.Scopes(pagination.Paginate(page)).
		Order("last_activity DESC, user_id").
		Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	details := make([]UserDetail, 0, len(users))
	for _, u := range users {
		stats, err := s.transactions.GetUserTransactionStats(ctx, u.UserID)
		if err != nil {
			return nil, err
		}
		details = append(details, UserDetail{User: u, Stats: *stats})
	}

	result := pagination.NewPageResponse(details, page.Page, page.PageSize, totalItems)
	return &result, nil
}
