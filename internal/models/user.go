package models

import "time"

// User is a chat platform user known to the bot. UserID is the id assigned by
// the chat platform, not a surrogate key.
type User struct {
	UserID           int64     `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Username         string    `json:"username,omitempty"`
	FirstName        string    `json:"first_name,omitempty"`
	IsActive         bool      `gorm:"default:true" json:"is_active"`
	RegistrationDate time.Time `json:"registration_date"`
	LastActivity     time.Time `json:"last_activity"`
}

// TableName pins the table name used by the SQL migrations.
func (User) TableName() string { return "users" }

// UserStats summarizes the user base for administrators.
type UserStats struct {
	TotalUsers  int64 `json:"total_users"`
	ActiveUsers int64 `json:"active_users"`
	NewUsers    int64 `json:"new_users"`
}
