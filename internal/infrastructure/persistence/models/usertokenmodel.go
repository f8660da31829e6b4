package models

import "time"

// UserTokenModel represents the database persistence model for provider token sets.
type UserTokenModel struct {
	UserID       string     `gorm:"primaryKey;size:255;column:user_id"`
	AccessToken  string     `gorm:"not null;type:text"`
	RefreshToken *string    `gorm:"type:text"`
	ExpiresAt    *time.Time
	Scope        *string    `gorm:"size:500"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (UserTokenModel) TableName() string {
	return "user_tokens"
}
