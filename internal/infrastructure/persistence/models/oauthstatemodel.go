package models

import "time"

// OAuthStateModel represents the database persistence model for OAuth state nonces.
type OAuthStateModel struct {
	StateKey  string    `gorm:"primaryKey;size:128;column:state_key"`
	UserID    *string   `gorm:"size:255;column:user_id"`
	Timestamp time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index:idx_oauth_states_expires_at"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (OAuthStateModel) TableName() string {
	return "oauth_states"
}
