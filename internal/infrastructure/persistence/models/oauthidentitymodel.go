package models

import "time"

// OAuthIdentityModel represents the database persistence model for
// external-to-internal account links.
type OAuthIdentityModel struct {
	ID             uint    `gorm:"primarykey"`
	ProviderName   string  `gorm:"not null;size:50;uniqueIndex:idx_provider_identity"`
	ProviderUserID string  `gorm:"not null;size:255;uniqueIndex:idx_provider_identity;column:provider_user_id"`
	AuthUserID     *string `gorm:"size:255;index:idx_oauth_identities_auth_user;column:auth_user_id"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for GORM
func (OAuthIdentityModel) TableName() string {
	return "oauth_identities"
}
