package models

import (
	"time"

	"gorm.io/datatypes"
)

// AppConfigModel represents a configuration row keyed by (key, environment).
// The oauth_config row's value is a JSON document holding the active
// provider endpoints and credentials.
type AppConfigModel struct {
	ID          uint           `gorm:"primarykey"`
	Key         string         `gorm:"not null;size:100;uniqueIndex:idx_app_config_key_env;column:config_key"`
	Environment string         `gorm:"not null;size:50;uniqueIndex:idx_app_config_key_env"`
	Value       datatypes.JSON `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for GORM
func (AppConfigModel) TableName() string {
	return "app_configs"
}
