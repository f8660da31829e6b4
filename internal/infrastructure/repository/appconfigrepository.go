package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/hoanghoa12345/stash-box/internal/domain/identity"
	"github.com/hoanghoa12345/stash-box/internal/infrastructure/persistence/models"
	"github.com/hoanghoa12345/stash-box/internal/shared/constants"
	"github.com/hoanghoa12345/stash-box/internal/shared/errors"
)

// AppConfigRepository loads the active OAuth provider record from the
// app_configs table, keyed by (config_key, environment). One active row
// per environment; missing configuration is a hard failure.
type AppConfigRepository struct {
	db          *gorm.DB
	environment string
}

// NewAppConfigRepository creates a new AppConfigRepository bound to one environment.
func NewAppConfigRepository(db *gorm.DB, environment string) identity.ProviderConfigRepository {
	return &AppConfigRepository{db: db, environment: environment}
}

func (r *AppConfigRepository) GetActive(ctx context.Context) (*identity.ProviderConfig, error) {
	var model models.AppConfigModel
	err := r.db.WithContext(ctx).
		Where("config_key = ? AND environment = ?", constants.AppConfigKeyOAuth, r.environment).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewInternalError("oauth configuration missing",
				fmt.Sprintf("no %s row for environment %s", constants.AppConfigKeyOAuth, r.environment))
		}
		return nil, fmt.Errorf("failed to load oauth config: %w", err)
	}

	var cfg identity.ProviderConfig
	if err := json.Unmarshal(model.Value, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode oauth config: %w", err)
	}
	return &cfg, nil
}
