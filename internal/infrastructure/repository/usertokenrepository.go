package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hoanghoa12345/stash-box/internal/domain/identity"
	"github.com/hoanghoa12345/stash-box/internal/infrastructure/persistence/models"
)

// UserTokenRepository implements identity.TokenRepository using GORM with
// replace-on-conflict semantics keyed by the external subject id.
type UserTokenRepository struct {
	db *gorm.DB
}

// NewUserTokenRepository creates a new UserTokenRepository.
func NewUserTokenRepository(db *gorm.DB) identity.TokenRepository {
	return &UserTokenRepository{db: db}
}

func (r *UserTokenRepository) Upsert(ctx context.Context, token *identity.UserToken) error {
	model := &models.UserTokenModel{
		UserID:       token.UserID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.ExpiresAt,
		Scope:        token.Scope,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "expires_at", "scope", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user tokens: %w", err)
	}
	return nil
}

func (r *UserTokenRepository) Get(ctx context.Context, userID string) (*identity.UserToken, error) {
	var model models.UserTokenModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user tokens: %w", err)
	}
	return &identity.UserToken{
		UserID:       model.UserID,
		AccessToken:  model.AccessToken,
		RefreshToken: model.RefreshToken,
		ExpiresAt:    model.ExpiresAt,
		Scope:        model.Scope,
	}, nil
}

func (r *UserTokenRepository) Delete(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.UserTokenModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete user tokens: %w", err)
	}
	return nil
}
