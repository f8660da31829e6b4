package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/hoanghoa12345/stash-box/internal/domain/identity"
	"github.com/hoanghoa12345/stash-box/internal/infrastructure/persistence/models"
	"github.com/hoanghoa12345/stash-box/internal/shared/errors"
)

// OAuthIdentityRepository implements identity.IdentityRepository using GORM.
type OAuthIdentityRepository struct {
	db *gorm.DB
}

// NewOAuthIdentityRepository creates a new OAuthIdentityRepository.
func NewOAuthIdentityRepository(db *gorm.DB) identity.IdentityRepository {
	return &OAuthIdentityRepository{db: db}
}

func (r *OAuthIdentityRepository) GetByProviderUserID(ctx context.Context, providerUserID string) (*identity.OAuthIdentity, error) {
	var model models.OAuthIdentityModel
	err := r.db.WithContext(ctx).
		Where("provider_user_id = ?", providerUserID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get oauth identity: %w", err)
	}
	return toDomainIdentity(&model), nil
}

func (r *OAuthIdentityRepository) GetByAuthUserID(ctx context.Context, authUserID string) (*identity.OAuthIdentity, error) {
	var model models.OAuthIdentityModel
	err := r.db.WithContext(ctx).
		Where("auth_user_id = ?", authUserID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get oauth identity by auth user id: %w", err)
	}
	return toDomainIdentity(&model), nil
}

func (r *OAuthIdentityRepository) Create(ctx context.Context, providerName, providerUserID string) error {
	model := &models.OAuthIdentityModel{
		ProviderName:   providerName,
		ProviderUserID: providerUserID,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create oauth identity: %w", err)
	}
	return nil
}

// Link claims the identity for an internal account. The guard lives in the
// WHERE clause: the update only matches while auth_user_id is unset or
// already equals the claimant, so a raced or repeated link can never
// silently overwrite a different account.
func (r *OAuthIdentityRepository) Link(ctx context.Context, providerName, providerUserID, authUserID string) error {
	existing, err := r.GetByProviderUserID(ctx, providerUserID)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.NewNotFoundError("oauth identity not found")
	}
	if existing.Linked() && *existing.AuthUserID != authUserID {
		return errors.NewConflictError("identity is already linked to another account")
	}

	other, err := r.GetByAuthUserID(ctx, authUserID)
	if err != nil {
		return err
	}
	if other != nil && other.ProviderUserID != providerUserID {
		return errors.NewConflictError("account is already linked to another identity")
	}

	result := r.db.WithContext(ctx).
		Model(&models.OAuthIdentityModel{}).
		Where("provider_name = ? AND provider_user_id = ? AND (auth_user_id IS NULL OR auth_user_id = ?)",
			providerName, providerUserID, authUserID).
		Update("auth_user_id", authUserID)
	if result.Error != nil {
		return fmt.Errorf("failed to link oauth identity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewConflictError("identity is already linked to another account")
	}
	return nil
}

func toDomainIdentity(model *models.OAuthIdentityModel) *identity.OAuthIdentity {
	return &identity.OAuthIdentity{
		ProviderName:   model.ProviderName,
		ProviderUserID: model.ProviderUserID,
		AuthUserID:     model.AuthUserID,
	}
}
