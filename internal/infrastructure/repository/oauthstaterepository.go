package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hoanghoa12345/stash-box/internal/domain/identity"
	"github.com/hoanghoa12345/stash-box/internal/infrastructure/persistence/models"
)

// OAuthStateRepository implements identity.StateRepository using GORM.
// Expiry is enforced lazily at read time; physical cleanup happens in
// SweepExpired, so "expired" and "absent" are indistinguishable to callers.
type OAuthStateRepository struct {
	db *gorm.DB
}

// NewOAuthStateRepository creates a new OAuthStateRepository.
func NewOAuthStateRepository(db *gorm.DB) identity.StateRepository {
	return &OAuthStateRepository{db: db}
}

func (r *OAuthStateRepository) Upsert(ctx context.Context, stateKey string, userID *string) error {
	now := time.Now().UTC()
	model := &models.OAuthStateModel{
		StateKey:  stateKey,
		UserID:    userID,
		Timestamp: now,
		ExpiresAt: now.Add(identity.StateTTL),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "state_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "timestamp", "expires_at", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert oauth state: %w", err)
	}
	return nil
}

func (r *OAuthStateRepository) Get(ctx context.Context, stateKey string) (*identity.OAuthState, error) {
	var model models.OAuthStateModel
	err := r.db.WithContext(ctx).
		Where("state_key = ? AND expires_at > ?", stateKey, time.Now().UTC()).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get oauth state: %w", err)
	}
	return &identity.OAuthState{
		StateKey:  model.StateKey,
		UserID:    model.UserID,
		Timestamp: model.Timestamp,
		ExpiresAt: model.ExpiresAt,
	}, nil
}

// Consume deletes the row only while it is still valid. The conditional
// delete is a single statement, so of two racing callers exactly one sees
// RowsAffected == 1 and wins the state.
func (r *OAuthStateRepository) Consume(ctx context.Context, stateKey string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("state_key = ? AND expires_at > ?", stateKey, time.Now().UTC()).
		Delete(&models.OAuthStateModel{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to consume oauth state: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *OAuthStateRepository) Delete(ctx context.Context, stateKey string) error {
	err := r.db.WithContext(ctx).
		Where("state_key = ?", stateKey).
		Delete(&models.OAuthStateModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete oauth state: %w", err)
	}
	return nil
}

func (r *OAuthStateRepository) SweepExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&models.OAuthStateModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to sweep expired oauth states: %w", result.Error)
	}
	return result.RowsAffected, nil
}
