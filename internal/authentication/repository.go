package authentication

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrRecordNotFoundByGivenToken = errors.New("record not found by given token")
	ErrRecordNotFoundByGivenID    = errors.New("record not found by given id")
	ErrUnresponsiveDatabase       = errors.New("error occurred during access to refresh_tokens table")
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, record *RefreshToken) error
	ReadByToken(ctx context.Context, token string) (*RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	DeleteExpiredByUserID(ctx context.Context, userID uint, now time.Time) (int64, error)
}

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, record *RefreshToken) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create refresh token record: %w", err)
	}
	return nil
}

func (r *refreshTokenRepository) ReadByToken(ctx context.Context, token string) (*RefreshToken, error) {
	var record RefreshToken
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&record).
		Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFoundByGivenToken
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnresponsiveDatabase, err)
	}
	return &record, nil
}

// Revoke marks a record revoked. Revoking an already revoked record succeeds.
func (r *refreshTokenRepository) Revoke(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&RefreshToken{}).
		Where("id = ?", id).
		Update("revoked", true)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrUnresponsiveDatabase, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFoundByGivenID
	}
	return nil
}

// DeleteExpiredByUserID removes the user's rows whose expiry is strictly
// before now, revoked or not, and returns how many were removed.
func (r *refreshTokenRepository) DeleteExpiredByUserID(ctx context.Context, userID uint, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at < ?", userID, now).
		Delete(&RefreshToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnresponsiveDatabase, res.Error)
	}
	return res.RowsAffected, nil
}
