package repository

import (
	"context"
	"errors"
	"time"

	"go-papelaria-api/internal/apperr"
	"go-papelaria-api/internal/model"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RevocationStore remembers logged-out refresh tokens by jti until they
// expire.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type gormRevocationStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormRevocationStore(db *gorm.DB) RevocationStore {
	return &gormRevocationStore{db: db, now: time.Now}
}

func (s *gormRevocationStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	db := s.db.WithContext(ctx)
	// Opportunistic cleanup; a failure here must not block the logout.
	db.Where("expires_at < ?", s.now()).Delete(&model.RevokedToken{})

	row := model.RevokedToken{JTI: jti, ExpiresAt: expiresAt}
	return apperr.Storage(db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error)
}

func (s *gormRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var row model.RevokedToken
	err := s.db.WithContext(ctx).Where("jti = ? AND expires_at > ?", jti, s.now()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperr.Storage(err)
	}
	return true, nil
}

const revokedKeyPrefix = "papelaria:revoked:"

type redisRevocationStore struct {
	client *redis.Client
}

// NewRedisRevocationStore keeps revocations as keys that expire with the
// token itself.
func NewRedisRevocationStore(client *redis.Client) RevocationStore {
	return &redisRevocationStore{client: client}
}

func (s *redisRevocationStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return apperr.Storage(s.client.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err())
}

func (s *redisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, apperr.Storage(err)
	}
	return n > 0, nil
}
