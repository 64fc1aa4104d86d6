package repository

import (
	"context"
	"errors"

	"go-papelaria-api/internal/apperr"
	"go-papelaria-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository stores the local identity provider's accounts. It is not a
// tenant table and does not go through the Gateway.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.AuthUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.AuthUser, error)
	Create(ctx context.Context, user *model.AuthUser) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.AuthUser, error) {
	var user model.AuthUser
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "user not found")
	}
	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.AuthUser, error) {
	var user model.AuthUser
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "user not found")
	}
	return &user, nil
}

func (r *userRepo) Create(ctx context.Context, user *model.AuthUser) error {
	return apperr.Storage(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error {
	res := r.db.WithContext(ctx).Model(&model.AuthUser{}).Where("id = ?", userID).Update("password", hashedPassword)
	if res.Error != nil {
		return apperr.Storage(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("%s", msg)
	}
	return apperr.Storage(err)
}
