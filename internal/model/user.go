package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// AuthUser is the account record of the built-in identity provider.
type AuthUser struct {
	BaseModel
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
}

func (AuthUser) TableName() string { return "auth_users" }

// SetPassword hashes and sets the user's password
func (u *AuthUser) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *AuthUser) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// RevokedToken remembers a refresh token id until the token would have
// expired anyway.
type RevokedToken struct {
	JTI       string    `gorm:"column:jti;primaryKey;type:varchar(64)"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

func (RevokedToken) TableName() string { return "revoked_tokens" }
