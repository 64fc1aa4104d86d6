// Package identity verifies who a user is. The API mints its own session
// tokens once a Provider vouches for the user.
package identity

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"go-papelaria-api/internal/apperr"
	"go-papelaria-api/internal/model"
	"go-papelaria-api/internal/repository"
	"go-papelaria-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const minPasswordLength = 6

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Provider interface {
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignUp(ctx context.Context, email, password string) (*User, error)
	// SendPasswordReset delivers a recovery link pointing at redirectURL.
	// Unknown emails are not an error.
	SendPasswordReset(ctx context.Context, email, redirectURL string) error
	UpdatePassword(ctx context.Context, userID, newPassword string) error
}

// Notifier delivers a password recovery link to its owner.
type Notifier interface {
	SendRecoveryLink(ctx context.Context, email, link string) error
}

// LogNotifier writes recovery links to the log instead of mailing them.
type LogNotifier struct {
	Log logrus.FieldLogger
}

func (n LogNotifier) SendRecoveryLink(_ context.Context, email, link string) error {
	n.Log.WithFields(logrus.Fields{"email": email, "link": link}).Info("Password recovery link issued")
	return nil
}

// LocalProvider keeps accounts in the auth_users table with bcrypt hashes.
type LocalProvider struct {
	users    repository.UserRepository
	tokens   *jwt.Manager
	notifier Notifier
}

func NewLocalProvider(users repository.UserRepository, tokens *jwt.Manager, notifier Notifier) *LocalProvider {
	return &LocalProvider{users: users, tokens: tokens, notifier: notifier}
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*User, error) {
	user, err := p.users.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}
	return &User{ID: user.ID.String(), Email: user.Email}, nil
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*User, error) {
	email = NormalizeEmail(email)
	if err := checkPassword(password); err != nil {
		return nil, err
	}

	_, err := p.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperr.Validation("User already registered")
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	user := &model.AuthUser{Email: email}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := p.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return &User{ID: user.ID.String(), Email: user.Email}, nil
}

func (p *LocalProvider) SendPasswordReset(ctx context.Context, email, redirectURL string) error {
	user, err := p.users.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token, err := p.tokens.Generate(jwt.KindRecovery, jwt.Identity{ID: user.ID.String(), Email: user.Email})
	if err != nil {
		return err
	}

	// Fragment layout of the hosted auth service's recovery links.
	fragment := url.Values{"access_token": {token.Value}, "type": {"recovery"}}
	return p.notifier.SendRecoveryLink(ctx, user.Email, redirectURL+"#"+fragment.Encode())
}

func (p *LocalProvider) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	if err := checkPassword(newPassword); err != nil {
		return err
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return apperr.NotFound("user not found")
	}

	user := &model.AuthUser{}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return p.users.UpdatePassword(ctx, id, user.Password)
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkPassword(password string) error {
	if len(password) < minPasswordLength {
		return apperr.Validation("Password should be at least 6 characters")
	}
	return nil
}
