package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-papelaria-api/internal/apperr"
	"go-papelaria-api/internal/identity"
	"go-papelaria-api/internal/repository"
	"go-papelaria-api/pkg/jwt"

	"github.com/sirupsen/logrus"
)

// Session is what login and signup hand back. Refreshing replaces only the
// access token; logout revokes the refresh token.
type Session struct {
	AccessToken      string        `json:"accessToken"`
	RefreshToken     string        `json:"refreshToken"`
	User             identity.User `json:"user"`
	AccessExpiresAt  time.Time     `json:"-"`
	RefreshExpiresAt time.Time     `json:"-"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Signup(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
	// RequestPasswordReset never reports whether the email exists.
	RequestPasswordReset(ctx context.Context, email string)
	UpdatePassword(ctx context.Context, recoveryToken, newPassword string) error
	Authenticate(accessToken string) (*jwt.Identity, error)
}

type authService struct {
	provider    identity.Provider
	tokens      *jwt.Manager
	revocations repository.RevocationStore
	redirectURL string
	log         logrus.FieldLogger
}

func NewAuthService(provider identity.Provider, tokens *jwt.Manager, revocations repository.RevocationStore, redirectURL string, log logrus.FieldLogger) AuthService {
	return &authService{
		provider:    provider,
		tokens:      tokens,
		revocations: revocations,
		redirectURL: strings.TrimRight(redirectURL, "/") + "/reset-password",
		log:         log.WithField("service", "auth"),
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	log := s.log.WithFields(logrus.Fields{"op": "login", "email": email})
	log.Info("Login attempt")

	user, err := s.provider.SignIn(ctx, email, password)
	authAttempts.WithLabelValues("login", outcome(err)).Inc()
	if err != nil {
		log.WithError(err).Info("Login failed")
		return nil, apperr.Unauthorized(err.Error())
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	log.Info("Login succeeded")
	return session, nil
}

func (s *authService) Signup(ctx context.Context, email, password string) (*Session, error) {
	log := s.log.WithFields(logrus.Fields{"op": "signup", "email": email})
	log.Info("Signup attempt")

	user, err := s.provider.SignUp(ctx, email, password)
	authAttempts.WithLabelValues("signup", outcome(err)).Inc()
	if err != nil {
		log.WithError(err).Info("Signup failed")
		return nil, apperr.Validation(err.Error())
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	log.Info("Signup succeeded")
	return session, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	log := s.log.WithField("op", "refresh")

	claims, err := s.verifyRefresh(ctx, refreshToken)
	authAttempts.WithLabelValues("refresh", outcome(err)).Inc()
	if err != nil {
		log.WithError(err).Info("Refresh failed")
		return "", err
	}

	access, err := s.tokens.Generate(jwt.KindAccess, claims.Identity())
	if err != nil {
		return "", err
	}
	log.WithField("email", claims.Email).Info("Refresh succeeded")
	return access.Value, nil
}

// Logout revokes the refresh token. An invalid token has nothing to revoke.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.Validate(jwt.KindRefresh, refreshToken)
	if errors.Is(err, jwt.ErrMissingToken) {
		return apperr.Unauthorized("Refresh token não fornecido")
	}
	if err != nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"op": "logout", "email": claims.Email}).Info("Session revoked")
	return nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) {
	log := s.log.WithFields(logrus.Fields{"op": "reset_password", "email": email})
	log.Info("Password reset requested")

	err := s.provider.SendPasswordReset(ctx, email, s.redirectURL)
	authAttempts.WithLabelValues("reset_password", outcome(err)).Inc()
	if err != nil {
		log.WithError(err).Warn("Password reset failed")
	}
}

func (s *authService) UpdatePassword(ctx context.Context, recoveryToken, newPassword string) error {
	claims, err := s.tokens.Validate(jwt.KindRecovery, recoveryToken)
	if err != nil {
		return tokenError(err, "Token")
	}
	if err := s.provider.UpdatePassword(ctx, claims.UserID, newPassword); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"op": "update_password", "email": claims.Email}).Info("Password updated")
	return nil
}

func (s *authService) Authenticate(accessToken string) (*jwt.Identity, error) {
	claims, err := s.tokens.Validate(jwt.KindAccess, accessToken)
	if err != nil {
		return nil, tokenError(err, "Token")
	}
	id := claims.Identity()
	return &id, nil
}

func (s *authService) verifyRefresh(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.tokens.Validate(jwt.KindRefresh, token)
	if err != nil {
		return nil, tokenError(err, "Refresh token")
	}
	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperr.Forbidden("Refresh token inválido")
	}
	return claims, nil
}

func (s *authService) issue(user *identity.User) (*Session, error) {
	id := jwt.Identity{ID: user.ID, Email: user.Email}
	access, err := s.tokens.Generate(jwt.KindAccess, id)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Generate(jwt.KindRefresh, id)
	if err != nil {
		return nil, err
	}
	return &Session{
		AccessToken:      access.Value,
		RefreshToken:     refresh.Value,
		User:             *user,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}

// tokenError maps a missing credential to Unauthorized and anything else to
// Forbidden.
func tokenError(err error, subject string) error {
	if errors.Is(err, jwt.ErrMissingToken) {
		return apperr.Unauthorized(subject + " não fornecido")
	}
	return apperr.Forbidden(subject + " inválido")
}
