package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing authorization token")
)

const issuer = "papelaria-api"

// Kind separates the credential families. Each kind is signed with its own
// secret and carries its name in the "typ" claim.
type Kind string

const (
	KindAccess   Kind = "access"
	KindRefresh  Kind = "refresh"
	KindRecovery Kind = "recovery"
)

// Identity is the acting user extracted from a verified credential.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Claims represents the JWT claims structure
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Kind   Kind   `json:"typ"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() Identity {
	return Identity{ID: c.UserID, Email: c.Email}
}

type KeyConfig struct {
	Secret string
	TTL    time.Duration
}

// Token is a freshly signed credential.
type Token struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

type Manager struct {
	keys map[Kind]KeyConfig
	now  func() time.Time
}

func NewManager(keys map[Kind]KeyConfig) *Manager {
	return &Manager{keys: keys, now: time.Now}
}

// Generate signs a credential of the given kind for id.
func (m *Manager) Generate(kind Kind, id Identity) (*Token, error) {
	key, ok := m.keys[kind]
	if !ok {
		return nil, errors.New("unknown token kind: " + string(kind))
	}

	now := m.now()
	expiresAt := now.Add(key.TTL)
	claims := &Claims{
		UserID: id.ID,
		Email:  id.Email,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(key.Secret))
	if err != nil {
		return nil, err
	}
	return &Token{Value: signed, ID: claims.ID, ExpiresAt: expiresAt}, nil
}

// Validate parses tokenString as a credential of the given kind.
func (m *Manager) Validate(kind Kind, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	key, ok := m.keys[kind]
	if !ok {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(key.Secret), nil
	}, jwt.WithTimeFunc(m.now), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Kind != kind || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
