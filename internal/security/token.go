package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
	ErrForbidden      = errors.New("admin role required")
)

type TokenType string

const (
	TokenTypeAdmin   TokenType = "admin_access"
	TokenTypeService TokenType = "service"
)

const RoleAdmin = "admin"

const issuer = "backoffice-requests"

// Claims identifies either a back-office admin or this service when calling the platform backend
type Claims struct {
	Email string    `json:"email,omitempty"`
	Type  TokenType `json:"type"`
	Roles []string  `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type TokenManager interface {
	GenerateAdminToken(subject, email string, roles []string, ttl time.Duration) (string, error)
	GenerateServiceToken(subject string, ttl time.Duration) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	ValidateAdminToken(tokenString string) (*Claims, error)
}

type tokenManager struct {
	secret []byte
	now    func() time.Time
}

func NewTokenManager(secret string) TokenManager {
	return &tokenManager{
		secret: []byte(secret),
		now:    time.Now,
	}
}

func (m *tokenManager) GenerateAdminToken(subject, email string, roles []string, ttl time.Duration) (string, error) {
	return m.sign(Claims{
		Email:            email,
		Type:             TokenTypeAdmin,
		Roles:            roles,
		RegisteredClaims: m.registered(subject, "backoffice-admin", ttl),
	})
}

func (m *tokenManager) GenerateServiceToken(subject string, ttl time.Duration) (string, error) {
	return m.sign(Claims{
		Type:             TokenTypeService,
		Roles:            []string{RoleAdmin},
		RegisteredClaims: m.registered(subject, "platform-api", ttl),
	})
}

func (m *tokenManager) registered(subject, audience string, ttl time.Duration) jwt.RegisteredClaims {
	now := m.now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    issuer,
		Audience:  jwt.ClaimStrings{audience},
		ID:        uuid.NewString(),
	}
}

func (m *tokenManager) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// ValidateAdminToken accepts only admin access tokens carrying the admin role
func (m *tokenManager) ValidateAdminToken(tokenString string) (*Claims, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != TokenTypeAdmin {
		return nil, ErrWrongTokenType
	}
	if !claims.HasRole(RoleAdmin) {
		return nil, ErrForbidden
	}
	return claims, nil
}
