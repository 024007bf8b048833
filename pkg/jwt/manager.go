package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// TokenType distinguishes access tokens from refresh tokens
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims JWT payload. Subject carries the user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string    `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	Type   TokenType `json:"typ"`
}

// Manager issues and verifies HMAC-signed tokens
type Manager struct {
	secretKey []byte
	expiresIn time.Duration
	refreshIn time.Duration
	issuer    string
	now       func() time.Time
}

// NewManager creates a token manager. expiresIn and refreshIn are in seconds.
func NewManager(secret string, expiresIn, refreshIn int) *Manager {
	return &Manager{
		secretKey: []byte(secret),
		expiresIn: time.Duration(expiresIn) * time.Second,
		refreshIn: time.Duration(refreshIn) * time.Second,
		issuer:    "angple-notes",
		now:       time.Now,
	}
}

// ExpiresIn returns the access token lifetime
func (m *Manager) ExpiresIn() time.Duration {
	return m.expiresIn
}

// GenerateAccessToken issues a short-lived access token
func (m *Manager) GenerateAccessToken(userID, email string) (string, error) {
	return m.sign(userID, email, TokenTypeAccess, m.expiresIn)
}

// GenerateRefreshToken issues a long-lived refresh token
func (m *Manager) GenerateRefreshToken(userID string) (string, error) {
	return m.sign(userID, "", TokenTypeRefresh, m.refreshIn)
}

func (m *Manager) sign(userID, email string, typ TokenType, ttl time.Duration) (string, error) {
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Email:  email,
		Type:   typ,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// VerifyToken validates signature and expiry of any token issued by this manager
func (m *Manager) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	}, jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyAccessToken rejects refresh tokens presented as bearer credentials
func (m *Manager) VerifyAccessToken(tokenString string) (*Claims, error) {
	return m.verifyType(tokenString, TokenTypeAccess)
}

// VerifyRefreshToken accepts only refresh-typed tokens
func (m *Manager) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return m.verifyType(tokenString, TokenTypeRefresh)
}

func (m *Manager) verifyType(tokenString string, want TokenType) (*Claims, error) {
	claims, err := m.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != want {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
