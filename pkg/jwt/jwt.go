package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTypeAccess marks tokens that may call the API
const TokenTypeAccess = "access"

// DefaultAccessTTL is used when the manager is created without a ttl
const DefaultAccessTTL = 24 * time.Hour

var ErrInvalidTokenType = errors.New("invalid token type")

// Claims represents JWT claims structure.
// UserID is carried in "sub" as a number, as issued by the identity provider.
type Claims struct {
	UserID     int64  `json:"sub"`
	Username   string `json:"username"`
	ImgProfile string `json:"imgProfile,omitempty"`
	Type       string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// Manager handles JWT operations
type Manager struct {
	secret    string
	accessTTL time.Duration
}

// NewManager creates new JWT manager
func NewManager(secret string, accessTTL time.Duration) *Manager {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	return &Manager{secret: secret, accessTTL: accessTTL}
}

// GenerateAccessToken signs an HS256 access token for the given user
func (m *Manager) GenerateAccessToken(userID int64, username, imgProfile string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:     userID,
		Username:   username,
		ImgProfile: imgProfile,
		Type:       TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secret))
}

// ValidateToken validates and parses token
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// ValidateAccessToken validates an API token.
// Tokens without a type are accepted; typed tokens must be access tokens.
func (m *Manager) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Type != "" && claims.Type != TokenTypeAccess {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrInvalidTokenType, TokenTypeAccess, claims.Type)
	}
	if claims.UserID <= 0 {
		return nil, fmt.Errorf("invalid subject")
	}

	return claims, nil
}
