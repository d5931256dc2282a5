// Package auth issues and validates the bearer tokens used by the warehouse API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Config holds token configuration
type Config struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// DefaultConfig returns a token configuration with an eight hour shift-length TTL
func DefaultConfig(secret string) Config {
	return Config{
		Secret:   secret,
		Issuer:   "warehouse-ops",
		TokenTTL: 8 * time.Hour,
	}
}

// Claims are the JWT claims carried by warehouse tokens
type Claims struct {
	jwt.RegisteredClaims
	Username    string `json:"username"`
	DisplayName string `json:"name,omitempty"`
	Role        string `json:"role"`
}

// Principal is the authenticated caller extracted from a token
type Principal struct {
	Username    string
	DisplayName string
	Role        string
}

// TokenService signs and validates HS256 tokens
type TokenService struct {
	config Config
}

// NewTokenService creates a new TokenService
func NewTokenService(config Config) *TokenService {
	return &TokenService{config: config}
}

// GenerateToken issues a token for the principal and returns its expiry
func (s *TokenService) GenerateToken(p Principal) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.TokenTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   p.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Username:    p.Username,
		DisplayName: p.DisplayName,
		Role:        p.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// ValidateToken parses the token and returns its principal
func (s *TokenService) ValidateToken(tokenString string) (*Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithIssuer(s.config.Issuer))
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

	return &Principal{
		Username:    claims.Username,
		DisplayName: claims.DisplayName,
		Role:        claims.Role,
	}, nil
}

// HashPassword returns a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the bcrypt hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
