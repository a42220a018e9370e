package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// ErrUnauthorized is returned when a token does not carry a usable identity.
var ErrUnauthorized = errors.New("unauthorized")

// Claim names shared with the user service that issues tokens.
const (
	ClaimUserID  = "userId"
	ClaimSubject = "sub"
)

// Identity is the caller as asserted by a verified bearer token.
type Identity struct {
	UserID string
	Email  string
}

// AuthService verifies bearer tokens issued by the user service.
type AuthService struct {
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which issued tokens are valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// IssueToken signs a token for the given identity. Production tokens come from the user
// service; this exists for local tooling and tests.
func (s *AuthService) IssueToken(userID, email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		ClaimUserID:  userID,
		ClaimSubject: email,
		"exp":        time.Now().Add(s.tokenDurat).Unix(),
		"iat":        time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token and extracts the caller's identity.
func (s *AuthService) ValidateToken(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token: %v", ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}

	userID, _ := claims[ClaimUserID].(string)
	if userID == "" {
		return nil, fmt.Errorf("%w: token has no %s claim", ErrUnauthorized, ClaimUserID)
	}
	email, _ := claims[ClaimSubject].(string)

	return &Identity{UserID: userID, Email: email}, nil
}
