package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freecode/internal/common"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	jwxjwt "github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	ClaimUserID = "id"
	ClaimRole   = "role"

	DefaultTokenTTL = time.Hour
)

// Claims is the identity carried by a verified token.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
}

// TokenService issues and verifies HS256 tokens. It holds no state besides
// the key, so verification is signature and expiry only.
type TokenService struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
	now  func() time.Time
}

type TokenOption func(*TokenService)

// WithTTL overrides the one hour default lifetime.
func WithTTL(ttl time.Duration) TokenOption {
	return func(s *TokenService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock replaces time.Now for both issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewTokenService(key []byte, opts ...TokenOption) (*TokenService, error) {
	if len(key) == 0 {
		return nil, errors.New("token signing key is empty")
	}
	s := &TokenService{ttl: DefaultTokenTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	clock := jwxjwt.ClockFunc(func() time.Time { return s.now() })
	s.auth = jwtauth.New("HS256", key, nil,
		jwxjwt.WithClock(clock),
		jwxjwt.WithRequiredClaim(jwxjwt.ExpirationKey),
		jwxjwt.WithRequiredClaim(jwxjwt.IssuedAtKey),
	)
	return s, nil
}

// JWTAuth exposes the underlying verifier for jwtauth middlewares.
func (s *TokenService) JWTAuth() *jwtauth.JWTAuth {
	return s.auth
}

func (s *TokenService) Issue(userID, role string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		ClaimUserID: userID,
		ClaimRole:   role,
		"iat":       now.Unix(),
		"exp":       now.Add(s.ttl).Unix(),
	}
	_, tokenString, err := s.auth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks signature, shape and expiry. Tokens without exp or iat are
// rejected. Every failure is reported as common.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwtauth.VerifyToken(s.auth, tokenString)
	if err != nil || token == nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	claims, err := token.AsMap(context.Background())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	return ClaimsFromMap(claims)
}

// ClaimsFromMap extracts the identity from decoded token claims.
func ClaimsFromMap(claims map[string]interface{}) (*Claims, error) {
	userID, err := GetUserIDFromClaims(claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	role, err := GetUserRoleFromClaims(claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	return &Claims{UserID: userID, Role: role}, nil
}

func GetUserIDFromClaims(claims map[string]interface{}) (string, error) {
	id, ok := claims[ClaimUserID].(string)
	if !ok || id == "" {
		return "", errors.New("id claim is missing or not a string")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims map[string]interface{}) (string, error) {
	role, ok := claims[ClaimRole].(string)
	if !ok || role == "" {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}
