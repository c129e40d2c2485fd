package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenExpired is returned when a token has expired.
	ErrTokenExpired = errors.New("token is expired")
	// ErrInvalidToken covers malformed tokens, bad signatures and wrong algorithms.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingToken is returned for an empty token string.
	ErrMissingToken = errors.New("token is missing")
)

// Subject is the identity embedded in every token.
type Subject struct {
	UserID   string
	Email    string
	Fullname string
}

// Claims defines the custom JWT claims structure.
type Claims struct {
	UserID   string `json:"_id"`
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
	jwtlib.RegisteredClaims
}

// TokenManager signs and validates the access/refresh token pair.
// Access and refresh tokens use distinct secrets, so one can never be
// accepted in place of the other.
type TokenManager interface {
	GenerateAccessToken(sub Subject) (string, error)
	GenerateRefreshToken(sub Subject) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// NewTokenManager creates a TokenManager. Secrets must be non-empty and distinct.
func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (TokenManager, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("token secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	return &tokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}, nil
}

type tokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func (j *tokenManager) AccessTTL() time.Duration  { return j.accessTTL }
func (j *tokenManager) RefreshTTL() time.Duration { return j.refreshTTL }

// GenerateAccessToken signs a short-lived access token.
func (j *tokenManager) GenerateAccessToken(sub Subject) (string, error) {
	return j.sign(sub, j.accessSecret, j.accessTTL)
}

// GenerateRefreshToken signs a long-lived refresh token.
func (j *tokenManager) GenerateRefreshToken(sub Subject) (string, error) {
	return j.sign(sub, j.refreshSecret, j.refreshTTL)
}

// ValidateAccessToken parses and validates an access token.
func (j *tokenManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.parse(tokenString, j.accessSecret)
}

// ValidateRefreshToken parses and validates a refresh token.
func (j *tokenManager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.parse(tokenString, j.refreshSecret)
}

func (j *tokenManager) sign(sub Subject, secret []byte, ttl time.Duration) (string, error) {
	if sub.UserID == "" {
		return "", errors.New("token subject has no user id")
	}
	now := j.now()
	claims := Claims{
		UserID:   sub.UserID,
		Email:    sub.Email,
		Fullname: sub.Fullname,
		RegisteredClaims: jwtlib.RegisteredClaims{
			// jti keeps two tokens minted in the same second distinct
			ID:        uuid.NewString(),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (j *tokenManager) parse(tokenString string, secret []byte) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	token, err := jwtlib.ParseWithClaims(tokenString, &Claims{}, func(token *jwtlib.Token) (interface{}, error) {
		return secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
