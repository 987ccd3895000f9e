package services

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/deputyJo/ironcart-backend/internal/domain"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
	ErrNoSubject    = errors.New("token subject has no id")
)

// Claims carried by both access and refresh tokens.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.StandardClaims
}

// TokenService signs and verifies access/refresh token pairs. Access tokens
// live 15 minutes; refresh tokens 7 days and travel in an HTTP-only cookie.
type TokenService struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewTokenService(accessSecret, refreshSecret string) *TokenService {
	return &TokenService{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func (s *TokenService) IssueAccess(u *domain.User) (string, error) {
	return s.issue(u, s.AccessSecret, s.AccessTTL)
}

func (s *TokenService) IssueRefresh(u *domain.User) (string, error) {
	return s.issue(u, s.RefreshSecret, s.RefreshTTL)
}

func (s *TokenService) issue(u *domain.User, secret []byte, ttl time.Duration) (string, error) {
	if u == nil || u.ID == "" {
		return "", ErrNoSubject
	}
	claims := Claims{
		ID:    u.ID,
		Email: u.Email,
		Role:  u.Role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *TokenService) VerifyAccess(token string) (*Claims, error) {
	return verify(token, s.AccessSecret)
}

func (s *TokenService) VerifyRefresh(token string) (*Claims, error) {
	return verify(token, s.RefreshSecret)
}

// verify checks signature and expiry, distinguishing an expired token from a
// malformed or badly signed one.
func verify(token string, secret []byte) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
