package services

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/deputyJo/ironcart-backend/internal/apperr"
	"github.com/deputyJo/ironcart-backend/internal/domain"
	"github.com/deputyJo/ironcart-backend/internal/repos"
	"github.com/deputyJo/ironcart-backend/internal/validate"
)

const bcryptCost = 10

// ErrBadCreds is the single message for unknown email and wrong password, so
// responses don't disclose which accounts exist.
var ErrBadCreds = apperr.BadRequest("Invalid email or password")

// CaptchaVerifier confirms a human-verification token.
type CaptchaVerifier interface {
	Verify(token string) error
}

// VerificationMailer delivers the verification link for a fresh account.
type VerificationMailer interface {
	SendVerification(to, token string) error
}

type AuthService struct {
	Users   *repos.UserRepo
	Tokens  *TokenService
	Captcha CaptchaVerifier
	Mail    VerificationMailer
}

// HashPassword computes the adaptive one-way hash stored on the user record.
func HashPassword(raw string) (string, error) {
	if raw == "" {
		return "", errors.New("empty password")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(raw), bcryptCost)
	return string(h), err
}

// VerifyPassword fails closed: absent hash or password is a mismatch, never a
// panic or an error.
func VerifyPassword(hash, raw string) bool {
	if hash == "" || raw == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}

// Register creates an unverified customer account and dispatches the
// verification mail. No session token is issued until the email is verified.
func (s *AuthService) Register(username, email, password, captchaToken string) (*domain.User, error) {
	if err := s.Captcha.Verify(captchaToken); err != nil {
		return nil, apperr.BadRequest("reCAPTCHA verification failed")
	}

	username, ok := validate.Username(username)
	if !ok {
		return nil, apperr.BadRequest("Username must be 6-12 alphanumeric characters")
	}
	email, ok = validate.Email(email)
	if !ok {
		return nil, apperr.BadRequest("Email must be valid")
	}
	password, ok = validate.Password(password)
	if !ok {
		return nil, apperr.BadRequest("Password must be 8-68 characters and include uppercase, lowercase, number, and special character")
	}

	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, apperr.BadRequest("User already exists. Please sign in")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, apperr.Internal("Failure generating a user", err)
	}

	u := &domain.User{
		ID:                uuid.NewString(),
		Username:          username,
		Email:             email,
		Hash:              hash,
		Role:              domain.RoleCustomer,
		Verified:          false,
		VerificationToken: uuid.NewString(),
	}
	if err := s.Users.Create(u); err != nil {
		return nil, apperr.Internal("Failure generating a user", err)
	}

	// Mail delivery must not block or fail registration.
	go func(to, token string) {
		if err := s.Mail.SendVerification(to, token); err != nil {
			log.Printf("[mail] verification send failed for %s: %v", to, err)
		}
	}(u.Email, u.VerificationToken)

	return u, nil
}

// VerifyEmail consumes a verification token, flipping the account to
// verified exactly once.
func (s *AuthService) VerifyEmail(token string) error {
	if token == "" {
		return apperr.BadRequest("Invalid or expired verification token")
	}
	ok, err := s.Users.VerifyByToken(token)
	if err != nil {
		return apperr.Internal("Verification failed", err)
	}
	if !ok {
		return apperr.BadRequest("Invalid or expired verification token")
	}
	return nil
}

// Login authenticates a verified user and issues an access/refresh pair.
func (s *AuthService) Login(email, password, captchaToken string) (*domain.User, string, string, error) {
	if err := s.Captcha.Verify(captchaToken); err != nil {
		return nil, "", "", apperr.BadRequest("reCAPTCHA verification failed")
	}

	email, ok := validate.Email(email)
	if !ok {
		return nil, "", "", ErrBadCreds
	}

	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, "", "", ErrBadCreds
	}
	if !u.Verified {
		return nil, "", "", apperr.Forbidden("Please verify your email before logging in")
	}
	if !VerifyPassword(u.Hash, password) {
		return nil, "", "", ErrBadCreds
	}

	access, err := s.Tokens.IssueAccess(u)
	if err != nil {
		return nil, "", "", apperr.Internal("Token generation error", err)
	}
	refresh, err := s.Tokens.IssueRefresh(u)
	if err != nil {
		return nil, "", "", apperr.Internal("Token generation error", err)
	}
	return u, access, refresh, nil
}

// Refresh re-issues an access token bound to the refresh token's subject.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	claims, err := s.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", apperr.Forbidden("Invalid or expired refresh token")
	}
	u, err := s.Users.ByID(claims.ID)
	if err != nil {
		return "", apperr.Forbidden("Invalid or expired refresh token")
	}
	access, err := s.Tokens.IssueAccess(u)
	if err != nil {
		return "", apperr.Internal("Token generation error", err)
	}
	return access, nil
}
