package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusmarket/campus-market/internal/core/domain"
	"github.com/campusmarket/campus-market/internal/core/ports"
)

const minPasswordLength = 6

// AuthService implements signup and login. Credentials live in the account
// store; the public profile record lives in the key-value store under the
// same id.
type AuthService struct {
	accounts    ports.AccountRepository
	profiles    ports.ProfileRepository
	emailDomain string
	jwtSecret   string
	tokenTTL    time.Duration
	log         zerolog.Logger
}

func NewAuthService(
	accounts ports.AccountRepository,
	profiles ports.ProfileRepository,
	emailDomain, jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		accounts:    accounts,
		profiles:    profiles,
		emailDomain: emailDomain,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		log:         log,
	}
}

// Signup creates the credential record and the profile. Only institution
// email addresses are accepted. The two writes are sequential with no
// rollback; a profile write failure after the account insert is surfaced,
// and a retried signup hits ErrUserExists.
func (s *AuthService) Signup(ctx context.Context, email, password, name string) (*domain.UserProfile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.HasSuffix(email, "@"+s.emailDomain) {
		return nil, fmt.Errorf("%w: must use an @%s email address", domain.ErrValidation, s.emailDomain)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	profile := &domain.UserProfile{
		ID:               account.ID,
		Email:            email,
		Name:             name,
		SubscriptionTier: domain.TierFree,
		CreatedAt:        now,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		s.log.Error().Err(err).Str("user_id", account.ID).Msg("profile write failed after account creation")
		return nil, err
	}

	s.log.Info().Str("user_id", account.ID).Msg("user signed up")
	return profile, nil
}

// Login verifies the credentials and returns a signed token plus the
// profile. Unknown emails and wrong passwords are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.UserProfile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(account)
	if err != nil {
		return "", nil, err
	}

	profile, err := s.profiles.Get(ctx, account.ID)
	if err != nil {
		return "", nil, err
	}
	return token, profile, nil
}

func (s *AuthService) generateToken(account *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"user_id": account.ID,
		"email":   account.Email,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

var _ ports.AuthService = (*AuthService)(nil)
