package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/jobtrackr/job-trackr/internal/core/domain"
	"github.com/jobtrackr/job-trackr/internal/core/ports"
)

const minPasswordLength = 6

// AuthService implements signup, login, and session resolution. Session
// tokens are HS256-signed JWTs carrying the user id; the browser holds one
// in a cookie.
type AuthService struct {
	repo          ports.UserRepository
	sessionSecret string
	sessionTTL    time.Duration
}

func NewAuthService(repo ports.UserRepository, sessionSecret string, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 30 * 24 * time.Hour
	}
	return &AuthService{repo: repo, sessionSecret: sessionSecret, sessionTTL: sessionTTL}
}

// Signup creates an account and returns a session token for it. The email
// is normalized (trimmed, lowercased) before the existence check. The check
// is read-then-write; the unique index on email backstops the race.
func (s *AuthService) Signup(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}
	if len(password) < minPasswordLength {
		return "", nil, domain.ErrPasswordTooShort
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return "", nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	user, err := s.repo.Create(ctx, email, string(hash))
	if err != nil {
		return "", nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login authenticates by normalized email and password. It fails closed: a
// missing account and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// LoadUser resolves a session-carried identifier back to a user.
func (s *AuthService) LoadUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"exp":   time.Now().Add(s.sessionTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.sessionSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
