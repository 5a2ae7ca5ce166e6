package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/jobtrackr/job-trackr/internal/core/domain"
	"github.com/jobtrackr/job-trackr/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byEmail map[string]*domain.User
	nextID  int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, email, passwordHash string) (*domain.User, error) {
	if _, ok := r.byEmail[email]; ok {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	user := &domain.User{
		ID:           fmt.Sprintf("user-%03d", r.nextID),
		Email:        email,
		PasswordHash: passwordHash,
	}
	r.byEmail[email] = user
	clone := *user
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range r.byEmail {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, email string, update ports.ProfileUpdate, updatedAt time.Time) error {
	user, ok := r.byEmail[email]
	if !ok {
		user = &domain.User{Email: email}
		r.byEmail[email] = user
	}
	user.Name = update.Name
	user.Phone = update.Phone
	user.Introduction = update.Introduction
	user.ProfilePhoto = update.ProfilePhoto
	user.UpdatedAt = updatedAt
	return nil
}

const testSecret = "test-secret"

// ---------------------------------------------------------------------------
// Signup
// ---------------------------------------------------------------------------

func TestAuthService_Signup_NormalizesEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, 0)

	token, user, err := svc.Signup(context.Background(), "  Alice@Example.COM ", "sup3rsecret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}
	if _, ok := repo.byEmail["alice@example.com"]; !ok {
		t.Error("account must be stored under the normalized email")
	}

	// The session token must carry the user id.
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("session token must verify: %v", err)
	}
	if claims["sub"] != user.ID {
		t.Errorf("expected sub claim %q, got %v", user.ID, claims["sub"])
	}
}

func TestAuthService_Signup_HashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, 0)

	_, _, err := svc.Signup(context.Background(), "bob@example.com", "sup3rsecret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := repo.byEmail["bob@example.com"]
	if stored.PasswordHash == "sup3rsecret" {
		t.Fatal("password must never be stored in the clear")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("sup3rsecret")) != nil {
		t.Error("stored hash must verify against the original password")
	}
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, 0)

	if _, _, err := svc.Signup(context.Background(), "alice@example.com", "sup3rsecret"); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	_, _, err := svc.Signup(context.Background(), "ALICE@example.com", "otherpassword")
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Signup_Rejections(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, 0)

	cases := []struct {
		email, password string
		want            error
	}{
		{"", "sup3rsecret", domain.ErrInvalidCredentials},
		{"alice@example.com", "", domain.ErrInvalidCredentials},
		{"alice@example.com", "short", domain.ErrPasswordTooShort},
	}
	for _, tc := range cases {
		if _, _, err := svc.Signup(context.Background(), tc.email, tc.password); !errors.Is(err, tc.want) {
			t.Errorf("Signup(%q, %q): expected %v, got %v", tc.email, tc.password, tc.want, err)
		}
	}
	if len(repo.byEmail) != 0 {
		t.Error("rejected signups must not write")
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)
	_, created, _ := svc.Signup(context.Background(), "alice@example.com", "sup3rsecret")

	token, user, err := svc.Login(context.Background(), "Alice@Example.com", "sup3rsecret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("expected user %q, got %q", created.ID, user.ID)
	}
	if token == "" {
		t.Error("expected a session token")
	}
}

func TestAuthService_Login_FailsClosed(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, 0)
	_, _, _ = svc.Signup(context.Background(), "alice@example.com", "sup3rsecret")

	// Unknown account and wrong password must be indistinguishable.
	_, _, errUnknown := svc.Login(context.Background(), "ghost@example.com", "whatever")
	_, _, errWrong := svc.Login(context.Background(), "alice@example.com", "wrongpass")

	if !errors.Is(errUnknown, domain.ErrInvalidCredentials) {
		t.Errorf("unknown account: expected ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrong, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", errWrong)
	}
}

// ---------------------------------------------------------------------------
// LoadUser
// ---------------------------------------------------------------------------

func TestAuthService_LoadUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, 0)
	_, created, _ := svc.Signup(context.Background(), "alice@example.com", "sup3rsecret")

	user, err := svc.LoadUser(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}

	if _, err := svc.LoadUser(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
