package service

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobtrackr/job-trackr/internal/core/domain"
	"github.com/jobtrackr/job-trackr/internal/core/ports"
)

const (
	maxNameLength         = 200
	maxIntroductionLength = 2000
)

// FileStore abstracts where uploaded profile photos land. The returned path
// is the public path stored on the user document.
type FileStore interface {
	SaveProfilePhoto(prefix, originalName string, r io.Reader) (string, error)
}

// ProfileService reads and writes the display profile attached to a user
// account.
type ProfileService struct {
	repo   ports.UserRepository
	files  FileStore
	logger zerolog.Logger
	now    func() time.Time
}

func NewProfileService(repo ports.UserRepository, files FileStore, logger zerolog.Logger) *ProfileService {
	return &ProfileService{repo: repo, files: files, logger: logger, now: time.Now}
}

// Get returns the profile for the given email. A user without stored profile
// fields gets an empty view rather than an error.
func (s *ProfileService) Get(ctx context.Context, email string) (*ports.ProfileView, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return &ports.ProfileView{Email: normalizeEmail(email)}, nil
		}
		return nil, err
	}

	return &ports.ProfileView{
		Email:        user.Email,
		Name:         user.Name,
		Phone:        user.Phone,
		Introduction: user.Introduction,
		ProfilePhoto: user.ProfilePhoto,
	}, nil
}

// Update normalizes and persists the profile form. When no new photo is
// uploaded the stored photo path is retained.
func (s *ProfileService) Update(ctx context.Context, input ports.UpdateProfileInput) error {
	email := normalizeEmail(input.Email)

	photoPath := ""
	if existing, err := s.repo.FindByEmail(ctx, email); err == nil {
		photoPath = existing.ProfilePhoto
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	if input.Photo != nil && input.PhotoName != "" {
		prefix := emailLocalPart(email)
		path, err := s.files.SaveProfilePhoto(prefix, input.PhotoName, input.Photo)
		if err != nil {
			s.logger.Error().Err(err).Str("email", email).Msg("failed to store profile photo")
			return err
		}
		photoPath = path
	}

	update := ports.ProfileUpdate{
		Name:         truncate(strings.TrimSpace(input.Name), maxNameLength),
		Phone:        digitsOnly(input.Phone),
		Introduction: truncate(strings.TrimSpace(input.Introduction), maxIntroductionLength),
		ProfilePhoto: photoPath,
	}

	if err := s.repo.UpdateProfile(ctx, email, update, s.now().UTC()); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to update profile")
		return err
	}

	s.logger.Info().Str("email", email).Msg("profile updated")
	return nil
}

var nonDigits = regexp.MustCompile(`\D`)

// digitsOnly strips everything but digits from a phone number, preserving a
// single leading plus sign.
func digitsOnly(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	plus := strings.HasPrefix(s, "+")
	digits := nonDigits.ReplaceAllString(s, "")
	if plus && digits != "" {
		return "+" + digits
	}
	return digits
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func emailLocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	if email == "" {
		return "user"
	}
	return email
}
