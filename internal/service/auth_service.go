package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/school-lms/internal/models"
	"github.com/noah-isme/school-lms/internal/repository"
)

// Session is the authenticated identity passed to every service operation.
type Session struct {
	ID        uuid.UUID
	Username  string
	Role      string
	StartedAt time.Time
}

// IsStudent reports whether the session belongs to a student.
func (s Session) IsStudent() bool { return s.Role == models.RoleStudent }

// IsTeacher reports whether the session belongs to a teacher.
func (s Session) IsTeacher() bool { return s.Role == models.RoleTeacher }

// IsAdmin reports whether the session belongs to an administrator.
func (s Session) IsAdmin() bool { return s.Role == models.RoleAdmin }

func requireRole(session Session, role string) error {
	if session.Username == "" || session.Role != role {
		return ErrForbidden
	}
	return nil
}

// HashPassword produces the stored digest of a password.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// AuthService verifies credentials and opens sessions.
type AuthService interface {
	Login(ctx context.Context, username, password string) (Session, error)
}

type authService struct {
	users  repository.UserRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, logger zerolog.Logger) AuthService {
	return &authService{
		users:  users,
		logger: logger.With().Str("component", "auth_service").Logger(),
		now:    time.Now,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Info().Str("username", username).Msg("login rejected")
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte(password)); err != nil {
		s.logger.Info().Str("username", username).Msg("login rejected")
		return Session{}, ErrInvalidCredentials
	}

	session := Session{
		ID:        uuid.New(),
		Username:  user.Username,
		Role:      user.Role,
		StartedAt: s.now().UTC(),
	}
	s.logger.Info().Str("username", user.Username).Str("role", user.Role).Str("session_id", session.ID.String()).Msg("login succeeded")
	return session, nil
}
