package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/school-lms/internal/dto"
	"github.com/noah-isme/school-lms/internal/models"
	"github.com/noah-isme/school-lms/internal/repository"
)

// UserService lets administrators manage accounts.
type UserService interface {
	AddUser(ctx context.Context, session Session, req dto.UserCreateRequest) (dto.UserResponse, error)
	RemoveUser(ctx context.Context, session Session, username string) error
	ListUsers(ctx context.Context, session Session) ([]dto.UserResponse, error)
}

type userService struct {
	repo      repository.UserRepository
	activity  ActivityRecorder
	validator *validator.Validate
	hash      func(string) (string, error)
	logger    zerolog.Logger
}

// NewUserService constructs the account administration service.
func NewUserService(repo repository.UserRepository, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		repo:      repo,
		activity:  activity,
		validator: validate,
		hash:      HashPassword,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) AddUser(ctx context.Context, session Session, req dto.UserCreateRequest) (dto.UserResponse, error) {
	if err := requireRole(session, models.RoleAdmin); err != nil {
		return dto.UserResponse{}, err
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, err
	}

	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return dto.UserResponse{}, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, err
	}

	digest, err := s.hash(req.Password)
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Username: req.Username, PasswordDigest: digest, Role: req.Role}
	if err := s.repo.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.UserResponse{}, ErrUserExists
		}
		return dto.UserResponse{}, fmt.Errorf("create user: %w", err)
	}

	s.record(ctx, session, "user.created", user.Username, map[string]interface{}{"role": user.Role})
	s.logger.Info().Str("username", user.Username).Str("role", user.Role).Msg("user added")
	return dto.NewUserResponse(user), nil
}

func (s *userService) RemoveUser(ctx context.Context, session Session, username string) error {
	if err := requireRole(session, models.RoleAdmin); err != nil {
		return err
	}

	username = strings.TrimSpace(username)
	if username == "" {
		return ErrUserNotFound
	}
	if username == session.Username {
		return ErrCannotRemoveSelf
	}

	if err := s.repo.Delete(ctx, username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("remove user: %w", err)
	}

	s.record(ctx, session, "user.removed", username, nil)
	s.logger.Info().Str("username", username).Msg("user removed")
	return nil
}

func (s *userService) ListUsers(ctx context.Context, session Session) ([]dto.UserResponse, error) {
	if err := requireRole(session, models.RoleAdmin); err != nil {
		return nil, err
	}

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}
	return responses, nil
}

func (s *userService) record(ctx context.Context, session Session, action, username string, metadata map[string]interface{}) {
	if _, err := s.activity.Record(ctx, ActivityEntry{
		Actor:      session.Username,
		ActorRole:  session.Role,
		Action:     action,
		EntityType: "user",
		EntityID:   username,
		Metadata:   metadata,
	}); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record user activity")
	}
}
