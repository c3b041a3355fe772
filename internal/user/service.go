package user

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrHashingPasswordFailed = errors.New("hashing password failed")
	ErrInvalidEmailFormat    = errors.New("invalid email format")
	ErrInvalidUsername       = errors.New("username must not be blank")
)

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*User, error)
	ReadUserByEmail(ctx context.Context, email string) (*User, error)
	ReadUserByID(ctx context.Context, id uint) (*User, error)
}

type userService struct {
	repo   UserRepository
	logger *zap.Logger
}

func NewUserService(repo UserRepository, logger *zap.Logger) UserService {
	return &userService{
		repo:   repo,
		logger: logger,
	}
}

// Register creates an account. Duplicates are rejected before the password
// is hashed; the unique indexes still catch a racing registration.
func (s *userService) Register(ctx context.Context, username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	if _, err := mail.ParseAddress(email); err != nil {
		s.logger.Warn("invalid email format", zap.String("email", email))
		return nil, ErrInvalidEmailFormat
	}
	if err := CheckPassword(password); err != nil {
		s.logger.Warn("password rejected by policy", zap.Error(err))
		return nil, err
	}

	taken, err := s.repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		s.logger.Error("failed to check for existing user", zap.Error(err))
		return nil, err
	}
	if taken {
		return nil, ErrUserAlreadyExists
	}

	hashed, err := HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, ErrHashingPasswordFailed
	}

	user := NewUser(username, email, hashed)
	if err := s.repo.Create(ctx, user); err != nil {
		if !errors.Is(err, ErrUserAlreadyExists) {
			s.logger.Error("failed to create user in repository", zap.Error(err))
		}
		return nil, err
	}
	s.logger.Info("user registered", zap.Uint("userID", user.ID))
	return user, nil
}

func (s *userService) ReadUserByEmail(ctx context.Context, email string) (*User, error) {
	user, err := s.repo.ReadByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			s.logger.Error("failed to get user by email", zap.Error(err))
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ReadUserByID(ctx context.Context, id uint) (*User, error) {
	user, err := s.repo.ReadByID(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			s.logger.Error("failed to get user by ID", zap.Uint("id", id), zap.Error(err))
		}
		return nil, err
	}
	return user, nil
}
