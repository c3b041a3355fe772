package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolationCode = "23505"

var (
	ErrUserAlreadyExists    = errors.New("username or email already taken")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserNotCreated       = errors.New("user not created")
	ErrUnresponsiveDatabase = errors.New("error occurred during access to users table")
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	ReadByEmail(ctx context.Context, email string) (*User, error)
	ReadByID(ctx context.Context, id uint) (*User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("%w: %v", ErrUserNotCreated, err)
	}
	return nil
}

func (r *userRepository) ReadByID(ctx context.Context, id uint) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).First(&user, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnresponsiveDatabase, err)
	}
	return &user, nil
}

func (r *userRepository) ReadByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).
		Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnresponsiveDatabase, err)
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).
		Error
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnresponsiveDatabase, err)
	}
	return count > 0, nil
}

// isUniqueViolation covers both gorm's translated error and a raw postgres
// error from a driver without translation.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
