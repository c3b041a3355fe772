package authentication

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mehmetcc/virtual-wardrobe/internal/user"
	"github.com/mehmetcc/virtual-wardrobe/internal/utils"
)

// refreshTokenBytes is the amount of randomness in a refresh token (512 bits).
const refreshTokenBytes = 64

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrLoginFailed         = errors.New("login failed")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrDanglingRefreshToken means a refresh token row points at a user that
	// does not exist. That is a data-integrity fault, not a client error.
	ErrDanglingRefreshToken = errors.New("refresh token references a missing user")
)

// Session is the outcome of a login or refresh.
type Session struct {
	User                  *user.User
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

// AuthenticationService runs the credential and session lifecycle.
//
// Refresh does not rotate: every successful refresh mints an additional
// refresh token and the presented one stays valid until it expires or is
// logged out. Logout revokes only the presented token.
type AuthenticationService interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	Logout(ctx context.Context, refreshToken string) error
}

type Option func(*authenticationService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *authenticationService) {
		a.now = now
	}
}

// WithPasswordVerifier replaces user.VerifyPassword.
func WithPasswordVerifier(verify func(plaintext, hash string) bool) Option {
	return func(a *authenticationService) {
		a.verifyPassword = verify
	}
}

type authenticationService struct {
	userService user.UserService
	recordRepo  RefreshTokenRepository
	tokenConfig *utils.TokenConfig
	logger      *zap.Logger
	now         func() time.Time

	// dummyHash is verified against when the email is unknown so that both
	// failure branches of Login pay the bcrypt cost.
	verifyPassword func(plaintext, hash string) bool
	dummyHash      string
}

func NewAuthenticationService(
	userService user.UserService,
	recordRepo RefreshTokenRepository,
	tokenConfig *utils.TokenConfig,
	logger *zap.Logger,
	opts ...Option,
) (AuthenticationService, error) {
	dummyHash, err := user.HashPassword(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	a := &authenticationService{
		userService: userService,
		recordRepo:  recordRepo,
		tokenConfig: tokenConfig,
		logger:      logger,
		now:         time.Now,

		verifyPassword: user.VerifyPassword,
		dummyHash:      dummyHash,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *authenticationService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := a.userService.ReadUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			a.verifyPassword(password, a.dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	if !a.verifyPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	session, err := a.establishSession(ctx, u)
	if err != nil {
		return nil, err
	}
	a.logger.Info("user logged in", zap.Uint("userID", u.ID))
	return session, nil
}

func (a *authenticationService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}

	rec, err := a.recordRepo.ReadByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrRecordNotFoundByGivenToken) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	if !rec.UsableAt(a.now().UTC()) {
		return nil, ErrInvalidRefreshToken
	}

	u, err := a.userService.ReadUserByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			a.logger.Error("refresh token references missing user",
				zap.Uint("recordID", rec.ID), zap.Uint("userID", rec.UserID))
			return nil, ErrDanglingRefreshToken
		}
		return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	return a.establishSession(ctx, u)
}

// Logout revokes the presented token if it exists. Unknown, empty and
// already revoked tokens are not errors.
func (a *authenticationService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	rec, err := a.recordRepo.ReadByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrRecordNotFoundByGivenToken) {
			return nil
		}
		return err
	}
	if rec.Revoked {
		return nil
	}
	if err := a.recordRepo.Revoke(ctx, rec.ID); err != nil && !errors.Is(err, ErrRecordNotFoundByGivenID) {
		return err
	}
	a.logger.Info("refresh token revoked", zap.Uint("userID", rec.UserID), zap.Uint("recordID", rec.ID))
	return nil
}

func (a *authenticationService) establishSession(ctx context.Context, u *user.User) (*Session, error) {
	now := a.now().UTC()

	// 1) Garbage-collect this user's expired rows
	purged, err := a.recordRepo.DeleteExpiredByUserID(ctx, u.ID, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	if purged > 0 {
		a.logger.Debug("purged expired refresh tokens", zap.Uint("userID", u.ID), zap.Int64("count", purged))
	}

	// 2) Mint and persist a new refresh token
	value, err := newRefreshTokenValue()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	rec := &RefreshToken{
		UserID:    u.ID,
		Token:     value,
		ExpiresAt: now.Add(a.tokenConfig.RefreshTTL),
	}
	if err := a.recordRepo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	// 3) Sign the access token
	access, accessExpiry, err := utils.IssueAccessToken(a.tokenConfig, utils.AccessSubject{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
	}, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	return &Session{
		User:                  u,
		AccessToken:           access,
		AccessTokenExpiresAt:  accessExpiry,
		RefreshToken:          rec.Token,
		RefreshTokenExpiresAt: rec.ExpiresAt,
	}, nil
}

func newRefreshTokenValue() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
