package authentication

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mehmetcc/virtual-wardrobe/internal/user"
	"github.com/mehmetcc/virtual-wardrobe/internal/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), utils.GormConfig(zap.NewNop()))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&user.User{}, &RefreshToken{}))
	return db
}

func testTokenConfig() *utils.TokenConfig {
	return &utils.TokenConfig{
		Secret:     "test-secret",
		Issuer:     "test-issuer",
		Audience:   "test-audience",
		AccessTTL:  utils.DefaultAccessTokenTTL,
		RefreshTTL: utils.RefreshTokenTTL,
	}
}

type testEnv struct {
	db          *gorm.DB
	tokenConfig *utils.TokenConfig
	users       user.UserService
	records     RefreshTokenRepository
	auth        AuthenticationService
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	db := newTestDB(t)
	cfg := testTokenConfig()
	users := user.NewUserService(user.NewUserRepository(db), zap.NewNop())
	records := NewRefreshTokenRepository(db)
	auth, err := NewAuthenticationService(users, records, cfg, zap.NewNop(), opts...)
	require.NoError(t, err)
	return &testEnv{db: db, tokenConfig: cfg, users: users, records: records, auth: auth}
}

func (e *testEnv) register(t *testing.T, username, email, password string) *user.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), username, email, password)
	require.NoError(t, err)
	return u
}

func (e *testEnv) countTokens(t *testing.T, userID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&RefreshToken{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func (e *testEnv) insertToken(t *testing.T, userID uint, token string, expiresAt time.Time, revoked bool) {
	t.Helper()
	rec := &RefreshToken{UserID: userID, Token: token, ExpiresAt: expiresAt.UTC(), Revoked: revoked}
	require.NoError(t, e.records.Create(context.Background(), rec))
}
