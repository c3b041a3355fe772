package authentication

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshTokenRepository_CreateAndRead(t *testing.T) {
	repo := NewRefreshTokenRepository(newTestDB(t))
	ctx := context.Background()
	expires := time.Now().UTC().Add(time.Hour).Truncate(time.Second)

	rec := &RefreshToken{UserID: 1, Token: "tok+/=", ExpiresAt: expires}
	require.NoError(t, repo.Create(ctx, rec))
	require.NotZero(t, rec.ID)

	got, err := repo.ReadByToken(ctx, "tok+/=")
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.UserID)
	assert.False(t, got.Revoked)
	assert.True(t, expires.Equal(got.ExpiresAt))

	_, err = repo.ReadByToken(ctx, "missing")
	assert.ErrorIs(t, err, ErrRecordNotFoundByGivenToken)
}

func TestRefreshTokenRepository_TokenIsUnique(t *testing.T) {
	repo := NewRefreshTokenRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &RefreshToken{UserID: 1, Token: "same", ExpiresAt: time.Now().Add(time.Hour)}))
	assert.Error(t, repo.Create(ctx, &RefreshToken{UserID: 2, Token: "same", ExpiresAt: time.Now().Add(time.Hour)}))
}

func TestRefreshTokenRepository_Revoke(t *testing.T) {
	repo := NewRefreshTokenRepository(newTestDB(t))
	ctx := context.Background()

	rec := &RefreshToken{UserID: 1, Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, rec))

	require.NoError(t, repo.Revoke(ctx, rec.ID))
	got, err := repo.ReadByToken(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, got.Revoked)

	require.NoError(t, repo.Revoke(ctx, rec.ID), "revoking twice is fine")
	assert.ErrorIs(t, repo.Revoke(ctx, rec.ID+100), ErrRecordNotFoundByGivenID)
}

func TestRefreshTokenRepository_DeleteExpiredByUserID(t *testing.T) {
	repo := NewRefreshTokenRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	seed := []*RefreshToken{
		{UserID: 1, Token: "expired", ExpiresAt: now.Add(-time.Hour)},
		{UserID: 1, Token: "expired-revoked", ExpiresAt: now.Add(-time.Minute), Revoked: true},
		{UserID: 1, Token: "expires-now", ExpiresAt: now},
		{UserID: 1, Token: "active", ExpiresAt: now.Add(time.Hour)},
		{UserID: 2, Token: "other-user-expired", ExpiresAt: now.Add(-time.Hour)},
	}
	for _, rec := range seed {
		require.NoError(t, repo.Create(ctx, rec))
	}

	deleted, err := repo.DeleteExpiredByUserID(ctx, 1, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	for _, token := range []string{"expires-now", "active", "other-user-expired"} {
		_, err := repo.ReadByToken(ctx, token)
		assert.NoError(t, err, token)
	}
	for _, token := range []string{"expired", "expired-revoked"} {
		_, err := repo.ReadByToken(ctx, token)
		assert.ErrorIs(t, err, ErrRecordNotFoundByGivenToken, token)
	}
}
