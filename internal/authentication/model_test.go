package authentication

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefreshToken_UsableAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token RefreshToken
		want  bool
	}{
		{"active", RefreshToken{ExpiresAt: now.Add(time.Minute)}, true},
		{"expires exactly now", RefreshToken{ExpiresAt: now}, true},
		{"expired", RefreshToken{ExpiresAt: now.Add(-time.Nanosecond)}, false},
		{"revoked", RefreshToken{ExpiresAt: now.Add(time.Hour), Revoked: true}, false},
		{"revoked and expired", RefreshToken{ExpiresAt: now.Add(-time.Hour), Revoked: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.token.UsableAt(now))
		})
	}
}
