package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/smartwallet/backend/internal/domain/error"
)

type memoryTokenRepo struct {
	tokens map[string]bool
}

func (m *memoryTokenRepo) SaveRefreshToken(_ context.Context, token string, _ uuid.UUID, _ time.Time) error {
	m.tokens[token] = true
	return nil
}

func (m *memoryTokenRepo) IsRefreshTokenValid(_ context.Context, token string) (bool, error) {
	return m.tokens[token], nil
}

func (m *memoryTokenRepo) InvalidateRefreshToken(_ context.Context, token string) error {
	m.tokens[token] = false
	return nil
}

func (m *memoryTokenRepo) DeleteExpired(context.Context, time.Time) (int64, error) { return 0, nil }

func TestTokenService(t *testing.T) {
	ctx := context.Background()
	repo := &memoryTokenRepo{tokens: map[string]bool{}}
	svc := NewTokenService("secret", time.Minute, time.Hour, repo)
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(ctx, userID, "ana@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)

	_, err = svc.ValidateAccessToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domainerror.ErrInvalidToken, "refresh token used as access token")

	_, err = svc.ValidateRefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)

	valid, err := svc.IsRefreshTokenValid(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, valid)

	require.NoError(t, svc.InvalidateRefreshToken(ctx, pair.RefreshToken))
	valid, _ = svc.IsRefreshTokenValid(ctx, pair.RefreshToken)
	assert.False(t, valid)

	second, err := svc.GenerateTokenPair(ctx, userID, "ana@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, second.RefreshToken)

	other := NewTokenService("other-secret", time.Minute, time.Hour, repo)
	_, err = other.ValidateAccessToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, domainerror.ErrInvalidToken)
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("secret", -time.Minute, time.Hour, &memoryTokenRepo{tokens: map[string]bool{}})
	pair, err := svc.GenerateTokenPair(context.Background(), uuid.New(), "ana@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, domainerror.ErrInvalidToken)
}
