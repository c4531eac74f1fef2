package impl

import (
	"context"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestSessionService_CreateSession(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := NewGuestSessionService(GuestSessionServiceParams{
		GuestSessionRepo: factory.sessions,
		Config:           &config.Config{GuestSession: &config.GuestSessionConfig{TTL: 2 * time.Hour}},
		Logger:           newDiscardLogger(),
	})

	before := time.Now()
	output, err := svc.CreateSession(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, output.Token)
	assert.WithinDuration(t, before.Add(2*time.Hour), output.ExpiresAt, time.Minute)

	stored, err := factory.sessions.FindByToken(context.Background(), output.Token)
	require.NoError(t, err)
	assert.Equal(t, output.Token, stored.Token)
}

func TestGuestSessionService_TokensAreUnique(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := NewGuestSessionService(GuestSessionServiceParams{
		GuestSessionRepo: factory.sessions,
		Logger:           newDiscardLogger(),
	})

	first, err := svc.CreateSession(context.Background())
	require.NoError(t, err)
	second, err := svc.CreateSession(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
}

func TestGuestSessionService_CleanupExpired(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := NewGuestSessionService(GuestSessionServiceParams{
		GuestSessionRepo: factory.sessions,
		Logger:           newDiscardLogger(),
	})
	ctx := context.Background()

	expired := &entity.GuestSession{Token: "expired-token", ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, factory.sessions.Create(ctx, expired))
	live := &entity.GuestSession{Token: "live-token", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, factory.sessions.Create(ctx, live))

	removed, err := svc.CleanupExpired(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = factory.sessions.FindByToken(ctx, "expired-token")
	assert.Error(t, err)
	_, err = factory.sessions.FindByToken(ctx, "live-token")
	assert.NoError(t, err)
}
