package impl

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"time"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	// defaultGuestSessionTTL applies when no TTL is configured.
	defaultGuestSessionTTL = 7 * 24 * time.Hour

	// maxGuestTokenLength bounds incoming guest tokens; minted tokens are
	// 43 chars, anything past the column width is rejected unread.
	maxGuestTokenLength = 100
)

// guestSessionService implements the GuestSessionUsecase interface.
type guestSessionService struct {
	guestSessionRepo repository.GuestSessionRepository
	ttl              time.Duration
	logger           *slog.Logger
}

// GuestSessionServiceParams holds dependencies for GuestSessionService, injected by Fx.
type GuestSessionServiceParams struct {
	fx.In

	GuestSessionRepo repository.GuestSessionRepository
	Config           *config.Config
	Logger           *slog.Logger
}

// NewGuestSessionService is the constructor for guestSessionService.
func NewGuestSessionService(params GuestSessionServiceParams) usecase.GuestSessionUsecase {
	ttl := defaultGuestSessionTTL
	if params.Config != nil && params.Config.GuestSession != nil && params.Config.GuestSession.TTL > 0 {
		ttl = params.Config.GuestSession.TTL
	}

	return &guestSessionService{
		guestSessionRepo: params.GuestSessionRepo,
		ttl:              ttl,
		logger:           params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *guestSessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateSession mints a fresh guest session with the configured TTL.
func (srv *guestSessionService) CreateSession(ctx context.Context) (*usecase.GuestSessionOutput, error) {
	token, err := newGuestToken()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate guest token")
	}

	session := &entity.GuestSession{
		Token:     token,
		ExpiresAt: time.Now().Add(srv.ttl),
	}

	// Single insert - use direct repository instance
	if err := srv.guestSessionRepo.Create(ctx, session); err != nil {
		srv.log(ctx).Error("Failed to create guest session", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create guest session")
	}

	srv.log(ctx).Debug("Guest session created", slog.Any("sessionID", session.ID))

	return &usecase.GuestSessionOutput{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// CleanupExpired removes sessions past their expiry; their carts go with
// them through the cascading foreign key.
func (srv *guestSessionService) CleanupExpired(ctx context.Context) (int, error) {
	removed, err := srv.guestSessionRepo.DeleteExpired(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to clean up expired guest sessions", slog.Any("error", err))

		return 0, errors.Wrap(err, "failed to clean up expired guest sessions")
	}

	if removed > 0 {
		srv.log(ctx).Info("Removed expired guest sessions", slog.Int("count", removed))
	}

	return removed, nil
}

// newGuestToken returns an opaque 256-bit bearer token.
func newGuestToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to read random bytes")
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
