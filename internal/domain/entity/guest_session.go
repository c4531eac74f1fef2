// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// GuestSession is an anonymous shopping identity. The token is an opaque
// bearer capability: whoever presents it owns the session's cart. Sessions
// expire a fixed interval after creation and are deleted when their cart is
// merged into a user cart at login.
type GuestSession struct {
	ID        uuid.UUID // The unique identifier of the session record.
	Token     string    // Opaque token presented via the X-Guest-Token header; at most 100 chars.
	CreatedAt time.Time // Timestamp of when the session was created.
	ExpiresAt time.Time // The exact time the session stops being honored.
}

// IsExpired reports whether the session has passed its expiry at the given time.
func (s *GuestSession) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
