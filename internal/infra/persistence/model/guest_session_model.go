package model

import (
	"time"

	"github.com/google/uuid"
)

// GuestSessionModel mirrors the 'guest_sessions' table. The token column is
// bounded at 100 characters and unique; expiry is checked by callers, not
// the database, so expired rows stay readable until cleanup.
type GuestSessionModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Token     string    `gorm:"type:varchar(100);unique;not null"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName explicitly sets the table name for GORM.
func (GuestSessionModel) TableName() string {
	return "guest_sessions"
}
