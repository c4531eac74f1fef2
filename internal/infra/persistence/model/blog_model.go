package model

import (
	"time"

	"github.com/google/uuid"
)

// BlogPostModel mirrors the 'blog_posts' table.
type BlogPostModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Slug        string    `gorm:"type:varchar(255);unique;not null"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Body        string    `gorm:"type:text;not null"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	IsPublished bool      `gorm:"not null;default:false;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (BlogPostModel) TableName() string {
	return "blog_posts"
}
