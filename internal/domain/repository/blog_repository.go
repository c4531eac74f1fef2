// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for blog persistence.
var (
	// ErrPostNotFound is returned when a blog post is not found.
	ErrPostNotFound = errors.New("blog post not found")
	// ErrPostSlugConflict is returned when a slug collides with an existing post.
	ErrPostSlugConflict = errors.New("blog post slug already exists")
)

// BlogRepository defines the standard operations for blog post persistence.
type BlogRepository interface {
	// Create persists a new post. Returns ErrPostSlugConflict on a taken slug.
	Create(ctx context.Context, post *entity.BlogPost) error

	// Update modifies an existing post.
	Update(ctx context.Context, post *entity.BlogPost) error

	// FindBySlug retrieves a post by its slug, published or not.
	FindBySlug(ctx context.Context, slug string) (*entity.BlogPost, error)

	// ListPublished retrieves all published posts, newest first.
	ListPublished(ctx context.Context) ([]*entity.BlogPost, error)
}
