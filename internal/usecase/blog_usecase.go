package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// CreatePostInput defines the data required to publish a blog post.
type CreatePostInput struct {
	Slug        string
	Title       string
	Body        string
	AuthorID    uuid.UUID
	IsPublished bool
}

// UpdatePostInput defines the data required to rewrite a blog post.
// The slug addresses the post and is not changed by an update.
type UpdatePostInput struct {
	Slug        string
	Title       string
	Body        string
	IsPublished bool
}

// BlogUsecase defines the interface for editorial content operations.
type BlogUsecase interface {
	// CreatePost adds a post under a unique slug (merchant only).
	CreatePost(ctx context.Context, input CreatePostInput) (*entity.BlogPost, error)

	// UpdatePost rewrites the post addressed by the slug (merchant only).
	UpdatePost(ctx context.Context, input UpdatePostInput) (*entity.BlogPost, error)

	// GetPostBySlug retrieves a single published post.
	GetPostBySlug(ctx context.Context, slug string) (*entity.BlogPost, error)

	// ListPublishedPosts retrieves all published posts, newest first.
	ListPublishedPosts(ctx context.Context) ([]*entity.BlogPost, error)
}
