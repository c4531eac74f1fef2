package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// blogService implements the BlogUsecase interface.
type blogService struct {
	blogRepo repository.BlogRepository
	logger   *slog.Logger
}

// BlogServiceParams holds dependencies for BlogService, injected by Fx.
type BlogServiceParams struct {
	fx.In

	BlogRepo repository.BlogRepository
	Logger   *slog.Logger
}

// NewBlogService is the constructor for blogService.
func NewBlogService(params BlogServiceParams) usecase.BlogUsecase {
	return &blogService{
		blogRepo: params.BlogRepo,
		logger:   params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *blogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreatePost adds a post under a unique slug.
func (srv *blogService) CreatePost(ctx context.Context, input usecase.CreatePostInput) (*entity.BlogPost, error) {
	if input.Slug == "" || input.Title == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("post slug and title are required")
	}

	post := &entity.BlogPost{
		Slug:        input.Slug,
		Title:       input.Title,
		Body:        input.Body,
		AuthorID:    input.AuthorID,
		IsPublished: input.IsPublished,
	}

	if err := srv.blogRepo.Create(ctx, post); err != nil {
		if errors.Is(err, repository.ErrPostSlugConflict) {
			return nil, errors.Wrap(domainerrors.ErrPostSlugConflict, "slug already in use")
		}

		srv.log(ctx).Error("Failed to create post", slog.String("slug", input.Slug), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create post")
	}

	srv.log(ctx).Info("Blog post created", slog.Any("postID", post.ID), slog.String("slug", post.Slug))

	return post, nil
}

// UpdatePost rewrites the post addressed by the slug.
func (srv *blogService) UpdatePost(ctx context.Context, input usecase.UpdatePostInput) (*entity.BlogPost, error) {
	if input.Title == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("post title is required")
	}

	post, err := srv.blogRepo.FindBySlug(ctx, input.Slug)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, errors.Wrap(domainerrors.ErrPostNotFound, "post not found")
		}

		return nil, errors.Wrap(err, "failed to find post")
	}

	post.Title = input.Title
	post.Body = input.Body
	post.IsPublished = input.IsPublished

	if err := srv.blogRepo.Update(ctx, post); err != nil {
		srv.log(ctx).Error("Failed to update post", slog.String("slug", input.Slug), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update post")
	}

	srv.log(ctx).Info("Blog post updated", slog.Any("postID", post.ID), slog.String("slug", post.Slug))

	return post, nil
}

// GetPostBySlug retrieves a single published post. Unpublished posts are
// invisible to the public and read as not found.
func (srv *blogService) GetPostBySlug(ctx context.Context, slug string) (*entity.BlogPost, error) {
	post, err := srv.blogRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, errors.Wrap(domainerrors.ErrPostNotFound, "post not found")
		}

		return nil, errors.Wrap(err, "failed to find post")
	}

	if !post.IsPublished {
		return nil, errors.Wrap(domainerrors.ErrPostNotFound, "post not found")
	}

	return post, nil
}

// ListPublishedPosts retrieves all published posts, newest first.
func (srv *blogService) ListPublishedPosts(ctx context.Context) ([]*entity.BlogPost, error) {
	posts, err := srv.blogRepo.ListPublished(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list posts", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list posts")
	}

	return posts, nil
}
