package impl

import (
	"context"
	"testing"

	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlogTestService(factory *fakeRepoFactory) usecase.BlogUsecase {
	return NewBlogService(BlogServiceParams{
		BlogRepo: factory.posts,
		Logger:   newDiscardLogger(),
	})
}

func TestBlogService_CreatePost(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newBlogTestService(factory)
	author := seedUser(t, factory, "author@example.com")

	post, err := svc.CreatePost(context.Background(), usecase.CreatePostInput{
		Slug:        "summer-lookbook",
		Title:       "Summer Lookbook",
		Body:        "What we are wearing this season.",
		AuthorID:    author.ID,
		IsPublished: true,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, post.ID)
	assert.Equal(t, "summer-lookbook", post.Slug)
}

func TestBlogService_CreatePost_Validation(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newBlogTestService(factory)

	_, err := svc.CreatePost(context.Background(), usecase.CreatePostInput{Title: "No slug"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = svc.CreatePost(context.Background(), usecase.CreatePostInput{Slug: "no-title"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestBlogService_CreatePost_SlugConflict(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newBlogTestService(factory)

	_, err := svc.CreatePost(context.Background(), usecase.CreatePostInput{Slug: "launch", Title: "Launch"})
	require.NoError(t, err)

	_, err = svc.CreatePost(context.Background(), usecase.CreatePostInput{Slug: "launch", Title: "Launch again"})
	assert.ErrorIs(t, err, domainerrors.ErrPostSlugConflict)
}

func TestBlogService_UpdatePost(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newBlogTestService(factory)

	_, err := svc.CreatePost(context.Background(), usecase.CreatePostInput{Slug: "launch", Title: "Launch", IsPublished: false})
	require.NoError(t, err)

	post, err := svc.UpdatePost(context.Background(), usecase.UpdatePostInput{
		Slug:        "launch",
		Title:       "Launch, revised",
		Body:        "Now with details.",
		IsPublished: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "Launch, revised", post.Title)
	assert.True(t, post.IsPublished)

	_, err = svc.UpdatePost(context.Background(), usecase.UpdatePostInput{Slug: "missing", Title: "X"})
	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)
}

func TestBlogService_GetPostBySlug_HidesUnpublished(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newBlogTestService(factory)

	_, err := svc.CreatePost(context.Background(), usecase.CreatePostInput{Slug: "draft", Title: "Draft", IsPublished: false})
	require.NoError(t, err)
	_, err = svc.CreatePost(context.Background(), usecase.CreatePostInput{Slug: "live", Title: "Live", IsPublished: true})
	require.NoError(t, err)

	post, err := svc.GetPostBySlug(context.Background(), "live")
	require.NoError(t, err)
	assert.Equal(t, "Live", post.Title)

	_, err = svc.GetPostBySlug(context.Background(), "draft")
	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)

	_, err = svc.GetPostBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)
}

func TestBlogService_ListPublishedPosts(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newBlogTestService(factory)

	_, err := svc.CreatePost(context.Background(), usecase.CreatePostInput{Slug: "draft", Title: "Draft", IsPublished: false})
	require.NoError(t, err)
	_, err = svc.CreatePost(context.Background(), usecase.CreatePostInput{Slug: "live", Title: "Live", IsPublished: true})
	require.NoError(t, err)

	posts, err := svc.ListPublishedPosts(context.Background())

	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "live", posts[0].Slug)
}
