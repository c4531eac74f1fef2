package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// BlogHandler holds dependencies for editorial content handlers.
type BlogHandler struct {
	uc     usecase.BlogUsecase
	logger *slog.Logger
}

// NewBlogHandler is the constructor for BlogHandler, injected by Fx.
func NewBlogHandler(uc usecase.BlogUsecase, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{
		uc:     uc,
		logger: logger,
	}
}

// CreatePost publishes a post under a unique slug, authored by the
// current user.
func (h *BlogHandler) CreatePost(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input usecase.CreatePostInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid post input")
	}
	input.AuthorID = userID

	post, err := h.uc.CreatePost(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, post, "Post created successfully")
}

// UpdatePost rewrites the post addressed by the slug.
func (h *BlogHandler) UpdatePost(c echo.Context) error {
	var input usecase.UpdatePostInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid post input")
	}
	input.Slug = c.Param("slug")

	post, err := h.uc.UpdatePost(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, post, "Post updated successfully")
}

// GetPostBySlug returns a single published post.
func (h *BlogHandler) GetPostBySlug(c echo.Context) error {
	post, err := h.uc.GetPostBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, post, "Post retrieved successfully")
}

// ListPublishedPosts returns all published posts, newest first.
func (h *BlogHandler) ListPublishedPosts(c echo.Context) error {
	posts, err := h.uc.ListPublishedPosts(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, posts, "Posts retrieved successfully")
}
