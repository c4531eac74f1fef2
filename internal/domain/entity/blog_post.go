// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost is an editorial article published alongside the store.
// Posts are addressed by slug; unpublished posts are only visible to merchants.
type BlogPost struct {
	ID          uuid.UUID // The unique identifier of the post.
	Slug        string    // URL-safe unique identifier, e.g. "summer-lookbook-2026".
	Title       string    // The post title.
	Body        string    // The post body, stored as-is (rendering is a client concern).
	AuthorID    uuid.UUID // The authoring merchant user.
	IsPublished bool      // Unpublished posts are hidden from the public listing.
	CreatedAt   time.Time // Timestamp of when the post was created.
	UpdatedAt   time.Time // Timestamp of the last edit.
}
