// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer rating of a product. Each user may review a given
// product at most once; a second submission is rejected as a conflict.
type Review struct {
	ID        uuid.UUID // The unique identifier of the review.
	ProductID uuid.UUID // The reviewed product.
	UserID    uuid.UUID // The authoring user.
	Rating    int       // Star rating, 1 to 5 inclusive.
	Comment   string    // Optional free-form comment.
	CreatedAt time.Time // Timestamp of when the review was written.
	UpdatedAt time.Time // Timestamp of the last edit.
}

// ReviewSummary aggregates ratings for a product.
type ReviewSummary struct {
	ProductID     uuid.UUID // The summarized product.
	ReviewCount   int       // Number of reviews.
	AverageRating float64   // Mean rating; 0 when there are no reviews.
}
