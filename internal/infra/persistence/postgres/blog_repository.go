// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// blogRepository implements the repository.BlogRepository interface.
type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository is the constructor for blogRepository.
func NewBlogRepository(db *gorm.DB) repository.BlogRepository {
	return &blogRepository{
		db: db,
	}
}

// Create persists a new post.
func (repo *blogRepository) Create(ctx context.Context, post *entity.BlogPost) error {
	postM := fromBlogPostDomain(post)

	if err := repo.db.WithContext(ctx).Create(postM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return repository.ErrPostSlugConflict
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "invalid author reference")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create blog post")
	}

	// Update the entity with generated values
	post.ID = postM.ID
	post.CreatedAt = postM.CreatedAt
	post.UpdatedAt = postM.UpdatedAt

	return nil
}

// Update modifies an existing post.
func (repo *blogRepository) Update(ctx context.Context, post *entity.BlogPost) error {
	result := repo.db.WithContext(ctx).
		Model(&model.BlogPostModel{}).
		Where("id = ?", post.ID).
		Updates(map[string]any{
			"slug":         post.Slug,
			"title":        post.Title,
			"body":         post.Body,
			"is_published": post.IsPublished,
		})

	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrPostSlugConflict
		}

		return errors.Wrap(result.Error, "failed to update blog post")
	}

	if result.RowsAffected == 0 {
		return repository.ErrPostNotFound
	}

	return nil
}

// FindBySlug retrieves a post by its slug, published or not.
func (repo *blogRepository) FindBySlug(ctx context.Context, slug string) (*entity.BlogPost, error) {
	var postM model.BlogPostModel

	if err := repo.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&postM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPostNotFound
		}

		return nil, errors.Wrap(err, "failed to find blog post by slug")
	}

	return toBlogPostDomain(&postM), nil
}

// ListPublished retrieves all published posts, newest first.
func (repo *blogRepository) ListPublished(ctx context.Context) ([]*entity.BlogPost, error) {
	var postModels []*model.BlogPostModel

	if err := repo.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("created_at DESC").
		Find(&postModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list published blog posts")
	}

	posts := make([]*entity.BlogPost, 0, len(postModels))
	for _, postM := range postModels {
		posts = append(posts, toBlogPostDomain(postM))
	}

	return posts, nil
}

// --- Mapper Functions ---

// toBlogPostDomain converts a GORM BlogPostModel to a domain BlogPost entity.
func toBlogPostDomain(data *model.BlogPostModel) *entity.BlogPost {
	if data == nil {
		return nil
	}

	return &entity.BlogPost{
		ID:          data.ID,
		Slug:        data.Slug,
		Title:       data.Title,
		Body:        data.Body,
		AuthorID:    data.AuthorID,
		IsPublished: data.IsPublished,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromBlogPostDomain converts a domain BlogPost entity to a GORM BlogPostModel.
func fromBlogPostDomain(data *entity.BlogPost) *model.BlogPostModel {
	if data == nil {
		return nil
	}

	return &model.BlogPostModel{
		ID:          data.ID,
		Slug:        data.Slug,
		Title:       data.Title,
		Body:        data.Body,
		AuthorID:    data.AuthorID,
		IsPublished: data.IsPublished,
	}
}
