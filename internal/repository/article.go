package repository

import (
	"context"

	"wayfare/internal/domain"
)

// ArticleRepository exposes persistence operations for Article aggregates.
// Loaded articles carry the author projection and saver-set.
type ArticleRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, article *domain.Article) error
	Get(ctx context.Context, id string) (*domain.Article, error)
	List(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error)
	ListSavedBy(ctx context.Context, userID string) ([]domain.Article, error)
	Update(ctx context.Context, article *domain.Article) error
	Delete(ctx context.Context, id string) error

	// Save and Unsave maintain the save relation. Both are idempotent:
	// saving an already-saved article and unsaving a never-saved one are
	// no-ops.
	Save(ctx context.Context, articleID, userID string) error
	Unsave(ctx context.Context, articleID, userID string) error
}
