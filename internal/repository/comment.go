package repository

import (
	"context"

	"wayfare/internal/domain"
)

// CommentRepository manages comment rows and their like relation.
// Deletion is logical; MarkDeleted flags the row and listings skip it.
type CommentRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, comment *domain.Comment) error
	Get(ctx context.Context, id string) (*domain.Comment, error)
	ListByArticle(ctx context.Context, articleID string) ([]domain.Comment, error)
	UpdateContent(ctx context.Context, id, content string) error
	MarkDeleted(ctx context.Context, id string) error

	// Like and Unlike are idempotent, mirroring article saves.
	Like(ctx context.Context, commentID, userID string) error
	Unlike(ctx context.Context, commentID, userID string) error
}
