package repository

import (
	"context"

	"wayfare/internal/domain"
)

// UserRepository defines persistence operations for User entities.
// Implementations return domain-classified errors so callers can map
// them without inspecting driver details.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context, page, limit int) ([]domain.User, int, error)
	Delete(ctx context.Context, id string) error
}
