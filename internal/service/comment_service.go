package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"wayfare/internal/auth"
	"wayfare/internal/domain"
	"wayfare/internal/repository"
)

// CommentService coordinates comment operations. Deletes are logical;
// flagged rows never reappear in listings.
type CommentService interface {
	ListByArticle(ctx context.Context, articleID string) ([]domain.Comment, error)
	Create(ctx context.Context, authorID, articleID, content, parentID string) (*domain.Comment, error)
	Update(ctx context.Context, caller *auth.Claims, id, content string) (*domain.Comment, error)
	Delete(ctx context.Context, caller *auth.Claims, id string) error
	Like(ctx context.Context, caller *auth.Claims, id string) error
	Unlike(ctx context.Context, caller *auth.Claims, id string) error
}

type commentService struct {
	comments repository.CommentRepository
	articles repository.ArticleRepository
}

func NewCommentService(comments repository.CommentRepository, articles repository.ArticleRepository) CommentService {
	return &commentService{comments: comments, articles: articles}
}

func (s *commentService) ListByArticle(ctx context.Context, articleID string) ([]domain.Comment, error) {
	if _, err := s.articles.Get(ctx, articleID); err != nil {
		return nil, err
	}
	return s.comments.ListByArticle(ctx, articleID)
}

func (s *commentService) Create(ctx context.Context, authorID, articleID, content, parentID string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ValidationError("content cannot be blank")
	}

	if _, err := s.articles.Get(ctx, articleID); err != nil {
		return nil, err
	}

	if parentID != "" {
		parent, err := s.comments.Get(ctx, parentID)
		if err != nil {
			return nil, err
		}
		if parent.ArticleID != articleID {
			return nil, domain.ValidationError("parent comment belongs to a different article")
		}
	}

	comment := &domain.Comment{
		ID:        uuid.NewString(),
		ArticleID: articleID,
		AuthorID:  authorID,
		ParentID:  parentID,
		Content:   content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.comments.Get(ctx, comment.ID)
}

// Update enforces the same non-blank rule as Create.
func (s *commentService) Update(ctx context.Context, caller *auth.Claims, id, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ValidationError("content cannot be blank")
	}

	comment, err := s.comments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanMutate(caller, comment.AuthorID) {
		return nil, domain.AuthorizationError("not authorized to update this comment")
	}

	if err := s.comments.UpdateContent(ctx, id, content); err != nil {
		return nil, err
	}
	return s.comments.Get(ctx, id)
}

func (s *commentService) Delete(ctx context.Context, caller *auth.Claims, id string) error {
	comment, err := s.comments.Get(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanMutate(caller, comment.AuthorID) {
		return domain.AuthorizationError("not authorized to delete this comment")
	}
	return s.comments.MarkDeleted(ctx, id)
}

func (s *commentService) Like(ctx context.Context, caller *auth.Claims, id string) error {
	if !auth.CanSave(caller) {
		return domain.AuthenticationError("no token, authorization denied")
	}
	if _, err := s.comments.Get(ctx, id); err != nil {
		return err
	}
	return s.comments.Like(ctx, id, caller.UserID)
}

func (s *commentService) Unlike(ctx context.Context, caller *auth.Claims, id string) error {
	if !auth.CanSave(caller) {
		return domain.AuthenticationError("no token, authorization denied")
	}
	if _, err := s.comments.Get(ctx, id); err != nil {
		return err
	}
	return s.comments.Unlike(ctx, id, caller.UserID)
}
