package service

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"wayfare/internal/auth"
	"wayfare/internal/domain"
	"wayfare/internal/repository"
)

// ArticleInput holds the author-supplied fields for a new article.
type ArticleInput struct {
	Title    string
	Content  string
	Category string
	Image    string
	Location *domain.Location
}

// ArticleService coordinates article operations and their ownership
// gates. Existence is always checked before ownership so missing
// resources report not-found rather than forbidden.
type ArticleService interface {
	Create(ctx context.Context, authorID string, input ArticleInput) (*domain.Article, error)
	Get(ctx context.Context, id string) (*domain.Article, error)
	List(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error)
	ListSaved(ctx context.Context, userID string) ([]domain.Article, error)
	Update(ctx context.Context, caller *auth.Claims, id string, patch domain.ArticlePatch) (*domain.Article, error)
	Delete(ctx context.Context, caller *auth.Claims, id string) error
	Save(ctx context.Context, caller *auth.Claims, id string) error
	Unsave(ctx context.Context, caller *auth.Claims, id string) error
}

type articleService struct {
	articles repository.ArticleRepository
	users    repository.UserRepository
}

func NewArticleService(articles repository.ArticleRepository, users repository.UserRepository) ArticleService {
	return &articleService{articles: articles, users: users}
}

func (s *articleService) Create(ctx context.Context, authorID string, input ArticleInput) (*domain.Article, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	if err := validateArticleFields(input.Title, input.Content, input.Category, input.Image); err != nil {
		return nil, err
	}

	// Author must resolve at creation time.
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.AuthenticationError("account no longer exists")
		}
		return nil, err
	}

	article := &domain.Article{
		ID:       uuid.NewString(),
		Title:    input.Title,
		Content:  input.Content,
		Category: domain.Category(input.Category),
		Image:    input.Image,
		Location: normalizeLocation(input.Location),
		AuthorID: authorID,
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}
	return s.articles.Get(ctx, article.ID)
}

func (s *articleService) Get(ctx context.Context, id string) (*domain.Article, error) {
	return s.articles.Get(ctx, id)
}

func (s *articleService) List(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error) {
	if filter.Category != "" && !domain.ValidCategory(filter.Category) {
		return nil, 0, domain.ValidationError("invalid category")
	}
	filter.Page, filter.Limit = clampPage(filter.Page, filter.Limit, 6)
	return s.articles.List(ctx, filter)
}

func (s *articleService) ListSaved(ctx context.Context, userID string) ([]domain.Article, error) {
	return s.articles.ListSavedBy(ctx, userID)
}

// Update applies the patch and re-validates the merged fields with the
// same rules as creation, so a partial update cannot smuggle in an
// invalid category or blank out required fields.
func (s *articleService) Update(ctx context.Context, caller *auth.Claims, id string, patch domain.ArticlePatch) (*domain.Article, error) {
	article, err := s.articles.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanMutate(caller, article.AuthorID) {
		return nil, domain.AuthorizationError("not authorized")
	}

	if patch.Title != nil {
		article.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Content != nil {
		article.Content = strings.TrimSpace(*patch.Content)
	}
	if patch.Category != nil {
		article.Category = domain.Category(*patch.Category)
	}
	if patch.Image != nil {
		article.Image = *patch.Image
	}
	if patch.Location != nil {
		article.Location = normalizeLocation(patch.Location)
	}

	if err := validateArticleFields(article.Title, article.Content, string(article.Category), article.Image); err != nil {
		return nil, err
	}

	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}
	return s.articles.Get(ctx, id)
}

func (s *articleService) Delete(ctx context.Context, caller *auth.Claims, id string) error {
	article, err := s.articles.Get(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanMutate(caller, article.AuthorID) {
		return domain.AuthorizationError("not authorized")
	}
	return s.articles.Delete(ctx, id)
}

func (s *articleService) Save(ctx context.Context, caller *auth.Claims, id string) error {
	if !auth.CanSave(caller) {
		return domain.AuthenticationError("no token, authorization denied")
	}
	if _, err := s.articles.Get(ctx, id); err != nil {
		return err
	}
	return s.articles.Save(ctx, id, caller.UserID)
}

func (s *articleService) Unsave(ctx context.Context, caller *auth.Claims, id string) error {
	if !auth.CanSave(caller) {
		return domain.AuthenticationError("no token, authorization denied")
	}
	if _, err := s.articles.Get(ctx, id); err != nil {
		return err
	}
	return s.articles.Unsave(ctx, id, caller.UserID)
}

// validateArticleFields is shared by create and update so both paths
// enforce the same rules.
func validateArticleFields(title, content, category, image string) error {
	err := validation.Errors{
		"title":    validation.Validate(title, validation.Required),
		"content":  validation.Validate(content, validation.Required),
		"category": validation.Validate(category, validation.Required),
		"image":    validation.Validate(image, validation.Required),
	}.Filter()
	if err != nil {
		return domain.ValidationError("%v", err)
	}
	if !domain.ValidCategory(category) {
		return domain.ValidationError("invalid category")
	}
	return nil
}

func normalizeLocation(loc *domain.Location) domain.Location {
	if loc == nil {
		return domain.Location{Name: domain.UnknownLocation}
	}
	normalized := *loc
	if strings.TrimSpace(normalized.Name) == "" {
		normalized.Name = domain.UnknownLocation
	}
	return normalized
}
