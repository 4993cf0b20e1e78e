package service

import (
	"context"
	"path/filepath"
	"testing"

	"wayfare/internal/domain"
	"wayfare/internal/repository"
	"wayfare/internal/repository/sqlite"
)

type testEnv struct {
	users    UserService
	articles ArticleService
	comments CommentService

	userRepo    repository.UserRepository
	articleRepo repository.ArticleRepository
	commentRepo repository.CommentRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	userRepo := sqlite.NewUserRepository(db)
	articleRepo := sqlite.NewArticleRepository(db)
	commentRepo := sqlite.NewCommentRepository(db)
	for _, init := range []func(context.Context) error{userRepo.Init, articleRepo.Init, commentRepo.Init} {
		if err := init(ctx); err != nil {
			t.Fatalf("init repo: %v", err)
		}
	}

	return &testEnv{
		users:       NewUserService(userRepo),
		articles:    NewArticleService(articleRepo, userRepo),
		comments:    NewCommentService(commentRepo, articleRepo),
		userRepo:    userRepo,
		articleRepo: articleRepo,
		commentRepo: commentRepo,
	}
}

func (e *testEnv) registerUser(t *testing.T, username, email string) *domain.User {
	t.Helper()
	user, err := e.users.Register(context.Background(), username, email, "password123")
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

func (e *testEnv) seedAdmin(t *testing.T) *domain.User {
	t.Helper()
	ctx := context.Background()
	if err := e.users.EnsureAdmin(ctx, "admin", "admin@example.com", "adminpassword", "Administrator"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	admin, err := e.users.Authenticate(ctx, "admin@example.com", "adminpassword")
	if err != nil {
		t.Fatalf("authenticate admin: %v", err)
	}
	return admin
}

func (e *testEnv) createArticle(t *testing.T, authorID, title, category string) *domain.Article {
	t.Helper()
	article, err := e.articles.Create(context.Background(), authorID, ArticleInput{
		Title:    title,
		Content:  "some content",
		Category: category,
		Image:    "image-ref",
	})
	if err != nil {
		t.Fatalf("create article %q: %v", title, err)
	}
	return article
}
