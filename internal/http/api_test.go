package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"wayfare/internal/auth"
	"wayfare/internal/repository/sqlite"
	"wayfare/internal/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
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

	users := service.NewUserService(userRepo)
	articles := service.NewArticleService(articleRepo, userRepo)
	comments := service.NewCommentService(commentRepo, articleRepo)

	if err := users.EnsureAdmin(ctx, "admin", "admin@example.com", "adminpassword", "Administrator"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tokens := auth.NewTokenService("test-secret", time.Hour)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())
	NewHandler(users, articles, comments, tokens, logger, false).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func registerAndLogin(t *testing.T, router *gin.Engine, username, email string) (token, id string) {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/users/register", "", gin.H{
		"username": username, "email": email, "password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: code %d body %s", username, w.Code, w.Body.String())
	}
	return login(t, router, email, "password123")
}

func login(t *testing.T, router *gin.Engine, email, password string) (token, id string) {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/users/login", "", gin.H{
		"email": email, "password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: code %d body %s", email, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		ID    string `json:"id"`
	}
	decode(t, w, &resp)
	return resp.Token, resp.ID
}

func createArticle(t *testing.T, router *gin.Engine, token, title, category string) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/articles", token, gin.H{
		"title": title, "content": "some content", "category": category, "image": "img-1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create article: code %d body %s", w.Code, w.Body.String())
	}
	var resp ArticleResponse
	decode(t, w, &resp)
	return resp.ID
}

func TestEndToEndCanEdit(t *testing.T) {
	router := newTestRouter(t)

	tokenX, _ := registerAndLogin(t, router, "xavier", "x@example.com")
	articleID := createArticle(t, router, tokenX, "A culture piece", "culture")

	// anonymous read: visible, canEdit false
	w := doJSON(t, router, http.MethodGet, "/api/articles/"+articleID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("anonymous get: code %d", w.Code)
	}
	var got ArticleResponse
	decode(t, w, &got)
	if got.CanEdit {
		t.Error("anonymous caller got canEdit=true")
	}
	if got.Title != "A culture piece" || got.Category != "culture" {
		t.Errorf("round trip lost fields: %+v", got)
	}

	// author read: canEdit true
	w = doJSON(t, router, http.MethodGet, "/api/articles/"+articleID, tokenX, nil)
	decode(t, w, &got)
	if !got.CanEdit {
		t.Error("author got canEdit=false")
	}

	// different member: canEdit false
	tokenY, _ := registerAndLogin(t, router, "yvonne", "y@example.com")
	w = doJSON(t, router, http.MethodGet, "/api/articles/"+articleID, tokenY, nil)
	decode(t, w, &got)
	if got.CanEdit {
		t.Error("other member got canEdit=true")
	}

	// admin: canEdit true
	adminToken, _ := login(t, router, "admin@example.com", "adminpassword")
	w = doJSON(t, router, http.MethodGet, "/api/articles/"+articleID, adminToken, nil)
	decode(t, w, &got)
	if !got.CanEdit {
		t.Error("admin got canEdit=false")
	}
}

func TestAuthRequiredOnMutations(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/articles", "", gin.H{
		"title": "t", "content": "c", "category": "culture", "image": "i",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("create without token: code %d, want 401", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/users/profile", "garbage-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("profile with garbage bearer value: code %d, want 401", w.Code)
	}
}

func TestOwnershipEnforcedOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	tokenX, _ := registerAndLogin(t, router, "xavier", "x@example.com")
	tokenY, _ := registerAndLogin(t, router, "yvonne", "y@example.com")
	articleID := createArticle(t, router, tokenX, "mine", "adventure")

	w := doJSON(t, router, http.MethodPut, "/api/articles/"+articleID, tokenY, gin.H{"title": "hijacked"})
	if w.Code != http.StatusForbidden {
		t.Errorf("other member update: code %d, want 403", w.Code)
	}
	w = doJSON(t, router, http.MethodDelete, "/api/articles/"+articleID, tokenY, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("other member delete: code %d, want 403", w.Code)
	}

	// missing resource reports 404 before any ownership verdict
	w = doJSON(t, router, http.MethodPut, "/api/articles/no-such-id", tokenY, gin.H{"title": "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("update missing: code %d, want 404", w.Code)
	}

	adminToken, _ := login(t, router, "admin@example.com", "adminpassword")
	w = doJSON(t, router, http.MethodDelete, "/api/articles/"+articleID, adminToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("admin delete: code %d body %s", w.Code, w.Body.String())
	}
}

func TestAdminUserManagement(t *testing.T) {
	router := newTestRouter(t)

	memberToken, memberID := registerAndLogin(t, router, "mallory", "m@example.com")
	adminToken, adminID := login(t, router, "admin@example.com", "adminpassword")

	// member cannot list users
	w := doJSON(t, router, http.MethodGet, "/api/users/all", memberToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("member list users: code %d, want 403", w.Code)
	}

	// admin listing is paginated and never leaks credentials
	w = doJSON(t, router, http.MethodGet, "/api/users/all?page=1&limit=10", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin list users: code %d", w.Code)
	}
	var page struct {
		Items       []map[string]any `json:"items"`
		Total       int              `json:"total"`
		CurrentPage int              `json:"currentPage"`
		TotalPages  int              `json:"totalPages"`
	}
	decode(t, w, &page)
	if page.Total != 2 || page.CurrentPage != 1 || page.TotalPages != 1 {
		t.Errorf("pagination envelope = %+v", page)
	}
	for _, item := range page.Items {
		for _, key := range []string{"password", "passwordHash", "password_hash"} {
			if _, ok := item[key]; ok {
				t.Errorf("user listing leaks %q", key)
			}
		}
	}

	// admin accounts are protected from deletion
	w = doJSON(t, router, http.MethodDelete, "/api/users/"+adminID, adminToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("delete admin target: code %d, want 403", w.Code)
	}

	// member cannot delete users
	w = doJSON(t, router, http.MethodDelete, "/api/users/"+adminID, memberToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("member delete: code %d, want 403", w.Code)
	}

	// admin deletes the member
	w = doJSON(t, router, http.MethodDelete, "/api/users/"+memberID, adminToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("admin delete member: code %d body %s", w.Code, w.Body.String())
	}
}

func TestRegisterValidationOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body gin.H
		want int
	}{
		{name: "short password", body: gin.H{"username": "a", "email": "a@b.co", "password": "short12"}, want: http.StatusBadRequest},
		{name: "bad email", body: gin.H{"username": "a", "email": "not-an-email", "password": "password123"}, want: http.StatusBadRequest},
		{name: "valid", body: gin.H{"username": "a", "email": "a@b.co", "password": "short123"}, want: http.StatusCreated},
		{name: "duplicate email", body: gin.H{"username": "b", "email": "a@b.co", "password": "password123"}, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := doJSON(t, router, http.MethodPost, "/api/users/register", "", tt.body)
		if w.Code != tt.want {
			t.Errorf("%s: code %d, want %d (body %s)", tt.name, w.Code, tt.want, w.Body.String())
		}
	}
}

func TestArticleListingFilterAndEnvelope(t *testing.T) {
	router := newTestRouter(t)
	token, _ := registerAndLogin(t, router, "alice", "alice@example.com")

	createArticle(t, router, token, "trek", "adventure")
	time.Sleep(5 * time.Millisecond)
	createArticle(t, router, token, "museum", "culture")

	w := doJSON(t, router, http.MethodGet, "/api/articles?category=adventure", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: code %d", w.Code)
	}
	var page struct {
		Items      []ArticleResponse `json:"items"`
		Total      int               `json:"total"`
		TotalPages int               `json:"totalPages"`
	}
	decode(t, w, &page)
	if page.Total != 1 || len(page.Items) != 1 || page.Items[0].Title != "trek" {
		t.Errorf("filtered page = %+v", page)
	}
}

func TestCommentFlowOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	tokenX, _ := registerAndLogin(t, router, "xavier", "x@example.com")
	tokenY, _ := registerAndLogin(t, router, "yvonne", "y@example.com")
	articleID := createArticle(t, router, tokenX, "discussed", "food-cafe")

	// creation response is always editable by its author
	w := doJSON(t, router, http.MethodPost, "/api/comments/article/"+articleID, tokenY, gin.H{"content": "lovely cafe"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create comment: code %d body %s", w.Code, w.Body.String())
	}
	var comment CommentResponse
	decode(t, w, &comment)
	if !comment.CanEdit {
		t.Error("creation response must have canEdit=true for its author")
	}

	// blank content rejected
	w = doJSON(t, router, http.MethodPost, "/api/comments/article/"+articleID, tokenY, gin.H{"content": "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank comment: code %d, want 400", w.Code)
	}

	// non-author cannot edit, article author included
	w = doJSON(t, router, http.MethodPut, "/api/comments/"+comment.ID, tokenX, gin.H{"content": "hijacked"})
	if w.Code != http.StatusForbidden {
		t.Errorf("article author editing another's comment: code %d, want 403", w.Code)
	}

	// like twice, still one like
	for i := 0; i < 2; i++ {
		w = doJSON(t, router, http.MethodPost, "/api/comments/"+comment.ID+"/like", tokenX, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("like: code %d", w.Code)
		}
	}
	w = doJSON(t, router, http.MethodGet, "/api/comments/article/"+articleID, tokenX, nil)
	var listed []CommentResponse
	decode(t, w, &listed)
	if len(listed) != 1 || listed[0].LikeCount != 1 || !listed[0].LikedByMe {
		t.Errorf("listing after likes = %+v", listed)
	}

	// soft delete hides the comment from listings
	w = doJSON(t, router, http.MethodDelete, "/api/comments/"+comment.ID, tokenY, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete comment: code %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/api/comments/article/"+articleID, "", nil)
	listed = nil
	decode(t, w, &listed)
	if len(listed) != 0 {
		t.Errorf("deleted comment reappeared: %+v", listed)
	}
}

func TestSaveFlowOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	tokenX, _ := registerAndLogin(t, router, "xavier", "x@example.com")
	tokenY, yID := registerAndLogin(t, router, "yvonne", "y@example.com")
	articleID := createArticle(t, router, tokenX, "keeper", "culture")

	for i := 0; i < 2; i++ {
		w := doJSON(t, router, http.MethodPost, "/api/articles/"+articleID+"/save", tokenY, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("save: code %d", w.Code)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/api/users/saved", tokenY, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("saved list: code %d", w.Code)
	}
	var saved []ArticleResponse
	decode(t, w, &saved)
	if len(saved) != 1 || saved[0].ID != articleID {
		t.Errorf("saved list = %+v", saved)
	}
	if saved[0].SaveCount != 1 || saved[0].SavedBy[0] != yID {
		t.Errorf("saver-set = %+v", saved[0])
	}

	w = doJSON(t, router, http.MethodDelete, "/api/articles/"+articleID+"/save", tokenY, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unsave: code %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/api/users/saved", tokenY, nil)
	saved = nil
	decode(t, w, &saved)
	if len(saved) != 0 {
		t.Errorf("saved list after unsave = %+v", saved)
	}

	// anonymous save rejected
	w = doJSON(t, router, http.MethodPost, "/api/articles/"+articleID+"/save", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous save: code %d, want 401", w.Code)
	}
}

func TestProfileUpdateOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token, _ := registerAndLogin(t, router, "alice", "alice@example.com")

	w := doJSON(t, router, http.MethodPut, "/api/users/profile", token, gin.H{"userTitle": "Explorer"})
	if w.Code != http.StatusOK {
		t.Fatalf("update profile: code %d body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/users/profile", token, nil)
	var profile UserResponse
	decode(t, w, &profile)
	if profile.UserTitle != "Explorer" {
		t.Errorf("user title = %q", profile.UserTitle)
	}
	if profile.Username != "alice" {
		t.Errorf("username = %q", profile.Username)
	}
}
