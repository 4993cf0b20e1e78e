package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wayfare/internal/domain"
	"wayfare/internal/repository"
)

const (
	createArticlesTable = `
CREATE TABLE IF NOT EXISTS articles (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	category TEXT NOT NULL,
	image TEXT NOT NULL,
	location_name TEXT NOT NULL DEFAULT '',
	location_lat REAL NULL,
	location_lng REAL NULL,
	location_place_id TEXT NOT NULL DEFAULT '',
	author_id TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`
	// Single join table is the sole source of truth for the save
	// relation; the article saver-set and the user saved-set are both
	// views over it, so the two sides can never diverge.
	createArticleSavesTable = `
CREATE TABLE IF NOT EXISTS article_saves (
	article_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	PRIMARY KEY (article_id, user_id)
);
`
)

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createArticlesTable); err != nil {
		return fmt.Errorf("create articles table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createArticleSavesTable); err != nil {
		return fmt.Errorf("create article_saves table: %w", err)
	}
	return nil
}

func (r *ArticleRepository) Create(ctx context.Context, article *domain.Article) error {
	now := time.Now().UTC()
	article.CreatedAt = now
	article.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO articles (id, title, content, category, image, location_name, location_lat, location_lng, location_place_id, author_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		article.ID,
		article.Title,
		article.Content,
		string(article.Category),
		article.Image,
		article.Location.Name,
		article.Location.Lat,
		article.Location.Lng,
		article.Location.PlaceID,
		article.AuthorID,
		article.CreatedAt,
		article.UpdatedAt,
	)
	if err != nil {
		return domain.InternalError(fmt.Errorf("insert article: %w", err))
	}
	return nil
}

func (r *ArticleRepository) Get(ctx context.Context, id string) (*domain.Article, error) {
	row := r.db.QueryRowContext(ctx, selectArticle+`WHERE a.id = ?`, id)
	article, err := scanArticle(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadSavers(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (r *ArticleRepository) List(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error) {
	where := ""
	var args []any
	if filter.Category != "" {
		where = `WHERE a.category = ?`
		args = append(args, filter.Category)
	}
	if filter.AuthorID != "" {
		if where == "" {
			where = `WHERE a.author_id = ?`
		} else {
			where += ` AND a.author_id = ?`
		}
		args = append(args, filter.AuthorID)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM articles a ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, domain.InternalError(fmt.Errorf("count articles: %w", err))
	}

	query := selectArticle + where + ` ORDER BY a.created_at DESC, a.id LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, domain.InternalError(fmt.Errorf("list articles: %w", err))
	}
	defer rows.Close()

	articles, err := collectArticles(rows)
	if err != nil {
		return nil, 0, err
	}
	for i := range articles {
		if err := r.loadSavers(ctx, &articles[i]); err != nil {
			return nil, 0, err
		}
	}
	return articles, total, nil
}

func (r *ArticleRepository) ListSavedBy(ctx context.Context, userID string) ([]domain.Article, error) {
	rows, err := r.db.QueryContext(ctx,
		selectArticle+`
JOIN article_saves s ON s.article_id = a.id
WHERE s.user_id = ?
ORDER BY s.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, domain.InternalError(fmt.Errorf("list saved articles: %w", err))
	}
	defer rows.Close()

	articles, err := collectArticles(rows)
	if err != nil {
		return nil, err
	}
	for i := range articles {
		if err := r.loadSavers(ctx, &articles[i]); err != nil {
			return nil, err
		}
	}
	return articles, nil
}

func (r *ArticleRepository) Update(ctx context.Context, article *domain.Article) error {
	article.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE articles
SET title = ?, content = ?, category = ?, image = ?, location_name = ?, location_lat = ?, location_lng = ?, location_place_id = ?, updated_at = ?
WHERE id = ?`,
		article.Title,
		article.Content,
		string(article.Category),
		article.Image,
		article.Location.Name,
		article.Location.Lat,
		article.Location.Lng,
		article.Location.PlaceID,
		article.UpdatedAt,
		article.ID,
	)
	if err != nil {
		return domain.InternalError(fmt.Errorf("update article: %w", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError("article")
	}
	return nil
}

// Delete removes the article and its save rows in one transaction.
// Comments are intentionally left in place; listings for a deleted
// article simply return nothing useful.
func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.InternalError(fmt.Errorf("begin delete article: %w", err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM article_saves WHERE article_id = ?`, id); err != nil {
		return domain.InternalError(fmt.Errorf("delete article saves: %w", err))
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return domain.InternalError(fmt.Errorf("delete article: %w", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError("article")
	}

	if err := tx.Commit(); err != nil {
		return domain.InternalError(fmt.Errorf("commit delete article: %w", err))
	}
	return nil
}

func (r *ArticleRepository) Save(ctx context.Context, articleID, userID string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT OR IGNORE INTO article_saves (article_id, user_id, created_at)
VALUES (?, ?, ?)`,
		articleID, userID, time.Now().UTC(),
	)
	if err != nil {
		return domain.InternalError(fmt.Errorf("save article: %w", err))
	}
	return nil
}

func (r *ArticleRepository) Unsave(ctx context.Context, articleID, userID string) error {
	_, err := r.db.ExecContext(ctx, `
DELETE FROM article_saves WHERE article_id = ? AND user_id = ?`,
		articleID, userID,
	)
	if err != nil {
		return domain.InternalError(fmt.Errorf("unsave article: %w", err))
	}
	return nil
}

func (r *ArticleRepository) loadSavers(ctx context.Context, article *domain.Article) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM article_saves WHERE article_id = ? ORDER BY created_at`,
		article.ID,
	)
	if err != nil {
		return domain.InternalError(fmt.Errorf("load savers: %w", err))
	}
	defer rows.Close()

	article.SavedBy = make([]string, 0)
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return domain.InternalError(fmt.Errorf("scan saver: %w", err))
		}
		article.SavedBy = append(article.SavedBy, userID)
	}
	if err := rows.Err(); err != nil {
		return domain.InternalError(fmt.Errorf("iterate savers: %w", err))
	}
	return nil
}

const selectArticle = `
SELECT a.id, a.title, a.content, a.category, a.image, a.location_name, a.location_lat, a.location_lng, a.location_place_id, a.author_id, a.created_at, a.updated_at,
	u.username, u.user_title, u.profile_image
FROM articles a
LEFT JOIN users u ON u.id = a.author_id
`

func scanArticle(row interface {
	Scan(dest ...any) error
}) (*domain.Article, error) {
	var (
		article      domain.Article
		category     string
		username     sql.NullString
		userTitle    sql.NullString
		profileImage sql.NullString
	)
	if err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&category,
		&article.Image,
		&article.Location.Name,
		&article.Location.Lat,
		&article.Location.Lng,
		&article.Location.PlaceID,
		&article.AuthorID,
		&article.CreatedAt,
		&article.UpdatedAt,
		&username,
		&userTitle,
		&profileImage,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError("article")
		}
		return nil, domain.InternalError(fmt.Errorf("scan article: %w", err))
	}
	article.Category = domain.Category(category)
	if username.Valid {
		article.Author = domain.AuthorInfo{
			ID:           article.AuthorID,
			Username:     username.String,
			UserTitle:    userTitle.String,
			ProfileImage: profileImage.String,
		}
	} else {
		article.Author = domain.DeletedAuthor(article.AuthorID)
	}
	return &article, nil
}

func collectArticles(rows *sql.Rows) ([]domain.Article, error) {
	articles := make([]domain.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *article)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError(fmt.Errorf("iterate articles: %w", err))
	}
	return articles, nil
}
