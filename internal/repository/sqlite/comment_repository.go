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
	createCommentsTable = `
CREATE TABLE IF NOT EXISTS comments (
	id TEXT PRIMARY KEY,
	article_id TEXT NOT NULL,
	author_id TEXT NOT NULL,
	parent_id TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL,
	is_deleted INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`
	createCommentLikesTable = `
CREATE TABLE IF NOT EXISTS comment_likes (
	comment_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	PRIMARY KEY (comment_id, user_id)
);
`
)

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) repository.CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createCommentsTable); err != nil {
		return fmt.Errorf("create comments table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createCommentLikesTable); err != nil {
		return fmt.Errorf("create comment_likes table: %w", err)
	}
	return nil
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO comments (id, article_id, author_id, parent_id, content, is_deleted, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		comment.ID,
		comment.ArticleID,
		comment.AuthorID,
		comment.ParentID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return domain.InternalError(fmt.Errorf("insert comment: %w", err))
	}
	return nil
}

func (r *CommentRepository) Get(ctx context.Context, id string) (*domain.Comment, error) {
	row := r.db.QueryRowContext(ctx, selectComment+`WHERE c.id = ? AND c.is_deleted = 0`, id)
	comment, err := scanComment(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadLikes(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (r *CommentRepository) ListByArticle(ctx context.Context, articleID string) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		selectComment+`
WHERE c.article_id = ? AND c.is_deleted = 0
ORDER BY c.created_at DESC, c.id`,
		articleID,
	)
	if err != nil {
		return nil, domain.InternalError(fmt.Errorf("list comments: %w", err))
	}
	defer rows.Close()

	comments := make([]domain.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *comment)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError(fmt.Errorf("iterate comments: %w", err))
	}

	for i := range comments {
		if err := r.loadLikes(ctx, &comments[i]); err != nil {
			return nil, err
		}
	}
	return comments, nil
}

func (r *CommentRepository) UpdateContent(ctx context.Context, id, content string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE comments SET content = ?, updated_at = ? WHERE id = ? AND is_deleted = 0`,
		content, time.Now().UTC(), id,
	)
	if err != nil {
		return domain.InternalError(fmt.Errorf("update comment: %w", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError("comment")
	}
	return nil
}

// MarkDeleted flags the row; it stays in the table but disappears from
// listings and lookups.
func (r *CommentRepository) MarkDeleted(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE comments SET is_deleted = 1, updated_at = ? WHERE id = ? AND is_deleted = 0`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return domain.InternalError(fmt.Errorf("delete comment: %w", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError("comment")
	}
	return nil
}

func (r *CommentRepository) Like(ctx context.Context, commentID, userID string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT OR IGNORE INTO comment_likes (comment_id, user_id, created_at)
VALUES (?, ?, ?)`,
		commentID, userID, time.Now().UTC(),
	)
	if err != nil {
		return domain.InternalError(fmt.Errorf("like comment: %w", err))
	}
	return nil
}

func (r *CommentRepository) Unlike(ctx context.Context, commentID, userID string) error {
	_, err := r.db.ExecContext(ctx, `
DELETE FROM comment_likes WHERE comment_id = ? AND user_id = ?`,
		commentID, userID,
	)
	if err != nil {
		return domain.InternalError(fmt.Errorf("unlike comment: %w", err))
	}
	return nil
}

func (r *CommentRepository) loadLikes(ctx context.Context, comment *domain.Comment) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM comment_likes WHERE comment_id = ? ORDER BY created_at`,
		comment.ID,
	)
	if err != nil {
		return domain.InternalError(fmt.Errorf("load comment likes: %w", err))
	}
	defer rows.Close()

	comment.Likes = make([]string, 0)
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return domain.InternalError(fmt.Errorf("scan comment like: %w", err))
		}
		comment.Likes = append(comment.Likes, userID)
	}
	if err := rows.Err(); err != nil {
		return domain.InternalError(fmt.Errorf("iterate comment likes: %w", err))
	}
	return nil
}

const selectComment = `
SELECT c.id, c.article_id, c.author_id, c.parent_id, c.content, c.is_deleted, c.created_at, c.updated_at,
	u.username, u.user_title, u.profile_image
FROM comments c
LEFT JOIN users u ON u.id = c.author_id
`

func scanComment(row interface {
	Scan(dest ...any) error
}) (*domain.Comment, error) {
	var (
		comment      domain.Comment
		username     sql.NullString
		userTitle    sql.NullString
		profileImage sql.NullString
	)
	if err := row.Scan(
		&comment.ID,
		&comment.ArticleID,
		&comment.AuthorID,
		&comment.ParentID,
		&comment.Content,
		&comment.IsDeleted,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&username,
		&userTitle,
		&profileImage,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError("comment")
		}
		return nil, domain.InternalError(fmt.Errorf("scan comment: %w", err))
	}
	if username.Valid {
		comment.Author = domain.AuthorInfo{
			ID:           comment.AuthorID,
			Username:     username.String,
			UserTitle:    userTitle.String,
			ProfileImage: profileImage.String,
		}
	} else {
		comment.Author = domain.DeletedAuthor(comment.AuthorID)
	}
	return &comment, nil
}
