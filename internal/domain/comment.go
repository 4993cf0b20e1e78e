package domain

import "time"

// Comment is a remark on an article. ParentID is set for replies to
// another comment. Deletion is logical: IsDeleted rows are retained but
// never listed.
type Comment struct {
	ID        string
	ArticleID string
	AuthorID  string
	Author    AuthorInfo
	ParentID  string
	Content   string
	Likes     []string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
