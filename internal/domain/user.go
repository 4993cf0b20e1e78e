package domain

import "time"

// User represents a registered account, including its credential hash.
// Handlers must never serialize PasswordHash directly; responses go
// through the projection types below.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	ProfileImage string
	UserTitle    string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthorInfo is the public projection of a user joined onto articles and
// comments. It never carries credentials.
type AuthorInfo struct {
	ID           string
	Username     string
	UserTitle    string
	ProfileImage string
}

// DeletedAuthor stands in for authors whose account no longer exists, so
// joins degrade to a placeholder instead of a dangling reference.
func DeletedAuthor(id string) AuthorInfo {
	return AuthorInfo{ID: id, Username: "deleted user"}
}
