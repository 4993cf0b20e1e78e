package http

import (
	"time"

	"wayfare/internal/auth"
	"wayfare/internal/domain"
)

// pageResponse is the uniform pagination envelope.
type pageResponse struct {
	Items       any `json:"items"`
	Total       int `json:"total"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

func newPageResponse(items any, total, page, limit int) pageResponse {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return pageResponse{
		Items:       items,
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
	}
}

type AuthorResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	UserTitle    string `json:"userTitle"`
	ProfileImage string `json:"profileImage"`
}

type UserResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
	UserTitle    string `json:"userTitle"`
	IsAdmin      bool   `json:"isAdmin"`
	CreatedAt    string `json:"createdAt"`
}

type LocationResponse struct {
	Name    string   `json:"name"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
	PlaceID string   `json:"placeId,omitempty"`
}

type ArticleResponse struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Content   string           `json:"content"`
	Category  string           `json:"category"`
	Image     string           `json:"image"`
	Location  LocationResponse `json:"location"`
	Author    AuthorResponse   `json:"author"`
	SavedBy   []string         `json:"savedBy"`
	SaveCount int              `json:"saveCount"`
	CanEdit   bool             `json:"canEdit"`
	CreatedAt string           `json:"createdAt"`
	UpdatedAt string           `json:"updatedAt"`
}

type CommentResponse struct {
	ID        string         `json:"id"`
	ArticleID string         `json:"articleId"`
	ParentID  string         `json:"parentCommentId,omitempty"`
	Content   string         `json:"content"`
	Author    AuthorResponse `json:"author"`
	Likes     []string       `json:"likes"`
	LikeCount int            `json:"likeCount"`
	LikedByMe bool           `json:"likedByMe"`
	CanEdit   bool           `json:"canEdit"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
}

func authorToResponse(a domain.AuthorInfo) AuthorResponse {
	return AuthorResponse{
		ID:           a.ID,
		Username:     a.Username,
		UserTitle:    a.UserTitle,
		ProfileImage: a.ProfileImage,
	}
}

func userToResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
		UserTitle:    u.UserTitle,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
	}
}

// articleToResponse shapes an article for the given caller, embedding the
// canEdit decoration so clients can decide whether to show edit controls.
func articleToResponse(article domain.Article, caller *auth.Claims) ArticleResponse {
	savedBy := article.SavedBy
	if savedBy == nil {
		savedBy = []string{}
	}
	return ArticleResponse{
		ID:       article.ID,
		Title:    article.Title,
		Content:  article.Content,
		Category: string(article.Category),
		Image:    article.Image,
		Location: LocationResponse{
			Name:    article.Location.Name,
			Lat:     article.Location.Lat,
			Lng:     article.Location.Lng,
			PlaceID: article.Location.PlaceID,
		},
		Author:    authorToResponse(article.Author),
		SavedBy:   savedBy,
		SaveCount: len(savedBy),
		CanEdit:   auth.CanEdit(caller, article.AuthorID),
		CreatedAt: article.CreatedAt.Format(time.RFC3339),
		UpdatedAt: article.UpdatedAt.Format(time.RFC3339),
	}
}

func articlesToResponse(articles []domain.Article, caller *auth.Claims) []ArticleResponse {
	resp := make([]ArticleResponse, len(articles))
	for i := range articles {
		resp[i] = articleToResponse(articles[i], caller)
	}
	return resp
}

func commentToResponse(comment domain.Comment, caller *auth.Claims) CommentResponse {
	likes := comment.Likes
	if likes == nil {
		likes = []string{}
	}
	likedByMe := false
	if caller != nil {
		for _, id := range likes {
			if id == caller.UserID {
				likedByMe = true
				break
			}
		}
	}
	return CommentResponse{
		ID:        comment.ID,
		ArticleID: comment.ArticleID,
		ParentID:  comment.ParentID,
		Content:   comment.Content,
		Author:    authorToResponse(comment.Author),
		Likes:     likes,
		LikeCount: len(likes),
		LikedByMe: likedByMe,
		CanEdit:   auth.CanEdit(caller, comment.AuthorID),
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
		UpdatedAt: comment.UpdatedAt.Format(time.RFC3339),
	}
}
