package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wayfare/internal/domain"
	"wayfare/internal/service"
)

type locationPayload struct {
	Name    string   `json:"name"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	PlaceID string   `json:"placeId"`
}

func (p *locationPayload) toDomain() *domain.Location {
	if p == nil {
		return nil
	}
	return &domain.Location{
		Name:    p.Name,
		Lat:     p.Lat,
		Lng:     p.Lng,
		PlaceID: p.PlaceID,
	}
}

type createArticleRequest struct {
	Title    string           `json:"title"`
	Content  string           `json:"content"`
	Category string           `json:"category"`
	Image    string           `json:"image"`
	Location *locationPayload `json:"location"`
}

type updateArticleRequest struct {
	Title    *string          `json:"title"`
	Content  *string          `json:"content"`
	Category *string          `json:"category"`
	Image    *string          `json:"image"`
	Location *locationPayload `json:"location"`
}

func (h *Handler) listArticles(c *gin.Context) {
	caller := callerClaims(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 6
	}

	filter := domain.ArticleFilter{
		Category: c.Query("category"),
		AuthorID: c.Query("author"),
		Page:     page,
		Limit:    limit,
	}

	articles, total, err := h.articles.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageResponse(articlesToResponse(articles, caller), total, page, limit))
}

func (h *Handler) getArticle(c *gin.Context) {
	caller := callerClaims(c)
	article, err := h.articles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, articleToResponse(*article, caller))
}

func (h *Handler) createArticle(c *gin.Context) {
	caller := callerClaims(c)

	var req createArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	article, err := h.articles.Create(c.Request.Context(), caller.UserID, service.ArticleInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Image:    req.Image,
		Location: req.Location.toDomain(),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, articleToResponse(*article, caller))
}

func (h *Handler) updateArticle(c *gin.Context) {
	caller := callerClaims(c)

	var req updateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	article, err := h.articles.Update(c.Request.Context(), caller, c.Param("id"), domain.ArticlePatch{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Image:    req.Image,
		Location: req.Location.toDomain(),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, articleToResponse(*article, caller))
}

func (h *Handler) deleteArticle(c *gin.Context) {
	caller := callerClaims(c)
	if err := h.articles.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "article deleted successfully"})
}

func (h *Handler) saveArticle(c *gin.Context) {
	caller := callerClaims(c)
	if err := h.articles.Save(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "article saved successfully"})
}

func (h *Handler) unsaveArticle(c *gin.Context) {
	caller := callerClaims(c)
	if err := h.articles.Unsave(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "article unsaved successfully"})
}
