package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"wayfare/internal/auth"
	"wayfare/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	articles service.ArticleService
	comments service.CommentService
	tokens   *auth.TokenService
	logger   *logrus.Logger
	debug    bool
}

func NewHandler(
	users service.UserService,
	articles service.ArticleService,
	comments service.CommentService,
	tokens *auth.TokenService,
	logger *logrus.Logger,
	debug bool,
) *Handler {
	return &Handler{
		users:    users,
		articles: articles,
		comments: comments,
		tokens:   tokens,
		logger:   logger,
		debug:    debug,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.requestLogger())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("/register", h.register)
			users.POST("/login", h.login)
			users.GET("/profile", h.requireAuth(), h.getProfile)
			users.PUT("/profile", h.requireAuth(), h.updateProfile)
			users.GET("/saved", h.requireAuth(), h.getSavedArticles)
			users.GET("/all", h.requireAuth(), h.listUsers)
			users.DELETE("/:id", h.requireAuth(), h.deleteUser)
		}

		articles := api.Group("/articles")
		{
			articles.GET("", h.optionalAuth(), h.listArticles)
			articles.GET("/:id", h.optionalAuth(), h.getArticle)
			articles.POST("", h.requireAuth(), h.createArticle)
			articles.PUT("/:id", h.requireAuth(), h.updateArticle)
			articles.DELETE("/:id", h.requireAuth(), h.deleteArticle)
			articles.POST("/:id/save", h.requireAuth(), h.saveArticle)
			articles.DELETE("/:id/save", h.requireAuth(), h.unsaveArticle)
		}

		comments := api.Group("/comments")
		{
			comments.GET("/article/:articleId", h.optionalAuth(), h.listComments)
			comments.POST("/article/:articleId", h.requireAuth(), h.createComment)
			comments.PUT("/:id", h.requireAuth(), h.updateComment)
			comments.DELETE("/:id", h.requireAuth(), h.deleteComment)
			comments.POST("/:id/like", h.requireAuth(), h.likeComment)
			comments.DELETE("/:id/like", h.requireAuth(), h.unlikeComment)
		}

		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}
}
