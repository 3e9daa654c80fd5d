package handler

import (
	"github.com/BloggingApp/post-insights/internal/model"
	"github.com/BloggingApp/post-insights/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

type Handler struct {
	services     *service.Service
	accessSecret []byte
}

func New(services *service.Service, accessSecret string) *Handler {
	return &Handler{
		services:     services,
		accessSecret: []byte(accessSecret),
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{viper.GetString("client.origin")},
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	v1 := r.Group("/api/v1")
	{
		posts := v1.Group("/posts")
		{
			posts.POST("", h.authMiddleware, h.postsCreate)
			posts.GET("", h.postsGet)
			posts.GET("/my", h.authMiddleware, h.postsGetMy)
			posts.GET("/author/:userID/sentiment", h.postsAuthorSentiment)

			post := posts.Group("/:postID")
			{
				post.GET("", h.authMiddleware, h.postsGetDetail)
				post.PATCH("", h.authMiddleware, h.postsEdit)
				post.DELETE("", h.authMiddleware, h.postsDelete)
			}
		}

		comments := v1.Group("/comments")
		{
			comments.POST("", h.authMiddleware, h.commentsCreate)
			comments.GET("/:postID", h.commentsGet)
			comments.PATCH("/:commentID", h.authMiddleware, h.commentsEdit)
			comments.DELETE("/:commentID", h.authMiddleware, h.commentsDelete)
		}
	}

	return r
}

func (h *Handler) getUserFromRequest(c *gin.Context) *model.CachedUser {
	userReq, _ := c.Get("user")

	user, ok := userReq.(model.CachedUser)
	if !ok {
		return nil
	}

	return &user
}
