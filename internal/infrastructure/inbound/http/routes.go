package delivery_http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	model "community-feed-service/internal/domain/models"
	ports "community-feed-service/internal/domain/ports/output"
	"community-feed-service/internal/domain/ports/output/auth"
)

type Handlers struct {
	Content *ContentHandler
	Feed    *FeedHandler
	Social  *SocialHandler
}

// NewRouter builds the /api/v1 surface. Every route except /healthz requires a
// bearer token; writes are additionally rate limited per client IP.
func NewRouter(
	h Handlers,
	verifier auth.CredentialVerifier,
	limiter *IPRateLimiter,
	corsOrigins []string,
	log ports.Logger,
	metrics ports.MetricsProvider,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestMetricsMiddleware(log, metrics))
	r.Use(SecurityHeadersMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	write := limiter.Middleware(log)

	api := r.Group("/api/v1")
	api.Use(AuthMiddleware(verifier, log))

	api.GET("/feed", h.Feed.Global)

	me := api.Group("/me")
	me.GET("", h.Social.Me)
	me.PATCH("", write, h.Social.UpdateProfile)
	me.GET("/feed", h.Feed.Following)
	me.GET("/messages", h.Social.Inbox)

	users := api.Group("/users/:id")
	users.GET("", h.Social.GetUser)
	users.GET("/profile", h.Social.ViewProfile)
	users.GET("/content", h.Feed.UserContent)
	users.GET("/followers", h.Social.Followers)
	users.GET("/following", h.Social.Following)
	users.POST("/follow", write, h.Social.Follow)
	users.DELETE("/follow", write, h.Social.Unfollow)
	users.GET("/distance", h.Social.Distance)
	users.GET("/messages", h.Social.Exchange)
	users.POST("/messages", write, h.Social.SendMessage)

	for _, kind := range model.AllKinds {
		slug := kind.Slug()

		users.GET("/"+slug, h.Content.ListForUser(kind))

		items := api.Group("/" + slug)
		items.POST("", write, h.Content.Create(kind))
		items.GET("/:id", h.Content.Get(kind))
		items.DELETE("/:id", write, h.Content.Delete(kind))
		items.GET("/:id/comments", h.Content.ListComments(kind))
		items.POST("/:id/comments", write, h.Content.AddComment(kind))

		if kind.Likeable() {
			me.GET("/liked/"+slug, h.Content.ListLiked(kind))
		}
		// Likes on a kind without a like table still route so the caller gets a validation error.
		items.POST("/:id/like", write, h.Content.Like(kind))
		items.DELETE("/:id/like", write, h.Content.Unlike(kind))

		if kind.HasLocation() {
			items.GET("/:id/distance", h.Content.Distance(kind))
		}
	}

	return r
}
