package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"inkwell.io/blog/internal/middleware"
	"inkwell.io/blog/internal/model"
	"inkwell.io/blog/pkg/logger"
	pkgmiddleware "inkwell.io/blog/pkg/middleware"
)

// RouterConfig bundles the handlers and cross-cutting settings of the API.
type RouterConfig struct {
	Users       *UserHandler
	Posts       *PostHandler
	Likes       *LikeHandler
	Auth        middleware.Authenticator
	CORSOrigins []string
	Log         *logger.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(rc RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkgmiddleware.RequestLogger(rc.Log))
	if len(rc.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     rc.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.MaxMultipartMemory = 8 << 20

	r.GET("/health", func(c *gin.Context) {
		respond(c, http.StatusOK, model.HealthResponse{Status: "ok"}, "Service is healthy")
	})

	auth := middleware.AuthMiddleware(rc.Auth)

	users := r.Group("/users")
	users.POST("/register", rc.Users.Register)
	users.POST("/login", rc.Users.Login)
	users.POST("/refresh-token", rc.Users.RefreshToken)
	users.POST("/logout", auth, rc.Users.Logout)
	users.GET("/current-user", auth, rc.Users.CurrentUser)
	users.PATCH("/change-password", auth, rc.Users.ChangePassword)
	users.GET("/author-profile/:fullname", auth, rc.Users.AuthorProfile)
	users.GET("/liked-history", auth, rc.Likes.LikedPosts)

	posts := r.Group("/posts")
	posts.GET("", rc.Posts.GetPosts)
	posts.GET("/getPost/:postId", rc.Posts.GetPost)
	posts.POST("/publishPost", auth, rc.Posts.PublishPost)
	posts.PATCH("/updatePost/:postId", auth, rc.Posts.UpdatePost)
	posts.DELETE("/deletePost/:postId", auth, rc.Posts.DeletePost)

	likes := r.Group("/likes", auth)
	likes.POST("/toggle/:postId", rc.Likes.Toggle)
	likes.GET("", rc.Likes.LikedPosts)

	r.NoRoute(func(c *gin.Context) {
		respondFailure(c, http.StatusNotFound, "route not found")
	})
	return r
}
