package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appsvc "postboard/internal/app"
	"postboard/internal/bootstrap"
	"postboard/internal/cache"
	"postboard/internal/pkg/jwtutil"
	"postboard/internal/pkg/password"
	"postboard/internal/platform/rabbitmq"
	"postboard/internal/repository"
	"postboard/internal/transport/http/handler"
	"postboard/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(
		middleware.CORS(app.Config.CORS.AllowedOrigins),
		middleware.RequestID(),
		middleware.RequestLog(app.Log),
		middleware.Metrics(),
		middleware.Recovery(app.Log),
	)

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	store := repository.NewStore(app.DB)
	tokens := jwtutil.NewManager(app.Config.Auth.JWTSecret, app.Config.TokenTTL())

	var publisher appsvc.ActivityPublisher = appsvc.NewRepositoryPublisher(store.Activities)
	if app.MQConn != nil {
		publisher = rabbitmq.NewEventPublisher(app.MQConn, app.Config.RabbitMQ.ActivityQueue)
	}
	var userCache appsvc.UserCache
	if app.Redis != nil {
		userCache = cache.NewUserCache(app.Redis, app.Config.UserCacheTTL())
	}

	activityService := appsvc.NewActivityService(store.Activities, publisher, app.Log)
	authService := appsvc.NewAuthService(store.Users, password.NewHasher(app.Config.Auth.BcryptCost), tokens, activityService)
	userService := appsvc.NewUserService(store, userCache, app.Log)
	postService := appsvc.NewPostService(store, app.Config.Posts, activityService)
	voteService := appsvc.NewVoteService(store, activityService)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, activityService)
	postHandler := handler.NewPostHandler(postService, app.Config.Posts.DefaultLimit)
	voteHandler := handler.NewVoteHandler(voteService)
	requireAuth := middleware.AuthJWT(tokens, userService)

	router.POST("/login", authHandler.Login)

	users := router.Group("/users")
	users.POST("/", authHandler.Register)
	users.GET("/", requireAuth, userHandler.List)
	users.GET("/:id", requireAuth, userHandler.Get)
	users.PATCH("/:id", requireAuth, userHandler.Update)
	users.DELETE("/:id", requireAuth, userHandler.Delete)
	users.GET("/:id/activity", requireAuth, userHandler.Activity)

	posts := router.Group("/posts")
	posts.GET("/", postHandler.List)
	posts.GET("/:id", postHandler.Get)
	posts.POST("/", requireAuth, postHandler.Create)
	posts.PATCH("/:id", requireAuth, postHandler.Update)
	posts.DELETE("/:id", requireAuth, postHandler.Delete)

	router.POST("/vote/", requireAuth, voteHandler.Cast)

	return router
}
