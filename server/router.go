package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"video-digest/infrastructure/cache"
	"video-digest/infrastructure/metrics"
	httpHandler "video-digest/interfaces/http"
	"video-digest/interfaces/middleware"
	"video-digest/usecase"
)

type Handlers struct {
	Transcript  httpHandler.ITranscriptHandler
	Summary     httpHandler.ISummaryHandler
	Library     httpHandler.ILibraryHandler
	User        httpHandler.IUserHandler
	Payment     httpHandler.IPaymentHandler
	YouTubeAuth httpHandler.IYouTubeAuthHandler
	Health      httpHandler.IHealthHandler
	Events      httpHandler.IEventsHandler
}

type Options struct {
	CORSOrigins []string
	JWTSecret   string
	JWTIssuer   string
	UserUsecase usecase.IUserUsecase
	RateLimiter cache.IRateLimiter
	Metrics     *metrics.Metrics
}

func InitiateRouter(h Handlers, opts Options) *gin.Engine {
	binding.EnableDecoderDisallowUnknownFields = true

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics(opts.Metrics))
	router.Use(cors.New(corsConfig(opts.CORSOrigins)))

	router.GET("/healthz", h.Health.Healthz)
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	router.POST("/webhooks/stripe", h.Payment.Webhook)
	router.GET("/auth/youtube/callback", h.YouTubeAuth.Callback)

	auth := middleware.Auth(opts.UserUsecase, opts.JWTSecret, opts.JWTIssuer)
	limit := middleware.RateLimit(opts.RateLimiter)

	api := router.Group("api")
	api.Use(auth)
	mountPipeline(api, h, limit)
	api.GET("/me", h.User.Me)
	api.POST("/checkout", h.Payment.Checkout)
	api.GET("/youtube/connect", h.YouTubeAuth.Connect)
	api.GET("/library/export", h.Library.Export)
	if h.Events != nil {
		api.GET("/events", h.Events.Stream)
	}

	// The pipeline is also served at the root for clients that post to /transcribe directly.
	root := router.Group("")
	root.Use(auth)
	mountPipeline(root, h, limit)

	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "no such route"})
	})
	return router
}

// corsConfig allows any origin without credentials when none are configured.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", httpHandler.YouTubeTokenHeader},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowOrigins = nil
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	return cfg
}

func mountPipeline(group *gin.RouterGroup, h Handlers, limit gin.HandlerFunc) {
	group.POST("/transcribe", limit, h.Transcript.Transcribe)
	group.POST("/summarize", limit, h.Summary.Summarize)
	group.GET("/library", h.Library.List)
	group.POST("/library", h.Library.Save)
	group.DELETE("/library", h.Library.Delete)
}
