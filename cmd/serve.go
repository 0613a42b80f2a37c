package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"video-digest/infrastructure/configuration"
	"video-digest/infrastructure/logger"
	"video-digest/infrastructure/metrics"
	"video-digest/infrastructure/persistence"
	"video-digest/infrastructure/realtime"
	httpHandler "video-digest/interfaces/http"
	"video-digest/server"
	"video-digest/usecase"
)

const (
	rateWindow      = time.Minute
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), configuration.C)
	},
}

func serve(ctx context.Context, cfg configuration.Config) error {
	features := cfg.Features()
	logger.GetLogger().WithFields(features.Fields()).Info("Feature availability")
	warnDisabled(features)

	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	m := metrics.New()

	videos := persistence.NewVideoRepository(db)
	users := persistence.NewUserRepository(db)
	usage := persistence.NewUsageRepository(db)
	library := persistence.NewLibraryRepository(db)
	payments := persistence.NewPaymentEventRepository(db)
	tokens := persistence.NewOAuthTokenRepository(db)

	p, err := newPipeline(ctx, cfg, tokens, m)
	if err != nil {
		return fmt.Errorf("transcript pipeline: %w", err)
	}

	limiter, closeLimiter := newRateLimiter(ctx, cfg.RedisClient)
	defer closeLimiter()

	hub := realtime.NewEventHub()
	notifier, publisher := newNotifier(ctx, cfg.Events, hub)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := publisher.Close(closeCtx); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Event publisher did not close cleanly")
		}
	}()

	policy := usecase.QuotaPolicy{FreeMinutes: cfg.Quota.FreeMinutes, MaxVideoMinutes: cfg.Quota.MaxVideoMinutes}
	userUsecase := usecase.NewUserUsecase(users, usage, cfg.Quota.FreeMinutes)
	transcriptUsecase := usecase.NewTranscriptUsecase(videos, usage, p.resolver, p.coordinator, notifier, policy)
	summaryUsecase := usecase.NewSummaryUsecase(videos, newSummarizer(cfg.OpenAI), notifier, m, cfg.Timeouts.Summary)
	libraryUsecase := usecase.NewLibraryUsecase(library, videos, p.resolver)
	paymentUsecase := usecase.NewPaymentUsecase(newGateway(cfg.Stripe), payments, users, notifier, m, cfg.App.BaseURL)
	connectUsecase := usecase.NewYouTubeConnectUsecase(p.youtube, tokens, cfg.Auth.JWTSecret, cfg.YouTube.Scopes)

	gin.SetMode(gin.ReleaseMode)
	router := server.InitiateRouter(server.Handlers{
		Transcript:  httpHandler.NewTranscriptHandler(transcriptUsecase),
		Summary:     httpHandler.NewSummaryHandler(summaryUsecase),
		Library:     httpHandler.NewLibraryHandler(libraryUsecase),
		User:        httpHandler.NewUserHandler(userUsecase),
		Payment:     httpHandler.NewPaymentHandler(paymentUsecase),
		YouTubeAuth: httpHandler.NewYouTubeAuthHandler(connectUsecase),
		Health:      httpHandler.NewHealthHandler(sqlDB, features),
		Events:      httpHandler.NewEventsHandler(hub),
	}, server.Options{
		CORSOrigins: cfg.App.CORSOrigins,
		JWTSecret:   cfg.Auth.JWTSecret,
		JWTIssuer:   cfg.Auth.Issuer,
		UserUsecase: userUsecase,
		RateLimiter: limiter,
		Metrics:     m,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.GetLogger().WithFields(map[string]interface{}{"port": cfg.App.Port, "tls": cfg.App.TLSEnabled}).Info("Starting application")
		var err error
		if cfg.App.TLSEnabled && cfg.App.TLSCertFile != "" && cfg.App.TLSKeyFile != "" {
			err = httpServer.ListenAndServeTLS(cfg.App.TLSCertFile, cfg.App.TLSKeyFile)
		} else {
			if cfg.App.TLSEnabled {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
			}
			err = httpServer.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.GetLogger().Info("Application shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		return err
	}
	logger.GetLogger().Info("Application stopped")
	return nil
}

func warnDisabled(f configuration.Features) {
	if !f.OfficialKey {
		logger.GetLogger().Warn("YOUTUBE_API_KEY not set; official caption tier and metadata lookup disabled")
	}
	if !f.OfficialUser {
		logger.GetLogger().Warn("YouTube OAuth client not set; users cannot connect their accounts")
	}
	if !f.Audio {
		logger.GetLogger().Warn("STT_API_KEY not set; audio transcription tier disabled")
	}
	if !f.Summaries {
		logger.GetLogger().Warn("OPENAI_API_KEY not set; /summarize will fail")
	}
	if !f.Payments {
		logger.GetLogger().Warn("Stripe keys not set; checkout and webhooks will be rejected")
	}
}
