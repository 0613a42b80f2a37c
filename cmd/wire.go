package cmd

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"video-digest/domain/repository"
	"video-digest/infrastructure/cache"
	"video-digest/infrastructure/clients/audio"
	"video-digest/infrastructure/clients/llm"
	"video-digest/infrastructure/clients/payment"
	"video-digest/infrastructure/clients/scraper"
	"video-digest/infrastructure/clients/speech"
	youtubeclient "video-digest/infrastructure/clients/youtube"
	"video-digest/infrastructure/clients/ytdlp"
	"video-digest/infrastructure/configuration"
	"video-digest/infrastructure/events"
	"video-digest/infrastructure/logger"
	"video-digest/infrastructure/metrics"
	"video-digest/infrastructure/persistence"
	"video-digest/infrastructure/realtime"
	"video-digest/usecase"
)

// pipeline is the transcript side of the service, usable with or without a
// database.
type pipeline struct {
	youtube     *youtubeclient.Client
	resolver    usecase.IMetadataResolver
	coordinator usecase.ITranscriptCoordinator
}

func newPipeline(ctx context.Context, cfg configuration.Config, tokens repository.IOAuthToken, m *metrics.Metrics) (*pipeline, error) {
	yt, err := youtubeclient.NewYouTubeClient(ctx, youtubeclient.Config{
		APIKey:       cfg.YouTube.APIKey,
		ClientID:     cfg.YouTube.ClientID,
		ClientSecret: cfg.YouTube.ClientSecret,
		RedirectURL:  cfg.YouTube.RedirectURL,
		Scopes:       cfg.YouTube.Scopes,
	})
	if err != nil {
		return nil, err
	}

	page := scraper.NewClient(cfg.YouTube.UserAgent, cfg.YouTube.ScrapeRPS)
	dl := ytdlp.NewClient(cfg.Tools.YtDlpPath)

	resolver := usecase.NewMetadataResolver(cfg.Timeouts.Official,
		youtubeclient.NewKeyMetadata(yt),
		scraper.NewWatchPageMetadata(page),
		ytdlp.NewMetadata(dl),
	)

	var transcriber speech.Transcriber
	if cfg.Speech.APIKey != "" {
		transcriber = speech.NewWhisper(cfg.Speech.APIKey, cfg.Speech.BaseURL, cfg.Speech.Model)
	}
	splitter := audio.NewSplitter(audio.ExecRunner{}, cfg.Tools.FFmpegPath, cfg.Tools.FFprobePath)

	coordinator := usecase.NewTranscriptCoordinator(m,
		usecase.TimedSource{Source: youtubeclient.NewUserSource(yt, tokens), Timeout: cfg.Timeouts.Official},
		usecase.TimedSource{Source: youtubeclient.NewKeySource(yt), Timeout: cfg.Timeouts.Official},
		usecase.TimedSource{Source: scraper.NewCaptionSource(page), Timeout: cfg.Timeouts.Scrape},
		usecase.TimedSource{Source: speech.NewAudioSource(dl, splitter, transcriber, cfg.Tools.AudioDir), Timeout: cfg.Timeouts.Audio},
	)
	return &pipeline{youtube: yt, resolver: resolver, coordinator: coordinator}, nil
}

func openDatabase(cfg configuration.Config) (*gorm.DB, error) {
	db, err := persistence.NewDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := persistence.EnsureSchema(db); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

// newRateLimiter returns a nil interface when Redis is not configured or
// unreachable, which the middleware treats as unlimited.
func newRateLimiter(ctx context.Context, cfg configuration.RedisClient) (cache.IRateLimiter, func()) {
	if cfg.Host == "" {
		return nil, func() {}
	}
	client, err := cache.NewCache(ctx, fmt.Sprintf("%s:%s", cfg.Host, cfg.Port), cfg.Username, cfg.Password)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - rate limiting disabled")
		return nil, func() {}
	}
	limiter := cache.NewRateLimiter(cache.NewRedisCounter(client), cfg.RatePerMinute, rateWindow)
	return limiter, func() { _ = client.Close() }
}

// newNotifier sends every event to the configured backend and to the
// browsers of the user it concerns.
func newNotifier(ctx context.Context, cfg configuration.Events, hub *realtime.Hub) (*events.Notifier, repository.IEventPublisher) {
	publisher, err := events.NewPublisher(ctx, cfg)
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("backend", cfg.Backend).Warn("Event backend not available - logging events instead")
		publisher = events.NewLogPublisher()
	}
	fanout := events.Fanout{publisher, hub}
	return events.NewNotifier(fanout), fanout
}

func newSummarizer(cfg configuration.OpenAI) repository.ISummarizer {
	if cfg.APIKey == "" {
		return nil
	}
	return llm.NewSummarizer(llm.Config{
		APIKey:             cfg.APIKey,
		BaseURL:            cfg.BaseURL,
		Model:              cfg.Model,
		MaxTranscriptChars: cfg.MaxTranscriptChars,
	})
}

func newGateway(cfg configuration.Stripe) repository.IPaymentGateway {
	return payment.NewStripeGateway(cfg.SecretKey, cfg.WebhookSecret, cfg.PriceID)
}
