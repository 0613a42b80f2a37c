package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"video-digest/infrastructure/logger"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Auth        Auth        `json:"auth"`
	Database    Database    `json:"database"`
	OpenAI      OpenAI      `json:"openai"`
	Speech      Speech      `json:"speech"`
	YouTube     YouTube     `json:"youtube"`
	Tools       Tools       `json:"tools"`
	Stripe      Stripe      `json:"stripe"`
	Quota       Quota       `json:"quota"`
	Timeouts    Timeouts    `json:"timeouts"`
	RedisClient RedisClient `json:"redisClient"`
	Events      Events      `json:"events"`
}

type App struct {
	Port        int      `json:"port"`
	BaseURL     string   `json:"baseURL"`
	CORSOrigins []string `json:"corsOrigins"`
	TLSEnabled  bool     `json:"tlsEnabled"`
	TLSCertFile string   `json:"tlsCertFile"`
	TLSKeyFile  string   `json:"tlsKeyFile"`
}

// Auth holds the verification settings for tokens minted by the hosted
// identity provider.
type Auth struct {
	JWTSecret string `json:"jwtSecret"`
	Issuer    string `json:"issuer"`
}

type Database struct {
	Vendor   string `json:"vendor"`
	DSN      string `json:"dsn"`
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type OpenAI struct {
	APIKey             string `json:"apiKey"`
	BaseURL            string `json:"baseURL"`
	Model              string `json:"model"`
	MaxTranscriptChars int    `json:"maxTranscriptChars"`
}

type Speech struct {
	APIKey  string `json:"apiKey"`
	BaseURL string `json:"baseURL"`
	Model   string `json:"model"`
}

type YouTube struct {
	APIKey       string   `json:"apiKey"`
	ClientID     string   `json:"clientId"`
	ClientSecret string   `json:"clientSecret"`
	RedirectURL  string   `json:"redirectURL"`
	Scopes       []string `json:"scopes"`
	UserAgent    string   `json:"userAgent"`
	ScrapeRPS    float64  `json:"scrapeRPS"`
}

type Tools struct {
	YtDlpPath   string `json:"ytDlpPath"`
	FFmpegPath  string `json:"ffmpegPath"`
	FFprobePath string `json:"ffprobePath"`
	AudioDir    string `json:"audioDir"`
}

type Stripe struct {
	SecretKey     string `json:"secretKey"`
	WebhookSecret string `json:"webhookSecret"`
	PriceID       string `json:"priceId"`
}

type Quota struct {
	FreeMinutes     int `json:"freeMinutes"`
	MaxVideoMinutes int `json:"maxVideoMinutes"`
}

type Timeouts struct {
	Official time.Duration `json:"official"`
	Scrape   time.Duration `json:"scrape"`
	Audio    time.Duration `json:"audio"`
	Summary  time.Duration `json:"summary"`
}

type RedisClient struct {
	Host          string `json:"host"`
	Port          string `json:"port"`
	Password      string `json:"password"`
	Username      string `json:"username"`
	RatePerMinute int    `json:"ratePerMinute"`
}

type Events struct {
	Backend    string     `json:"backend"`
	Topic      string     `json:"topic"`
	Pubsub     Pubsub     `json:"pubsub"`
	ServiceBus ServiceBus `json:"serviceBus"`
	RabbitMQ   RabbitMQ   `json:"rabbitMQ"`
	Mongo      Mongo      `json:"mongo"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
}

type RabbitMQ struct {
	URL      string `json:"url"`
	Exchange string `json:"exchange"`
}

type Mongo struct {
	URI        string `json:"uri"`
	Database   string `json:"database"`
	Collection string `json:"collection"`
}

var C Config

func init() {
	LoadConfig()
	applyEnv(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

// Reload re-applies environment overrides, used after env files are loaded.
func Reload() {
	applyEnv(&C)
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func applyEnv(c *Config) {
	initApp(c)
	initDatabase(c)
	initProviders(c)
	initLimits(c)
	initEvents(c)
}

func initApp(c *Config) {
	c.App.Port = getConfigInt(c.App.Port, "APP_PORT", getEnvInt("PORT", 10001))
	c.App.BaseURL = strings.TrimRight(getConfigValue(c.App.BaseURL, "APP_BASE_URL", fmt.Sprintf("http://localhost:%d", c.App.Port)), "/")
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.App.CORSOrigins = splitList(v)
	}
	if len(c.App.CORSOrigins) == 0 {
		c.App.CORSOrigins = []string{"http://localhost:3000", c.App.BaseURL}
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		c.App.TLSEnabled, _ = strconv.ParseBool(v)
	}
	c.App.TLSCertFile = getConfigValue(c.App.TLSCertFile, "TLS_CERT_FILE", "")
	c.App.TLSKeyFile = getConfigValue(c.App.TLSKeyFile, "TLS_KEY_FILE", "")

	c.Auth.JWTSecret = getConfigValue(c.Auth.JWTSecret, "AUTH_JWT_SECRET", "")
	c.Auth.Issuer = getConfigValue(c.Auth.Issuer, "AUTH_JWT_ISSUER", "")
	if c.Auth.JWTSecret == "" {
		logger.GetLogger().Warn("Auth.JWTSecret not set; every authenticated request will be rejected. Provide AUTH_JWT_SECRET.")
	}
}

func initDatabase(c *Config) {
	c.Database.Vendor = strings.ToLower(getConfigValue(c.Database.Vendor, "DB_VENDOR", "postgres"))
	c.Database.DSN = getConfigValue(c.Database.DSN, "DATABASE_URL", "")
	c.Database.Name = getConfigValue(c.Database.Name, "DB_NAME", "video_digest")
	c.Database.Host = getConfigValue(c.Database.Host, "DB_HOST", "localhost")
	c.Database.User = getConfigValue(c.Database.User, "DB_USER", "")
	c.Database.Password = getConfigValue(c.Database.Password, "DB_PASSWORD", "")

	defaultPort := "5432"
	switch c.Database.Vendor {
	case "mysql":
		defaultPort = "3306"
	case "sqlserver", "mssql":
		defaultPort = "1433"
	}
	c.Database.Port = getConfigValue(c.Database.Port, "DB_PORT", defaultPort)
}

func initProviders(c *Config) {
	c.OpenAI.APIKey = getConfigValue(c.OpenAI.APIKey, "OPENAI_API_KEY", "")
	c.OpenAI.BaseURL = getConfigValue(c.OpenAI.BaseURL, "OPENAI_BASE_URL", "")
	c.OpenAI.Model = getConfigValue(c.OpenAI.Model, "OPENAI_MODEL", "gpt-4o-mini")
	c.OpenAI.MaxTranscriptChars = getConfigInt(c.OpenAI.MaxTranscriptChars, "SUMMARY_MAX_TRANSCRIPT_CHARS", 60000)

	c.Speech.APIKey = getConfigValue(c.Speech.APIKey, "STT_API_KEY", "")
	c.Speech.BaseURL = getConfigValue(c.Speech.BaseURL, "STT_BASE_URL", "")
	c.Speech.Model = getConfigValue(c.Speech.Model, "STT_MODEL", "whisper-1")

	c.YouTube.APIKey = getConfigValue(c.YouTube.APIKey, "YOUTUBE_API_KEY", "")
	c.YouTube.ClientID = getConfigValue(c.YouTube.ClientID, "YOUTUBE_CLIENT_ID", "")
	c.YouTube.ClientSecret = getConfigValue(c.YouTube.ClientSecret, "YOUTUBE_CLIENT_SECRET", "")
	c.YouTube.RedirectURL = getConfigValue(c.YouTube.RedirectURL, "YOUTUBE_REDIRECT_URL", c.App.BaseURL+"/auth/youtube/callback")
	if len(c.YouTube.Scopes) == 0 {
		c.YouTube.Scopes = []string{"https://www.googleapis.com/auth/youtube.force-ssl"}
	}
	c.YouTube.UserAgent = getConfigValue(c.YouTube.UserAgent, "SCRAPE_USER_AGENT",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	if c.YouTube.ScrapeRPS <= 0 {
		c.YouTube.ScrapeRPS = 2
	}

	c.Tools.YtDlpPath = getConfigValue(c.Tools.YtDlpPath, "YTDLP_PATH", "")
	c.Tools.FFmpegPath = getConfigValue(c.Tools.FFmpegPath, "FFMPEG_PATH", "ffmpeg")
	c.Tools.FFprobePath = getConfigValue(c.Tools.FFprobePath, "FFPROBE_PATH", "ffprobe")
	c.Tools.AudioDir = getConfigValue(c.Tools.AudioDir, "AUDIO_DIR", filepath.Join(xdg.CacheHome, "video-digest", "audio"))

	c.Stripe.SecretKey = getConfigValue(c.Stripe.SecretKey, "STRIPE_SECRET_KEY", "")
	c.Stripe.WebhookSecret = getConfigValue(c.Stripe.WebhookSecret, "STRIPE_WEBHOOK_SECRET", "")
	c.Stripe.PriceID = getConfigValue(c.Stripe.PriceID, "STRIPE_PRICE_ID", "")
}

func initLimits(c *Config) {
	c.Quota.FreeMinutes = getConfigInt(c.Quota.FreeMinutes, "QUOTA_FREE_MINUTES", 30)
	c.Quota.MaxVideoMinutes = getConfigInt(c.Quota.MaxVideoMinutes, "MAX_VIDEO_MINUTES", 180)

	c.Timeouts.Official = getConfigDuration(c.Timeouts.Official, "TIMEOUT_OFFICIAL", 20*time.Second)
	c.Timeouts.Scrape = getConfigDuration(c.Timeouts.Scrape, "TIMEOUT_SCRAPE", 30*time.Second)
	c.Timeouts.Audio = getConfigDuration(c.Timeouts.Audio, "TIMEOUT_AUDIO", 10*time.Minute)
	c.Timeouts.Summary = getConfigDuration(c.Timeouts.Summary, "TIMEOUT_SUMMARY", 2*time.Minute)

	c.RedisClient.Host = getConfigValue(c.RedisClient.Host, "REDIS_HOST", "")
	c.RedisClient.Port = getConfigValue(c.RedisClient.Port, "REDIS_PORT", "6379")
	c.RedisClient.Password = getConfigValue(c.RedisClient.Password, "REDIS_PASSWORD", "")
	c.RedisClient.Username = getConfigValue(c.RedisClient.Username, "REDIS_USERNAME", "")
	c.RedisClient.RatePerMinute = getConfigInt(c.RedisClient.RatePerMinute, "RATE_LIMIT_PER_MINUTE", 20)
}

func initEvents(c *Config) {
	c.Events.Backend = strings.ToLower(getConfigValue(c.Events.Backend, "EVENTS_BACKEND", ""))
	c.Events.Topic = getConfigValue(c.Events.Topic, "EVENTS_TOPIC", "video-digest-events")
	c.Events.Pubsub.ProjectID = getConfigValue(c.Events.Pubsub.ProjectID, "PUBSUB_PROJECT_ID", "")
	c.Events.ServiceBus.Namespace = getConfigValue(c.Events.ServiceBus.Namespace, "SERVICEBUS_NAMESPACE", "")
	c.Events.RabbitMQ.URL = getConfigValue(c.Events.RabbitMQ.URL, "RABBITMQ_URL", "")
	c.Events.RabbitMQ.Exchange = getConfigValue(c.Events.RabbitMQ.Exchange, "RABBITMQ_EXCHANGE", "video-digest")
	c.Events.Mongo.URI = getConfigValue(c.Events.Mongo.URI, "MONGO_URI", "")
	c.Events.Mongo.Database = getConfigValue(c.Events.Mongo.Database, "MONGO_DATABASE", "video_digest")
	c.Events.Mongo.Collection = getConfigValue(c.Events.Mongo.Collection, "MONGO_COLLECTION", "events")
}

// getConfigValue prefers the environment, then the config file, then the default.
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if configValue != "" {
		return configValue
	}
	return defaultValue
}

func getConfigInt(configValue int, envKey string, defaultValue int) int {
	if v := os.Getenv(envKey); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		logger.GetLogger().WithField("key", envKey).Warn("Ignoring non-numeric environment value")
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

func getConfigDuration(configValue time.Duration, envKey string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(envKey); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		logger.GetLogger().WithField("key", envKey).Warn("Ignoring invalid duration in environment")
	}
	if configValue > 0 {
		return configValue
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
