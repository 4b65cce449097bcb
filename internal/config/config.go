package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	JWTSecret              string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	AnalyticsCacheTTL      time.Duration
	ClassifierProvider     string
	GeminiAPIKey           string
	OpenAIAPIKey           string
	ClassifierModels       []string
	ClassifierMinScore     float64
	ClassifierTimeout      time.Duration
	RazorpayKeyID          string
	RazorpayKeySecret      string
	RazorpayTimeout        time.Duration
	FeeTotalAmount         int64
	MaxUploadMB            int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ONBOARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "ONBOARD API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cloudinary.folder", "onboard/documents")
	v.SetDefault("analytics.cache_ttl", "5m")
	v.SetDefault("classifier.provider", "gemini")
	v.SetDefault("classifier.models", "gemini-2.0-flash,gemini-1.5-flash")
	v.SetDefault("classifier.min_confidence", 70)
	v.SetDefault("classifier.timeout", "25s")
	v.SetDefault("razorpay.timeout", "20s")
	v.SetDefault("fee.total_amount", 50000)
	v.SetDefault("upload.max_mb", 10)

	ttlString := v.GetString("analytics.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid analytics cache ttl: %w", err)
	}

	classifierTimeout, err := time.ParseDuration(v.GetString("classifier.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid classifier timeout: %w", err)
	}

	gatewayTimeout, err := time.ParseDuration(v.GetString("razorpay.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid razorpay timeout: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		AnalyticsCacheTTL:      ttl,
		ClassifierProvider:     strings.ToLower(v.GetString("classifier.provider")),
		GeminiAPIKey:           v.GetString("gemini_api_key"),
		OpenAIAPIKey:           v.GetString("openai_api_key"),
		ClassifierModels:       splitModels(v.GetString("classifier.models")),
		ClassifierMinScore:     v.GetFloat64("classifier.min_confidence"),
		ClassifierTimeout:      classifierTimeout,
		RazorpayKeyID:          v.GetString("razorpay.key_id"),
		RazorpayKeySecret:      v.GetString("razorpay.key_secret"),
		RazorpayTimeout:        gatewayTimeout,
		FeeTotalAmount:         v.GetInt64("fee.total_amount"),
		MaxUploadMB:            v.GetInt("upload.max_mb"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.ClassifierMinScore < 0 || cfg.ClassifierMinScore > 100 {
		return Config{}, fmt.Errorf("classifier min confidence must be within 0-100")
	}

	if cfg.FeeTotalAmount <= 0 {
		cfg.FeeTotalAmount = 50000
	}

	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 10
	}

	return cfg, nil
}

func splitModels(raw string) []string {
	parts := strings.Split(raw, ",")
	models := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			models = append(models, trimmed)
		}
	}
	return models
}
