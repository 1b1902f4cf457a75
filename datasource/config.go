package datasource

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Default upstream endpoints. Overridable through the environment so
// tests and deployments behind proxies can inject their own.
const (
	DefaultAWSCenterBaseURL = "https://awscenter.bmkg.go.id"
	DefaultSignatureBaseURL = "https://signature.bmkg.go.id/dwt/asset/boot/api_dwt2.php"
	DefaultNowcastFeedURL   = "https://www.bmkg.go.id/alerts/nowcast/id"

	// DefaultCaptcha is the fixed placeholder the portal's login form
	// currently accepts. It is assigned server-side and obtained
	// out-of-band, not solved programmatically.
	DefaultCaptcha = "3"

	// DefaultStationFile is the station directory path used when
	// neither STATION_FILE nor the -stations flag is given.
	DefaultStationFile = "location.json"
)

// Config holds credentials and upstream endpoints for the outbound
// clients, plus ambient service settings.
type Config struct {
	Username string
	Password string
	Captcha  string

	AWSCenterBaseURL string
	SignatureBaseURL string
	NowcastFeedURL   string

	StationFile string
	AppEnv      string
	LogLevel    slog.Level
}

// LoadFromEnv populates the configuration from environment variables.
// BMKG_USERNAME and BMKG_PASSWORD are required; everything else has a
// default.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		Username:         strings.TrimSpace(os.Getenv("BMKG_USERNAME")),
		Password:         os.Getenv("BMKG_PASSWORD"),
		Captcha:          envOr("CAPTCHA_VALUE", DefaultCaptcha),
		AWSCenterBaseURL: envOr("AWS_CENTER_BASE_URL", DefaultAWSCenterBaseURL),
		SignatureBaseURL: envOr("SIGNATURE_BASE_URL", DefaultSignatureBaseURL),
		NowcastFeedURL:   envOr("NOWCAST_FEED_URL", DefaultNowcastFeedURL),
		StationFile:      envOr("STATION_FILE", DefaultStationFile),
		AppEnv:           envOr("APP_ENV", "dev"),
	}

	if cfg.Username == "" {
		return Config{}, fmt.Errorf("BMKG_USERNAME is required")
	}
	if cfg.Password == "" {
		return Config{}, fmt.Errorf("BMKG_PASSWORD is required")
	}
	switch cfg.AppEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", cfg.AppEnv)
	}

	level, err := parseLogLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
}
