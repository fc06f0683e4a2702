package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/nsrdb-epw-service/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	OutputDir       string

	// NSRDB download configuration. Empty URLs select the public endpoints.
	NSRDBAggregatedURL string
	NSRDBTypicalURL    string
	NSRDBTimeout       time.Duration
	Attributes         []string

	// Requester identity sent with every download.
	FullName    string
	Email       string
	Affiliation string
	Reason      string
	MailingList bool

	// API key lookup locations.
	SecretsDir string
	APIKeyFile string
	DotenvPath string

	// Mapbox geocoding configuration.
	MapboxToken   string
	MapboxEnabled bool
	MapboxTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	nsrdbTimeout, err := parsePositiveDuration("NSRDB_TIMEOUT", "20s")
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	mailingList, err := strconv.ParseBool(sharedcfg.EnvOrDefault("NSRDB_MAILING_LIST", "false"))
	if err != nil {
		return nil, errors.New("invalid NSRDB_MAILING_LIST")
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		OutputDir:       sharedcfg.EnvOrDefault("OUTPUT_DIR", "."),

		NSRDBAggregatedURL: os.Getenv("NSRDB_AGGREGATED_URL"),
		NSRDBTypicalURL:    os.Getenv("NSRDB_TYPICAL_URL"),
		NSRDBTimeout:       nsrdbTimeout,
		Attributes:         splitList(sharedcfg.EnvOrDefault("NSRDB_ATTRIBUTES", strings.Join(domain.DefaultAttributes, ","))),

		FullName:    os.Getenv("NSRDB_FULL_NAME"),
		Email:       os.Getenv("NSRDB_EMAIL"),
		Affiliation: os.Getenv("NSRDB_AFFILIATION"),
		Reason:      os.Getenv("NSRDB_REASON"),
		MailingList: mailingList,

		SecretsDir: sharedcfg.EnvOrDefault("SECRETS_DIR", "/run/secrets"),
		APIKeyFile: sharedcfg.EnvOrDefault("API_KEY_FILE", "api_key"),
		DotenvPath: sharedcfg.EnvOrDefault("DOTENV_PATH", ".env"),

		MapboxToken:   mapboxToken,
		MapboxEnabled: mapboxEnabled,
		MapboxTimeout: mapboxTimeout,
	}

	if len(cfg.Attributes) == 0 {
		return nil, errors.New("NSRDB_ATTRIBUTES must name at least one attribute")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

func parsePositiveDuration(name, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(name, def))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + name)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
