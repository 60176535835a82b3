package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingCredentials is returned when a required API credential is not configured.
var ErrMissingCredentials = errors.New("missing required credentials")

type AppConfig struct {
	Amadeus     AmadeusConfig
	OpenWeather OpenWeatherConfig

	// GeocoderAPIKey enables the geocoding fallback for locations without coordinates.
	GeocoderAPIKey string

	HTTPTimeout time.Duration
	HorizonDays int
	MaxOffers   int

	// Location search cache. Redis is used when RedisAddr is set, memory otherwise.
	LocationCacheTTL time.Duration
	RedisAddr        string
	RedisPassword    string
	RedisDB          int

	// Sinks. The in-memory export store is always on; the others are enabled by setting them.
	ExportDir       string
	SQLitePath      string
	KafkaBrokers    []string
	KafkaTopic      string
	StoreMaxHistory int           // max exports kept per file name (0 = unlimited)
	StoreMaxAge     time.Duration // max age of exports (0 = unlimited)

	// Scheduled searches. No routes means no scheduler.
	SearchRoutes   []Route
	SearchInterval time.Duration
	SearchLeadDays int

	Port string
	Log  LogConfig
}

type AmadeusConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
}

type OpenWeatherConfig struct {
	APIKey  string
	BaseURL string
}

// Route is one origin/destination pair searched by the scheduler.
type Route struct {
	Origin      string
	Destination string
}

func (r Route) String() string {
	return r.Origin + "-" + r.Destination
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from .env, an optional YAML file and the environment, in
// increasing order of precedence.
func Load() (*AppConfig, error) {
	// a missing .env file is fine
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("amadeus_base_url", "https://test.api.amadeus.com")
	v.SetDefault("openweather_base_url", "https://api.openweathermap.org/data/2.5/forecast")
	v.SetDefault("http_timeout", "10s")
	v.SetDefault("horizon_days", 5)
	v.SetDefault("max_offers", 10)
	v.SetDefault("location_cache_ttl", "1h")
	v.SetDefault("kafka_topic", "flight-weather-tables")
	v.SetDefault("store_max_history", 24)
	v.SetDefault("store_max_age", "168h")
	v.SetDefault("search_interval", "6h")
	v.SetDefault("search_lead_days", 1)
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/flight-weather-insights")
	v.AddConfigPath(".")
	if configPath := os.Getenv("FWI_CONFIG_PATH"); configPath != "" {
		v.SetConfigFile(configPath)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &AppConfig{
		Amadeus: AmadeusConfig{
			ClientID:     v.GetString("amadeus_client_id"),
			ClientSecret: v.GetString("amadeus_client_secret"),
			BaseURL:      v.GetString("amadeus_base_url"),
		},
		OpenWeather: OpenWeatherConfig{
			APIKey:  v.GetString("openweather_api_key"),
			BaseURL: v.GetString("openweather_base_url"),
		},
		GeocoderAPIKey:  v.GetString("geocoder_api_key"),
		HorizonDays:     v.GetInt("horizon_days"),
		MaxOffers:       v.GetInt("max_offers"),
		RedisAddr:       v.GetString("redis_addr"),
		RedisPassword:   v.GetString("redis_password"),
		RedisDB:         v.GetInt("redis_db"),
		ExportDir:       v.GetString("export_dir"),
		SQLitePath:      v.GetString("sqlite_path"),
		KafkaBrokers:    splitList(v.GetString("kafka_brokers")),
		KafkaTopic:      v.GetString("kafka_topic"),
		StoreMaxHistory: v.GetInt("store_max_history"),
		SearchLeadDays:  v.GetInt("search_lead_days"),
		Port:            v.GetString("port"),
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
	}

	var err error
	for key, dst := range map[string]*time.Duration{
		"http_timeout":       &cfg.HTTPTimeout,
		"location_cache_ttl": &cfg.LocationCacheTTL,
		"store_max_age":      &cfg.StoreMaxAge,
		"search_interval":    &cfg.SearchInterval,
	} {
		if *dst, err = time.ParseDuration(v.GetString(key)); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", strings.ToUpper(key), err)
		}
	}

	if cfg.SearchRoutes, err = parseRoutes(v.GetString("search_routes")); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *AppConfig) error {
	var missing []string
	if cfg.Amadeus.ClientID == "" {
		missing = append(missing, "AMADEUS_CLIENT_ID")
	}
	if cfg.Amadeus.ClientSecret == "" {
		missing = append(missing, "AMADEUS_CLIENT_SECRET")
	}
	if cfg.OpenWeather.APIKey == "" {
		missing = append(missing, "OPENWEATHER_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	if cfg.HorizonDays <= 0 {
		return fmt.Errorf("HORIZON_DAYS must be greater than 0")
	}
	if cfg.MaxOffers <= 0 {
		return fmt.Errorf("MAX_OFFERS must be greater than 0")
	}
	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be greater than 0")
	}
	if len(cfg.SearchRoutes) > 0 && cfg.SearchInterval <= 0 {
		return fmt.Errorf("SEARCH_INTERVAL must be greater than 0 when SEARCH_ROUTES is set")
	}
	if cfg.SearchLeadDays < 0 {
		return fmt.Errorf("SEARCH_LEAD_DAYS cannot be negative")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s (must be json or console)", cfg.Log.Format)
	}
	return nil
}

// parseRoutes parses "HYD-CDG,JFK-LHR".
func parseRoutes(s string) ([]Route, error) {
	var routes []Route
	for _, item := range splitList(s) {
		parts := strings.Split(item, "-")
		if len(parts) != 2 || len(strings.TrimSpace(parts[0])) != 3 || len(strings.TrimSpace(parts[1])) != 3 {
			return nil, fmt.Errorf("invalid SEARCH_ROUTES entry %q: want ORIGIN-DESTINATION", item)
		}
		routes = append(routes, Route{
			Origin:      strings.ToUpper(strings.TrimSpace(parts[0])),
			Destination: strings.ToUpper(strings.TrimSpace(parts[1])),
		})
	}
	return routes, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
