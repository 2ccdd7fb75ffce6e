package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: nothing. Both API keys are optional; without them the card API
//   runs at its anonymous quota and intent resolution uses keyword matching.
// - default: timeouts, pool sizes, cache lifetimes
// -----------------------------------------------------------------------------

// AllSetsTTL is how long the set catalog stays cached. Fixed, not configurable.
const AllSetsTTL = 2 * time.Hour

type Config struct {
	Server  ServerConfig
	CORS    CORSConfig
	CardAPI CardAPIConfig
	Cache   CacheConfig
	LLM     LLMConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port             string `envconfig:"PORT" default:"8080"`
	FrontendDistPath string `envconfig:"FRONTEND_DIST_PATH"`
}

type CORSConfig struct {
	AllowOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

type CardAPIConfig struct {
	APIKey         string        `envconfig:"POKEMONTCG_IO_API_KEY"`
	BaseURL        string        `envconfig:"CARD_API_BASE_URL" default:"https://api.pokemontcg.io/v2"`
	PageSize       int           `envconfig:"CARD_API_PAGE_SIZE" default:"250"`
	MaxInFlight    int           `envconfig:"CARD_API_MAX_IN_FLIGHT" default:"8"`
	Timeout        time.Duration `envconfig:"CARD_API_TIMEOUT" default:"30s"`
	MaxAttempts    int           `envconfig:"CARD_API_MAX_ATTEMPTS" default:"3"`
	RetryBaseDelay time.Duration `envconfig:"CARD_API_RETRY_BASE_DELAY" default:"500ms"`
	RatePerSecond  float64       `envconfig:"CARD_API_RATE_PER_SECOND" default:"10"`
	MaxSearchPages int           `envconfig:"CARD_API_MAX_SEARCH_PAGES" default:"4"`
}

type CacheConfig struct {
	CardTTL    time.Duration `envconfig:"CACHE_CARD_TTL" default:"1h"`
	SearchTTL  time.Duration `envconfig:"CACHE_SEARCH_TTL" default:"15m"`
	MaxEntries int           `envconfig:"CACHE_MAX_ENTRIES" default:"512"`
	// FetchTimeout bounds one shared upstream fetch, independent of the
	// callers waiting on it.
	FetchTimeout time.Duration `envconfig:"CACHE_FETCH_TIMEOUT" default:"2m"`
}

type LLMConfig struct {
	APIKey     string        `envconfig:"GOOGLE_API_KEY"`
	APIKeyFile string        `envconfig:"GOOGLE_API_KEY_FILE"`
	Model      string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	Timeout    time.Duration `envconfig:"GEMINI_TIMEOUT" default:"15s"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// ResolvedAPIKey returns the Gemini key, reading GOOGLE_API_KEY_FILE when the
// key itself is not set (mounted secret files).
func (c LLMConfig) ResolvedAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	if c.APIKeyFile == "" {
		return ""
	}
	data, err := os.ReadFile(c.APIKeyFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.CardAPI.PageSize <= 0 || c.CardAPI.PageSize > 250 {
		return fmt.Errorf("CARD_API_PAGE_SIZE must be between 1 and 250, got %d", c.CardAPI.PageSize)
	}
	if c.CardAPI.MaxInFlight <= 0 {
		return fmt.Errorf("CARD_API_MAX_IN_FLIGHT must be positive, got %d", c.CardAPI.MaxInFlight)
	}
	if c.CardAPI.MaxAttempts <= 0 {
		return fmt.Errorf("CARD_API_MAX_ATTEMPTS must be positive, got %d", c.CardAPI.MaxAttempts)
	}
	return nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		CardAPI: CardAPIConfig{
			BaseURL:        "http://127.0.0.1:0",
			PageSize:       2,
			MaxInFlight:    8,
			Timeout:        5 * time.Second,
			MaxAttempts:    3,
			RetryBaseDelay: time.Millisecond,
			MaxSearchPages: 4,
		},
		Cache: CacheConfig{
			CardTTL:      time.Hour,
			SearchTTL:    15 * time.Minute,
			MaxEntries:   64,
			FetchTimeout: 5 * time.Second,
		},
		LLM: LLMConfig{
			Model:   "gemini-2.0-flash",
			Timeout: time.Second,
		},
		Log: LogConfig{
			Level:  "debug",
			Format: "console",
		},
	}
}
