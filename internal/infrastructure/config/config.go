package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers accepted by storage.driver
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Config holds all configuration for the application
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Server       ServerConfig       `mapstructure:"server"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Visitor      VisitorConfig      `mapstructure:"visitor"`
	Logger       LoggerConfig       `mapstructure:"logger"`
	Security     SecurityConfig     `mapstructure:"security"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Catalog      CatalogConfig      `mapstructure:"catalog"`
	Site         SiteConfig         `mapstructure:"site"`
	Interactions InteractionsConfig `mapstructure:"interactions"`
	Search       SearchConfig       `mapstructure:"search"`
	Admin        AdminConfig        `mapstructure:"admin"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig selects the backend behind visitor interaction and preference storage
type StorageConfig struct {
	Driver     string        `mapstructure:"driver"`
	SQLitePath string        `mapstructure:"sqlite_path"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL       string `mapstructure:"url"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// VisitorConfig controls the anonymous visitor cookie
type VisitorConfig struct {
	Secret     string        `mapstructure:"secret"`
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl"`
	Issuer     string        `mapstructure:"issuer"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	CORSAllowedOrigins string        `mapstructure:"cors_allowed_origins"`
	RateLimitRequests  int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow    time.Duration `mapstructure:"rate_limit_window"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// CatalogConfig points at the game catalog file; empty means the embedded catalog
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// SiteConfig feeds the SEO generator
type SiteConfig struct {
	Name            string   `mapstructure:"name"`
	BaseURL         string   `mapstructure:"base_url"`
	DefaultImage    string   `mapstructure:"default_image"`
	TwitterHandle   string   `mapstructure:"twitter_handle"`
	RatingDivisor   float64  `mapstructure:"rating_divisor"`
	PopularSearches []string `mapstructure:"popular_searches"`
}

// InteractionsConfig caps the persisted history lists
type InteractionsConfig struct {
	MaxFavorites      int `mapstructure:"max_favorites"`
	MaxRecentlyPlayed int `mapstructure:"max_recently_played"`
	MaxRecentSearches int `mapstructure:"max_recent_searches"`
}

// SearchConfig holds search and suggestion tuning
type SearchConfig struct {
	SuggestionLimit int           `mapstructure:"suggestion_limit"`
	DebounceDelay   time.Duration `mapstructure:"debounce_delay"`
	RelatedLimit    int           `mapstructure:"related_limit"`
}

// AdminConfig guards the catalog administration endpoints
type AdminConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

// Load loads configuration from various sources
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()
	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	// App defaults
	viper.SetDefault("app.name", "GameHub")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.debug", false)

	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.shutdown_timeout", "10s")

	// Storage defaults
	viper.SetDefault("storage.driver", StorageSQLite)
	viper.SetDefault("storage.sqlite_path", "data/gamehub.db")
	viper.SetDefault("storage.timeout", "2s")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "gamehub")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.conn_max_lifetime", "5m")
	viper.SetDefault("database.conn_max_idle_time", "30s")

	// Redis defaults
	viper.SetDefault("redis.url", "redis://localhost:6379/0")
	viper.SetDefault("redis.key_prefix", "gamehub")

	// Visitor defaults
	viper.SetDefault("visitor.secret", "")
	viper.SetDefault("visitor.cookie_name", "gh_visitor")
	viper.SetDefault("visitor.ttl", "8760h") // 1 year
	viper.SetDefault("visitor.issuer", "gamehub")

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "json")
	viper.SetDefault("logger.output", "stdout")
	viper.SetDefault("logger.filename", "")

	// Security defaults
	viper.SetDefault("security.cors_allowed_origins", "*")
	viper.SetDefault("security.rate_limit_requests", 50)
	viper.SetDefault("security.rate_limit_window", "1m")

	// Metrics defaults
	viper.SetDefault("metrics.enabled", true)

	// Catalog defaults
	viper.SetDefault("catalog.path", "")

	// Site defaults
	viper.SetDefault("site.name", "GameHub")
	viper.SetDefault("site.base_url", "http://localhost:8080")
	viper.SetDefault("site.default_image", "/static/og-default.png")
	viper.SetDefault("site.twitter_handle", "@gamehub")
	viper.SetDefault("site.rating_divisor", 20.0)
	viper.SetDefault("site.popular_searches", []string{"puzzle", "racing", "io games", "2 player", "geometry dash"})

	// Interaction defaults
	viper.SetDefault("interactions.max_favorites", 100)
	viper.SetDefault("interactions.max_recently_played", 20)
	viper.SetDefault("interactions.max_recent_searches", 10)

	// Search defaults
	viper.SetDefault("search.suggestion_limit", 8)
	viper.SetDefault("search.debounce_delay", "300ms")
	viper.SetDefault("search.related_limit", 6)

	// Admin defaults
	viper.SetDefault("admin.username", "admin")
	viper.SetDefault("admin.password_hash", "")
}

func bindEnvVars() {
	// App
	viper.BindEnv("app.name", "APP_NAME")
	viper.BindEnv("app.version", "APP_VERSION")
	viper.BindEnv("app.environment", "APP_ENVIRONMENT")
	viper.BindEnv("app.debug", "APP_DEBUG")

	// Server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.host", "SERVER_HOST")
	viper.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	viper.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")
	viper.BindEnv("server.idle_timeout", "SERVER_IDLE_TIMEOUT")
	viper.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")

	// Storage
	viper.BindEnv("storage.driver", "STORAGE_DRIVER")
	viper.BindEnv("storage.sqlite_path", "STORAGE_SQLITE_PATH")
	viper.BindEnv("storage.timeout", "STORAGE_TIMEOUT")

	// Database
	viper.BindEnv("database.host", "DB_HOST")
	viper.BindEnv("database.port", "DB_PORT")
	viper.BindEnv("database.name", "DB_NAME")
	viper.BindEnv("database.user", "DB_USER")
	viper.BindEnv("database.password", "DB_PASSWORD")
	viper.BindEnv("database.ssl_mode", "DB_SSL_MODE")
	viper.BindEnv("database.max_open_conns", "DB_MAX_OPEN_CONNS")
	viper.BindEnv("database.max_idle_conns", "DB_MAX_IDLE_CONNS")
	viper.BindEnv("database.conn_max_lifetime", "DB_CONN_MAX_LIFETIME")
	viper.BindEnv("database.conn_max_idle_time", "DB_CONN_MAX_IDLE_TIME")

	// Redis
	viper.BindEnv("redis.url", "REDIS_URL")
	viper.BindEnv("redis.key_prefix", "REDIS_KEY_PREFIX")

	// Visitor
	viper.BindEnv("visitor.secret", "VISITOR_SECRET")
	viper.BindEnv("visitor.cookie_name", "VISITOR_COOKIE_NAME")
	viper.BindEnv("visitor.ttl", "VISITOR_TTL")
	viper.BindEnv("visitor.issuer", "VISITOR_ISSUER")

	// Logger
	viper.BindEnv("logger.level", "LOG_LEVEL")
	viper.BindEnv("logger.format", "LOG_FORMAT")
	viper.BindEnv("logger.output", "LOG_OUTPUT")
	viper.BindEnv("logger.filename", "LOG_FILENAME")

	// Security
	viper.BindEnv("security.cors_allowed_origins", "CORS_ALLOWED_ORIGINS")
	viper.BindEnv("security.rate_limit_requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("security.rate_limit_window", "RATE_LIMIT_WINDOW")

	// Metrics
	viper.BindEnv("metrics.enabled", "ENABLE_METRICS")

	// Catalog
	viper.BindEnv("catalog.path", "CATALOG_PATH")

	// Site
	viper.BindEnv("site.name", "SITE_NAME")
	viper.BindEnv("site.base_url", "SITE_BASE_URL")
	viper.BindEnv("site.default_image", "SITE_DEFAULT_IMAGE")
	viper.BindEnv("site.twitter_handle", "SITE_TWITTER_HANDLE")
	viper.BindEnv("site.rating_divisor", "SITE_RATING_DIVISOR")

	// Interactions
	viper.BindEnv("interactions.max_favorites", "MAX_FAVORITES")
	viper.BindEnv("interactions.max_recently_played", "MAX_RECENTLY_PLAYED")
	viper.BindEnv("interactions.max_recent_searches", "MAX_RECENT_SEARCHES")

	// Search
	viper.BindEnv("search.suggestion_limit", "SEARCH_SUGGESTION_LIMIT")
	viper.BindEnv("search.debounce_delay", "SEARCH_DEBOUNCE_DELAY")
	viper.BindEnv("search.related_limit", "SEARCH_RELATED_LIMIT")

	// Admin
	viper.BindEnv("admin.username", "ADMIN_USERNAME")
	viper.BindEnv("admin.password_hash", "ADMIN_PASSWORD_HASH")
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	switch cfg.Storage.Driver {
	case StorageMemory:
	case StorageSQLite:
		if cfg.Storage.SQLitePath == "" {
			return fmt.Errorf("storage sqlite_path is required for the sqlite driver")
		}
	case StoragePostgres:
		if cfg.Database.Host == "" || cfg.Database.Name == "" {
			return fmt.Errorf("database host and name are required for the postgres driver")
		}
	case StorageRedis:
		if cfg.Redis.URL == "" {
			return fmt.Errorf("redis url is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	u, err := url.Parse(cfg.Site.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("site base_url must be an absolute URL")
	}
	cfg.Site.BaseURL = strings.TrimRight(cfg.Site.BaseURL, "/")

	if cfg.Site.RatingDivisor <= 0 {
		return fmt.Errorf("site rating_divisor must be positive")
	}

	if cfg.App.IsProduction() && cfg.Visitor.Secret == "" {
		return fmt.Errorf("visitor secret must be set in production")
	}

	return nil
}

// GetDSN returns the database connection string
func (cfg *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
}

// GetMigrateURL returns the database URL in the form golang-migrate expects
func (cfg *DatabaseConfig) GetMigrateURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: "sslmode=" + cfg.SSLMode,
	}
	return u.String()
}

// IsDevelopment returns true if the environment is development
func (cfg *AppConfig) IsDevelopment() bool {
	return cfg.Environment == "development"
}

// IsProduction returns true if the environment is production
func (cfg *AppConfig) IsProduction() bool {
	return cfg.Environment == "production"
}
