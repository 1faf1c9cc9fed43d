package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Log          LogConfig
	HTTP         HTTPConfig
	Scheduler    SchedulerConfig
	Marketplace  MarketplaceConfig
	Storage      StorageConfig
	Feed         FeedConfig
	Statement    StatementConfig
	Notification NotificationConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// SchedulerConfig holds background job scheduling configuration
type SchedulerConfig struct {
	Enabled               bool
	SyncCronSchedule      string // download + extract + import loop
	AckCronSchedule       string // acknowledgment submit loop
	ReconcileCronSchedule string // acknowledgment result reconciliation
	BalanceCronSchedule   string // billing account balance refresh
	OutboundCronSchedule  string // product/price/inventory feed push
	JobTimeout            time.Duration
}

// MarketplaceConfig holds marketplace API connection settings
type MarketplaceConfig struct {
	Endpoint       string
	SellerID       string
	AuthToken      string
	RequestTimeout time.Duration
	MaxRetries     int
}

// StorageConfig holds object storage settings for document archival
type StorageConfig struct {
	Provider        string // s3 or local
	Bucket          string
	Region          string
	Endpoint        string // custom endpoint for S3-compatible stores
	AccessKeyID     string
	SecretAccessKey string
	KeyPrefix       string
	LocalPath       string // base directory when provider is local
}

// FeedConfig holds document staging and order import settings
type FeedConfig struct {
	FacilityID          string
	MaxFailures         int // retry ceiling, zero or negative retries forever
	ExtractBatchSize    int
	ImportBatchSize     int
	AckBatchSize        int
	RequireInventory    bool
	RequireTaxAuthority bool
	UseUPCAsSKU         bool
	AutoApproveOrders   bool
}

// StatementConfig holds invoice aging and finance charge settings
type StatementConfig struct {
	BucketDays         int
	BucketCount        int
	UseAgingDate       bool
	PeriodDays         int
	FinanceChargeRate  float64 // annual rate, e.g. 0.18
	FinanceChargeGrace int     // days past due before charges accrue
}

// NotificationConfig holds operational alert settings
type NotificationConfig struct {
	Enabled   bool
	SMTPHost  string
	SMTPPort  int
	FromEmail string
	ToEmails  []string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SELLER_ prefix (e.g., SELLER_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("SELLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Build config struct
	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
		},
		Scheduler: SchedulerConfig{
			Enabled:               v.GetBool("scheduler.enabled"),
			SyncCronSchedule:      v.GetString("scheduler.sync_cron_schedule"),
			AckCronSchedule:       v.GetString("scheduler.ack_cron_schedule"),
			ReconcileCronSchedule: v.GetString("scheduler.reconcile_cron_schedule"),
			BalanceCronSchedule:   v.GetString("scheduler.balance_cron_schedule"),
			OutboundCronSchedule:  v.GetString("scheduler.outbound_cron_schedule"),
			JobTimeout:            v.GetDuration("scheduler.job_timeout"),
		},
		Marketplace: MarketplaceConfig{
			Endpoint:       v.GetString("marketplace.endpoint"),
			SellerID:       v.GetString("marketplace.seller_id"),
			AuthToken:      v.GetString("marketplace.auth_token"),
			RequestTimeout: v.GetDuration("marketplace.request_timeout"),
			MaxRetries:     v.GetInt("marketplace.max_retries"),
		},
		Storage: StorageConfig{
			Provider:        v.GetString("storage.provider"),
			Bucket:          v.GetString("storage.bucket"),
			Region:          v.GetString("storage.region"),
			Endpoint:        v.GetString("storage.endpoint"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			KeyPrefix:       v.GetString("storage.key_prefix"),
			LocalPath:       v.GetString("storage.local_path"),
		},
		Feed: FeedConfig{
			FacilityID:          v.GetString("feed.facility_id"),
			MaxFailures:         v.GetInt("feed.max_failures"),
			ExtractBatchSize:    v.GetInt("feed.extract_batch_size"),
			ImportBatchSize:     v.GetInt("feed.import_batch_size"),
			AckBatchSize:        v.GetInt("feed.ack_batch_size"),
			RequireInventory:    v.GetBool("feed.require_inventory"),
			RequireTaxAuthority: v.GetBool("feed.require_tax_authority"),
			UseUPCAsSKU:         v.GetBool("feed.use_upc_as_sku"),
			AutoApproveOrders:   v.GetBool("feed.auto_approve_orders"),
		},
		Statement: StatementConfig{
			BucketDays:         v.GetInt("statement.bucket_days"),
			BucketCount:        v.GetInt("statement.bucket_count"),
			UseAgingDate:       v.GetBool("statement.use_aging_date"),
			PeriodDays:         v.GetInt("statement.period_days"),
			FinanceChargeRate:  v.GetFloat64("statement.finance_charge_rate"),
			FinanceChargeGrace: v.GetInt("statement.finance_charge_grace"),
		},
		Notification: NotificationConfig{
			Enabled:   v.GetBool("notification.enabled"),
			SMTPHost:  v.GetString("notification.smtp_host"),
			SMTPPort:  v.GetInt("notification.smtp_port"),
			FromEmail: v.GetString("notification.from_email"),
			ToEmails:  v.GetStringSlice("notification.to_emails"),
		},
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "sellercentric-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "sellercentric"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 300
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.Scheduler.SyncCronSchedule == "" {
		cfg.Scheduler.SyncCronSchedule = "*/15 * * * *"
	}
	if cfg.Scheduler.AckCronSchedule == "" {
		cfg.Scheduler.AckCronSchedule = "*/30 * * * *"
	}
	if cfg.Scheduler.ReconcileCronSchedule == "" {
		cfg.Scheduler.ReconcileCronSchedule = "5,35 * * * *"
	}
	if cfg.Scheduler.BalanceCronSchedule == "" {
		cfg.Scheduler.BalanceCronSchedule = "0 3 * * *"
	}
	if cfg.Scheduler.OutboundCronSchedule == "" {
		cfg.Scheduler.OutboundCronSchedule = "0 */4 * * *"
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 30 * time.Minute
	}
	if cfg.Marketplace.RequestTimeout == 0 {
		cfg.Marketplace.RequestTimeout = 60 * time.Second
	}
	if cfg.Marketplace.MaxRetries == 0 {
		cfg.Marketplace.MaxRetries = 3
	}
	if cfg.Storage.Provider == "" {
		cfg.Storage.Provider = "local"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.KeyPrefix == "" {
		cfg.Storage.KeyPrefix = "feeds"
	}
	if cfg.Storage.LocalPath == "" {
		cfg.Storage.LocalPath = "./data/feeds"
	}
	if cfg.Feed.FacilityID == "" {
		cfg.Feed.FacilityID = "MAIN"
	}
	if cfg.Feed.MaxFailures == 0 {
		cfg.Feed.MaxFailures = 3
	}
	if cfg.Feed.ExtractBatchSize == 0 {
		cfg.Feed.ExtractBatchSize = 50
	}
	if cfg.Feed.ImportBatchSize == 0 {
		cfg.Feed.ImportBatchSize = 50
	}
	if cfg.Feed.AckBatchSize == 0 {
		cfg.Feed.AckBatchSize = 100
	}
	if cfg.Statement.BucketDays == 0 {
		cfg.Statement.BucketDays = 30
	}
	if cfg.Statement.BucketCount == 0 {
		cfg.Statement.BucketCount = 5
	}
	if cfg.Statement.PeriodDays == 0 {
		cfg.Statement.PeriodDays = 30
	}
	if cfg.Statement.FinanceChargeGrace == 0 {
		cfg.Statement.FinanceChargeGrace = 30
	}
	if cfg.Notification.SMTPPort == 0 {
		cfg.Notification.SMTPPort = 587
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	// Validate connection pool settings
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Statement.BucketDays < 0 {
		return fmt.Errorf("statement.bucket_days cannot be negative")
	}
	if c.Statement.BucketCount < 0 {
		return fmt.Errorf("statement.bucket_count cannot be negative")
	}
	if c.Statement.FinanceChargeRate < 0 {
		return fmt.Errorf("statement.finance_charge_rate cannot be negative, got %f", c.Statement.FinanceChargeRate)
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.Marketplace.Endpoint == "" {
			return fmt.Errorf("marketplace.endpoint is required in production")
		}
		if c.Marketplace.AuthToken == "" {
			return fmt.Errorf("marketplace.auth_token is required in production")
		}
		if c.Storage.Provider == "s3" && c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required when storage.provider is 's3'")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
