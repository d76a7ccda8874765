package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/pazarhub/backend/internal/domain/marketplace"
)

// Config holds all application configuration
type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Log          LogConfig
	HTTP         HTTPConfig
	Crawler      CrawlerConfig
	Sync         SyncConfig
	Outbox       OutboxConfig
	ERP          ERPConfig
	Marketplaces map[string]MarketplaceConfig
	StatusMap    StatusMapConfig
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

// RedisConfig holds Redis connection settings for the run lock
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
}

// CrawlerConfig bounds one sync crawl
type CrawlerConfig struct {
	MaxPages    int
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// SyncConfig tunes the sync orchestrator
type SyncConfig struct {
	LockTTL       time.Duration
	ForwardOrders bool
}

// OutboxConfig tunes the background dispatcher
type OutboxConfig struct {
	Enabled      bool
	BatchSize    int
	PollInterval time.Duration
}

// ERPConfig holds the downstream ERP connection settings
type ERPConfig struct {
	BaseURL        string
	APIKey         string
	APISecret      string
	TimeoutSeconds int
	PaymentType    int
}

// MarketplaceConfig holds one marketplace connection's credentials. The
// owner id scopes every record the connection produces.
type MarketplaceConfig struct {
	Enabled   bool
	OwnerID   string
	SellerID  string
	APIKey    string
	APISecret string
	BaseURL   string // optional endpoint override, mainly for tests
}

// ToAccount converts the connection settings into an adapter account.
func (m MarketplaceConfig) ToAccount() (marketplace.Account, error) {
	ownerID, err := uuid.Parse(m.OwnerID)
	if err != nil {
		return marketplace.Account{}, fmt.Errorf("invalid owner_id %q: %w", m.OwnerID, err)
	}
	return marketplace.Account{
		OwnerID:   ownerID,
		SellerID:  m.SellerID,
		APIKey:    m.APIKey,
		APISecret: m.APISecret,
	}, nil
}

// StatusMapConfig carries operator overrides for the status tables, keyed
// marketplace -> raw status -> canonical name.
type StatusMapConfig struct {
	Orders   map[string]map[string]string
	Products map[string]map[string]string
}

// Load reads configuration from config.toml and PAZARHUB_-prefixed
// environment variables, with env taking precedence.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("PAZARHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

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
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
		},
		Crawler: CrawlerConfig{
			MaxPages:    v.GetInt("crawler.max_pages"),
			MaxAttempts: v.GetInt("crawler.max_attempts"),
			BaseBackoff: v.GetDuration("crawler.base_backoff"),
			MaxBackoff:  v.GetDuration("crawler.max_backoff"),
		},
		Sync: SyncConfig{
			LockTTL:       v.GetDuration("sync.lock_ttl"),
			ForwardOrders: v.GetBool("sync.forward_orders"),
		},
		Outbox: OutboxConfig{
			Enabled:      v.GetBool("outbox.enabled"),
			BatchSize:    v.GetInt("outbox.batch_size"),
			PollInterval: v.GetDuration("outbox.poll_interval"),
		},
		ERP: ERPConfig{
			BaseURL:        v.GetString("erp.base_url"),
			APIKey:         v.GetString("erp.api_key"),
			APISecret:      v.GetString("erp.api_secret"),
			TimeoutSeconds: v.GetInt("erp.timeout_seconds"),
			PaymentType:    v.GetInt("erp.payment_type"),
		},
		Marketplaces: make(map[string]MarketplaceConfig),
		StatusMap: StatusMapConfig{
			Orders:   stringTableMap(v.GetStringMap("statusmap.orders")),
			Products: stringTableMap(v.GetStringMap("statusmap.products")),
		},
	}

	for _, code := range marketplace.AllCodes() {
		key := "marketplaces." + strings.ToLower(code.String())
		if !v.IsSet(key) {
			continue
		}
		cfg.Marketplaces[code.String()] = MarketplaceConfig{
			Enabled:   v.GetBool(key + ".enabled"),
			OwnerID:   v.GetString(key + ".owner_id"),
			SellerID:  v.GetString(key + ".seller_id"),
			APIKey:    v.GetString(key + ".api_key"),
			APISecret: v.GetString(key + ".api_secret"),
			BaseURL:   v.GetString(key + ".base_url"),
		}
	}

	return cfg, nil
}

// Enabled returns the codes of all enabled marketplace connections in a
// stable order.
func (c *Config) Enabled() []marketplace.Code {
	var out []marketplace.Code
	for _, code := range marketplace.AllCodes() {
		if mc, ok := c.Marketplaces[code.String()]; ok && mc.Enabled {
			out = append(out, code)
		}
	}
	return out
}

// DefaultOwner returns the owner of the first enabled connection. Zero UUID
// when nothing is configured.
func (c *Config) DefaultOwner() uuid.UUID {
	for _, code := range c.Enabled() {
		if acct, ok := c.Account(code); ok {
			return acct.OwnerID
		}
	}
	return uuid.Nil
}

// stringTableMap flattens viper's nested map into tables of strings.
func stringTableMap(raw map[string]interface{}) map[string]map[string]string {
	out := make(map[string]map[string]string, len(raw))
	for code, table := range raw {
		inner, ok := table.(map[string]interface{})
		if !ok {
			continue
		}
		row := make(map[string]string, len(inner))
		for k, val := range inner {
			if s, ok := val.(string); ok {
				row[k] = s
			}
		}
		out[code] = row
	}
	return out
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "pazarhub")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.dbname", "pazarhub")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30)
	v.SetDefault("database.conn_max_idle_time", 10)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.max_header_bytes", 1<<20)

	v.SetDefault("crawler.max_pages", 5)
	v.SetDefault("crawler.max_attempts", 3)
	v.SetDefault("crawler.base_backoff", time.Second)
	v.SetDefault("crawler.max_backoff", 30*time.Second)

	v.SetDefault("sync.lock_ttl", 30*time.Minute)
	v.SetDefault("sync.forward_orders", true)

	v.SetDefault("outbox.enabled", true)
	v.SetDefault("outbox.batch_size", 50)
	v.SetDefault("outbox.poll_interval", 15*time.Second)

	v.SetDefault("erp.timeout_seconds", 30)
	v.SetDefault("erp.payment_type", 38)
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

// Addr returns the Redis host:port pair
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Account builds the adapter account for one configured marketplace
// connection. Returns false when disabled or incomplete.
func (c *Config) Account(code marketplace.Code) (marketplace.Account, bool) {
	mc, ok := c.Marketplaces[code.String()]
	if !ok || !mc.Enabled {
		return marketplace.Account{}, false
	}
	acct, err := mc.ToAccount()
	if err != nil {
		return marketplace.Account{}, false
	}
	return acct, true
}
