package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Cache         CacheConfig
	Log           LogConfig
	Worker        WorkerConfig
	Overpass      OverpassConfig
	OpenChargeMap OpenChargeMapConfig
	Stations      StationsConfig
	Payment       PaymentConfig
	Rewards       RewardsConfig
	Auth          AuthConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	AllowOrigins []string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	OverpassCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	MaxRetries        int
}

// OverpassConfig - настройки Overpass API (список зеркал перебирается по кругу)
type OverpassConfig struct {
	Endpoints      []string
	RequestTimeout time.Duration
}

// OpenChargeMapConfig - настройки Open Charge Map API
type OpenChargeMapConfig struct {
	Enabled        bool
	BaseURL        string
	APIKey         string
	CountryCode    string
	MaxResults     int
	RequestTimeout time.Duration
}

// StationsConfig - параметры агрегации станций
type StationsConfig struct {
	DefaultRadiusKm float64
	SeedFallback    bool
	SeedFile        string
}

// PaymentConfig - параметры mock UPI платежей
type PaymentConfig struct {
	PayeeVPA            string
	PayeeName           string
	Currency            string
	SessionTimeout      time.Duration
	VerificationDelay   time.Duration
	VerificationTimeout time.Duration
	Gateway             string
	SuccessRate         float64
}

// RewardsConfig - параметры Spark Coins
type RewardsConfig struct {
	StartingBalance int64
	CurrencyPerCoin int64
}

// AuthConfig - проверка токенов внешнего auth провайдера
type AuthConfig struct {
	JWTSecret string
}

var DefaultOverpassEndpoints = []string{
	"https://overpass-api.de/api/interpreter",
	"https://maps.mail.ru/osm/tools/overpass/api/interpreter",
	"https://overpass.kumi.systems/api/interpreter",
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	viper.SetDefault("PAYMENT_SUCCESS_RATE", 1.0)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),

			AllowOrigins: parseList(viper.GetString("API_ALLOW_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			OverpassCacheTTL: time.Duration(viper.GetInt("OVERPASS_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     viper.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(viper.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxRetries:        viper.GetInt("WORKER_MAX_RETRIES"),
		},
		Overpass: OverpassConfig{
			Endpoints:      parseList(viper.GetString("OVERPASS_ENDPOINTS")),
			RequestTimeout: time.Duration(viper.GetInt("OVERPASS_REQUEST_TIMEOUT")) * time.Second,
		},
		OpenChargeMap: OpenChargeMapConfig{
			Enabled:        viper.GetBool("OCM_ENABLED"),
			BaseURL:        viper.GetString("OCM_BASE_URL"),
			APIKey:         viper.GetString("OCM_API_KEY"),
			CountryCode:    viper.GetString("OCM_COUNTRY_CODE"),
			MaxResults:     viper.GetInt("OCM_MAX_RESULTS"),
			RequestTimeout: time.Duration(viper.GetInt("OCM_REQUEST_TIMEOUT")) * time.Second,
		},
		Stations: StationsConfig{
			DefaultRadiusKm: viper.GetFloat64("STATIONS_DEFAULT_RADIUS_KM"),
			SeedFallback:    viper.GetBool("STATIONS_SEED_FALLBACK"),
			SeedFile:        viper.GetString("STATIONS_SEED_FILE"),
		},
		Payment: PaymentConfig{
			PayeeVPA:            viper.GetString("PAYMENT_PAYEE_VPA"),
			PayeeName:           viper.GetString("PAYMENT_PAYEE_NAME"),
			Currency:            viper.GetString("PAYMENT_CURRENCY"),
			SessionTimeout:      time.Duration(viper.GetInt("PAYMENT_SESSION_TIMEOUT")) * time.Second,
			VerificationDelay:   time.Duration(viper.GetInt("PAYMENT_VERIFICATION_DELAY")) * time.Millisecond,
			VerificationTimeout: time.Duration(viper.GetInt("PAYMENT_VERIFICATION_TIMEOUT")) * time.Second,
			Gateway:             viper.GetString("PAYMENT_GATEWAY"),
			SuccessRate:         viper.GetFloat64("PAYMENT_SUCCESS_RATE"),
		},
		Rewards: RewardsConfig{
			StartingBalance: viper.GetInt64("REWARDS_STARTING_BALANCE"),
			CurrencyPerCoin: viper.GetInt64("REWARDS_CURRENCY_PER_COIN"),
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("AUTH_JWT_SECRET"),
		},
	}

	cfg.applyDefaults()

	return cfg, nil
}

// applyDefaults - значения по умолчанию для незаданных параметров
func (c *Config) applyDefaults() {
	if c.Worker.ConsumerGroup == "" {
		c.Worker.ConsumerGroup = "station-prefetch-workers"
	}
	if c.Worker.StreamReadTimeout == 0 {
		c.Worker.StreamReadTimeout = 5000 * time.Millisecond
	}
	if c.Worker.MaxRetries == 0 {
		c.Worker.MaxRetries = 3
	}
	if c.Cache.OverpassCacheTTL == 0 {
		c.Cache.OverpassCacheTTL = 5 * time.Minute
	}
	if len(c.Overpass.Endpoints) == 0 {
		c.Overpass.Endpoints = append([]string(nil), DefaultOverpassEndpoints...)
	}
	if c.Overpass.RequestTimeout == 0 {
		c.Overpass.RequestTimeout = 20 * time.Second
	}
	if c.OpenChargeMap.BaseURL == "" {
		c.OpenChargeMap.BaseURL = "https://api.openchargemap.io/v3"
	}
	if c.OpenChargeMap.CountryCode == "" {
		c.OpenChargeMap.CountryCode = "IN"
	}
	if c.OpenChargeMap.MaxResults == 0 {
		c.OpenChargeMap.MaxResults = 50
	}
	if c.OpenChargeMap.RequestTimeout == 0 {
		c.OpenChargeMap.RequestTimeout = 15 * time.Second
	}
	if c.Stations.DefaultRadiusKm <= 0 {
		c.Stations.DefaultRadiusKm = 5
	}
	if c.Payment.PayeeVPA == "" {
		c.Payment.PayeeVPA = "evsparkhub@okaxis"
	}
	if c.Payment.PayeeName == "" {
		c.Payment.PayeeName = "EV Spark Hub"
	}
	if c.Payment.Currency == "" {
		c.Payment.Currency = "INR"
	}
	if c.Payment.SessionTimeout == 0 {
		c.Payment.SessionTimeout = 120 * time.Second
	}
	if c.Payment.VerificationDelay == 0 {
		c.Payment.VerificationDelay = 2000 * time.Millisecond
	}
	if c.Payment.VerificationTimeout == 0 {
		c.Payment.VerificationTimeout = 30 * time.Second
	}
	if c.Payment.Gateway == "" {
		c.Payment.Gateway = "mock_gateway"
	}
	if c.Rewards.StartingBalance == 0 {
		c.Rewards.StartingBalance = 100
	}
	if c.Rewards.CurrencyPerCoin == 0 {
		c.Rewards.CurrencyPerCoin = 10
	}
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
