package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Spotify      SpotifyConfig
	Deezer       DeezerConfig
	Gemini       GeminiConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MELODEX_APP_ENV" required:"true"`
	Port         string `envconfig:"MELODEX_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MELODEX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MELODEX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MELODEX_DB_DSN"`
	Driver string `envconfig:"MELODEX_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MELODEX_DB_HOST"`
	LegacyPort     int    `envconfig:"MELODEX_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MELODEX_DB_USER"`
	LegacyPassword string `envconfig:"MELODEX_DB_PASSWORD"`
	LegacyName     string `envconfig:"MELODEX_DB_NAME"`
	LegacySSLMode  string `envconfig:"MELODEX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MELODEX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MELODEX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MELODEX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MELODEX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MELODEX_REDIS_URL"`
	Address      string        `envconfig:"MELODEX_REDIS_ADDR"`
	Password     string        `envconfig:"MELODEX_REDIS_PASSWORD"`
	DB           int           `envconfig:"MELODEX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MELODEX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MELODEX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MELODEX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MELODEX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MELODEX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MELODEX_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MELODEX_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MELODEX_JWT_EXPIRATION_MINUTES" default:"60"`
}

// SpotifyConfig drives the catalog client. BatchLimit mirrors the Web API's
// per-call ID ceiling; deployments have run with values between 10 and 20.
type SpotifyConfig struct {
	ClientID     string        `envconfig:"MELODEX_SPOTIFY_CLIENT_ID"`
	ClientSecret string        `envconfig:"MELODEX_SPOTIFY_CLIENT_SECRET"`
	TokenURL     string        `envconfig:"MELODEX_SPOTIFY_TOKEN_URL" default:"https://accounts.spotify.com/api/token"`
	BaseURL      string        `envconfig:"MELODEX_SPOTIFY_BASE_URL" default:"https://api.spotify.com/v1"`
	BatchLimit   int           `envconfig:"MELODEX_SPOTIFY_BATCH_LIMIT" default:"20"`
	Timeout      time.Duration `envconfig:"MELODEX_SPOTIFY_TIMEOUT" default:"5s"`
	MaxAttempts  int           `envconfig:"MELODEX_SPOTIFY_MAX_ATTEMPTS" default:"2"`
	SearchLimit  int           `envconfig:"MELODEX_SPOTIFY_SEARCH_LIMIT" default:"30"`
}

type DeezerConfig struct {
	BaseURL string        `envconfig:"MELODEX_DEEZER_BASE_URL" default:"https://api.deezer.com"`
	Timeout time.Duration `envconfig:"MELODEX_DEEZER_TIMEOUT" default:"5s"`
}

type GeminiConfig struct {
	APIKey  string        `envconfig:"MELODEX_GEMINI_API_KEY"`
	Model   string        `envconfig:"MELODEX_GEMINI_MODEL" default:"gemini-1.5-flash"`
	BaseURL string        `envconfig:"MELODEX_GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta"`
	Timeout time.Duration `envconfig:"MELODEX_GEMINI_TIMEOUT" default:"20s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MELODEX_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MELODEX_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
