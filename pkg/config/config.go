package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Seating  SeatingConfig
	Exports  ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SeatingConfig holds event-independent defaults for the auto-seating engine.
// Per-event seating settings rows override these at snapshot load time.
type SeatingConfig struct {
	SeatsPerTableDefault  int
	AdjacencyPolicy       string
	ChildrenTableEnabled  bool
	ChildrenTableMinCount int
	AvoidLonelySingles    bool
	ZonePlacement         bool

	// CoupleHeavyRatio and CoupleHeavyMaxSingles tune the lonely-single
	// heuristic: a table is couple-heavy when at least CoupleHeavyRatio of
	// its occupants are couples and at most CoupleHeavyMaxSingles singles
	// are already seated there.
	CoupleHeavyRatio      float64
	CoupleHeavyMaxSingles int

	// MaxTablesPerRun bounds table creation so a pathological overflow
	// cascade fails loudly instead of looping forever.
	MaxTablesPerRun int

	ResultCacheTTL time.Duration
	CacheEnabled   bool
}

// ExportsConfig governs seating chart export endpoints.
type ExportsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Seating = SeatingConfig{
		SeatsPerTableDefault:  v.GetInt("SEATING_SEATS_PER_TABLE"),
		AdjacencyPolicy:       v.GetString("SEATING_ADJACENCY_POLICY"),
		ChildrenTableEnabled:  v.GetBool("SEATING_CHILDREN_TABLE"),
		ChildrenTableMinCount: v.GetInt("SEATING_CHILDREN_TABLE_MIN"),
		AvoidLonelySingles:    v.GetBool("SEATING_AVOID_LONELY_SINGLES"),
		ZonePlacement:         v.GetBool("SEATING_ZONE_PLACEMENT"),
		CoupleHeavyRatio:      v.GetFloat64("SEATING_COUPLE_HEAVY_RATIO"),
		CoupleHeavyMaxSingles: v.GetInt("SEATING_COUPLE_HEAVY_MAX_SINGLES"),
		MaxTablesPerRun:       v.GetInt("SEATING_MAX_TABLES_PER_RUN"),
		ResultCacheTTL:        parseDuration(v.GetString("SEATING_RESULT_CACHE_TTL"), 10*time.Minute),
		CacheEnabled:          v.GetBool("SEATING_CACHE_ENABLED"),
	}

	cfg.Exports = ExportsConfig{
		Enabled: v.GetBool("ENABLE_EXPORTS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "wedding_us")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SEATING_SEATS_PER_TABLE", 10)
	v.SetDefault("SEATING_ADJACENCY_POLICY", "same_table")
	v.SetDefault("SEATING_CHILDREN_TABLE", false)
	v.SetDefault("SEATING_CHILDREN_TABLE_MIN", 6)
	v.SetDefault("SEATING_AVOID_LONELY_SINGLES", false)
	v.SetDefault("SEATING_ZONE_PLACEMENT", false)
	v.SetDefault("SEATING_COUPLE_HEAVY_RATIO", 0.5)
	v.SetDefault("SEATING_COUPLE_HEAVY_MAX_SINGLES", 1)
	v.SetDefault("SEATING_MAX_TABLES_PER_RUN", 200)
	v.SetDefault("SEATING_RESULT_CACHE_TTL", "10m")
	v.SetDefault("SEATING_CACHE_ENABLED", false)

	v.SetDefault("ENABLE_EXPORTS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
