package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
)

type (
	Container struct {
		App     *App
		Token   *Token
		DB      *DB
		HTTP    *HTTP
		Redis   *Redis
		Storage *Storage
		Rental  *Rental
		Cache   *Cache
	}

	App struct {
		Name string
		Env  string
	}

	Token struct {
		Secret   string
		Duration string
	}

	DB struct {
		Host          string
		Port          string
		User          string
		Password      string
		Name          string
		SSLMode       string
		MigrationsDir string
	}

	HTTP struct {
		Env            string
		Port           string
		AllowedOrigins string
		URL            string
	}

	Redis struct {
		Address  string
		Password string
		DB       int
	}

	// Storage selects the entity store and read cache backends.
	Storage struct {
		Driver      string
		CacheDriver string
	}

	Rental struct {
		MaxActiveAssignments int
		LateFeePerDay        decimal.Decimal
		DepreciationRate     decimal.Decimal
	}

	Cache struct {
		ReportTTL time.Duration
		EntityTTL time.Duration
	}
)

func defaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "webike-rental-manager")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("TOKEN_DURATION", "24h")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MIGRATIONS_DIR", "./internal/adapter/postgres/migrations")
	v.SetDefault("HTTP_URL", "0.0.0.0")
	v.SetDefault("HTTP_PORT", "8081")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("STORAGE_DRIVER", DriverPostgres)
	v.SetDefault("CACHE_DRIVER", DriverRedis)
	v.SetDefault("RENTAL_MAX_ACTIVE_ASSIGNMENTS", 3)
	v.SetDefault("RENTAL_LATE_FEE_PER_DAY", "50")
	v.SetDefault("RENTAL_DEPRECIATION_RATE", "0.15")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("CACHE_ENTITY_TTL", "15m")
}

func New() (*Container, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.AutomaticEnv()
	defaults(v)

	return load(v)
}

func load(v *viper.Viper) (*Container, error) {
	env := v.GetString("APP_ENV")

	lateFee, err := decimal.NewFromString(v.GetString("RENTAL_LATE_FEE_PER_DAY"))
	if err != nil {
		return nil, fmt.Errorf("RENTAL_LATE_FEE_PER_DAY: %w", err)
	}
	rate, err := decimal.NewFromString(v.GetString("RENTAL_DEPRECIATION_RATE"))
	if err != nil {
		return nil, fmt.Errorf("RENTAL_DEPRECIATION_RATE: %w", err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("RENTAL_DEPRECIATION_RATE must be between 0 and 1, got %s", rate)
	}

	storage := &Storage{
		Driver:      v.GetString("STORAGE_DRIVER"),
		CacheDriver: v.GetString("CACHE_DRIVER"),
	}
	if storage.Driver != DriverPostgres && storage.Driver != DriverMemory {
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", storage.Driver)
	}
	if storage.CacheDriver != DriverRedis && storage.CacheDriver != DriverMemory {
		return nil, fmt.Errorf("unknown CACHE_DRIVER %q", storage.CacheDriver)
	}

	if env == "production" && v.GetString("TOKEN_SECRET") == "" {
		return nil, errors.New("TOKEN_SECRET is required in production")
	}

	return &Container{
		App: &App{
			Name: v.GetString("APP_NAME"),
			Env:  env,
		},
		Token: &Token{
			Secret:   v.GetString("TOKEN_SECRET"),
			Duration: v.GetString("TOKEN_DURATION"),
		},
		DB: &DB{
			Host:          v.GetString("DB_HOST"),
			Port:          v.GetString("DB_PORT"),
			User:          v.GetString("DB_USER"),
			Password:      v.GetString("DB_PASSWORD"),
			Name:          v.GetString("DB_NAME"),
			SSLMode:       v.GetString("DB_SSLMODE"),
			MigrationsDir: v.GetString("DB_MIGRATIONS_DIR"),
		},
		HTTP: &HTTP{
			Port:           v.GetString("HTTP_PORT"),
			AllowedOrigins: v.GetString("ALLOWED_ORIGINS"),
			URL:            v.GetString("HTTP_URL"),
			Env:            env,
		},
		Redis: &Redis{
			Address:  v.GetString("REDIS_ADDRESS"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Storage: storage,
		Rental: &Rental{
			MaxActiveAssignments: v.GetInt("RENTAL_MAX_ACTIVE_ASSIGNMENTS"),
			LateFeePerDay:        lateFee,
			DepreciationRate:     rate,
		},
		Cache: &Cache{
			ReportTTL: v.GetDuration("CACHE_TTL"),
			EntityTTL: v.GetDuration("CACHE_ENTITY_TTL"),
		},
	}, nil
}

func (d *DB) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}
