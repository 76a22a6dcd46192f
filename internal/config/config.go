package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

const EnvPrefix = "CART"

const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	App      AppConfig
	Store    StoreConfig
	Catalog  CatalogConfig
	Redis    RedisConfig
	Postgres PostgresConfig
}

type AppConfig struct {
	ServiceName string `envconfig:"CART_SERVICE_NAME" default:"cart-pricing" validate:"required"`
	LogLevel    string `envconfig:"CART_LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"CART_LOG_FORMAT" default:"json" validate:"oneof=json console"`
	Currency    string `envconfig:"CART_CURRENCY" default:"NGN" validate:"len=3"`
	Locale      string `envconfig:"CART_LOCALE" default:"en-NG" validate:"required"`
}

type StoreConfig struct {
	Kind string `envconfig:"CART_STORE_KIND" default:"memory" validate:"oneof=memory redis postgres"`
}

type CatalogConfig struct {
	Kind              string `envconfig:"CART_CATALOG_KIND" default:"memory" validate:"oneof=memory postgres"`
	LookupConcurrency int    `envconfig:"CART_CATALOG_LOOKUP_CONCURRENCY" default:"8" validate:"gte=1,lte=128"`
}

type RedisConfig struct {
	Addr        string        `envconfig:"CART_REDIS_ADDR" default:"localhost:6379"`
	Password    string        `envconfig:"CART_REDIS_PASSWORD"`
	DB          int           `envconfig:"CART_REDIS_DB" default:"0" validate:"gte=0"`
	SnapshotTTL time.Duration `envconfig:"CART_REDIS_SNAPSHOT_TTL" default:"720h" validate:"gte=0"`
}

type PostgresConfig struct {
	DSN string `envconfig:"CART_POSTGRES_DSN"`
}

// Load reads optional dotenv files, then the environment. Missing dotenv files are skipped; variables
// already set, including by an earlier file, are not overridden.
func Load(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("godotenv.Load[%s]: %w", file, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("envconfig.Process: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if _, err := c.App.CurrencyUnit(); err != nil {
		return err
	}
	if _, err := c.App.LocaleTag(); err != nil {
		return err
	}

	if c.usesPostgres() && c.Postgres.DSN == "" {
		return fmt.Errorf("invalid config: CART_POSTGRES_DSN is required for postgres store or catalog")
	}
	if c.Store.Kind == StoreRedis && c.Redis.Addr == "" {
		return fmt.Errorf("invalid config: CART_REDIS_ADDR is required for redis store")
	}

	return nil
}

func (c Config) usesPostgres() bool {
	return c.Store.Kind == StorePostgres || c.Catalog.Kind == StorePostgres
}

func (a AppConfig) CurrencyUnit() (currency.Unit, error) {
	unit, err := currency.ParseISO(a.Currency)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("currency[%s] is not valid: %w", a.Currency, err)
	}

	return unit, nil
}

func (a AppConfig) LocaleTag() (language.Tag, error) {
	tag, err := language.Parse(a.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("locale[%s] is not valid: %w", a.Locale, err)
	}

	return tag, nil
}
