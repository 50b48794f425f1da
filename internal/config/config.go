package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/text/currency"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Store Store

	LogLevel string
	Currency string
}

// Store selects and locates the backing store.
type Store struct {
	Driver string
	Path   string
	DSN    string
}

// Load reads an optional .env file from the working directory, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("godotenv.Load: %w", err)
	}

	return FromEnv(), nil
}

func FromEnv() Config {
	return Config{
		Store: Store{
			Driver: EnvDefault("CART_DRIVER", DriverSQLite),
			Path:   EnvDefault("CART_DB_PATH", "cart.db"),
			DSN:    os.Getenv("CART_DSN"),
		},

		LogLevel: EnvDefault("CART_LOG_LEVEL", "info"),
		Currency: EnvDefault("CART_CURRENCY", "USD"),
	}
}

func (s Store) Validate() error {
	switch s.Driver {
	case DriverSQLite:
		if s.Path == "" {
			return fmt.Errorf("sqlite driver requires a database path")
		}
	case DriverPostgres:
		if s.DSN == "" {
			return fmt.Errorf("postgres driver requires a dsn")
		}
	default:
		return fmt.Errorf("unknown driver %q: must be %s or %s", s.Driver, DriverSQLite, DriverPostgres)
	}
	return nil
}

func (c Config) CurrencyUnit() (currency.Unit, error) {
	unit, err := currency.ParseISO(c.Currency)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("currency[%s] is not valid: %w", c.Currency, err)
	}
	return unit, nil
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
