package config

import (
	"time"

	"github.com/Heidric/shop-admin/pkg/log"
	"github.com/Heidric/shop-admin/pkg/pgx"
	"github.com/Heidric/shop-admin/pkg/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/vrischmann/envconfig"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Storage struct {
	Driver      string        `envconfig:"default=memory" validate:"oneof=memory postgres sqlite"`
	MockLatency time.Duration `envconfig:"optional" validate:"gte=0"`
}

type Admin struct {
	Username string `envconfig:"default=admin" validate:"required"`
	Email    string `envconfig:"default=admin@example.com" validate:"required,email"`
	Password string `envconfig:"optional"`
}

type Config struct {
	Logger          *log.Config
	DB              *pgx.Config
	Sqlite          *sqlite.Config
	Storage         *Storage
	Admin           *Admin
	ServerAddress   string `envconfig:"default=:8080"`
	ValidationRules string `envconfig:"default=lenient" validate:"required"`
}

var validate = validator.New()

func NewConfig() (*Config, error) {
	c := &Config{
		Logger:  &log.Config{},
		DB:      &pgx.Config{},
		Sqlite:  &sqlite.Config{},
		Storage: &Storage{},
		Admin:   &Admin{},
	}

	_ = godotenv.Load()

	if err := envconfig.Init(c); err != nil {
		return nil, err
	}

	c.DB.SetDefault()
	c.Sqlite.SetDefault()
	c.Logger.SetDefault()

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "validate config")
	}
	if c.Storage.Driver == DriverPostgres && c.DB.DSN == "" {
		return errors.New("DB_DSN is required for the postgres driver")
	}
	return nil
}
