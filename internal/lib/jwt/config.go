package jwt

import (
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/vrischmann/envconfig"
)

// Config is read from JWT_ISSUER, JWT_AUDIENCE and JWT_SECRET.
type Config struct {
	Issuer   string `envconfig:"default=shop-admin"`
	Audience string `envconfig:"default=shop-admin"`
	Secret   string
}

func NewConfig() (*Config, error) {
	c := &Config{}

	_ = godotenv.Load()

	if err := envconfig.InitWithPrefix(c, "JWT"); err != nil {
		return nil, errors.Wrap(err, "init jwt config")
	}
	if len(c.Secret) < 16 {
		return nil, errors.New("jwt secret must be at least 16 characters")
	}

	return c, nil
}
