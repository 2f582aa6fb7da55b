package pgx

import "time"

type Config struct {
	DSN                   string        `envconfig:"optional"`
	MaxConnectionLifetime time.Duration `envconfig:"optional"`
	MaxIdleConnections    int           `envconfig:"optional"`
	MaxOpenedConnections  int           `envconfig:"optional"`
	// Timeout is the interval between watcher pings.
	Timeout      time.Duration `envconfig:"optional"`
	StartWatcher bool          `envconfig:"optional"`
}

func (c *Config) SetDefault() *Config {
	if c.MaxConnectionLifetime == 0 {
		c.MaxConnectionLifetime = time.Minute * 5
	}
	if c.MaxIdleConnections == 0 {
		c.MaxIdleConnections = 5
	}
	if c.MaxOpenedConnections == 0 {
		c.MaxOpenedConnections = 20
	}
	if c.Timeout == 0 {
		c.Timeout = time.Second * 10
	}
	return c
}
