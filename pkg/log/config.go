package log

type Config struct {
	Level  string `envconfig:"optional"`
	Pretty bool   `envconfig:"optional"`
}

func (c *Config) SetDefault() *Config {
	if c.Level == "" {
		c.Level = "info"
	}
	return c
}
