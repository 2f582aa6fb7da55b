package config

import (
	"testing"

	"github.com/Heidric/shop-admin/pkg/log"
	"github.com/Heidric/shop-admin/pkg/pgx"
	"github.com/Heidric/shop-admin/pkg/sqlite"
)

func validConfig() *Config {
	return &Config{
		Logger:          (&log.Config{}).SetDefault(),
		DB:              (&pgx.Config{}).SetDefault(),
		Sqlite:          (&sqlite.Config{}).SetDefault(),
		Storage:         &Storage{Driver: DriverMemory},
		Admin:           &Admin{Username: "admin", Email: "admin@example.com"},
		ServerAddress:   ":8080",
		ValidationRules: "lenient",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mongo" }, true},
		{"postgres without dsn", func(c *Config) { c.Storage.Driver = DriverPostgres }, true},
		{"postgres with dsn", func(c *Config) {
			c.Storage.Driver = DriverPostgres
			c.DB.DSN = "postgres://localhost/shop"
		}, false},
		{"bad admin email", func(c *Config) { c.Admin.Email = "admin" }, true},
		{"negative latency", func(c *Config) { c.Storage.MockLatency = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("VALIDATION_RULES", "strict")
	t.Setenv("ADMIN_USERNAME", "root")

	c, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if c.Storage.Driver != DriverSQLite || c.Sqlite.Path != ":memory:" {
		t.Errorf("storage = %+v sqlite = %+v", c.Storage, c.Sqlite)
	}
	if c.ValidationRules != "strict" || c.Admin.Username != "root" {
		t.Errorf("rules = %q admin = %q", c.ValidationRules, c.Admin.Username)
	}
	if c.ServerAddress != ":8080" {
		t.Errorf("server address = %q", c.ServerAddress)
	}
}
