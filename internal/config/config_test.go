// internal/config/config_test.go
package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("CAP_TABLE_AUTHORIZED_SHARES", "")
	t.Setenv("CAP_TABLE_FOUNDER_SHARES", "")
	t.Setenv("CAP_TABLE_POOL_SHARES", "")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, DefaultTotalAuthorizedShares, cfg.CapTable.TotalAuthorizedShares)
	assert.Equal(t, int64(8_000_000), cfg.CapTable.FounderShares)
	assert.Equal(t, int64(1_000_000), cfg.CapTable.PoolShares)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/studio.db")
	t.Setenv("CAP_TABLE_POOL_SHARES", "1_500_000")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SERVER_RATE_LIMIT_RPS", "2.5")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "FALSE")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, int64(1_500_000), cfg.CapTable.PoolShares)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 2.5, cfg.Server.RateLimitRPS)
	assert.False(t, cfg.Telemetry.Insecure)
	assert.True(t, strings.HasPrefix(cfg.Database.DSN(), "file:/tmp/studio.db?"))
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Environment: "production",
			Database:    DatabaseConfig{Driver: DriverPostgres, Password: "pw"},
			JWT:         JWTConfig{SecretKey: "rotated"},
			CapTable:    CapTableConfig{TotalAuthorizedShares: 100, FounderShares: 80, PoolShares: 10},
		}
	}

	assert.NoError(t, base().Validate())

	cfg := base()
	cfg.JWT.SecretKey = DefaultJWTSecret
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Database.Password = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Database.Driver = DriverSQLite
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.CapTable.PoolShares = 30
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.CapTable.TotalAuthorizedShares = 0
	assert.Error(t, cfg.Validate())
}

func TestPostgresDSN(t *testing.T) {
	d := DatabaseConfig{Driver: DriverPostgres, Host: "db", Port: "5432", User: "ops", Password: "pw", Database: "studio", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=ops password=pw dbname=studio sslmode=disable", d.DSN())
}
