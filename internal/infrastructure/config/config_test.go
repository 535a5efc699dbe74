package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearCatalogEnv unsets every CATALOG_ variable for the duration of the test
func clearCatalogEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "CATALOG_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearCatalogEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "product-service", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "catalog", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, 10*time.Minute, cfg.Redis.CategoryTTL)
		assert.Equal(t, "product-service", cfg.Telemetry.ServiceName)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
		assert.Equal(t, int64(1<<20), cfg.HTTP.MaxBodySize)
	})

	t.Run("loads values from environment variables with CATALOG prefix", func(t *testing.T) {
		clearCatalogEnv(t)
		t.Setenv("CATALOG_APP_PORT", "9000")
		t.Setenv("CATALOG_DATABASE_DRIVER", "sqlite")
		t.Setenv("CATALOG_DATABASE_PATH", ":memory:")
		t.Setenv("CATALOG_DATABASE_MAX_OPEN_CONNS", "1")
		t.Setenv("CATALOG_DATABASE_MAX_IDLE_CONNS", "1")
		t.Setenv("CATALOG_REDIS_ENABLED", "true")
		t.Setenv("CATALOG_REDIS_CATEGORY_TTL", "90s")
		t.Setenv("CATALOG_LOG_FORMAT", "json")
		t.Setenv("CATALOG_HTTP_MAX_BODY_SIZE", "2048")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
		assert.Equal(t, ":memory:", cfg.Database.DSN())
		assert.Equal(t, 1, cfg.Database.MaxOpenConns)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, 90*time.Second, cfg.Redis.CategoryTTL)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, int64(2048), cfg.HTTP.MaxBodySize)
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		clearCatalogEnv(t)
		t.Setenv("CATALOG_DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearCatalogEnv(t)
		t.Setenv("CATALOG_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("CATALOG_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("validates sampling ratio range", func(t *testing.T) {
		clearCatalogEnv(t)
		t.Setenv("CATALOG_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearCatalogEnv(t)
		t.Setenv("CATALOG_APP_ENV", "production")
		t.Setenv("CATALOG_DATABASE_PASSWORD", "secure-password")
		t.Setenv("CATALOG_DATABASE_SSLMODE", "require")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("CATALOG_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("CATALOG_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("rejects sqlite in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("CATALOG_DATABASE_DRIVER", "sqlite")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "in production")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "/testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})

	t.Run("sqlite uses the file path", func(t *testing.T) {
		cfg := DatabaseConfig{Driver: DriverSQLite, Path: "/var/lib/catalog.db"}
		assert.Equal(t, "/var/lib/catalog.db", cfg.DSN())
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", cfg.Addr())
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("fills unset variables only", func(t *testing.T) {
		clearCatalogEnv(t)
		t.Setenv("CATALOG_APP_PORT", "7000")
		t.Setenv("CATALOG_APP_NAME", "")
		os.Unsetenv("CATALOG_APP_NAME")

		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("CATALOG_APP_NAME=from-dotenv\nCATALOG_APP_PORT=9999\n"), 0o600))

		require.NoError(t, loadDotEnv(path))
		assert.Equal(t, "from-dotenv", os.Getenv("CATALOG_APP_NAME"))
		assert.Equal(t, "7000", os.Getenv("CATALOG_APP_PORT"))
	})
}
