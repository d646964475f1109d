package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:             "development",
		DBDriver:        "sqlite",
		DBName:          "modelseed",
		SeedStore:       "gorm",
		LanguageCode:    "en-us",
		TimeZone:        "UTC",
		UseTZ:           true,
		TracingExporter: "stdout",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"unknown driver", func(c *Config) { c.DBDriver = "oracle" }, true},
		{"unknown store", func(c *Config) { c.SeedStore = "csv" }, true},
		{"gorm on mysql", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"sql on mysql", func(c *Config) { c.DBDriver = "mysql"; c.SeedStore = "sql" }, false},
		{"bad exporter", func(c *Config) { c.TracingExporter = "zipkin" }, true},
		{"bad language code", func(c *Config) { c.LanguageCode = "not a locale!" }, true},
		{"bad time zone", func(c *Config) { c.TimeZone = "Mars/Olympus" }, true},
		{"bad time zone ignored without USE_TZ", func(c *Config) { c.TimeZone = "Mars/Olympus"; c.UseTZ = false }, false},
		{"negative pool", func(c *Config) { c.DBMaxOpenConns = -1 }, true},
		{"production default password", func(c *Config) {
			c.Env = "production"
			c.DBDriver = "postgres"
			c.DBPassword = "password"
			c.DBSSLMode = "require"
		}, true},
		{"production without ssl", func(c *Config) {
			c.Env = "prod"
			c.DBDriver = "postgres"
			c.DBPassword = "s3cure-and-long"
			c.DBSSLMode = "disable"
		}, true},
		{"production postgres", func(c *Config) {
			c.Env = "production"
			c.DBDriver = "postgres"
			c.DBPassword = "s3cure-and-long"
			c.DBSSLMode = "verify-full"
		}, false},
		{"production sqlite", func(c *Config) { c.Env = "production" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Location(t *testing.T) {
	c := validConfig()
	assert.Equal(t, time.UTC, c.Location())

	c.TimeZone = "Europe/Rome"
	assert.Equal(t, "Europe/Rome", c.Location().String())

	c.UseTZ = false
	assert.Equal(t, time.Local, c.Location())
}

func TestConfig_DSN(t *testing.T) {
	c := validConfig()
	assert.Equal(t, "modelseed.db", c.DSN())

	c.DBDriver = "postgres"
	c.DBHost, c.DBPort, c.DBUser, c.DBPassword = "db", "5432", "u", "p"
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=modelseed sslmode=disable", c.DSN())

	c.DBDriver = "mysql"
	assert.Equal(t, "u:p@tcp(db:5432)/modelseed?parseTime=true", c.DSN())

	c.DBDSN = "file::memory:"
	assert.Equal(t, "file::memory:", c.DSN())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	defer viper.Reset()
	t.Chdir(t.TempDir())

	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("SEED_STORE", " SQL ")
	t.Setenv("FAKER_SEED", "99")
	t.Setenv("USE_TZ", "false")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, "sql", c.SeedStore)
	assert.Equal(t, int64(99), c.FakerSeed)
	assert.False(t, c.UseTZ)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, 25, c.DBMaxOpenConns)
}

func TestLoadConfig_ProfileFile(t *testing.T) {
	defer viper.Reset()
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("LANGUAGE_CODE: it_IT\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.staging.yml"), []byte("TIME_ZONE: Europe/Rome\n"), 0o600))
	t.Setenv("APP_ENV", "staging")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "it_IT", c.LanguageCode)
	assert.Equal(t, "Europe/Rome", c.TimeZone)
}

func TestLoadConfig_MissingProfile(t *testing.T) {
	defer viper.Reset()
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "qa")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	defer viper.Reset()
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\n"), 0o600))
	// t.Setenv restores LOG_LEVEL once godotenv has set it
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")
	t.Setenv("APP_ENV", "development")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel)
}
