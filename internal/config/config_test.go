package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment does not
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvStore, EnvDSN, EnvRedisURL, EnvLogLevel, EnvCodec} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "flowsave.yaml", `
store:
  driver: sqlite
  dsn: file:saves.db
  table: saves
codec: json
log:
  level: debug
  format: json
`)

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "file:saves.db", cfg.Store.DSN)
	assert.Equal(t, "saves", cfg.Store.Table)
	assert.Equal(t, "json", cfg.Codec)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "stderr", cfg.Log.Output)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "flowsave.yaml", "store:\n  driver: sqlite\n  dsn: a.db\n")
	t.Setenv(EnvStore, DriverRedis)
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Store.RedisURL)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides a variable that is already set, even empty.
	os.Unsetenv(EnvStore)
	os.Unsetenv(EnvDSN)
	envFile := writeFile(t, ".env", "FLOWSAVE_STORE=postgres\nFLOWSAVE_DSN=postgres://localhost/saves\n")

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/saves", cfg.Store.DSN)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	noEnv := filepath.Join(t.TempDir(), "missing.env")

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), noEnv)
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "store:\n  drvier: memory\n"), noEnv)
	assert.Error(t, err)

	_, err = Load(writeFile(t, "driver.yaml", "store:\n  driver: mongo\n"), noEnv)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(writeFile(t, "dsn.yaml", "store:\n  driver: postgres\n"), noEnv)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(writeFile(t, "redis.yaml", "store:\n  driver: redis\n"), noEnv)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(writeFile(t, "codec.yaml", "codec: xml\n"), noEnv)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
