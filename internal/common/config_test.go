package common

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the test and restores it on cleanup
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, k := range []string{"DB_URL", "GRPC_ADDR", "METRICS_ADDR", "INTAKE_WORKERS", "LOG_LEVEL", "WATCH_DEBOUNCE"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, "file:expedientes.db", cfg.Database.DSN)
	assert.Equal(t, ":8080", cfg.Server.GRPCAddr)
	assert.Empty(t, cfg.Server.MetricsAddr)
	assert.Equal(t, 4, cfg.Intake.Workers)
	assert.Equal(t, 500*time.Millisecond, cfg.Intake.Debounce)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.Database.IsPostgres())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_URL", "postgres://u:p@localhost:5432/exp?sslmode=disable")
	t.Setenv("DB_MAX_CONNS", "3")
	t.Setenv("INTAKE_WORKERS", "8")
	t.Setenv("INTAKE_TIMEOUT", "10s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := LoadConfig()
	assert.True(t, cfg.Database.IsPostgres())
	assert.Equal(t, int32(3), cfg.Database.MaxConns)
	assert.Equal(t, 8, cfg.Intake.Workers)
	assert.Equal(t, 10*time.Second, cfg.Intake.Timeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{DSN: "postgres://x", MinConns: 5, MaxConns: 2},
		Server:   ServerConfig{GRPCAddr: ":1"},
		Intake:   IntakeConfig{Workers: 1},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, CodeConfig, appErr.Code)

	cfg.Database.MinConns = 1
	require.NoError(t, cfg.Validate())

	cfg.Intake.Workers = 0
	require.Error(t, cfg.Validate())
}
