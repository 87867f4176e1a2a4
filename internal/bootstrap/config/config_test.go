package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "database:\n  dsn: test.sqlite\n")

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "test.sqlite", cfg.Database.DSN)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "local", cfg.Lock.Backend)
	assert.Equal(t, 30*time.Second, cfg.Lock.TTL)
	assert.Equal(t, 30, cfg.Audit.ExpiringWindowDays)
	assert.Equal(t, 90, cfg.Audit.UtilizationHigh)
	assert.Equal(t, 30, cfg.Audit.UtilizationLow)
	assert.Equal(t, 10, cfg.Audit.PendingBacklog)
	assert.Equal(t, "__LOST__", cfg.Verification.LostSentinel)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "audit:\n  pending_backlog: 3\n")
	t.Setenv("AV_AUDIT_PENDING_BACKLOG", "25")
	t.Setenv("AV_VERIFICATION_ROLLUP_WORKERS", "2")

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Audit.PendingBacklog)
	assert.Equal(t, 2, cfg.Verification.RollupWorkers)
}

func TestLoadRejectsRedisLockWithoutAddr(t *testing.T) {
	path := writeConfig(t, "lock:\n  backend: redis\n")

	_, err := Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lock.redis_addr")
}

func TestValidateUtilizationBand(t *testing.T) {
	cfg := Config{
		Database:     DatabaseConfig{DSN: "x.sqlite"},
		Audit:        AuditConfig{ExpiringWindowDays: 30, UtilizationLow: 95, UtilizationHigh: 90},
		Verification: VerificationConfig{LostSentinel: "__LOST__"},
	}
	require.Error(t, cfg.Validate())

	cfg.Audit.UtilizationLow = 30
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
