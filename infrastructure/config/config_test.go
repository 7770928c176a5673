package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaincfg "github.com/shalles/web-mind/domain/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 60, cfg.CacheTTLSeconds)
	assert.True(t, cfg.EnableMetrics)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9999")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("ENABLE_AUTH", "true")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("RATE_LIMIT_PER_IP", "42")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ServerAddress)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.EnableAuth)
	assert.Equal(t, 42, cfg.RateLimitPerIP)
}

func TestValidateRequiresJWTSecretInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("ENABLE_AUTH", "true")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestDomainConfigByEnvironment(t *testing.T) {
	cfg := &Config{Environment: "production"}

	limits, err := cfg.DomainConfig()
	require.NoError(t, err)
	assert.Equal(t, 5000, limits.MaxNodesPerMap)
	assert.Equal(t, 50, limits.MaxHistoryDepth)
}

func TestApplyLimitsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"max_nodes_per_map: 123\n"+
			"max_history_depth: 0\n"+
			"snap_threshold: 80\n"+
			"snap_animation_millis: 450\n",
	), 0o644))

	limits := domaincfg.DefaultDomainConfig()
	require.NoError(t, ApplyLimitsFile(limits, path))

	assert.Equal(t, 123, limits.MaxNodesPerMap)
	assert.Equal(t, 0, limits.MaxHistoryDepth, "explicit zero means unbounded")
	assert.Equal(t, 80.0, limits.SnapThreshold)
	assert.Equal(t, 450*time.Millisecond, limits.SnapAnimationDuration)
	assert.Equal(t, 10000, limits.MaxContentLength, "untouched fields keep defaults")
}

func TestDomainConfigRejectsBadLimitsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_nodes_per_map: [nope"), 0o644))

	cfg := &Config{Environment: "development", LimitsFile: path}
	_, err := cfg.DomainConfig()
	assert.Error(t, err)
}

func TestLimitsWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limits.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_nodes_per_map: 10\n"), 0o644))

	cfg := &Config{Environment: "development", LimitsFile: path}
	initial, err := cfg.DomainConfig()
	require.NoError(t, err)
	assert.Equal(t, 10, initial.MaxNodesPerMap)

	watcher, err := NewLimitsWatcher(cfg, initial, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	changed := make(chan *domaincfg.DomainConfig, 1)
	watcher.OnChange(func(next *domaincfg.DomainConfig) {
		changed <- next
	})

	require.NoError(t, os.WriteFile(path, []byte("max_nodes_per_map: 20\n"), 0o644))

	select {
	case next := <-changed:
		assert.Equal(t, 20, next.MaxNodesPerMap)
		assert.Equal(t, 20, watcher.Current().MaxNodesPerMap)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for limits reload")
	}
}

func TestLimitsWatcherInertWithoutFile(t *testing.T) {
	cfg := &Config{Environment: "development"}
	initial := domaincfg.DefaultDomainConfig()

	watcher, err := NewLimitsWatcher(cfg, initial, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.Same(t, initial, watcher.Current())
}
