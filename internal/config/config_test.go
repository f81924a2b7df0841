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

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("WF_TEST_STR", "value")
	t.Setenv("WF_TEST_INT", "42")
	t.Setenv("WF_TEST_BAD_INT", "x")
	t.Setenv("WF_TEST_BOOL", "true")
	t.Setenv("WF_TEST_BAD_BOOL", "yes")
	t.Setenv("WF_TEST_DUR", "90s")

	assert.Equal(t, "value", GetEnv("WF_TEST_STR", "def"))
	assert.Equal(t, "def", GetEnv("WF_TEST_UNSET", "def"))
	assert.Equal(t, 42, GetEnvInt("WF_TEST_INT", 1))
	assert.Equal(t, 1, GetEnvInt("WF_TEST_BAD_INT", 1))
	assert.True(t, GetEnvBool("WF_TEST_BOOL", false))
	assert.False(t, GetEnvBool("WF_TEST_BAD_BOOL", false))
	assert.Equal(t, 90*time.Second, GetEnvDuration("WF_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, GetEnvDuration("WF_TEST_UNSET", time.Second))
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wayfinder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":9000"
store: file
state_dir: /tmp/wf
redis:
  addr: redis:6379
  db: 2
`), 0o644))

	t.Setenv("WAYFINDER_STORE", "redis")
	t.Setenv("WAYFINDER_SESSION_TTL", "1h")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, StoreRedis, cfg.Store, "environment wins over the file")
	assert.Equal(t, "/tmp/wf", cfg.StateDir)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, "claude-3-haiku-20240307", cfg.Feedback.Model)
}

func TestLoad_PrivacyFromEnv(t *testing.T) {
	t.Setenv("WAYFINDER_ENCRYPTION_KEY", "active")
	t.Setenv("WAYFINDER_ENCRYPTION_FALLBACK_KEYS", "old1, old2,")
	t.Setenv("WAYFINDER_MASK_NAMES", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "active", cfg.Privacy.EncryptionKey)
	assert.Equal(t, []string{"old1", "old2"}, cfg.Privacy.FallbackKeys)
	assert.True(t, cfg.Privacy.MaskNames)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)
}

func TestLoad_RejectsUnknownStore(t *testing.T) {
	t.Setenv("WAYFINDER_STORE", "etcd")
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "unknown store")
}

func TestWatcher_ReportsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "graphs"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatcher(dir, WithSettle(20*time.Millisecond))
	events, err := w.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "graphs", "a.yaml"), []byte("id: a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	select {
	case name := <-events:
		assert.Equal(t, "graphs/a.yaml", name)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watcher event")
	}

	cancel()
	for range events {
	}
}
