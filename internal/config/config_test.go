package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), *cfg)
	assert.Equal(t, 30*time.Second, cfg.Search.CacheDuration)
	assert.Equal(t, 1000, cfg.UI.PageSize)
	assert.Equal(t, 150*time.Millisecond, cfg.UI.Debounce)
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
debug = true

[search]
cache_duration = "5s"
max_depth = 4

[ui]
page_size = 50
theme = "light"

[logs]
level = "debug"
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 5*time.Second, cfg.Search.CacheDuration)
	assert.Equal(t, 4, cfg.Search.MaxDepth)
	assert.Equal(t, 50, cfg.Search.ChunkSize, "untouched keys keep defaults")
	assert.Equal(t, 50, cfg.UI.PageSize)
	assert.Equal(t, "light", cfg.ResolveTheme())
	assert.Equal(t, "debug", cfg.Logs.Level)
	assert.Equal(t, 10, cfg.Logs.MaxSizeMB)
}

func TestLoadFileParseError(t *testing.T) {
	path := writeConfig(t, "[search\ncache_duration = ")
	cfg, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.toml parse error")
	require.NotNil(t, cfg)
	assert.Equal(t, Defaults().Search, cfg.Search)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[search]
cache_duration = "5s"
`)
	t.Setenv("FZGREP_CACHE_DURATION", "2m")
	t.Setenv("FZGREP_PAGE_SIZE", "25")
	t.Setenv("FZGREP_DEBUG", "true")
	t.Setenv("FZGREP_LOG_FORMAT", "text")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.Search.CacheDuration)
	assert.Equal(t, 25, cfg.UI.PageSize)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "text", cfg.Logs.Format)
}

func TestEnvBadValue(t *testing.T) {
	t.Setenv("FZGREP_PAGE_SIZE", "lots")
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "env override")
}

func TestLoadCachesUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, DirName), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, DirName, FileName), []byte("[ui]\npage_size = 7\n"), 0o644))

	cfg, err := Reload()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.UI.PageSize)

	again, err := Load()
	require.NoError(t, err)
	assert.Same(t, cfg, again)

	t.Cleanup(func() {
		cachedMu.Lock()
		cached = nil
		cachedMu.Unlock()
	})
}

func TestConversions(t *testing.T) {
	cfg := Defaults()
	cfg.Debug = true
	cfg.Logs.RingBufferMB = 2

	lc := cfg.LogConfig("/tmp/fz")
	assert.Equal(t, "/tmp/fz", lc.LogDir)
	assert.True(t, lc.Debug)
	assert.Equal(t, 2*1024*1024, lc.RingBufferSize)
	assert.Equal(t, 3, lc.MaxBackups)

	opts := cfg.SearchOptions()
	assert.Equal(t, cfg.Search.CacheDuration, opts.CacheDuration)
	assert.EqualValues(t, 100, opts.MaxConcurrentReads)
}

func TestResolveThemeDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "dark", cfg.ResolveTheme())
	cfg.UI.Theme = "weird"
	assert.Equal(t, "dark", cfg.ResolveTheme())
}
