// Package config loads fzgrep's user settings from ~/.fzgrep/config.toml and
// applies FZGREP_* environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	dark "github.com/thiagokokada/dark-mode-go"

	"github.com/fzgrep/fzgrep/internal/logging"
	"github.com/fzgrep/fzgrep/internal/search"
)

const (
	// DirName is the per-user data directory under $HOME.
	DirName = ".fzgrep"
	// FileName is the config file inside DirName.
	FileName = "config.toml"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "FZGREP"
)

// Config is the full user configuration.
type Config struct {
	// Debug enables file logging to ~/.fzgrep/debug.log
	Debug bool `toml:"debug" envconfig:"DEBUG"`

	Search SearchSettings `toml:"search" ignored:"true"`
	UI     UISettings     `toml:"ui" ignored:"true"`
	Logs   LogSettings    `toml:"logs" ignored:"true"`
}

// SearchSettings tunes the search engine. Zero values fall back to the
// engine defaults.
type SearchSettings struct {
	CacheDuration      time.Duration `toml:"cache_duration" envconfig:"CACHE_DURATION"`
	MaxDepth           int           `toml:"max_depth" envconfig:"MAX_DEPTH"`
	ChunkSize          int           `toml:"chunk_size" envconfig:"CHUNK_SIZE"`
	MaxConcurrentReads int64         `toml:"max_concurrent_reads" envconfig:"MAX_CONCURRENT_READS"`
	MaxFileSize        int64         `toml:"max_file_size" envconfig:"MAX_FILE_SIZE"`
	MaxContentSize     int64         `toml:"max_content_size" envconfig:"MAX_CONTENT_SIZE"`
	MaxLineLength      int           `toml:"max_line_length" envconfig:"MAX_LINE_LENGTH"`
	MaxMatchesPerFile  int           `toml:"max_matches_per_file" envconfig:"MAX_MATCHES_PER_FILE"`
	QueryCacheSize     int           `toml:"query_cache_size" envconfig:"QUERY_CACHE_SIZE"`
}

// UISettings configures the interactive view.
type UISettings struct {
	PageSize     int           `toml:"page_size" envconfig:"PAGE_SIZE"`
	Debounce     time.Duration `toml:"debounce" envconfig:"DEBOUNCE"`
	TickInterval time.Duration `toml:"tick_interval" envconfig:"TICK_INTERVAL"`
	// Theme is "dark" (default), "light" or "system"
	Theme string `toml:"theme" envconfig:"THEME"`
}

// LogSettings mirrors logging.Config for the file.
type LogSettings struct {
	Level                 string `toml:"level" envconfig:"LEVEL"`
	Format                string `toml:"format" envconfig:"FORMAT"`
	MaxSizeMB             int    `toml:"max_size_mb" envconfig:"MAX_SIZE_MB"`
	Backups               int    `toml:"backups" envconfig:"BACKUPS"`
	RetentionDays         int    `toml:"retention_days" envconfig:"RETENTION_DAYS"`
	Compress              bool   `toml:"compress" envconfig:"COMPRESS"`
	RingBufferMB          int    `toml:"ring_buffer_mb" envconfig:"RING_BUFFER_MB"`
	PprofEnabled          bool   `toml:"pprof_enabled" envconfig:"PPROF"`
	AggregateIntervalSecs int    `toml:"aggregate_interval_secs" envconfig:"AGGREGATE_INTERVAL_SECS"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	opts := search.DefaultOptions()
	return Config{
		Search: SearchSettings{
			CacheDuration:      opts.CacheDuration,
			MaxDepth:           opts.MaxDepth,
			ChunkSize:          opts.ChunkSize,
			MaxConcurrentReads: opts.MaxConcurrentReads,
			MaxFileSize:        opts.MaxFileSize,
			MaxContentSize:     opts.MaxContentSize,
			MaxLineLength:      opts.MaxLineLength,
			MaxMatchesPerFile:  opts.MaxMatchesPerFile,
			QueryCacheSize:     opts.QueryCacheSize,
		},
		UI: UISettings{
			PageSize:     1000,
			Debounce:     150 * time.Millisecond,
			TickInterval: 50 * time.Millisecond,
			Theme:        "dark",
		},
		Logs: LogSettings{
			Level:                 "info",
			Format:                "json",
			MaxSizeMB:             10,
			Backups:               3,
			RetentionDays:         7,
			RingBufferMB:          1,
			AggregateIntervalSecs: 30,
		},
	}
}

var (
	cached   *Config
	cachedMu sync.RWMutex
)

// Dir returns ~/.fzgrep.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// Path returns the config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load returns the user config, reading it on first use.
// A parse error is returned alongside the defaults so the caller can report it
// and keep going.
func Load() (*Config, error) {
	cachedMu.RLock()
	if cached != nil {
		defer cachedMu.RUnlock()
		return cached, nil
	}
	cachedMu.RUnlock()

	cachedMu.Lock()
	defer cachedMu.Unlock()
	if cached != nil {
		return cached, nil
	}

	path, err := Path()
	if err != nil {
		cfg := Defaults()
		cached = &cfg
		return cached, nil
	}
	cfg, err := LoadFile(path)
	cached = cfg
	return cached, err
}

// Reload drops the cached config and loads it again.
func Reload() (*Config, error) {
	cachedMu.Lock()
	cached = nil
	cachedMu.Unlock()
	return Load()
}

// LoadFile decodes path over the defaults and then applies environment
// overrides. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()
	log := logging.ForComponent(logging.CompConfig)

	var fileErr error
	meta, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Debug("config_missing", "path", path)
	case err != nil:
		cfg = Defaults()
		fileErr = fmt.Errorf("config.toml parse error: %w", err)
	default:
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			log.Warn("config_unknown_keys", "path", path, "keys", fmt.Sprint(undecoded))
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return &cfg, errors.Join(fileErr, err)
	}
	return &cfg, fileErr
}

func applyEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("env override: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, &cfg.Search); err != nil {
		return fmt.Errorf("env override: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, &cfg.UI); err != nil {
		return fmt.Errorf("env override: %w", err)
	}
	if err := envconfig.Process(EnvPrefix+"_LOG", &cfg.Logs); err != nil {
		return fmt.Errorf("env override: %w", err)
	}
	return nil
}

// SearchOptions converts the [search] section into engine options.
func (c *Config) SearchOptions() search.Options {
	s := c.Search
	return search.Options{
		CacheDuration:      s.CacheDuration,
		MaxDepth:           s.MaxDepth,
		ChunkSize:          s.ChunkSize,
		MaxConcurrentReads: s.MaxConcurrentReads,
		MaxFileSize:        s.MaxFileSize,
		MaxContentSize:     s.MaxContentSize,
		MaxLineLength:      s.MaxLineLength,
		MaxMatchesPerFile:  s.MaxMatchesPerFile,
		QueryCacheSize:     s.QueryCacheSize,
	}
}

// LogConfig converts the [logs] section into a logging.Config rooted at dir.
func (c *Config) LogConfig(dir string) logging.Config {
	l := c.Logs
	return logging.Config{
		LogDir:                dir,
		Level:                 l.Level,
		Format:                l.Format,
		MaxSizeMB:             l.MaxSizeMB,
		MaxBackups:            l.Backups,
		MaxAgeDays:            l.RetentionDays,
		Compress:              l.Compress,
		RingBufferSize:        l.RingBufferMB * 1024 * 1024,
		AggregateIntervalSecs: l.AggregateIntervalSecs,
		PprofEnabled:          l.PprofEnabled,
		Debug:                 c.Debug,
	}
}

// ResolveTheme returns "dark" or "light". "system" asks the desktop and
// falls back to dark when it cannot tell.
func (c *Config) ResolveTheme() string {
	switch c.UI.Theme {
	case "light":
		return "light"
	case "system":
		isDark, err := dark.IsDarkMode()
		if err != nil || isDark {
			return "dark"
		}
		return "light"
	default:
		return "dark"
	}
}
