// Package config loads gantry settings from a TOML file and the environment.
//
// Sources, later overriding earlier:
//  1. Defaults
//  2. User config file (~/.gantry/config.toml)
//  3. Project config file (./gantry.toml), or the file named by $GANTRY_CONFIG
//     which replaces both file lookups
//  4. Environment variables (GANTRY_DB, GANTRY_LOG_LEVEL, GANTRY_LOG_FORMAT,
//     GANTRY_ADDR, GANTRY_CHART_WIDTH, GANTRY_CACHE, GANTRY_REDIS_URL)
//
// Command-line flags are applied by the CLI on top of the loaded Config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/alexanderramin/gantry/internal/timeline"
)

type Config struct {
	DBPath string       `toml:"db_path"`
	Log    LogConfig    `toml:"log"`
	Grid   GridConfig   `toml:"grid"`
	Chart  ChartConfig  `toml:"chart"`
	Editor EditorConfig `toml:"editor"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// GridConfig mirrors timeline.GridConfig with TOML names.
type GridConfig struct {
	DaysAbove    float64 `toml:"days_above"`
	WeeksAbove   float64 `toml:"weeks_above"`
	MonthsAbove  float64 `toml:"months_above"`
	MinTickWidth float64 `toml:"min_tick_width"`
	BufferDays   int     `toml:"buffer_days"`
	PadUnits     int     `toml:"pad_units"`
}

type ChartConfig struct {
	Width     float64 `toml:"width"`
	RowHeight float64 `toml:"row_height"`
	Stub      float64 `toml:"stub"`
	StyleFile string  `toml:"style_file"`
}

type EditorConfig struct {
	IdleTimeout Duration `toml:"idle_timeout"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type CacheConfig struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"`
	URL     string   `toml:"url"`
	TTL     Duration `toml:"ttl"`
}

// Duration decodes TOML strings such as "30s" or "5m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	home, _ := os.UserHomeDir()
	g := timeline.DefaultGridConfig()
	l := timeline.DefaultLayout()
	return &Config{
		DBPath: filepath.Join(home, ".gantry", "gantry.db"),
		Log:    LogConfig{Level: "info", Format: "text"},
		Grid: GridConfig{
			DaysAbove:    g.DaysAbove,
			WeeksAbove:   g.WeeksAbove,
			MonthsAbove:  g.MonthsAbove,
			MinTickWidth: g.MinTickWidth,
			BufferDays:   g.BufferDays,
			PadUnits:     g.PadUnits,
		},
		Chart: ChartConfig{
			Width:     1200,
			RowHeight: l.RowHeight,
			Stub:      l.Stub,
		},
		Editor: EditorConfig{IdleTimeout: Duration{30 * time.Second}},
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
		Cache: CacheConfig{
			Backend: "none",
			Dir:     filepath.Join(home, ".gantry", "cache"),
			TTL:     Duration{24 * time.Hour},
		},
	}
}

// Load resolves configuration from defaults, files and environment, then
// validates the result.
func Load() (*Config, error) {
	return LoadPath("")
}

// LoadPath is Load with an explicit config file that replaces the file
// lookup. An empty path behaves like Load.
func LoadPath(path string) (*Config, error) {
	cfg := Default()

	files := configFiles()
	if path != "" {
		files = []string{expandPath(path)}
	}
	for _, f := range files {
		if err := LoadFile(cfg, f); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile decodes the TOML file at path over cfg. Keys absent from the file
// keep their current values.
func LoadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.DBPath = expandPath(cfg.DBPath)
	cfg.Cache.Dir = expandPath(cfg.Cache.Dir)
	cfg.Chart.StyleFile = expandPath(cfg.Chart.StyleFile)
	return nil
}

// configFiles lists existing config files in load order.
func configFiles() []string {
	if explicit := os.Getenv("GANTRY_CONFIG"); explicit != "" {
		return []string{expandPath(explicit)}
	}
	var files []string
	if home, err := os.UserHomeDir(); err == nil {
		user := filepath.Join(home, ".gantry", "config.toml")
		if fileExists(user) {
			files = append(files, user)
		}
	}
	if fileExists("gantry.toml") {
		files = append(files, "gantry.toml")
	}
	return files
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GANTRY_DB"); v != "" {
		cfg.DBPath = expandPath(v)
	}
	if v := os.Getenv("GANTRY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("GANTRY_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("GANTRY_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("GANTRY_CHART_WIDTH"); v != "" {
		if w, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Chart.Width = w
		}
	}
	if v := os.Getenv("GANTRY_CACHE"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("GANTRY_REDIS_URL"); v != "" {
		cfg.Cache.URL = v
	}
}

// Validate rejects settings the engine cannot work with.
func (c *Config) Validate() error {
	if err := c.GridConfig().Validate(); err != nil {
		return err
	}
	if c.Chart.Width <= 0 {
		return fmt.Errorf("chart width must be positive (got %g)", c.Chart.Width)
	}
	if c.Chart.RowHeight <= 0 {
		return fmt.Errorf("chart row_height must be positive (got %g)", c.Chart.RowHeight)
	}
	if c.Editor.IdleTimeout.Duration < 0 {
		return fmt.Errorf("editor idle_timeout must not be negative")
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json", "logfmt":
	default:
		return fmt.Errorf("unknown log format %q (expected text, json or logfmt)", c.Log.Format)
	}
	return nil
}

// GridConfig converts to the timeline thresholds.
func (c *Config) GridConfig() timeline.GridConfig {
	return timeline.GridConfig{
		DaysAbove:    c.Grid.DaysAbove,
		WeeksAbove:   c.Grid.WeeksAbove,
		MonthsAbove:  c.Grid.MonthsAbove,
		MinTickWidth: c.Grid.MinTickWidth,
		BufferDays:   c.Grid.BufferDays,
		PadUnits:     c.Grid.PadUnits,
	}
}

// Layout converts to the timeline row geometry. The bar fills half a row.
func (c *Config) Layout() timeline.Layout {
	l := timeline.DefaultLayout()
	l.RowHeight = c.Chart.RowHeight
	l.BarHeight = c.Chart.RowHeight / 2
	l.MilestoneSize = c.Chart.RowHeight / 3
	l.Stub = c.Chart.Stub
	return l
}

// ParseLogLevel maps a level name to a charmbracelet/log Level.
func ParseLogLevel(level string) (log.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// ParseLogFormatter maps a format name to a charmbracelet/log Formatter.
func ParseLogFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

func expandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
