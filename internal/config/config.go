// Package config provides configuration types, defaults and validation for
// modal. Values are loaded by viper in cmd and decoded with mapstructure tags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/modal/internal/log"
)

// Config holds all configuration options for modal.
type Config struct {
	Editor    EditorConfig    `mapstructure:"editor"`
	UI        UIConfig        `mapstructure:"ui"`
	Registers RegistersConfig `mapstructure:"registers"`
	Watch     WatchConfig     `mapstructure:"watch"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

// EditorConfig tunes key handling.
type EditorConfig struct {
	// IdleTimeout discards a partial Normal mode sequence (a lone "d") when
	// the next key arrives later than this.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`

	// ScrollOff is the number of rows kept visible above and below the cursor.
	ScrollOff int `mapstructure:"scroll_off"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	LineNumbers   bool          `mapstructure:"line_numbers"`
	StatusTimeout time.Duration `mapstructure:"status_timeout"`
	MarkdownStyle string        `mapstructure:"markdown_style"` // "dark" (default) or "light"
}

// RegistersConfig controls register persistence between sessions.
type RegistersConfig struct {
	Persist   bool   `mapstructure:"persist"`
	Path      string `mapstructure:"path"`      // SQLite database; defaults to DefaultRegistersPath
	Clipboard bool   `mapstructure:"clipboard"` // Back "+" with the system clipboard
}

// WatchConfig controls detection of external changes to open files.
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// LogConfig controls the debug log.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the JSONL output for the "file" exporter.
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Dir returns ~/.config/modal, or "" when the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "modal")
}

func inDir(name ...string) string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(append([]string{dir}, name...)...)
}

// DefaultRegistersPath returns the default register database location.
func DefaultRegistersPath() string {
	return inDir("registers.db")
}

// DefaultTracesFilePath returns the default trace file location.
func DefaultTracesFilePath() string {
	return inDir("traces", "traces.jsonl")
}

// DefaultLogPath returns the default debug log location.
func DefaultLogPath() string {
	return inDir("modal.log")
}

// Defaults returns the configuration used when no file overrides it.
func Defaults() Config {
	return Config{
		Editor: EditorConfig{
			IdleTimeout: time.Second,
			ScrollOff:   3,
		},
		UI: UIConfig{
			LineNumbers:   true,
			StatusTimeout: 4 * time.Second,
			MarkdownStyle: "dark",
		},
		Registers: RegistersConfig{
			Persist:   true,
			Path:      DefaultRegistersPath(),
			Clipboard: true,
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 200 * time.Millisecond,
		},
		Log: LogConfig{
			Path:  DefaultLogPath(),
			Level: "info",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     DefaultTracesFilePath(),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// ResolvePaths fills empty file locations with their defaults. A config file
// may leave them blank to mean "the usual place".
func (c *Config) ResolvePaths() {
	if c.Registers.Path == "" {
		c.Registers.Path = DefaultRegistersPath()
	}
	if c.Tracing.FilePath == "" {
		c.Tracing.FilePath = DefaultTracesFilePath()
	}
	if c.Log.Path == "" {
		c.Log.Path = DefaultLogPath()
	}
}

// Validate checks every section and joins the problems found.
func (c Config) Validate() error {
	return errors.Join(
		ValidateEditor(c.Editor),
		ValidateUI(c.UI),
		ValidateRegisters(c.Registers),
		ValidateWatch(c.Watch),
		ValidateTracing(c.Tracing),
	)
}

// ValidateEditor checks key handling settings.
func ValidateEditor(e EditorConfig) error {
	if e.IdleTimeout <= 0 {
		return fmt.Errorf("editor.idle_timeout must be positive, got %s", e.IdleTimeout)
	}
	if e.ScrollOff < 0 {
		return fmt.Errorf("editor.scroll_off must not be negative, got %d", e.ScrollOff)
	}
	return nil
}

// ValidateUI checks display settings.
func ValidateUI(u UIConfig) error {
	if u.StatusTimeout <= 0 {
		return fmt.Errorf("ui.status_timeout must be positive, got %s", u.StatusTimeout)
	}
	switch u.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", u.MarkdownStyle)
	}
	return nil
}

// ValidateRegisters checks register persistence settings.
func ValidateRegisters(r RegistersConfig) error {
	if r.Persist && r.Path == "" {
		return fmt.Errorf("registers.path is required when registers.persist is true")
	}
	return nil
}

// ValidateWatch checks file watching settings.
func ValidateWatch(w WatchConfig) error {
	if w.Enabled && w.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", w.Debounce)
	}
	return nil
}

// ValidateTracing checks tracing settings.
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	switch tracing.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
	}

	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the commented YAML written by "modal init".
func DefaultConfigTemplate() string {
	return `# modal configuration

editor:
  # Discard a partial key sequence (like a lone "d") after this long.
  idle_timeout: 1s
  # Rows kept visible above and below the cursor.
  scroll_off: 3

ui:
  line_numbers: true
  # How long status messages stay on screen.
  status_timeout: 4s
  # Style for the :help page: "dark" or "light".
  markdown_style: dark

registers:
  # Keep registers between sessions.
  persist: true
  # SQLite database; empty uses ~/.config/modal/registers.db
  path: ""
  # Back the "+" register with the system clipboard.
  clipboard: true

watch:
  # Warn when an open file changes on disk.
  enabled: true
  debounce: 200ms

log:
  # Debug log, written when --debug is passed.
  path: ""
  level: info

tracing:
  enabled: false
  # none | file | stdout | otlp
  exporter: file
  file_path: ""
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
`
}

// WriteDefaultConfig writes DefaultConfigTemplate to configPath, creating
// parent directories.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
