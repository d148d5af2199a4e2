package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/modal/internal/config"
	"github.com/zjrosen/modal/internal/editor"
	"github.com/zjrosen/modal/internal/log"
	"github.com/zjrosen/modal/internal/registerstore"
	"github.com/zjrosen/modal/internal/tracing"
	"github.com/zjrosen/modal/internal/ui/editorview"
	"github.com/zjrosen/modal/internal/watcher"
	"github.com/zjrosen/modal/internal/workspace"
)

func init() {
	// Query the terminal background before Bubble Tea owns stdin, otherwise
	// the OSC 11 reply can leak into the input stream as keystrokes.
	_ = lipgloss.HasDarkBackground()
}

// projectConfigPath is checked before the user config.
const projectConfigPath = ".modal/config.yaml"

var (
	version = "dev"
	cfgFile string
	debug   bool
	logFile string

	cfg     config.Config
	cfgPath string
	cfgErr  error
)

var rootCmd = &cobra.Command{
	Use:   "modal [files...]",
	Short: "A modal terminal text editor",
	Long: `modal edits text files with vi-style Normal, Insert and Command modes.

Open one or more files, or start with an empty buffer. Inside the editor,
type :help for the key reference.`,
	Version:      version,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         runEditor,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .modal/config.yaml, then ~/.config/modal/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false,
		"write a debug log")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "",
		"debug log path (default: ~/.config/modal/modal.log)")
}

func initConfig() {
	cfg, cfgPath, cfgErr = loadConfig(cfgFile)
	if logFile != "" {
		cfg.Log.Path = logFile
	}
}

// loadConfig reads configuration from explicit, or from the first config
// file found in the lookup order. It returns the file used, or the path
// ":mkconfig" should create when none was found.
func loadConfig(explicit string) (config.Config, string, error) {
	v := viper.New()
	setDefaults(v)

	path := explicit
	if path == "" {
		path = findConfig()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if explicit != "" || (!errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist)) {
				return config.Defaults(), path, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Defaults(), path, fmt.Errorf("decoding config: %w", err)
	}
	c.ResolvePaths()

	if path == "" {
		path = userConfigPath()
	}
	return c, path, nil
}

// findConfig returns the first existing config file in the lookup order.
func findConfig() string {
	if _, err := os.Stat(projectConfigPath); err == nil {
		return projectConfigPath
	}
	if p := userConfigPath(); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func userConfigPath() string {
	dir := config.Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

func setDefaults(v *viper.Viper) {
	d := config.Defaults()
	v.SetDefault("editor.idle_timeout", d.Editor.IdleTimeout)
	v.SetDefault("editor.scroll_off", d.Editor.ScrollOff)
	v.SetDefault("ui.line_numbers", d.UI.LineNumbers)
	v.SetDefault("ui.status_timeout", d.UI.StatusTimeout)
	v.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	v.SetDefault("registers.persist", d.Registers.Persist)
	v.SetDefault("registers.path", d.Registers.Path)
	v.SetDefault("registers.clipboard", d.Registers.Clipboard)
	v.SetDefault("watch.enabled", d.Watch.Enabled)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
}

func runEditor(cmd *cobra.Command, args []string) error {
	if cfgErr != nil {
		return cfgErr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if debug {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0o750); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		cleanup, err := log.InitWithTeaLog(cfg.Log.Path, "modal")
		if err != nil {
			return err
		}
		defer cleanup()
		log.SetMinLevel(log.ParseLevel(cfg.Log.Level))
		log.Info(log.CatConfig, "Starting modal", "version", version, "config", cfgPath)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			log.ErrorErr(log.CatTrace, "Failed to flush traces", err)
		}
	}()

	reg := editor.NewRegister()
	if cfg.Registers.Clipboard {
		reg.AttachClipboard(workspace.SystemClipboard{})
		reg.OnClipboardError(func(err error) {
			log.ErrorErr(log.CatRegister, "Clipboard unavailable", err)
		})
	}

	store := openRegisterStore(ctx, provider, reg)
	if store != nil {
		defer func() {
			if err := store.SaveFrom(context.Background(), reg); err != nil {
				log.ErrorErr(log.CatRegister, "Failed to save registers", err)
			}
			_ = store.Close()
		}()
	}

	opts := workspace.Options{
		Register:    reg,
		IdleTimeout: cfg.Editor.IdleTimeout,
		Tracer:      provider.Tracer(),
	}
	viewOpts := editorview.Options{
		UI:         cfg.UI,
		ScrollOff:  cfg.Editor.ScrollOff,
		ConfigPath: cfgPath,
		LogLines:   log.NewListener(ctx),
	}
	if w := startWatcher(); w != nil {
		defer func() { _ = w.Stop() }()
		opts.Watcher = w
		viewOpts.FileEvents = w.Broker()
	}

	ws := workspace.New(opts)
	for _, path := range args {
		if _, err := ws.Open(ctx, path); err != nil {
			return err
		}
	}
	if len(args) == 0 {
		ws.Scratch()
	} else {
		// start on the first file named
		for first := ws.Documents()[0]; ws.Current() != first; {
			ws.Next()
		}
	}

	model := editorview.New(ctx, ws, viewOpts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// openRegisterStore restores persisted registers into reg. Failures are
// logged and the session continues without persistence.
func openRegisterStore(ctx context.Context, provider *tracing.Provider, reg *editor.Register) *registerstore.Store {
	if !cfg.Registers.Persist {
		return nil
	}
	store, err := registerstore.Open(ctx, cfg.Registers.Path, registerstore.WithTracer(provider.Tracer()))
	if err != nil {
		log.ErrorErr(log.CatRegister, "Register persistence disabled", err, "path", cfg.Registers.Path)
		return nil
	}
	if err := store.LoadInto(ctx, reg); err != nil {
		log.ErrorErr(log.CatRegister, "Failed to load registers", err)
	}
	return store
}

func startWatcher() *watcher.Watcher {
	if !cfg.Watch.Enabled {
		return nil
	}
	w, err := watcher.New(watcher.Config{Debounce: cfg.Watch.Debounce})
	if err != nil {
		log.ErrorErr(log.CatWatcher, "File watching disabled", err)
		return nil
	}
	w.Start()
	return w
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
