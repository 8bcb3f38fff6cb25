package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/marcus/darktalk/internal/config"
	"github.com/spf13/cobra"
)

var (
	version string

	configPath string
	logFile    string
	debug      bool

	// cfg and logger are set by PersistentPreRunE before any command runs.
	cfg      = config.Default()
	logger   = slog.New(slog.NewTextHandler(io.Discard, nil))
	logClose func() error
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

var rootCmd = &cobra.Command{
	Use:   "darktalk",
	Short: "Modal alert, confirm, prompt and progress dialogs",
	Long: `darktalk - modal dialogs for the terminal and the browser.

Show alert, confirm, prompt and progress dialogs from shell scripts, render
their sanitized markup, or preview and drive them over HTTP with serve.

Exit status is 0 when a dialog is accepted, 1 when it is cancelled and 2
when it closes without an answer.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logClose == nil {
			return nil
		}
		closeLog := logClose
		logClose = nil
		return closeLog()
	},
}

// Execute runs the root command
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", exit.err)
		}
		os.Exit(exit.code)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "dialogs", Title: "Dialogs:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/darktalk/config.toml)")
	pf.StringVar(&logFile, "log-file", "", "Write logs to this file")
	pf.BoolVar(&debug, "debug", false, "Enable debug logging")
}

// setup loads configuration and configures logging. Logs never go to the
// terminal the dialogs draw on: without a log file they are discarded.
func setup(cmd *cobra.Command, args []string) error {
	logClose = nil
	cfg = config.Default()
	if cmd.Annotations[skipConfigAnnotation] == "" {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = c
	}

	path := logFile
	if path == "" {
		path = cfg.Log.File
	}
	level := parseLevel(cfg.Log.Level)
	if debug {
		level = slog.LevelDebug
	}
	if path == "" {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		slog.SetDefault(logger)
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logClose = f.Close
	logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	logger.Debug("config loaded", "command", cmd.Name(), "config", configPath)
	return nil
}

// skipConfigAnnotation marks commands that run on the built-in defaults,
// such as those that create the config file.
const skipConfigAnnotation = "darktalk/skip-config"

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// exitError carries a specific process exit status. A nil err exits
// silently.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }
