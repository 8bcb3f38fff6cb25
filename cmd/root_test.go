package cmd

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// executeCommand runs the root command with args against an isolated
// config and state directory and returns stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("HOME", dir)
	t.Setenv("DARKTALK_CONFIG", "")

	configPath, logFile, debug = "", "", false
	renderFlags = dialogFlags{}
	renderPercent, renderInner = 0, false
	configInitForce = false

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExitError(t *testing.T) {
	cause := errors.New("dialog cancelled")
	err := error(&exitError{code: 1, err: cause})
	if !errors.Is(err, cause) {
		t.Error("exitError should unwrap to its cause")
	}
	if err.Error() != "dialog cancelled" {
		t.Errorf("Error() = %q", err.Error())
	}
	silent := &exitError{code: 2}
	if silent.Error() != "exit status 2" {
		t.Errorf("Error() = %q", silent.Error())
	}
}

func TestLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "darktalk.log")
	if _, err := executeCommand(t, "--debug", "--log-file", logPath, "render", "alert", "Hi"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "dialog shown") {
		t.Errorf("log = %q, want dialog lifecycle entry", data)
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersion("v1.2.3")
	t.Cleanup(func() { SetVersion("") })

	out, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "darktalk v1.2.3 ") {
		t.Errorf("out = %q", out)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := executeCommand(t, "--config", path, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if strings.TrimSpace(out) != "wrote "+path {
		t.Errorf("out = %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read written config: %v", err)
	}
	if !strings.Contains(string(data), "stack_start = 100") {
		t.Errorf("config = %q", data)
	}

	if _, err := executeCommand(t, "--config", path, "config", "init"); err == nil {
		t.Error("expected error when the file exists")
	}
	if _, err := executeCommand(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force: %v", err)
	}

	out, err = executeCommand(t, "--config", path, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, want %q", out, path)
	}
}

func TestMissingExplicitConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.toml")
	if _, err := executeCommand(t, "--config", missing, "render", "alert", "Hi"); err == nil {
		t.Error("expected error for a missing --config file")
	}
}
