// Package config loads darktalk settings from a TOML file and DARKTALK_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/marcus/darktalk/pkg/dialog"
	"github.com/spf13/viper"
)

const (
	envPrefix  = "DARKTALK"
	configName = "config"
	configType = "toml"
	appDir     = "darktalk"
)

// Config holds application configuration.
type Config struct {
	Labels LabelsConfig `mapstructure:"labels" toml:"labels"`
	Dialog DialogConfig `mapstructure:"dialog" toml:"dialog"`
	Serve  ServeConfig  `mapstructure:"serve" toml:"serve"`
	Log    LogConfig    `mapstructure:"log" toml:"log"`
}

// LabelsConfig holds the default button labels.
type LabelsConfig struct {
	OK     string `mapstructure:"ok" toml:"ok"`
	Cancel string `mapstructure:"cancel" toml:"cancel"`
	Abort  string `mapstructure:"abort" toml:"abort"`
}

// DialogConfig holds dialog behavior and terminal layout settings.
type DialogConfig struct {
	StackStart int  `mapstructure:"stack_start" toml:"stack_start"`
	Width      int  `mapstructure:"width" toml:"width"`
	Cancelable bool `mapstructure:"cancelable" toml:"cancelable"`
}

// ServeConfig holds the preview server settings.
type ServeConfig struct {
	Addr       string `mapstructure:"addr" toml:"addr"`
	Port       int    `mapstructure:"port" toml:"port"`
	Token      string `mapstructure:"token" toml:"token,omitempty"`
	CORSOrigin string `mapstructure:"cors_origin" toml:"cors_origin"`
}

// LogConfig holds logging settings. An empty File discards logs.
type LogConfig struct {
	File  string `mapstructure:"file" toml:"file"`
	Level string `mapstructure:"level" toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	l := dialog.DefaultLabels()
	return Config{
		Labels: LabelsConfig{OK: l.OK, Cancel: l.Cancel, Abort: l.Abort},
		Dialog: DialogConfig{StackStart: dialog.DefaultStackStart, Width: 50, Cancelable: true},
		Serve:  ServeConfig{Addr: "localhost", Port: 7420},
		Log:    LogConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/darktalk/config.toml (or the
// platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, appDir, configName+"."+configType), nil
}

// StateDir returns the directory for runtime state such as the serve
// instance file.
func StateDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("user cache dir: %w", err)
	}
	return filepath.Join(dir, appDir), nil
}

// Load reads configuration. An explicit path must exist; otherwise
// DARKTALK_CONFIG is used, then the default location, and a missing default
// file just yields the defaults. Env vars such as DARKTALK_LABELS_OK
// override file values.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetConfigType(configType)

	if path == "" {
		path = os.Getenv(envPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, appDir))
		}
		v.SetConfigName(configName)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("labels.ok", d.Labels.OK)
	v.SetDefault("labels.cancel", d.Labels.Cancel)
	v.SetDefault("labels.abort", d.Labels.Abort)
	v.SetDefault("dialog.stack_start", d.Dialog.StackStart)
	v.SetDefault("dialog.width", d.Dialog.Width)
	v.SetDefault("dialog.cancelable", d.Dialog.Cancelable)
	v.SetDefault("serve.addr", d.Serve.Addr)
	v.SetDefault("serve.port", d.Serve.Port)
	v.SetDefault("serve.token", d.Serve.Token)
	v.SetDefault("serve.cors_origin", d.Serve.CORSOrigin)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
}

// Save writes cfg as TOML, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// DialogLabels converts the label settings for dialog.WithLabels.
func (c Config) DialogLabels() dialog.Labels {
	return dialog.Labels{OK: c.Labels.OK, Cancel: c.Labels.Cancel, Abort: c.Labels.Abort}
}
