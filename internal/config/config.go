// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads and persists akt's configuration. Settings come, in
// increasing precedence, from built-in defaults, an akt.yaml config file,
// AKT_* environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the full configuration of an akt invocation.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Language string         `mapstructure:"language" yaml:"language"`
	LogLevel string         `mapstructure:"log-level" yaml:"log-level"`
}

// DatabaseConfig describes the audit history store.
type DatabaseConfig struct {
	// Type of the backing database: "sqlite", "postgres" or "mysql".
	Type string `mapstructure:"type" yaml:"type"`
	// DSN is the connection string. For SQLite this is a file path.
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// Defaults returns the built-in configuration values.
func Defaults() map[string]any {
	return map[string]any{
		"database.type": "sqlite",
		"database.dsn":  "./akt.db",
		"language":      "en",
		"log-level":     "off",
	}
}

// getConfigPath returns the full path for the configuration file.
func getConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "akt")
		default:
			configDir = "/etc/akt"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "akt")
	}

	return filepath.Join(configDir, "akt.yaml"), nil
}

// Load builds the effective configuration for cmd. explicitPath, when not
// empty, names a config file that takes precedence over the search path.
// The second return value reports whether a config file was actually read;
// when it is false the configuration consists of defaults, environment
// variables and flags only.
func Load(cmd *cobra.Command, explicitPath string) (Config, bool, error) {
	var c Config
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName("akt")
	v.SetConfigType("yaml")

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	}

	if userConfigPath, err := getConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := getConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	found := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, false, err
		}
		found = false
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("akt")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Flags beat everything else. The flag names differ from the config
	// keys, so they are bound individually rather than via BindPFlags.
	bindFlag(v, cmd, "database.type", "db-type")
	bindFlag(v, cmd, "database.dsn", "db-dsn")
	bindFlag(v, cmd, "language", "lang")
	bindFlag(v, cmd, "log-level", "log-level")

	if err := v.Unmarshal(&c); err != nil {
		return c, found, err
	}

	return c, found, nil
}

func bindFlag(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	f := cmd.Flags().Lookup(flag)
	if f == nil {
		f = cmd.PersistentFlags().Lookup(flag)
	}
	if f == nil {
		f = cmd.InheritedFlags().Lookup(flag)
	}
	if f != nil {
		_ = v.BindPFlag(key, f)
	}
}

// Write persists c as the user (or, with system set, the machine-wide)
// config file, creating the directory as needed.
func Write(c *Config, system bool) (string, error) {
	path, err := getConfigPath(system)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600 as the DSN may contain credentials.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}

	return path, nil
}
