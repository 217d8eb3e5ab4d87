// Package config provides configuration management for the kc CLI.
//
// It implements the disciplined Viper pattern where Viper stays contained
// in this package and the rest of the codebase receives explicit Config structs.
// Configuration sources are resolved in this order: env > config file > defaults.
// The config file is config.json or config.yaml, looked up next to the
// executable first and then in the current directory, unless an explicit
// path is given.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Grant types accepted for authentication against the token endpoint.
const (
	GrantPassword          = "password"
	GrantClientCredentials = "client_credentials"
)

// Config is the explicit configuration struct
// This is what the rest of the codebase sees
type Config struct {
	ServerURL    string
	AuthRealm    string
	Realm        string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	GrantType    string
}

// Load reads the config file at path (or the default locations when path is
// empty), applies env overrides, and returns an explicit Config.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		found := findDefaultConfig()
		if found == "" {
			return nil, fmt.Errorf("config.json not found (looked next to the executable and in the current directory)")
		}
		v.SetConfigFile(found)
	}

	v.SetDefault("auth_realm", "master")
	v.SetDefault("grant_type", GrantClientCredentials)

	v.SetEnvPrefix("KC")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{
		ServerURL:    v.GetString("server_url"),
		AuthRealm:    v.GetString("auth_realm"),
		Realm:        v.GetString("realm"),
		ClientID:     v.GetString("client_id"),
		ClientSecret: v.GetString("client_secret"),
		Username:     v.GetString("username"),
		Password:     v.GetString("password"),
		GrantType:    v.GetString("grant_type"),
	}
	if cfg.AuthRealm == "" {
		cfg.AuthRealm = "master"
	}
	if cfg.GrantType == "" {
		cfg.GrantType = GrantClientCredentials
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures config is sane
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}

	if c.GrantType != GrantPassword && c.GrantType != GrantClientCredentials {
		return fmt.Errorf("invalid grant_type: %s (must be %s or %s)", c.GrantType, GrantPassword, GrantClientCredentials)
	}

	if c.GrantType == GrantPassword && c.Username == "" {
		return fmt.Errorf("username is required for grant_type %s", GrantPassword)
	}

	if c.GrantType == GrantClientCredentials && c.ClientID == "" {
		return fmt.Errorf("client_id is required for grant_type %s", GrantClientCredentials)
	}

	return nil
}

// findDefaultConfig returns the first config.json/config.yaml found next to
// the executable or in the current directory, or "".
func findDefaultConfig() string {
	var dirs []string
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	dirs = append(dirs, ".")

	for _, dir := range dirs {
		for _, name := range []string{"config.json", "config.yaml", "config.yml"} {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

// Display shows the effective config with secrets redacted (for kc config get)
func Display(c *Config) string {
	return fmt.Sprintf(`Configuration:
  server_url:   %s
  auth_realm:   %s
  realm:        %s
  client_id:    %s
  username:     %s
  grant_type:   %s

Sources:
  Config file:  config.json / config.yaml (next to binary or CWD, or --config)
  Environment:  KC_*
`,
		c.ServerURL,
		c.AuthRealm,
		c.Realm,
		c.ClientID,
		c.Username,
		c.GrantType,
	)
}
