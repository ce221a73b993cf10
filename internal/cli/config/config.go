// Package config loads the connection settings limsctl and EPP scripts use
// to reach the LIMS.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds everything needed to open a LIMS session.
type Config struct {
	BaseURI  string `mapstructure:"baseuri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// LogFile is where EPP scripts append their run logs.
	LogFile string `mapstructure:"log_file"`
}

// FileName is the config file base name, looked up as genologics.yaml.
const FileName = "genologics"

// Load reads the configuration from genologics.yaml in the current directory
// or the user's home directory. Environment variables with the GENOLOGICS_
// prefix override file values, so credentials can stay out of files on CI.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("timeout_seconds", 60)
	v.SetDefault("log_file", "")

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}

	v.SetEnvPrefix("GENOLOGICS")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No file: environment variables may still carry everything.
	}

	// AutomaticEnv does not surface env-only keys through Unmarshal, so bind
	// them explicitly.
	for _, key := range []string{"baseuri", "username", "password", "timeout_seconds", "log_file"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to genologics.yaml in the given directory.
func Save(cfg *Config, dir string) (string, error) {
	if err := validate(cfg); err != nil {
		return "", err
	}

	v := viper.New()
	v.Set("baseuri", cfg.BaseURI)
	v.Set("username", cfg.Username)
	v.Set("password", cfg.Password)
	v.Set("timeout_seconds", cfg.TimeoutSeconds)
	v.Set("log_file", cfg.LogFile)

	path := filepath.Join(dir, FileName+".yaml")
	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

func validate(cfg *Config) error {
	if cfg.BaseURI == "" {
		return fmt.Errorf("baseuri is required (set it in %s.yaml or GENOLOGICS_BASEURI)", FileName)
	}
	u, err := url.Parse(cfg.BaseURI)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("baseuri %q is not an absolute URL", cfg.BaseURI)
	}
	if cfg.Username == "" {
		return fmt.Errorf("username is required")
	}
	return nil
}
