package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// fileDefaults are the persistent defaults loaded from a config file and
// environment, layered beneath the per-invocation flags (SPEC_FULL.md B,
// "Configuration").
type fileDefaults struct {
	Color           bool   `mapstructure:"color"`
	CaseInsensitive bool   `mapstructure:"case_insensitive"`
	GrammarPath     string `mapstructure:"grammar_path"`
}

// loadFileDefaults reads ~/.config/bp/config.(yaml|toml|json) and the
// BP_* environment, returning zero-value defaults (not an error) when no
// config file exists — only a malformed one is an error.
func loadFileDefaults() (fileDefaults, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetEnvPrefix("bp")
	v.AutomaticEnv()

	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "bp"))
	}
	v.AddConfigPath(".")

	v.SetDefault("color", false)
	v.SetDefault("case_insensitive", false)
	v.SetDefault("grammar_path", "")

	var defaults fileDefaults
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return defaults, err
		}
	}
	if err := v.Unmarshal(&defaults); err != nil {
		return defaults, err
	}
	return defaults, nil
}
