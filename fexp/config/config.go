package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	internal "github.com/ZanzyTHEbar/fast-explorer/fexp"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/filesystem/options"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Index IndexConfig `mapstructure:"index"`
	Log   LogConfig   `mapstructure:"log"`
	Shell ShellConfig `mapstructure:"shell"`
}

// IndexConfig controls how the directory tree is indexed.
type IndexConfig struct {
	Root           string   `mapstructure:"root"`
	MaxDepth       int      `mapstructure:"maxDepth"`
	IncludeHidden  bool     `mapstructure:"includeHidden"`
	FollowSymlinks bool     `mapstructure:"followSymlinks"`
	IgnoreFile     string   `mapstructure:"ignoreFile"`
	IgnorePatterns []string `mapstructure:"ignorePatterns"`
	Workers        int      `mapstructure:"workers"`
}

// LogConfig stores logging destinations and rotation.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"maxSizeMB"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAgeDays"`
	Compress   bool   `mapstructure:"compress"`
}

// ShellConfig stores interactive shell settings.
type ShellConfig struct {
	Color      string `mapstructure:"color"` // auto, always or never
	PathWidth  int    `mapstructure:"pathWidth"`
	MaxResults int    `mapstructure:"maxResults"` // 0 renders every row
	Prompt     string `mapstructure:"prompt"`
	StatsTop   int    `mapstructure:"statsTop"` // entries in each :stats ranking
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
// Environment variables take the FEXP_ prefix with dots replaced by
// underscores, e.g. FEXP_INDEX_MAXDEPTH.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(internal.DefaultConfigPath)
		v.AddConfigPath(filepath.Join("/etc", internal.DefaultAppName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix(internal.DefaultEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Defaults and environment are enough to run.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	AppConfig = cfg
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := options.DefaultIndexOptions(".")

	v.SetDefault("index.root", defaults.Root)
	v.SetDefault("index.maxDepth", defaults.MaxDepth)
	v.SetDefault("index.includeHidden", defaults.IncludeHidden)
	v.SetDefault("index.followSymlinks", defaults.FollowSymlinks)
	v.SetDefault("index.ignoreFile", defaults.IgnoreFile)
	v.SetDefault("index.ignorePatterns", []string{})
	v.SetDefault("index.workers", defaults.Workers)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
	v.SetDefault("log.maxSizeMB", 10)
	v.SetDefault("log.maxBackups", 3)
	v.SetDefault("log.maxAgeDays", 28)
	v.SetDefault("log.compress", false)

	v.SetDefault("shell.color", "auto")
	v.SetDefault("shell.pathWidth", internal.DefaultPathColumnSize)
	v.SetDefault("shell.maxResults", 0)
	v.SetDefault("shell.prompt", "> ")
	v.SetDefault("shell.statsTop", 10)
}

// IndexOptions converts the index section into indexer options. A non-empty
// root overrides the configured one.
func (c *Config) IndexOptions(root string) options.IndexOptions {
	if root == "" {
		root = c.Index.Root
	}
	return options.IndexOptions{
		Root:           root,
		MaxDepth:       c.Index.MaxDepth,
		IncludeHidden:  c.Index.IncludeHidden,
		FollowSymlinks: c.Index.FollowSymlinks,
		IgnoreFile:     c.Index.IgnoreFile,
		IgnorePatterns: c.Index.IgnorePatterns,
		Workers:        c.Index.Workers,
	}
}

// LogOptions converts the log section for internal.NewLogger.
func (c *Config) LogOptions() internal.LogOptions {
	return internal.LogOptions{
		Level:      c.Log.Level,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Compress:   c.Log.Compress,
		Console:    c.Log.File == "",
	}
}
