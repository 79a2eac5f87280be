package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Autosave AutosaveConfig `mapstructure:"autosave"`
	Search   SearchConfig   `mapstructure:"search"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url" validate:"required,httpurl"`
	AccessToken string        `mapstructure:"access_token"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type AuthConfig struct {
	URL         string `mapstructure:"url" validate:"omitempty,httpurl"`
	AnonKey     string `mapstructure:"anon_key"`
	SessionFile string `mapstructure:"session_file" validate:"required"`
}

type AutosaveConfig struct {
	Delay time.Duration `mapstructure:"delay" validate:"gt=0"`
	// PersistTimeout bounds one persist request; zero waits indefinitely.
	PersistTimeout time.Duration `mapstructure:"persist_timeout" validate:"gte=0"`
}

type SearchConfig struct {
	Delay time.Duration `mapstructure:"delay" validate:"gte=0"`
}

type WatchConfig struct {
	Directory string `mapstructure:"directory"`
	Pattern   string `mapstructure:"pattern" validate:"required"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
	envFile    string
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/notesync")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
		envFile:    ".env",
	}, nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".notesync-session.toml"
	}
	return filepath.Join(home, ".config", "notesync", "session.toml")
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	// Variables already set in the environment take precedence over .env
	if err := godotenv.Load(loader.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", loader.envFile, err)
	}

	v.SetDefault("api.base_url", "https://api.turbodoc.ai")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("auth.session_file", defaultSessionFile())
	v.SetDefault("autosave.delay", time.Second)
	v.SetDefault("autosave.persist_timeout", time.Duration(0))
	v.SetDefault("search.delay", 300*time.Millisecond)
	v.SetDefault("watch.directory", ".")
	v.SetDefault("watch.pattern", "**/*.md")
	v.SetDefault("metrics.address", "")

	envBindings := map[string]string{
		"api.base_url":     "NOTESYNC_API_URL",
		"api.access_token": "NOTESYNC_ACCESS_TOKEN",
		"auth.url":         "NOTESYNC_AUTH_URL",
		"auth.anon_key":    "NOTESYNC_AUTH_ANON_KEY",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
