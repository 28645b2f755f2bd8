package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/glabrego/zhihu-cli/internal/logging"
)

const (
	defaultAPIV3URL = "https://www.zhihu.com/api/v3"
	defaultAPIV4URL = "https://www.zhihu.com/api/v4"
	envPrefix       = "ZHIHU_"
)

// Config holds runtime settings for the CLI app.
type Config struct {
	APIV3URL          string        `koanf:"api_v3_url"`
	APIV4URL          string        `koanf:"api_v4_url"`
	DBPath            string        `koanf:"db_path"`
	LogPath           string        `koanf:"log_path"`
	LogLevel          string        `koanf:"log_level"`
	HTTPTimeout       time.Duration `koanf:"http_timeout"`
	DetailConcurrency int           `koanf:"detail_concurrency"`
	DetailRPS         float64       `koanf:"detail_rps"`
	ImageMaxWidth     int           `koanf:"image_max_width"`
	Cookie            string        `koanf:"cookie"`
	UserAgent         string        `koanf:"user_agent"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"api_v3_url":         defaultAPIV3URL,
		"api_v4_url":         defaultAPIV4URL,
		"db_path":            "zhihu.db",
		"log_path":           "zhihu.log",
		"log_level":          "info",
		"http_timeout":       "60s",
		"detail_concurrency": 1,
		"detail_rps":         0,
		"image_max_width":    600,
	}
}

func LoadFromEnv() (Config, error) {
	return Load("")
}

// Load layers defaults, the optional TOML file at path and ZHIHU_* environment
// variables, in that order. Blank environment values are ignored.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("config file: %w", err)
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file: %w", err)
		}
	}

	err := k.Load(env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		if strings.TrimSpace(value) == "" {
			return "", nil
		}
		return strings.ToLower(strings.TrimPrefix(key, envPrefix)), value
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Cookie = strings.TrimSpace(cfg.Cookie)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIV3URL == "" {
		return errors.New("api_v3_url is required")
	}
	if c.APIV4URL == "" {
		return errors.New("api_v4_url is required")
	}
	for _, u := range []string{c.APIV3URL, c.APIV4URL} {
		if strings.HasSuffix(u, "/") {
			return fmt.Errorf("API URL must not end with '/': %s", u)
		}
	}
	if c.DBPath == "" {
		return errors.New("db_path is required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive: %s", c.HTTPTimeout)
	}
	if c.DetailConcurrency < 1 {
		return fmt.Errorf("detail_concurrency must be at least 1: %d", c.DetailConcurrency)
	}
	if c.DetailRPS < 0 {
		return fmt.Errorf("detail_rps must not be negative: %v", c.DetailRPS)
	}
	if c.ImageMaxWidth <= 0 {
		return fmt.Errorf("image_max_width must be positive: %d", c.ImageMaxWidth)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
