// Package config loads loginwatch settings from defaults, an optional YAML
// file, the environment and command-line overrides, in that order.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	DeliveryTelegram = "telegram"
	DeliveryLog      = "log"
)

// ConfigPathEnvVar names a config file to use when Options.Path is empty.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when no file is given explicitly.
var DefaultConfigPaths = []string{
	"loginwatch.yaml",
	"/etc/loginwatch/config.yaml",
}

type Config struct {
	GeoIP          GeoIPConfig    `koanf:"geoip"`
	Delivery       string         `koanf:"delivery"`
	Telegram       TelegramConfig `koanf:"telegram"`
	Exclusions     []string       `koanf:"exclusions"`
	HostLabel      string         `koanf:"host_label"`
	ResolveTimeout time.Duration  `koanf:"resolve_timeout"`
	Logging        LoggingConfig  `koanf:"logging"`
	Status         StatusConfig   `koanf:"status"`
}

type GeoIPConfig struct {
	DBPath string `koanf:"db_path"`
}

type TelegramConfig struct {
	APIURL  string        `koanf:"api_url"`
	Token   string        `koanf:"token"`
	ChatID  string        `koanf:"chat_id"`
	Timeout time.Duration `koanf:"timeout"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// StatusConfig controls the optional operator HTTP server. Empty Addr
// disables it.
type StatusConfig struct {
	Addr string `koanf:"addr"`
}

// Options tune a Load call. Overrides are koanf paths (e.g. "logging.level")
// applied after the environment.
type Options struct {
	Path      string
	Overrides map[string]any
}

func defaultConfig() Config {
	return Config{
		Delivery: DeliveryTelegram,
		Telegram: TelegramConfig{
			APIURL:  "https://api.telegram.org",
			Timeout: 30 * time.Second,
		},
		HostLabel:      "ROBERTSERVER",
		ResolveTimeout: 5 * time.Second,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

var envMappings = map[string]string{
	"geoip2_db_path":   "geoip.db_path",
	"delivery":         "delivery",
	"telegram_api_url": "telegram.api_url",
	"telegram_token":   "telegram.token",
	"telegram_chat_id": "telegram.chat_id",
	"telegram_timeout": "telegram.timeout",
	"excluded_ips":     "exclusions",
	"host_label":       "host_label",
	"resolve_timeout":  "resolve_timeout",
	"log_level":        "logging.level",
	"log_format":       "logging.format",
	"status_addr":      "status.addr",
}

var sliceConfigPaths = []string{"exclusions"}

func Load(opts Options) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	path := opts.Path
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	for key, val := range opts.Overrides {
		if err := k.Set(key, val); err != nil {
			return Config{}, fmt.Errorf("set %s: %w", key, err)
		}
	}

	if err := splitSliceFields(k); err != nil {
		return Config{}, err
	}
	if err := validate(k.Raw()); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func envTransform(key string) string {
	return envMappings[strings.ToLower(key)]
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// splitSliceFields turns comma-separated strings coming from the environment
// into string slices. Blank items are dropped.
func splitSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		items := []string{}
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		if err := k.Set(path, items); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}
