// Package config loads process configuration from the environment (and an
// optional YAML file) into a Config.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	DefaultPort           = "8080"
	DefaultRevalidate     = 30 * time.Second
	DefaultRequestTimeout = 10 * time.Second
	DefaultDatabasePath   = "folio.db"
	DefaultSMTPHost       = "smtp.gmail.com"
	DefaultSMTPPort       = "587"
	DefaultLogLevel       = "info"
	DefaultWaveFPS        = 60
	MaxWaveFPS            = 120
)

type Config struct {
	Port     string         `json:"port"     mapstructure:"port"`
	CMS      CMSConfig      `json:"cms"      mapstructure:"cms"`
	Database DatabaseConfig `json:"database" mapstructure:"database"`
	SMTP     SMTPConfig     `json:"smtp"     mapstructure:"smtp"`
	Admin    AdminConfig    `json:"admin"    mapstructure:"admin"`
	Log      LogConfig      `json:"log"      mapstructure:"log"`
	Widgets  WidgetsConfig  `json:"widgets"  mapstructure:"widgets"`
}

type CMSConfig struct {
	// URL is the CMS base, e.g. https://cms.example.com. Empty is valid and
	// means every read degrades to empty content without network I/O.
	URL        string        `json:"url,omitempty"   mapstructure:"url"`
	Token      string        `json:"-"               mapstructure:"token"`
	Revalidate time.Duration `json:"revalidate"      mapstructure:"revalidate"`
	Timeout    time.Duration `json:"timeout"         mapstructure:"timeout"`
}

type DatabaseConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

type SMTPConfig struct {
	Host string `json:"host"         mapstructure:"host"`
	Port string `json:"port"         mapstructure:"port"`
	User string `json:"user"         mapstructure:"user"`
	Pass string `json:"-"            mapstructure:"pass"`
	To   string `json:"to,omitempty" mapstructure:"to"`
}

// Enabled reports whether contact notifications can be mailed.
func (s SMTPConfig) Enabled() bool {
	return s.User != "" && s.Pass != "" && s.To != ""
}

type AdminConfig struct {
	Username string `json:"username,omitempty" mapstructure:"username"`
	Password string `json:"-"                  mapstructure:"password"`
}

// Enabled reports whether admin routes should be mounted.
func (a AdminConfig) Enabled() bool {
	return a.Username != "" && a.Password != ""
}

type LogConfig struct {
	Level       string `json:"level"       mapstructure:"level"`
	Development bool   `json:"development" mapstructure:"development"`
}

type WidgetsConfig struct {
	WaveFPS int `json:"wave_fps" mapstructure:"wave_fps"`
}

// CMSConfigured reports whether a CMS base URL is present.
func (c *Config) CMSConfigured() bool {
	return c.CMS.URL != ""
}

// envBindings maps config keys to the environment variables that feed them,
// first match wins.
var envBindings = map[string][]string{
	"port":             {"PORT"},
	"cms.url":          {"STRAPI_URL", "NEXT_PUBLIC_STRAPI_URL"},
	"cms.token":        {"STRAPI_API_TOKEN"},
	"cms.revalidate":   {"CMS_REVALIDATE"},
	"cms.timeout":      {"CMS_TIMEOUT"},
	"database.path":    {"DATABASE_PATH"},
	"smtp.host":        {"SMTP_HOST"},
	"smtp.port":        {"SMTP_PORT"},
	"smtp.user":        {"SMTP_USER"},
	"smtp.pass":        {"SMTP_PASS"},
	"smtp.to":          {"TO_EMAIL"},
	"admin.username":   {"ADMIN_USERNAME"},
	"admin.password":   {"ADMIN_PASSWORD"},
	"log.level":        {"LOG_LEVEL"},
	"log.development":  {"LOG_DEVELOPMENT"},
	"widgets.wave_fps": {"WAVE_FPS"},
}

// Load reads configuration from the environment. When file is non-empty it
// is read first and environment variables override it.
func Load(file string) (*Config, error) {
	v := viper.NewWithOptions(
		viper.KeyDelimiter("."),
		viper.EnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")),
	)

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		_ = v.BindEnv(args...)
	}

	v.SetDefault("port", DefaultPort)
	v.SetDefault("cms.url", "")
	v.SetDefault("cms.token", "")
	v.SetDefault("cms.revalidate", DefaultRevalidate)
	v.SetDefault("cms.timeout", DefaultRequestTimeout)
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("smtp.host", DefaultSMTPHost)
	v.SetDefault("smtp.port", DefaultSMTPPort)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.development", false)
	v.SetDefault("widgets.wave_fps", DefaultWaveFPS)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	decodeHooks := mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	)

	config := &Config{}
	if err := v.Unmarshal(config, viper.DecodeHook(decodeHooks)); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	config.CMS.URL = strings.TrimRight(config.CMS.URL, "/")
	config.Widgets.WaveFPS = ClampWaveFPS(config.Widgets.WaveFPS)

	return config, nil
}

// ClampWaveFPS maps non-positive rates to the default and caps the rest at
// MaxWaveFPS.
func ClampWaveFPS(fps int) int {
	if fps <= 0 {
		return DefaultWaveFPS
	}
	return min(fps, MaxWaveFPS)
}
