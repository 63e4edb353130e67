// Package config loads tagger settings from defaults, an optional YAML file,
// TAGGER_* environment variables and bound command flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/goliatone/go-tagger/pkg/cards"
	"github.com/goliatone/go-tagger/pkg/journal"
	"github.com/goliatone/go-tagger/pkg/renderers/vanilla"
)

// EnvPrefix is prepended to every environment override, e.g. TAGGER_ADDR or
// TAGGER_CARDS_API_KEY.
const EnvPrefix = "TAGGER"

type Config struct {
	Addr         string        `mapstructure:"addr" yaml:"addr"`
	BasePath     string        `mapstructure:"base_path" yaml:"base_path"`
	LogPath      string        `mapstructure:"log_path" yaml:"log_path"`
	RegistryDir  string        `mapstructure:"registry_dir" yaml:"registry_dir"`
	TemplatesDir string        `mapstructure:"templates_dir" yaml:"templates_dir"`
	DevReload    bool          `mapstructure:"dev_reload" yaml:"dev_reload"`
	SessionTTL   time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`
	LogLevel     string        `mapstructure:"log_level" yaml:"log_level"`
	Development  bool          `mapstructure:"development" yaml:"development"`
	Cards        Cards         `mapstructure:"cards" yaml:"cards"`
	Theme        Theme         `mapstructure:"theme" yaml:"theme"`
}

type Cards struct {
	CacheFile     string  `mapstructure:"cache_file" yaml:"cache_file"`
	Series        string  `mapstructure:"series" yaml:"series"`
	APIKey        string  `mapstructure:"api_key" yaml:"api_key"`
	APIURL        string  `mapstructure:"api_url" yaml:"api_url"`
	RatePerSecond float64 `mapstructure:"rate_per_second" yaml:"rate_per_second"`
	Concurrency   int     `mapstructure:"concurrency" yaml:"concurrency"`
}

type Theme struct {
	Name    string `mapstructure:"name" yaml:"name"`
	Variant string `mapstructure:"variant" yaml:"variant"`
}

func DefaultConfig() Config {
	return Config{
		Addr:       ":8080",
		BasePath:   "/",
		LogPath:    journal.DefaultPath,
		SessionTTL: 12 * time.Hour,
		LogLevel:   "info",
		Cards: Cards{
			CacheFile:     cards.DefaultCacheFile,
			Series:        cards.DefaultSeries,
			APIURL:        cards.DefaultAPIURL,
			RatePerSecond: 5,
			Concurrency:   4,
		},
		Theme: Theme{Name: vanilla.DefaultThemeName},
	}
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.Cards.APIKey != "" {
		c.Cards.APIKey = "********"
	}
	return c
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if strings.TrimSpace(c.LogPath) == "" {
		errs = append(errs, errors.New("log_path is required"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("session_ttl must be positive, got %s", c.SessionTTL))
	}
	if c.Cards.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("cards.concurrency must be positive, got %d", c.Cards.Concurrency))
	}
	if c.Cards.RatePerSecond < 0 {
		errs = append(errs, fmt.Errorf("cards.rate_per_second must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Loader resolves a Config through a dedicated viper instance.
type Loader struct {
	v *viper.Viper
}

// NewLoader seeds viper with the defaults and the environment binding.
func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// BindFlag binds key to a command flag; set flags win over every other
// source.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("config: no flag for %q", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads path when given, or an optional tagger.yaml from the working
// directory, and decodes the merged settings.
func (l *Loader) Load(path string) (Config, error) {
	if path != "" {
		l.v.SetConfigFile(path)
	} else {
		l.v.SetConfigName("tagger")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
	}
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read %s: %w", describe(path), err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ConfigFileUsed returns the file that was read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

func describe(path string) string {
	if path == "" {
		return "tagger.yaml"
	}
	return path
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("addr", cfg.Addr)
	v.SetDefault("base_path", cfg.BasePath)
	v.SetDefault("log_path", cfg.LogPath)
	v.SetDefault("registry_dir", cfg.RegistryDir)
	v.SetDefault("templates_dir", cfg.TemplatesDir)
	v.SetDefault("dev_reload", cfg.DevReload)
	v.SetDefault("session_ttl", cfg.SessionTTL)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("development", cfg.Development)
	v.SetDefault("cards.cache_file", cfg.Cards.CacheFile)
	v.SetDefault("cards.series", cfg.Cards.Series)
	v.SetDefault("cards.api_key", cfg.Cards.APIKey)
	v.SetDefault("cards.api_url", cfg.Cards.APIURL)
	v.SetDefault("cards.rate_per_second", cfg.Cards.RatePerSecond)
	v.SetDefault("cards.concurrency", cfg.Cards.Concurrency)
	v.SetDefault("theme.name", cfg.Theme.Name)
	v.SetDefault("theme.variant", cfg.Theme.Variant)
}
