// Package config holds the settings of the catalog tools, read from a
// YAML file and L10N_* environment variables.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goccy/go-yaml"
)

// Log configures the logger of the tools.
type Log struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level"`
	// Format is console or json.
	Format string `yaml:"format"`
}

// Config is the tool configuration.
type Config struct {
	// Catalogs is the directory catalog files are loaded from.
	Catalogs string `yaml:"catalogs"`
	// Fallback is appended to the locale chain of every lookup.
	Fallback []string `yaml:"fallback"`
	// StrictMissing logs each missing translation once.
	StrictMissing bool `yaml:"strict_missing"`
	Log           Log  `yaml:"log"`
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"console", "json"}

	localeCode = regexp.MustCompile(`^[A-Za-z]{2,8}([_-][A-Za-z0-9]{1,8})*(@[A-Za-z0-9]+)?$`)
)

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Catalogs: ".",
		Log: Log{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load returns the default configuration updated with the YAML file at
// path, if path is not empty, and then with the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("cannot read configuration: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("cannot parse configuration %s: %w", path, err)
		}
		cfg.fillDefaults()
	}
	if err := cfg.readEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// fillDefaults restores the defaults of settings left empty by the file.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Catalogs == "" {
		c.Catalogs = def.Catalogs
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
}

// readEnv applies L10N_CATALOGS, L10N_FALLBACK (a colon separated locale
// list), L10N_STRICT_MISSING, L10N_LOG_LEVEL and L10N_LOG_FORMAT.
func (c *Config) readEnv() error {
	if v, ok := os.LookupEnv("L10N_CATALOGS"); ok {
		c.Catalogs = v
	}
	if v, ok := os.LookupEnv("L10N_FALLBACK"); ok {
		c.Fallback = nil
		for _, locale := range strings.Split(v, ":") {
			if locale != "" {
				c.Fallback = append(c.Fallback, locale)
			}
		}
	}
	if v, ok := os.LookupEnv("L10N_STRICT_MISSING"); ok {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid L10N_STRICT_MISSING value %q", v)
		}
		c.StrictMissing = strict
	}
	if v, ok := os.LookupEnv("L10N_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv("L10N_LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	return nil
}

func oneOf(values []string) validation.Rule {
	in := make([]interface{}, len(values))
	for i, v := range values {
		in[i] = v
	}
	return validation.In(in...).Error("must be one of " + strings.Join(values, ", "))
}

// Validate reports every invalid setting as validation.Errors keyed by
// setting name.
func (c Config) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(c.Catalogs) == "" {
		errs["catalogs"] = validation.NewError("l10n.config.catalogs_empty", "must not be empty")
	}
	for _, locale := range c.Fallback {
		if !localeCode.MatchString(locale) {
			errs["fallback"] = validation.NewError("l10n.config.fallback_invalid", fmt.Sprintf("%q is not a locale code", locale))
			break
		}
	}
	if err := validation.Validate(c.Log.Level, validation.Required, oneOf(logLevels)); err != nil {
		errs["log.level"] = err
	}
	if err := validation.Validate(c.Log.Format, validation.Required, oneOf(logFormats)); err != nil {
		errs["log.format"] = err
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
