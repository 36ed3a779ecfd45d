package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/dshills/cdoc/internal/frontend"
	"github.com/dshills/cdoc/internal/reporter"
)

// EnvPrefix is the prefix of environment variables read by Load
const EnvPrefix = "CDOC"

// Config holds the settings of a run.
type Config struct {
	Emit                     string   `mapstructure:"emit"`
	Doxygen                  bool     `mapstructure:"doxygen"`
	Output                   string   `mapstructure:"output"` // empty means stdout
	IncludeDirs              []string `mapstructure:"include_dirs"`
	SystemIncludeDirs        []string `mapstructure:"system_include_dirs"`
	ExternCSystemIncludeDirs []string `mapstructure:"extern_c_system_include_dirs"`
	Jobs                     int      `mapstructure:"jobs"` // 0 means one per CPU
	DB                       string   `mapstructure:"db"`   // empty disables storage
	Verbose                  bool     `mapstructure:"verbose"`
	LogLevel                 string   `mapstructure:"log_level"`
}

// SetDefaults registers the default of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("emit", string(reporter.FormatJSON))
	v.SetDefault("doxygen", false)
	v.SetDefault("output", "")
	v.SetDefault("include_dirs", []string{})
	v.SetDefault("system_include_dirs", []string{})
	v.SetDefault("extern_c_system_include_dirs", []string{})
	v.SetDefault("jobs", 0)
	v.SetDefault("db", "")
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "info")
}

// NewViper returns a viper instance with defaults, environment variables and
// the config file applied. cfgFile overrides the default .cdoc.yaml lookup in
// the working directory; a missing default file is not an error.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".cdoc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// New decodes the configuration held by v. It does not validate it.
func New(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration. An unknown output format wraps
// reporter.ErrUnknownFormat.
func (c *Config) Validate() error {
	if _, err := reporter.ParseFormat(c.Emit); err != nil {
		return err
	}
	if c.Jobs < 0 {
		return errors.New("jobs must not be negative")
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

// Format returns the output format. Call Validate first.
func (c *Config) Format() reporter.Format {
	f, _ := reporter.ParseFormat(c.Emit)
	return f
}

// Level returns the log level; Verbose forces debug
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	l, err := c.level()
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func (c *Config) level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// FrontendOptions returns the options shared by the front-ends
func (c *Config) FrontendOptions() frontend.Options {
	return frontend.Options{
		IncludeDirs:              c.IncludeDirs,
		SystemIncludeDirs:        c.SystemIncludeDirs,
		ExternCSystemIncludeDirs: c.ExternCSystemIncludeDirs,
		DoxygenOnly:              c.Doxygen,
	}
}
