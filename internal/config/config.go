// Package config loads ninjatrace settings from defaults, an optional YAML
// file and NINJATRACE_* environment variables, then validates them against
// an embedded CUE schema.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/roach88/ninjatrace/internal/ninjalog"
)

//go:embed schema.cue
var schemaCUE string

// Default configuration values.
const (
	DefaultToleranceMS = 0
	DefaultTop         = 10
	envPrefix          = "NINJATRACE"
	configName         = "ninjatrace"
)

// Config holds all ninjatrace settings.
type Config struct {
	// ToleranceMS feeds invocation segmentation; see Tolerance.
	ToleranceMS   int64  `mapstructure:"tolerance_ms"`
	PerInvocation bool   `mapstructure:"per_invocation"`
	LogFilename   string `mapstructure:"log_filename"`
	Database      string `mapstructure:"database"`
	Top           int    `mapstructure:"top"`
}

// Tolerance returns ToleranceMS as the segmenter expects it.
// Only meaningful after validation.
func (c *Config) Tolerance() uint32 {
	return uint32(c.ToleranceMS)
}

// ValidationError reports configuration values rejected by the schema.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Load reads configuration. With an empty path, ninjatrace.yaml is looked up
// in the working directory and the user config directory; a missing file
// there is not an error. An explicit path must exist.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, configName))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ToleranceMS: DefaultToleranceMS,
		LogFilename: ninjalog.DefaultFilename,
		Top:         DefaultTop,
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("tolerance_ms", d.ToleranceMS)
	v.SetDefault("per_invocation", d.PerInvocation)
	v.SetDefault("log_filename", d.LogFilename)
	v.SetDefault("database", d.Database)
	v.SetDefault("top", d.Top)
}

// Validate checks cfg against the embedded #Config schema.
func Validate(cfg *Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	value := ctx.Encode(map[string]any{
		"tolerance_ms":   cfg.ToleranceMS,
		"per_invocation": cfg.PerInvocation,
		"log_filename":   cfg.LogFilename,
		"database":       cfg.Database,
		"top":            cfg.Top,
	})

	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}
